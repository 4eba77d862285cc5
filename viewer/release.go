// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build release

package viewer

// Release is whether this is a release build, which is
// selected with the release build tag.
const Release = true
