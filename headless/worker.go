// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package headless

import (
	"context"
	"fmt"
	"sync"

	"cogentcore.org/bimview/bim"
	"cogentcore.org/core/base/errors"
)

var errWorkerClosed = errors.New("worker: closed")

// job is one decode request sent to the worker.
type job struct {
	ctx   context.Context
	data  []byte
	opts  bim.LoadOptions
	reply chan result
}

type result struct {
	dc  *decoded
	err error
}

// worker decodes model data on its own goroutine. The only way in is
// the jobs channel and the only ways out are the job replies and the
// error signal.
type worker struct {
	path   string
	jobs   chan job
	errors bim.Signal[bim.WorkerError]
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

func startWorker(path string) *worker {
	wk := &worker{path: path, jobs: make(chan job), done: make(chan struct{})}
	wk.wg.Add(1)
	go wk.run()
	return wk
}

func (wk *worker) OnError() *bim.Signal[bim.WorkerError] {
	return &wk.errors
}

func (wk *worker) run() {
	defer wk.wg.Done()
	for {
		select {
		case <-wk.done:
			return
		case j := <-wk.jobs:
			j.reply <- wk.process(j)
			if j.ctx.Err() != nil {
				// nobody is waiting for the reply anymore
				wk.errors.Emit(bim.WorkerError{})
			}
		}
	}
}

func (wk *worker) process(j job) (res result) {
	defer func() {
		if r := recover(); r != nil {
			res = result{err: fmt.Errorf("worker: %v", r)}
			wk.errors.Emit(bim.WorkerError{Message: fmt.Sprint(r), Filename: wk.path})
		}
	}()
	dc, err := decode(j.data, j.opts)
	if err != nil {
		wk.errors.Emit(bim.WorkerError{Message: err.Error(), Filename: j.opts.ModelID})
		return result{err: err}
	}
	return result{dc: dc}
}

// submit sends the data to the worker and waits for the result.
func (wk *worker) submit(ctx context.Context, data []byte, opts bim.LoadOptions) (*decoded, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	j := job{ctx: ctx, data: data, opts: opts, reply: make(chan result, 1)}
	select {
	case wk.jobs <- j:
	case <-wk.done:
		return nil, errWorkerClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case res := <-j.reply:
		return res.dc, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (wk *worker) close() {
	wk.once.Do(func() {
		close(wk.done)
		wk.wg.Wait()
	})
}
