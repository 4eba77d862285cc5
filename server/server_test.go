// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cogentcore.org/bimview/headless"
	"cogentcore.org/bimview/viewer"
	"cogentcore.org/bimview/viewpoint"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	cfg := viewer.DefaultConfig()
	cfg.SettleDelay = 0
	cfg.FinalSettleDelay = 0
	cfg.WorkerPath = "worker.mjs"
	vc, err := viewer.Init(context.Background(), headless.NewMount(image.Pt(800, 600)), headless.New(), cfg)
	require.NoError(t, err)
	s := New(vc)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.Close()
		vc.Close()
	})
	return s, ts
}

func do(t *testing.T, ts *httptest.Server, method, path string, body any) (int, []byte) {
	t.Helper()
	var rd *bytes.Reader
	switch b := body.(type) {
	case nil:
		rd = bytes.NewReader(nil)
	case []byte:
		rd = bytes.NewReader(b)
	default:
		js, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(js)
	}
	req, err := http.NewRequest(method, ts.URL+path, rd)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, buf.Bytes()
}

func loadHouse(t *testing.T, ts *httptest.Server) {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("..", "headless", "testdata", "house.yaml"))
	require.NoError(t, err)
	code, body := do(t, ts, http.MethodPost, "/api/v1/models/house.frag", b)
	require.Equal(t, http.StatusCreated, code, string(body))
	assert.JSONEq(t, `{"id":"house"}`, string(body))
}

func TestStatus(t *testing.T) {
	_, ts := newTestServer(t)
	code, body := do(t, ts, http.MethodGet, "/api/v1/status", nil)
	require.Equal(t, http.StatusOK, code)
	var st Status
	require.NoError(t, json.Unmarshal(body, &st))
	assert.True(t, st.Ready)
	assert.True(t, st.CanLoadModels)
	assert.Empty(t, st.Models)
	assert.True(t, st.Grid)
	assert.Equal(t, "Perspective", st.Projection)
}

func TestModels(t *testing.T) {
	_, ts := newTestServer(t)
	loadHouse(t, ts)

	code, body := do(t, ts, http.MethodGet, "/api/v1/models", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `["house"]`, string(body))

	code, _ = do(t, ts, http.MethodPost, "/api/v1/models/house.txt", []byte("x"))
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, ts, http.MethodPost, "/api/v1/models/house.frag", []byte("x"))
	assert.Equal(t, http.StatusInternalServerError, code)
}

func TestSelectionAndActions(t *testing.T) {
	_, ts := newTestServer(t)
	loadHouse(t, ts)

	code, body := do(t, ts, http.MethodPost, "/api/v1/selection", map[string]any{
		"selection": Selection{"house": {3, 1}},
	})
	require.Equal(t, http.StatusOK, code, string(body))
	assert.JSONEq(t, `{"house":[1,3]}`, string(body))

	code, body = do(t, ts, http.MethodPost, "/api/v1/color", map[string]string{"color": "#ff0000"})
	require.Equal(t, http.StatusOK, code, string(body))
	assert.JSONEq(t, `{"#FF0000":{"house":[1,3]}}`, string(body))

	code, _ = do(t, ts, http.MethodPost, "/api/v1/color", map[string]string{"color": "red-ish"})
	assert.Equal(t, http.StatusBadRequest, code)

	for _, a := range []string{"hide", "showAll", "isolate", "focus"} {
		code, body = do(t, ts, http.MethodPost, "/api/v1/actions/"+a, nil)
		assert.Equal(t, http.StatusOK, code, a+": "+string(body))
	}

	code, body = do(t, ts, http.MethodPost, "/api/v1/actions/ghost", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"action":"ghost","on":true}`, string(body))

	code, body = do(t, ts, http.MethodPost, "/api/v1/actions/grid", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"action":"grid","on":false}`, string(body))

	code, _ = do(t, ts, http.MethodPost, "/api/v1/actions/explode", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, ts, http.MethodPost, "/api/v1/selection", []byte("{"))
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestProjection(t *testing.T) {
	s, ts := newTestServer(t)
	code, _ := do(t, ts, http.MethodPost, "/api/v1/projection", map[string]string{"projection": "orthographic"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Orthographic", s.vc.World.Camera.Projection().String())

	code, _ = do(t, ts, http.MethodPost, "/api/v1/projection", map[string]string{"projection": "fisheye"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestViewpoints(t *testing.T) {
	_, ts := newTestServer(t)
	loadHouse(t, ts)
	code, _ := do(t, ts, http.MethodPost, "/api/v1/selection", map[string]any{
		"selection": Selection{"house": {2}},
	})
	require.Equal(t, http.StatusOK, code)

	code, body := do(t, ts, http.MethodPost, "/api/v1/viewpoints", nil)
	require.Equal(t, http.StatusCreated, code, string(body))
	var vp viewpoint.Viewpoint
	require.NoError(t, json.Unmarshal(body, &vp))
	assert.Equal(t, "Viewpoint 1", vp.Name)
	assert.Equal(t, []string{"3cUkl32yn9qRSPvBJVyWYp"}, vp.Selection)

	code, body = do(t, ts, http.MethodGet, "/api/v1/viewpoints", nil)
	require.Equal(t, http.StatusOK, code)
	var vps []viewpoint.Viewpoint
	require.NoError(t, json.Unmarshal(body, &vps))
	assert.Len(t, vps, 1)

	code, _ = do(t, ts, http.MethodPost, "/api/v1/viewpoints/"+vp.ID+"/apply", nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = do(t, ts, http.MethodPost, "/api/v1/viewpoints/nope/apply", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, ts, http.MethodDelete, "/api/v1/viewpoints/"+vp.ID, nil)
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = do(t, ts, http.MethodDelete, "/api/v1/viewpoints/"+vp.ID, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	var ev Event
	require.NoError(t, json.Unmarshal(msg, &ev))
	return ev
}

func TestEvents(t *testing.T) {
	s, ts := newTestServer(t)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Eventually(t, func() bool { return s.Hub().Len() == 1 }, 5*time.Second, 10*time.Millisecond)

	loadHouse(t, ts)
	ev := readEvent(t, conn)
	assert.Equal(t, "model", ev.Type)
	assert.Equal(t, "house", ev.ID)

	code, _ := do(t, ts, http.MethodPost, "/api/v1/selection", map[string]any{
		"selection": Selection{"house": {1}},
	})
	require.Equal(t, http.StatusOK, code)
	ev = readEvent(t, conn)
	assert.Equal(t, "selection", ev.Type)
	assert.Equal(t, Selection{"house": {1}}, ev.Selection)

	s.Close()
	assert.Eventually(t, func() bool { return s.Hub().Len() == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestHubDropsClosedClients(t *testing.T) {
	s, ts := newTestServer(t)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return s.Hub().Len() == 1 }, 5*time.Second, 10*time.Millisecond)
	conn.Close()
	assert.Eventually(t, func() bool { return s.Hub().Len() == 0 }, 5*time.Second, 10*time.Millisecond)
}
