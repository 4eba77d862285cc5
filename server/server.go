// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package server provides remote control of a viewer over HTTP, with a
// websocket feed of viewer events.
package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"cogentcore.org/bimview/bim"
	"cogentcore.org/bimview/viewer"
	"cogentcore.org/bimview/viewpoint"
	"cogentcore.org/core/base/errors"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// MaxModelSize is the maximum size of an uploaded model file.
const MaxModelSize = 256 << 20

// Event is a message of the websocket event feed.
type Event struct {

	// Type is "selection", "model" or "viewpoint".
	Type string `json:"type"`

	// ID is the model or viewpoint id.
	ID string `json:"id,omitempty"`

	Selection Selection `json:"selection,omitempty"`
}

// Selection is the JSON form of a [bim.Selection]: sorted local ids by model id.
type Selection map[string][]int

func toSelection(sel bim.Selection) Selection {
	js := Selection{}
	for _, m := range sel.Models() {
		js[m] = sel.IDs(m)
	}
	return js
}

func (js Selection) selection() bim.Selection {
	sel := bim.NewSelection()
	for m, ids := range js {
		sel.Add(m, ids...)
	}
	return sel
}

// Server serves the remote API of a viewer.
type Server struct {
	vc       *viewer.Context
	hub      *Hub
	router   *mux.Router
	upgrader websocket.Upgrader

	cancel    context.CancelFunc
	disposers []func()
}

// New returns a new server for the given viewer, which starts
// forwarding viewer events to websocket clients.
func New(vc *viewer.Context) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{vc: vc, hub: NewHub(), router: mux.NewRouter(), cancel: cancel}
	go s.hub.Run(ctx)
	s.routes()
	s.disposers = []func(){
		vc.OnSelectionChanged().Add(func(sel bim.Selection) {
			s.send(Event{Type: "selection", Selection: toSelection(sel)})
		}),
		vc.Models.OnModelAdded().Add(func(md bim.Model) {
			s.send(Event{Type: "model", ID: md.ID()})
		}),
	}
	return s
}

func (s *Server) routes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/status", s.status).Methods(http.MethodGet)
	api.HandleFunc("/models", s.models).Methods(http.MethodGet)
	api.HandleFunc("/models/{filename}", s.loadModel).Methods(http.MethodPost)
	api.HandleFunc("/selection", s.selection).Methods(http.MethodGet)
	api.HandleFunc("/selection", s.setSelection).Methods(http.MethodPost)
	api.HandleFunc("/color", s.applyColor).Methods(http.MethodPost)
	api.HandleFunc("/projection", s.setProjection).Methods(http.MethodPost)
	api.HandleFunc("/actions/{action}", s.action).Methods(http.MethodPost)
	api.HandleFunc("/viewpoints", s.viewpoints).Methods(http.MethodGet)
	api.HandleFunc("/viewpoints", s.captureViewpoint).Methods(http.MethodPost)
	api.HandleFunc("/viewpoints/{id}/apply", s.applyViewpoint).Methods(http.MethodPost)
	api.HandleFunc("/viewpoints/{id}", s.deleteViewpoint).Methods(http.MethodDelete)
	s.router.HandleFunc("/ws", s.serveWS)
	s.router.Use(logRequests)
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the websocket hub of the server.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Close stops forwarding viewer events and disconnects every client.
func (s *Server) Close() {
	for _, d := range s.disposers {
		d()
	}
	s.cancel()
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) send(ev Event) {
	b, err := json.Marshal(ev)
	if errors.Log(err) != nil {
		return
	}
	s.hub.Broadcast(b)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	errors.Log(json.NewEncoder(w).Encode(v))
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, viewer.ErrModelLoadingDisabled), errors.Is(err, viewer.ErrUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, errNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

var (
	errNotFound   = errors.New("not found")
	errBadRequest = errors.New("bad request")
)

func badRequest(err error) error {
	return errors.Join(errBadRequest, err)
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest(err)
	}
	return nil
}

// Status is the response of the status endpoint.
type Status struct {
	Ready         bool     `json:"ready"`
	CanLoadModels bool     `json:"canLoadModels"`
	InFlight      []string `json:"inFlight"`
	Models        []string `json:"models"`
	Ghost         bool     `json:"ghost"`
	Grid          bool     `json:"grid"`
	Projection    string   `json:"projection"`
	Viewpoints    int      `json:"viewpoints"`
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	vc := s.vc
	writeJSON(w, http.StatusOK, Status{
		Ready:         vc.Ready(),
		CanLoadModels: vc.CanLoadModels(),
		InFlight:      vc.InFlight(),
		Models:        s.modelIDs(),
		Ghost:         vc.Ghost.Enabled(),
		Grid:          vc.Grid.Visible(),
		Projection:    vc.World.Camera.Projection().String(),
		Viewpoints:    vc.Viewpoints.Len(),
	})
}

func (s *Server) modelIDs() []string {
	ids := []string{}
	for _, md := range s.vc.Models.Models() {
		ids = append(ids, md.ID())
	}
	return ids
}

func (s *Server) models(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.modelIDs())
}

func (s *Server) loadModel(w http.ResponseWriter, r *http.Request) {
	filename := mux.Vars(r)["filename"]
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxModelSize))
	if err != nil {
		writeError(w, badRequest(err))
		return
	}
	if _, _, err := bim.FormatFromFilename(filename); err != nil {
		writeError(w, badRequest(err))
		return
	}
	md, err := s.vc.LoadModel(r.Context(), filename, data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": md.ID()})
}

func (s *Server) selection(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toSelection(s.vc.Styles.Selected()))
}

func (s *Server) setSelection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Selection Selection `json:"selection"`
		Additive  bool      `json:"additive"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.vc.Select(r.Context(), req.Selection.selection(), req.Additive); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSelection(s.vc.Styles.Selected()))
}

func (s *Server) applyColor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Color string `json:"color"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	c, err := bim.ParseColor(req.Color)
	if err != nil {
		writeError(w, badRequest(err))
		return
	}
	if err := s.vc.ApplyColor(r.Context(), c); err != nil {
		writeError(w, err)
		return
	}
	groups := map[string]Selection{}
	for _, g := range s.vc.Styles.Groups() {
		groups[g.Style.Name] = toSelection(g.Selection)
	}
	writeJSON(w, http.StatusOK, groups)
}

func (s *Server) setProjection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Projection string `json:"projection"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	var p bim.Projections
	if err := p.SetString(req.Projection); err != nil {
		writeError(w, badRequest(err))
		return
	}
	s.vc.SetProjection(p)
	writeJSON(w, http.StatusOK, map[string]string{"projection": p.String()})
}

// actions are the argument-free operations of the actions endpoint.
var actions = []string{"showAll", "hide", "isolate", "focus", "ghost", "grid"}

func (s *Server) action(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["action"]
	ctx := r.Context()
	vc := s.vc
	var err error
	res := map[string]any{"action": name}
	switch name {
	case "showAll":
		err = vc.ShowAll(ctx)
	case "hide":
		err = vc.Hide(ctx)
	case "isolate":
		err = vc.Isolate(ctx)
	case "focus":
		err = vc.Focus(ctx)
	case "ghost":
		var on bool
		on, err = vc.ToggleGhost()
		res["on"] = on
	case "grid":
		res["on"] = vc.ToggleGrid()
	default:
		writeError(w, errors.Join(errNotFound, errors.New("unknown action "+name+"; want one of "+strings.Join(actions, ", "))))
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) viewpoints(w http.ResponseWriter, r *http.Request) {
	vps := s.vc.Viewpoints.All()
	if vps == nil {
		vps = []*viewpoint.Viewpoint{}
	}
	writeJSON(w, http.StatusOK, vps)
}

func (s *Server) captureViewpoint(w http.ResponseWriter, r *http.Request) {
	vp, err := s.vc.CaptureViewpoint(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	s.send(Event{Type: "viewpoint", ID: vp.ID})
	writeJSON(w, http.StatusCreated, vp)
}

func (s *Server) applyViewpoint(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, ok := s.vc.Viewpoints.ByID(id); !ok {
		writeError(w, errors.Join(errNotFound, errors.New("no viewpoint "+id)))
		return
	}
	if err := s.vc.ApplyViewpoint(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (s *Server) deleteViewpoint(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !s.vc.Viewpoints.Delete(id) {
		writeError(w, errors.Join(errNotFound, errors.New("no viewpoint "+id)))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "err", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, 16)}
	if !s.hub.register(c) {
		conn.Close()
		return
	}
	go c.writePump()
	c.readPump(s.hub)
}
