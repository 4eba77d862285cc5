// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// client is one websocket connection of a [Hub].
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// writePump writes queued messages until the hub closes the send channel.
func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			slog.Debug("websocket write failed", "err", err)
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// readPump reads and discards client messages until the connection
// fails, then unregisters the client.
func (c *client) readPump(h *Hub) {
	defer h.unregister(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Hub fans out event messages to every connected websocket client.
// Clients that cannot keep up are dropped.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]bool

	registerc   chan *client
	unregisterc chan *client
	broadcastc  chan []byte
	done        chan struct{}
}

// NewHub returns a new hub; [Hub.Run] must be running for it to deliver.
func NewHub() *Hub {
	return &Hub{
		clients:     map[*client]bool{},
		registerc:   make(chan *client),
		unregisterc: make(chan *client),
		broadcastc:  make(chan []byte),
		done:        make(chan struct{}),
	}
}

// Run runs the hub until the context is done, then drops every client.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		h.mu.Lock()
		for c := range h.clients {
			delete(h.clients, c)
			close(c.send)
		}
		h.mu.Unlock()
		close(h.done)
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.registerc:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()
		case c := <-h.unregisterc:
			h.mu.Lock()
			if h.clients[c] {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
		case msg := <-h.broadcastc:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					slog.Warn("dropping slow websocket client")
					delete(h.clients, c)
					close(c.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends the message to every client. It returns without
// sending once the hub has stopped.
func (h *Hub) Broadcast(msg []byte) {
	select {
	case h.broadcastc <- msg:
	case <-h.done:
	}
}

func (h *Hub) register(c *client) bool {
	select {
	case h.registerc <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unregister(c *client) {
	select {
	case h.unregisterc <- c:
	case <-h.done:
	}
}
