/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/Seednode/scribble/games/scribble"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

// outbound is every message written to a client.
type outbound struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type welcome struct {
	RoomCode string            `json:"roomCode"`
	PlayerID string            `json:"playerId"`
	Token    string            `json:"token"`
	Snapshot scribble.Snapshot `json:"snapshot"`
}

type errorReply struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Intent  string `json:"intent,omitempty"`
}

// Gateway binds websocket connections to players and fans room events out
// to them. It implements scribble.Publisher.
type Gateway struct {
	cfg      *Config
	registry *scribble.Registry
	upgrader websocket.Upgrader
	log      zerolog.Logger

	mu      sync.RWMutex
	clients map[*Client]struct{}
	rooms   map[string]map[string]*Client
}

func newGateway(cfg *Config) *Gateway {
	g := &Gateway{
		cfg:     cfg,
		log:     log.With().Str("component", "gateway").Logger(),
		clients: make(map[*Client]struct{}),
		rooms:   make(map[string]map[string]*Client),
	}

	g.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     g.checkOrigin,
	}

	return g
}

func (g *Gateway) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(g.cfg.allowedOrigins) == 0 || slices.Contains(g.cfg.allowedOrigins, "*") {
		return true
	}
	return slices.Contains(g.cfg.allowedOrigins, origin)
}

func (g *Gateway) serveWS() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := g.upgrader.Upgrade(w, r, nil)
		if err != nil {
			g.log.Debug().Err(err).Str("remote", realIP(r)).Msg("upgrade failed")
			return
		}

		c := newClient(g, conn)

		g.mu.Lock()
		g.clients[c] = struct{}{}
		g.mu.Unlock()

		c.log.Debug().Str("remote", realIP(r)).Msg("connection opened")

		go c.writePump()
		c.readPump()
	}
}

// Publish delivers a room event to every bound connection it addresses.
// It is called with the room locked, so it only enqueues.
func (g *Gateway) Publish(e scribble.Event) {
	g.mu.RLock()
	var targets []*Client
	for playerID, c := range g.rooms[e.Room] {
		if e.Delivers(playerID) {
			targets = append(targets, c)
		}
	}
	g.mu.RUnlock()

	if len(targets) > 0 {
		data, err := json.Marshal(outbound{Type: string(e.Type), Data: e.Data})
		if err != nil {
			g.log.Error().Err(err).Str("room", e.Room).Str("event", string(e.Type)).Msg("failed to marshal event")
			return
		}

		for _, c := range targets {
			c.enqueue(data)
		}
	}

	if e.Type == scribble.EventRoomClosed {
		g.unbindRoom(e.Room)
	}
}

// bind attaches c to a player. A connection already bound to that player
// is superseded and closed.
func (g *Gateway) bind(c *Client, room *scribble.Room, playerID string) {
	code := room.Code()

	g.mu.Lock()
	members, ok := g.rooms[code]
	if !ok {
		members = make(map[string]*Client)
		g.rooms[code] = members
	}

	old := members[playerID]
	if old == c {
		old = nil
	}
	if old != nil {
		old.room, old.playerID = nil, ""
	}

	members[playerID] = c
	c.room, c.playerID = room, playerID
	g.mu.Unlock()

	c.log.Debug().Str("room", code).Str("player", playerID).Msg("bound")

	if old != nil {
		old.log.Debug().Str("room", code).Str("player", playerID).Msg("superseded by a newer connection")
		old.close()
	}
}

// unbind detaches c and reports the binding it held, if c was still the
// current connection of that player.
func (g *Gateway) unbind(c *Client) (*scribble.Room, string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.unbindLocked(c)
}

func (g *Gateway) unbindLocked(c *Client) (*scribble.Room, string) {
	room, playerID := c.room, c.playerID
	if room == nil {
		return nil, ""
	}
	c.room, c.playerID = nil, ""

	code := room.Code()
	if members := g.rooms[code]; members[playerID] == c {
		delete(members, playerID)
		if len(members) == 0 {
			delete(g.rooms, code)
		}
	}

	return room, playerID
}

func (g *Gateway) unbindRoom(code string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, c := range g.rooms[code] {
		c.room, c.playerID = nil, ""
	}
	delete(g.rooms, code)
}

func (g *Gateway) binding(c *Client) (*scribble.Room, string) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return c.room, c.playerID
}

func (g *Gateway) current(code, playerID string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, ok := g.rooms[code][playerID]
	return ok
}

// disconnect runs once per connection after its read loop ends.
func (g *Gateway) disconnect(c *Client) {
	g.mu.Lock()
	delete(g.clients, c)
	room, playerID := g.unbindLocked(c)
	g.mu.Unlock()

	c.close()

	if room == nil {
		return
	}

	room.Disconnect(playerID)

	// A reconnect may have bound a new connection while the old one was
	// being torn down.
	if g.current(room.Code(), playerID) {
		_, _ = room.Reconnect(playerID)
	}
}

func (g *Gateway) connections() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.clients)
}

func (g *Gateway) closeAll() {
	g.mu.RLock()
	clients := make([]*Client, 0, len(g.clients))
	for c := range g.clients {
		clients = append(clients, c)
	}
	g.mu.RUnlock()

	for _, c := range clients {
		c.close()
	}
}
