/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package scribble

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 5
)

// Registry owns every live room, keyed by room code.
type Registry struct {
	opts Options
	log  zerolog.Logger

	mu    sync.Mutex
	rooms map[string]*Room
}

func NewRegistry(opts Options) *Registry {
	opts = opts.withDefaults()

	return &Registry{
		opts:  opts,
		log:   opts.Logger.With().Str("component", "registry").Logger(),
		rooms: make(map[string]*Room),
	}
}

// Create opens a new room with hostNickname as its first player and host.
func (g *Registry) Create(hostNickname string) (*Room, Player, error) {
	if _, err := normalizeNickname(hostNickname); err != nil {
		return nil, Player{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.rooms) >= g.opts.MaxRooms {
		return nil, Player{}, fmt.Errorf("%w: %d rooms open", ErrCapacityExceeded, g.opts.MaxRooms)
	}

	code, err := g.newCodeLocked()
	if err != nil {
		return nil, Player{}, err
	}

	room := newRoom(code, &g.opts, g.emptied)

	host, err := room.Join(hostNickname)
	if err != nil {
		room.Close("create failed")
		return nil, Player{}, err
	}

	g.rooms[code] = room
	go room.run()

	g.log.Info().Str("room", code).Str("host", host.ID).Msg("room created")

	return room, host, nil
}

// Get looks a room up by code, ignoring case.
func (g *Registry) Get(code string) (*Room, error) {
	code = normalizeCode(code)

	g.mu.Lock()
	defer g.mu.Unlock()

	room, ok := g.rooms[code]
	if !ok {
		return nil, fmt.Errorf("%w: room %s", ErrNotFound, code)
	}
	return room, nil
}

// Remove closes and forgets a room. Removing an unknown room is a no-op.
func (g *Registry) Remove(code string) {
	code = normalizeCode(code)

	g.mu.Lock()
	room, ok := g.rooms[code]
	delete(g.rooms, code)
	g.mu.Unlock()

	if ok {
		room.Close("removed")
	}
}

func (g *Registry) emptied(room *Room) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !room.closeIfEmpty("empty") {
		return
	}

	if current, ok := g.rooms[room.code]; ok && current == room {
		delete(g.rooms, room.code)
	}

	g.log.Info().Str("room", room.code).Msg("room is empty")
}

// Sweep removes rooms that have had no connected players for the room
// grace period, and returns how many it removed.
func (g *Registry) Sweep() int {
	cutoff := g.opts.Clock.Now().Add(-g.opts.RoomGrace)

	var idle []*Room

	g.mu.Lock()
	for code, room := range g.rooms {
		since, ok := room.IdleSince()
		if ok && !since.After(cutoff) {
			delete(g.rooms, code)
			idle = append(idle, room)
		}
	}
	g.mu.Unlock()

	for _, room := range idle {
		g.log.Info().Str("room", room.code).Msg("removing idle room")
		room.Close("idle")
	}

	return len(idle)
}

// Run sweeps idle rooms until ctx is done, then closes every room.
func (g *Registry) Run(ctx context.Context) {
	ticker := g.opts.Clock.NewTicker(g.opts.RoomGrace / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			g.Shutdown()
			return
		case <-ticker.Chan():
			g.Sweep()
		}
	}
}

func (g *Registry) Shutdown() {
	g.mu.Lock()
	rooms := g.rooms
	g.rooms = make(map[string]*Room)
	g.mu.Unlock()

	for _, room := range rooms {
		room.Close("server shutting down")
	}
}

type Stats struct {
	Rooms     int `json:"rooms"`
	Players   int `json:"players"`
	Connected int `json:"connected"`
}

func (g *Registry) Stats() Stats {
	g.mu.Lock()
	rooms := make([]*Room, 0, len(g.rooms))
	for _, room := range g.rooms {
		rooms = append(rooms, room)
	}
	g.mu.Unlock()

	s := Stats{Rooms: len(rooms)}
	for _, room := range rooms {
		players, connected := room.counts()
		s.Players += players
		s.Connected += connected
	}
	return s
}

// newCodeLocked generates a crypto-random room code that no live room uses.
func (g *Registry) newCodeLocked() (string, error) {
	for range 100 {
		buf := make([]byte, codeLength)
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}

		out := make([]byte, codeLength)
		for i := range out {
			out[i] = codeAlphabet[int(buf[i])%len(codeAlphabet)]
		}
		code := string(out)

		if _, exists := g.rooms[code]; !exists {
			return code, nil
		}
	}

	return "", fmt.Errorf("%w: no free room code", ErrCapacityExceeded)
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
