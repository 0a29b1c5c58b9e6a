/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Seednode/scribble/games/scribble"
	"github.com/julienschmidt/httprouter"
)

func serveHomePage(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(cfg, w)

		_, _ = w.Write([]byte(newPage("scribble", "scribble v"+releaseVersion)))
	}
}

func serveHealthCheck(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(cfg, w)

		_, err := w.Write([]byte("Ok\n"))
		if err != nil {
			errs <- err

			return
		}
	}
}

func serveRobots(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		data := `User-agent: *
Disallow: /scribble/`

		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		securityHeaders(cfg, w)

		_, err := w.Write([]byte(data))
		if err != nil {
			errs <- err

			return
		}
	}
}

func writeJSON(cfg *Config, w http.ResponseWriter, status int, v any, errs chan<- error) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	securityHeaders(cfg, w)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		errs <- err
	}
}

type stats struct {
	scribble.Stats
	Connections int    `json:"connections"`
	Version     string `json:"version"`
}

func serveStats(cfg *Config, gw *Gateway, registry *scribble.Registry, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		writeJSON(cfg, w, http.StatusOK, stats{
			Stats:       registry.Stats(),
			Connections: gw.connections(),
			Version:     releaseVersion,
		}, errs)
	}
}

// roomSummary is what anyone holding a room code may see before joining.
type roomSummary struct {
	RoomCode     string         `json:"roomCode"`
	State        scribble.State `json:"state"`
	IsGameActive bool           `json:"isGameActive"`
	Players      int            `json:"players"`
	MaxPlayers   int            `json:"maxPlayers"`
	Round        int            `json:"round"`
	MaxRounds    int            `json:"maxRounds"`
	Topic        string         `json:"topic,omitempty"`
	Joinable     bool           `json:"joinable"`
}

func serveRoom(cfg *Config, registry *scribble.Registry, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		room, err := registry.Get(ps.ByName("code"))
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, scribble.ErrNotFound) {
				status = http.StatusNotFound
			}
			writeJSON(cfg, w, status, errorReply{Code: errorCode(err), Message: err.Error()}, errs)
			return
		}

		s := room.Snapshot("")

		writeJSON(cfg, w, http.StatusOK, roomSummary{
			RoomCode:     s.Code,
			State:        s.State,
			IsGameActive: s.IsGameActive,
			Players:      len(s.Players),
			MaxPlayers:   cfg.maxPlayers,
			Round:        s.Round,
			MaxRounds:    s.Settings.MaxRounds,
			Topic:        s.Settings.Topic,
			Joinable:     !s.IsGameActive && len(s.Players) < cfg.maxPlayers,
		}, errs)
	}
}
