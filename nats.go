/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Seednode/scribble/games/scribble"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// natsMirror republishes public room lifecycle events to NATS so other
// services can follow games without holding a websocket.
type natsMirror struct {
	nc      *nats.Conn
	subject string
	log     zerolog.Logger
}

func newNatsMirror(cfg *Config) (*natsMirror, error) {
	l := log.With().Str("component", "nats").Logger()

	nc, err := nats.Connect(cfg.natsURL,
		nats.Name("scribble"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			l.Warn().Err(err).Msg("disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			l.Info().Str("url", nc.ConnectedUrl()).Msg("reconnected")
		}),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			l.Error().Err(err).Msg("async error")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	l.Info().Str("url", nc.ConnectedUrl()).Str("subject", cfg.natsSubject).Msg("mirroring room events")

	return &natsMirror{nc: nc, subject: cfg.natsSubject, log: l}, nil
}

// mirrored reports whether e is worth mirroring. Private events, per-second
// ticks and drawing traffic stay local.
func mirrored(e scribble.Event) bool {
	if e.Private() || e.Except != "" {
		return false
	}

	switch e.Type {
	case scribble.EventTimerTick, scribble.EventStrokeRelayed, scribble.EventCanvasCleared:
		return false
	}
	return true
}

func mirrorSubject(prefix string, e scribble.Event) string {
	return prefix + "." + e.Room + "." + string(e.Type)
}

func (m *natsMirror) Publish(e scribble.Event) {
	if !mirrored(e) {
		return
	}

	data, err := json.Marshal(outbound{Type: string(e.Type), Data: e.Data})
	if err != nil {
		m.log.Error().Err(err).Str("event", string(e.Type)).Msg("failed to marshal event")
		return
	}

	if err := m.nc.Publish(mirrorSubject(m.subject, e), data); err != nil {
		m.log.Warn().Err(err).Str("room", e.Room).Str("event", string(e.Type)).Msg("failed to publish event")
	}
}

func (m *natsMirror) Close() {
	if err := m.nc.Drain(); err != nil {
		m.log.Warn().Err(err).Msg("failed to drain connection")
	}
}
