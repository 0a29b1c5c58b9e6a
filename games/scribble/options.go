/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package scribble

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultMaxRooms        = 1000
	DefaultMaxPlayers      = 12
	DefaultRoomGrace       = 5 * time.Minute
	DefaultPlayerGrace     = 60 * time.Second
	DefaultTurnDuration    = 60 * time.Second
	DefaultTransitionDelay = 3 * time.Second
	DefaultRounds          = 3
	DefaultMinPlayers      = 1
	DefaultScoreFloor      = 10
	DefaultScoreDivisor    = 2
	DefaultMaxStrokes      = 5000
	DefaultSuggestTimeout  = 3 * time.Second
)

// Options configures a Registry and every room it creates. Zero values are
// replaced with defaults, except TransitionDelay and EndOnAllGuessed whose
// zero values are meaningful.
type Options struct {
	MaxRooms        int
	MaxPlayers      int
	RoomGrace       time.Duration
	PlayerGrace     time.Duration
	TurnDuration    time.Duration
	TransitionDelay time.Duration
	DefaultRounds   int
	MinPlayers      int
	EndOnAllGuessed bool
	ScoreFloor      int
	ScoreDivisor    int
	MaxStrokes      int

	// Words is consulted first for every turn. Bank is the fallback.
	Words          WordSource
	Bank           *WordBank
	SuggestTimeout time.Duration

	Publisher Publisher
	Clock     clockwork.Clock
	Logger    *zerolog.Logger
}

func (o Options) withDefaults() Options {
	if o.MaxRooms <= 0 {
		o.MaxRooms = DefaultMaxRooms
	}
	if o.MaxPlayers <= 0 {
		o.MaxPlayers = DefaultMaxPlayers
	}
	if o.RoomGrace <= 0 {
		o.RoomGrace = DefaultRoomGrace
	}
	if o.PlayerGrace <= 0 {
		o.PlayerGrace = DefaultPlayerGrace
	}
	if o.TurnDuration < time.Second {
		o.TurnDuration = DefaultTurnDuration
	}
	if o.TransitionDelay < 0 {
		o.TransitionDelay = 0
	}
	if o.DefaultRounds < MinRounds || o.DefaultRounds > MaxRounds {
		o.DefaultRounds = DefaultRounds
	}
	if o.MinPlayers <= 0 {
		o.MinPlayers = DefaultMinPlayers
	}
	if o.ScoreFloor <= 0 {
		o.ScoreFloor = DefaultScoreFloor
	}
	if o.ScoreDivisor <= 0 {
		o.ScoreDivisor = DefaultScoreDivisor
	}
	if o.MaxStrokes <= 0 {
		o.MaxStrokes = DefaultMaxStrokes
	}
	if o.Bank == nil {
		o.Bank = DefaultWordBank()
	}
	if o.SuggestTimeout <= 0 {
		o.SuggestTimeout = DefaultSuggestTimeout
	}
	if o.Publisher == nil {
		o.Publisher = discard{}
	}
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
	if o.Logger == nil {
		o.Logger = &log.Logger
	}
	return o
}
