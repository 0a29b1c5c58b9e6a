/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package scribble

import (
	"fmt"
	"strings"
)

// State is the phase of a room's game.
type State int

const (
	StateLobby State = iota
	StatePlaying
	StateRoundTransition
	StateFinished
)

var stateNames = [...]string{
	StateLobby:           "lobby",
	StatePlaying:         "playing",
	StateRoundTransition: "roundTransition",
	StateFinished:        "finished",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for i, name := range stateNames {
		if name == string(text) {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("%w: unknown state %q", ErrBadRequest, text)
}

// Active reports whether a game is in progress.
func (s State) Active() bool {
	return s == StatePlaying || s == StateRoundTransition
}

// EndReason explains why a turn or a game ended.
type EndReason string

const (
	EndReasonTimeout    EndReason = "timeout"
	EndReasonAllGuessed EndReason = "allGuessed"
	EndReasonDrawerLeft EndReason = "drawerLeft"
	EndReasonCompleted  EndReason = "completed"
	EndReasonInternal   EndReason = "internal"
)

// Settings are the host-controlled knobs of a room.
type Settings struct {
	MaxRounds int    `json:"maxRounds"`
	Topic     string `json:"topic,omitempty"`
}

const (
	MinRounds      = 1
	MaxRounds      = 10
	maxTopicLength = 40
)

func normalizeTopic(topic string) string {
	return strings.Join(strings.Fields(topic), " ")
}
