/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package scribble

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	systemNickname   = "System"
	maxMessageLength = 200

	minStrokeWidth = 1
	maxStrokeWidth = 30
)

// Message is one immutable entry of a room's chat and guess log.
// Seq is the room's logical clock at append time.
type Message struct {
	ID             string    `json:"id"`
	Seq            int64     `json:"seq"`
	PlayerID       string    `json:"playerId,omitempty"`
	Nickname       string    `json:"nickname"`
	Text           string    `json:"text"`
	Timestamp      time.Time `json:"timestamp"`
	IsCorrectGuess bool      `json:"isCorrectGuess,omitempty"`
	IsSystem       bool      `json:"isSystemMessage,omitempty"`
}

func normalizeMessage(text string) (string, error) {
	text = strings.TrimSpace(text)
	switch n := utf8.RuneCountInString(text); {
	case n == 0:
		return "", fmt.Errorf("%w: message is empty", ErrBadRequest)
	case n > maxMessageLength:
		return "", fmt.Errorf("%w: message must be at most %d characters", ErrBadRequest, maxMessageLength)
	}
	return text, nil
}

var colorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Segment is one line of a drawing. It is relayed, never scored.
type Segment struct {
	X0    float64 `json:"x0"`
	Y0    float64 `json:"y0"`
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	Color string  `json:"color"`
	Width float64 `json:"lineWidth"`
}

func (s Segment) Validate() error {
	if !colorPattern.MatchString(s.Color) {
		return fmt.Errorf("%w: invalid stroke color %q", ErrBadRequest, s.Color)
	}
	if s.Width < minStrokeWidth || s.Width > maxStrokeWidth {
		return fmt.Errorf("%w: stroke width must be between %d and %d", ErrBadRequest, minStrokeWidth, maxStrokeWidth)
	}
	return nil
}
