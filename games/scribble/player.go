/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package scribble

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const maxNicknameLength = 24

// Player is one member of a room. Attribution is by ID; Nickname is display only.
type Player struct {
	ID        string    `json:"id"`
	Nickname  string    `json:"nickname"`
	Score     int       `json:"score"`
	IsHost    bool      `json:"isHost"`
	Connected bool      `json:"connected"`
	JoinedAt  time.Time `json:"joinedAt"`
	Drawn     int       `json:"drawn"`

	// Token authorises reconnecting as this player. It is only handed to
	// the player and never appears in snapshots.
	Token string `json:"-"`
}

func normalizeNickname(nickname string) (string, error) {
	nickname = strings.TrimSpace(nickname)
	switch n := utf8.RuneCountInString(nickname); {
	case n == 0:
		return "", fmt.Errorf("%w: nickname is required", ErrBadRequest)
	case n > maxNicknameLength:
		return "", fmt.Errorf("%w: nickname must be at most %d characters", ErrBadRequest, maxNicknameLength)
	}
	return nickname, nil
}
