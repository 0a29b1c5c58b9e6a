/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"

	"github.com/Seednode/scribble/games/scribble"
)

const (
	intentCreateRoom     = "createRoom"
	intentJoinRoom       = "joinRoom"
	intentReconnect      = "reconnect"
	intentUpdateSettings = "updateSettings"
	intentStartGame      = "startGame"
	intentSendMessage    = "sendMessage"
	intentDrawStroke     = "drawStroke"
	intentClearCanvas    = "clearCanvas"
	intentResetToLobby   = "resetToLobby"
	intentLeaveRoom      = "leaveRoom"
)

// intent is a client request. Only the fields of its type are read; room
// and player of in-room intents come from the connection's binding.
type intent struct {
	Type      string            `json:"type"`
	RoomCode  string            `json:"roomCode,omitempty"`
	PlayerID  string            `json:"playerId,omitempty"`
	Token     string            `json:"token,omitempty"`
	Nickname  string            `json:"nickname,omitempty"`
	MaxRounds int               `json:"maxRounds,omitempty"`
	Topic     string            `json:"topic,omitempty"`
	Text      string            `json:"text,omitempty"`
	Segment   *scribble.Segment `json:"segment,omitempty"`
}

var errNotInRoom = fmt.Errorf("%w: not in a room", scribble.ErrBadRequest)

func errBadIntent(err error) error {
	return fmt.Errorf("%w: %v", scribble.ErrBadRequest, err)
}

func (g *Gateway) dispatch(c *Client, in intent) {
	var err error

	switch in.Type {
	case intentCreateRoom, intentJoinRoom, intentReconnect:
		err = g.enter(c, in)
	default:
		err = g.act(c, in)
	}

	if err != nil {
		c.log.Debug().Err(err).Str("intent", in.Type).Msg("intent rejected")
		c.replyError(in.Type, err)
	}
}

// enter binds an unbound connection to a room.
func (g *Gateway) enter(c *Client, in intent) error {
	if room, _ := g.binding(c); room != nil {
		return fmt.Errorf("%w: already in room %s", scribble.ErrForbidden, room.Code())
	}

	var (
		room   *scribble.Room
		player scribble.Player
		err    error
	)

	switch in.Type {
	case intentCreateRoom:
		room, player, err = g.registry.Create(in.Nickname)
		if err != nil {
			return err
		}
	case intentJoinRoom:
		if room, err = g.registry.Get(in.RoomCode); err != nil {
			return err
		}
		if player, err = room.Join(in.Nickname); err != nil {
			return err
		}
	case intentReconnect:
		if room, err = g.registry.Get(in.RoomCode); err != nil {
			return err
		}
		if player, err = room.Authenticate(in.PlayerID, in.Token); err != nil {
			return err
		}
	}

	g.bind(c, room, player.ID)

	snapshot, err := room.Reconnect(player.ID)
	if err != nil {
		g.unbind(c)
		return err
	}

	c.reply("welcome", welcome{
		RoomCode: room.Code(),
		PlayerID: player.ID,
		Token:    player.Token,
		Snapshot: snapshot,
	})

	return nil
}

// act applies an in-room intent on behalf of the bound player.
func (g *Gateway) act(c *Client, in intent) error {
	room, playerID := g.binding(c)
	if room == nil {
		if in.Type == "" {
			return errBadIntent(errors.New("missing type"))
		}
		return errNotInRoom
	}

	switch in.Type {
	case intentUpdateSettings:
		return room.UpdateSettings(playerID, scribble.Settings{MaxRounds: in.MaxRounds, Topic: in.Topic})
	case intentStartGame:
		return room.StartGame(playerID)
	case intentSendMessage:
		if !c.chat.Allow() {
			return errRateLimited
		}
		_, err := room.PostMessage(playerID, in.Text)
		return err
	case intentDrawStroke:
		if in.Segment == nil {
			return errBadIntent(errors.New("missing segment"))
		}
		if !c.strokes.Allow() {
			return errRateLimited
		}
		return room.Stroke(playerID, *in.Segment)
	case intentClearCanvas:
		return room.ClearCanvas(playerID)
	case intentResetToLobby:
		return room.ResetToLobby(playerID)
	case intentLeaveRoom:
		err := room.Leave(playerID)
		g.unbind(c)
		return err
	}

	return errBadIntent(fmt.Errorf("unknown intent %q", in.Type))
}
