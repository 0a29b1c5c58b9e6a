/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/Seednode/scribble/games/scribble"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Client is one websocket connection. room and playerID are guarded by the
// gateway's mutex.
type Client struct {
	id   string
	gw   *Gateway
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
	log  zerolog.Logger

	chat    *rate.Limiter
	strokes *rate.Limiter

	room     *scribble.Room
	playerID string
}

func newClient(g *Gateway, conn *websocket.Conn) *Client {
	id := uuid.NewString()

	return &Client{
		id:      id,
		gw:      g,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		done:    make(chan struct{}),
		log:     g.log.With().Str("conn", id).Logger(),
		chat:    rate.NewLimiter(2, 5),
		strokes: rate.NewLimiter(120, 240),
	}
}

// enqueue never blocks. A client whose buffer is full is dropped.
func (c *Client) enqueue(data []byte) {
	select {
	case <-c.done:
	case c.send <- data:
	default:
		c.log.Warn().Msg("send buffer full, dropping connection")
		c.close()
	}
}

func (c *Client) reply(t string, data any) {
	msg, err := json.Marshal(outbound{Type: t, Data: data})
	if err != nil {
		c.log.Error().Err(err).Str("type", t).Msg("failed to marshal reply")
		return
	}
	c.enqueue(msg)
}

func (c *Client) replyError(intent string, err error) {
	c.reply("error", errorReply{
		Code:    errorCode(err),
		Message: err.Error(),
		Intent:  intent,
	})
}

func (c *Client) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

func (c *Client) readPump() {
	defer c.gw.disconnect(c)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug().Err(err).Msg("connection closed unexpectedly")
			}
			return
		}

		var in intent
		if err := json.Unmarshal(data, &in); err != nil {
			c.replyError("", errBadIntent(err))
			continue
		}

		c.gw.dispatch(c, in)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.log.Debug().Err(err).Msg("write failed")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
