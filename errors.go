/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Seednode/scribble/games/scribble"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var errRateLimited = errors.New("slow down")

func setupLogging(cfg *Config) {
	zerolog.TimeFieldFormat = logDate

	level := zerolog.InfoLevel
	if cfg.verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: logDate}).
		With().
		Timestamp().
		Logger()
}

// errorCode maps game errors onto the stable codes sent to clients.
func errorCode(err error) string {
	switch {
	case errors.Is(err, scribble.ErrNotFound):
		return "notFound"
	case errors.Is(err, scribble.ErrForbidden):
		return "forbidden"
	case errors.Is(err, scribble.ErrGameAlreadyActive):
		return "gameAlreadyActive"
	case errors.Is(err, scribble.ErrCapacityExceeded):
		return "capacityExceeded"
	case errors.Is(err, scribble.ErrInvalidSettings):
		return "invalidSettings"
	case errors.Is(err, scribble.ErrAlreadyGuessed):
		return "alreadyGuessed"
	case errors.Is(err, scribble.ErrRoomClosed):
		return "roomClosed"
	case errors.Is(err, scribble.ErrUpstreamUnavailable):
		return "upstreamUnavailable"
	case errors.Is(err, scribble.ErrBadRequest):
		return "badRequest"
	case errors.Is(err, errRateLimited):
		return "rateLimited"
	}
	return "internal"
}

func newPage(title, body string) string {
	var htmlBody strings.Builder

	htmlBody.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
	htmlBody.WriteString(`<meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
	htmlBody.WriteString(`<style>`)
	htmlBody.WriteString(`html,body,a{display:block;height:100%;width:100%;text-decoration:none;color:inherit;cursor:auto;}</style>`)
	htmlBody.WriteString(fmt.Sprintf("<title>%s</title></head>", title))
	htmlBody.WriteString(fmt.Sprintf("<body><a href=\"/\">%s</a></body></html>", body))

	return htmlBody.String()
}
