/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package scribble

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// scheduler picks words for a room. The suggestion source is optional;
// the bank is always consulted when it fails.
type scheduler struct {
	source  WordSource
	bank    *WordBank
	timeout time.Duration
	log     *zerolog.Logger
}

func (s *scheduler) selectWord(ctx context.Context, topic, previous string) string {
	if s.source != nil {
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		word, err := s.source.Suggest(ctx, topic)
		cancel()

		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("topic", topic).Msg("word suggestion failed, using word bank")
		case strings.EqualFold(word, previous):
			s.log.Debug().Str("topic", topic).Msg("suggested word repeats previous turn, using word bank")
		default:
			return word
		}
	}

	return s.bank.Pick(topic, previous)
}
