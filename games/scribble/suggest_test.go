/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package scribble

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func suggestServer(t *testing.T, handler http.HandlerFunc) *SuggestionClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewSuggestionClient(srv.URL, time.Second)
}

func TestSuggestionClient(t *testing.T) {
	client := suggestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req suggestRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ocean", req.Topic)

		_, _ = w.Write([]byte(`{"word": " Whale. ", "finishReason": "STOP"}`))
	})

	word, err := client.Suggest(context.Background(), "ocean")
	require.NoError(t, err)
	assert.Equal(t, "Whale", word)
}

func TestSuggestionClientFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `oops`},
		{"malformed", http.StatusOK, `{"word":`},
		{"empty word", http.StatusOK, `{"word": "  ", "finishReason": "STOP"}`},
		{"blocked", http.StatusOK, `{"word": "Whale", "finishReason": "SAFETY"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := suggestServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			word, err := client.Suggest(context.Background(), "")
			assert.ErrorIs(t, err, ErrUpstreamUnavailable)
			assert.Empty(t, word)
		})
	}
}

func TestSuggestionClientTimeout(t *testing.T) {
	release := make(chan struct{})

	client := suggestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	// Registered after the server's Close so it runs first.
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Suggest(ctx, "")
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestSelectWordFallsBack(t *testing.T) {
	nop := zerolog.Nop()
	bank := &WordBank{Default: []string{"Apple", "Pear"}}

	s := &scheduler{source: failingSource{}, bank: bank, timeout: time.Second, log: &nop}
	assert.Equal(t, "Pear", s.selectWord(context.Background(), "", "Apple"))

	repeat := &scheduler{source: &WordBank{Default: []string{"Apple"}}, bank: bank, timeout: time.Second, log: &nop}
	assert.Equal(t, "Pear", repeat.selectWord(context.Background(), "", "apple"))

	ok := &scheduler{source: &WordBank{Default: []string{"Kite"}}, bank: bank, timeout: time.Second, log: &nop}
	assert.Equal(t, "Kite", ok.selectWord(context.Background(), "", "Apple"))

	none := &scheduler{bank: bank, timeout: time.Second, log: &nop}
	assert.Equal(t, "Apple", none.selectWord(context.Background(), "", "Pear"))
}
