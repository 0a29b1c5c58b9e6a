/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package scribble

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const finishReasonStop = "STOP"

// SuggestionClient asks a remote service for a word.
type SuggestionClient struct {
	url    string
	client *http.Client
}

func NewSuggestionClient(url string, timeout time.Duration) *SuggestionClient {
	return &SuggestionClient{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type suggestRequest struct {
	Topic string `json:"topic"`
}

type suggestResponse struct {
	Word         string `json:"word"`
	FinishReason string `json:"finishReason"`
}

// Suggest never returns an empty word without an error. Every failure wraps
// ErrUpstreamUnavailable.
func (c *SuggestionClient) Suggest(ctx context.Context, topic string) (string, error) {
	body, err := json.Marshal(suggestRequest{Topic: topic})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: status %d: %s", ErrUpstreamUnavailable, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out suggestResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUpstreamUnavailable, err)
	}

	if out.FinishReason != "" && !strings.EqualFold(out.FinishReason, finishReasonStop) {
		return "", fmt.Errorf("%w: finish reason %s", ErrUpstreamUnavailable, out.FinishReason)
	}

	word := strings.Trim(strings.TrimSpace(out.Word), `."'`)
	if word == "" {
		return "", fmt.Errorf("%w: empty word", ErrUpstreamUnavailable)
	}

	return word, nil
}
