/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package scribble

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// WordSource produces a secret word for a topic. An empty topic means any word.
type WordSource interface {
	Suggest(ctx context.Context, topic string) (string, error)
}

// WordBank is a static word list, optionally grouped by topic.
type WordBank struct {
	Default []string            `yaml:"default"`
	Topics  map[string][]string `yaml:"topics"`
}

func DefaultWordBank() *WordBank {
	return &WordBank{
		Default: []string{
			"Apple", "Banana", "Car", "House", "Tree",
			"Guitar", "Star", "Cloud", "Book", "Phone",
			"Bicycle", "Castle", "Dragon", "Elephant", "Lighthouse",
			"Pizza", "Rainbow", "Robot", "Snowman", "Umbrella",
		},
		Topics: map[string][]string{
			"animals": {"Cat", "Dog", "Giraffe", "Penguin", "Octopus", "Turtle", "Owl", "Shark"},
			"food":    {"Burger", "Taco", "Donut", "Carrot", "Cheese", "Sushi", "Pancake", "Watermelon"},
			"space":   {"Rocket", "Planet", "Moon", "Comet", "Astronaut", "Telescope", "Satellite", "Alien"},
		},
	}
}

// LoadWordBank reads a YAML word bank. Topics are matched case-insensitively.
func LoadWordBank(path string) (*WordBank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	bank := &WordBank{}
	if err := yaml.Unmarshal(data, bank); err != nil {
		return nil, fmt.Errorf("parse word bank %s: %w", path, err)
	}

	bank.clean()

	if len(bank.Default) == 0 {
		return nil, fmt.Errorf("word bank %s: no default words", path)
	}

	return bank, nil
}

func (b *WordBank) clean() {
	b.Default = cleanWords(b.Default)

	topics := make(map[string][]string, len(b.Topics))
	for topic, words := range b.Topics {
		words = cleanWords(words)
		if len(words) == 0 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(topic))
		topics[key] = cleanWords(append(topics[key], words...))
	}
	b.Topics = topics
}

// cleanWords trims words and drops empty entries and case-insensitive repeats.
func cleanWords(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	cleaned := words[:0]
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		key := strings.ToLower(w)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		cleaned = append(cleaned, w)
	}
	return cleaned
}

// Words returns the list for topic, or the default list when the topic is unknown.
func (b *WordBank) Words(topic string) []string {
	if words, ok := b.Topics[strings.ToLower(strings.TrimSpace(topic))]; ok && len(words) > 0 {
		return words
	}
	return b.Default
}

// Pick returns a random word for topic, avoiding avoid unless it is the only choice.
func (b *WordBank) Pick(topic, avoid string) string {
	words := b.Words(topic)
	if len(words) == 0 {
		return ""
	}

	candidates := make([]string, 0, len(words))
	for _, w := range words {
		if !strings.EqualFold(w, avoid) {
			candidates = append(candidates, w)
		}
	}
	if len(candidates) == 0 {
		return words[0]
	}

	return candidates[rand.IntN(len(candidates))]
}

func (b *WordBank) Suggest(_ context.Context, topic string) (string, error) {
	w := b.Pick(topic, "")
	if w == "" {
		return "", fmt.Errorf("%w: word bank is empty", ErrUpstreamUnavailable)
	}
	return w, nil
}

// Hint masks every letter of word, keeping spaces so players see word boundaries.
func Hint(word string) string {
	runes := []rune(word)
	masked := make([]string, 0, len(runes))
	for _, r := range runes {
		if r == ' ' {
			masked = append(masked, " ")
			continue
		}
		masked = append(masked, "_")
	}
	return strings.Join(masked, " ")
}

// Letters counts the guessable characters of word.
func Letters(word string) int {
	n := 0
	for _, r := range word {
		if r != ' ' {
			n++
		}
	}
	return n
}
