/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package scribble

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

type VerdictKind int

const (
	VerdictChat VerdictKind = iota
	VerdictCorrect
	VerdictRepeat
	VerdictLeak
)

func (k VerdictKind) String() string {
	switch k {
	case VerdictChat:
		return "chat"
	case VerdictCorrect:
		return "correct"
	case VerdictRepeat:
		return "repeat"
	case VerdictLeak:
		return "leak"
	}
	return fmt.Sprintf("VerdictKind(%d)", int(k))
}

// Verdict is the outcome of evaluating one message. Rendered is the text to
// store; it is empty when the message must not be stored.
type Verdict struct {
	Kind       VerdictKind
	ScoreDelta int
	Rendered   string
}

func (v Verdict) Correct() bool {
	return v.Kind == VerdictCorrect
}

// Turn is the part of a room the evaluator needs.
type Turn struct {
	Active   bool
	DrawerID string
	Word     string
	TimeLeft int
	Scored   map[string]bool
}

type Evaluator struct {
	Floor   int
	Divisor int
}

func (e Evaluator) score(timeLeft int) int {
	divisor := e.Divisor
	if divisor <= 0 {
		divisor = 1
	}
	return max(e.Floor, timeLeft/divisor)
}

// Evaluate classifies text posted by player during turn. It does not mutate turn.
func (e Evaluator) Evaluate(turn Turn, player Player, text string) Verdict {
	word := strings.TrimSpace(turn.Word)
	if !turn.Active || word == "" {
		return Verdict{Kind: VerdictChat, Rendered: text}
	}

	contains := strings.Contains(strings.ToLower(text), strings.ToLower(word))

	if player.ID == turn.DrawerID {
		if contains {
			return Verdict{Kind: VerdictLeak}
		}
		return Verdict{Kind: VerdictChat, Rendered: text}
	}

	exact := strings.EqualFold(strings.TrimSpace(text), word)

	switch {
	case exact && turn.Scored[player.ID]:
		return Verdict{Kind: VerdictRepeat}
	case exact:
		return Verdict{
			Kind:       VerdictCorrect,
			ScoreDelta: e.score(turn.TimeLeft),
			Rendered:   fmt.Sprintf("%s guessed the word!", player.Nickname),
		}
	case contains && turn.Scored[player.ID]:
		return Verdict{Kind: VerdictLeak}
	case contains:
		return Verdict{Kind: VerdictChat, Rendered: maskWord(text, word)}
	}

	return Verdict{Kind: VerdictChat, Rendered: text}
}

// maskWord replaces every case-insensitive occurrence of word in text with asterisks.
func maskWord(text, word string) string {
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(word))
	return re.ReplaceAllString(text, strings.Repeat("*", utf8.RuneCountInString(word)))
}
