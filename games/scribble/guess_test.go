/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package scribble

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	eval := Evaluator{Floor: 10, Divisor: 2}

	drawer := Player{ID: "d", Nickname: "Dana"}
	guesser := Player{ID: "g", Nickname: "Gus"}
	scored := Player{ID: "s", Nickname: "Sam"}

	turn := Turn{
		Active:   true,
		DrawerID: drawer.ID,
		Word:     "Ice Cream",
		TimeLeft: 44,
		Scored:   map[string]bool{scored.ID: true},
	}

	tests := []struct {
		name   string
		turn   Turn
		player Player
		text   string
		want   Verdict
	}{
		{
			name:   "wrong guess is chat",
			turn:   turn,
			player: guesser,
			text:   "sundae",
			want:   Verdict{Kind: VerdictChat, Rendered: "sundae"},
		},
		{
			name:   "exact guess ignores case and padding",
			turn:   turn,
			player: guesser,
			text:   "  ice CREAM ",
			want:   Verdict{Kind: VerdictCorrect, ScoreDelta: 22, Rendered: "Gus guessed the word!"},
		},
		{
			name:   "late guess earns the floor",
			turn:   Turn{Active: true, DrawerID: drawer.ID, Word: "Ice Cream", TimeLeft: 7},
			player: guesser,
			text:   "ice cream",
			want:   Verdict{Kind: VerdictCorrect, ScoreDelta: 10, Rendered: "Gus guessed the word!"},
		},
		{
			name:   "partial guess is chat",
			turn:   turn,
			player: guesser,
			text:   "ice",
			want:   Verdict{Kind: VerdictChat, Rendered: "ice"},
		},
		{
			name:   "near guess is masked",
			turn:   turn,
			player: guesser,
			text:   "ice creams?",
			want:   Verdict{Kind: VerdictChat, Rendered: "*********s?"},
		},
		{
			name:   "near guess masks every occurrence",
			turn:   Turn{Active: true, DrawerID: drawer.ID, Word: "cat"},
			player: guesser,
			text:   "CAT or catfish",
			want:   Verdict{Kind: VerdictChat, Rendered: "*** or ***fish"},
		},
		{
			name:   "repeat after scoring",
			turn:   turn,
			player: scored,
			text:   "Ice Cream",
			want:   Verdict{Kind: VerdictRepeat},
		},
		{
			name:   "scored player hinting",
			turn:   turn,
			player: scored,
			text:   "mmm ice cream",
			want:   Verdict{Kind: VerdictLeak},
		},
		{
			name:   "scored player chatting",
			turn:   turn,
			player: scored,
			text:   "nice one",
			want:   Verdict{Kind: VerdictChat, Rendered: "nice one"},
		},
		{
			name:   "drawer says the word",
			turn:   turn,
			player: drawer,
			text:   "it's ICE CREAM",
			want:   Verdict{Kind: VerdictLeak},
		},
		{
			name:   "drawer chats",
			turn:   turn,
			player: drawer,
			text:   "hurry up",
			want:   Verdict{Kind: VerdictChat, Rendered: "hurry up"},
		},
		{
			name:   "no turn running",
			turn:   Turn{DrawerID: drawer.ID, Word: "Ice Cream"},
			player: guesser,
			text:   "ice cream",
			want:   Verdict{Kind: VerdictChat, Rendered: "ice cream"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := eval.Evaluate(tt.turn, tt.player, tt.text)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Kind == VerdictCorrect, got.Correct())
		})
	}
}

func TestEvaluateZeroDivisor(t *testing.T) {
	v := Evaluator{Floor: 1}.Evaluate(Turn{Active: true, DrawerID: "d", Word: "cat", TimeLeft: 9}, Player{ID: "g", Nickname: "G"}, "cat")
	assert.Equal(t, 9, v.ScoreDelta)
}
