/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package scribble

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWordBank(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.yaml")

	err := os.WriteFile(path, []byte(`
default:
  - Kite
  - "  Lamp "
  - ""
topics:
  Animals:
    - Cat
    - Dog
  empty: []
`), 0o600)
	require.NoError(t, err)

	bank, err := LoadWordBank(path)
	require.NoError(t, err)

	want := &WordBank{
		Default: []string{"Kite", "Lamp"},
		Topics:  map[string][]string{"animals": {"Cat", "Dog"}},
	}
	if diff := cmp.Diff(want, bank); diff != "" {
		t.Errorf("word bank mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, []string{"Cat", "Dog"}, bank.Words(" ANIMALS "))
	assert.Equal(t, []string{"Kite", "Lamp"}, bank.Words("cars"))
}

func TestLoadWordBankErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadWordBank(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("default: [unterminated"), 0o600))
	_, err = LoadWordBank(bad)
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("topics:\n  food: [Taco]\n"), 0o600))
	_, err = LoadWordBank(empty)
	assert.Error(t, err)
}

func TestPickAvoidsPrevious(t *testing.T) {
	bank := &WordBank{Default: []string{"Apple", "Pear"}}

	for range 50 {
		assert.Equal(t, "Pear", bank.Pick("", "apple"))
	}

	single := &WordBank{Default: []string{"Apple"}}
	assert.Equal(t, "Apple", single.Pick("", "Apple"))

	assert.Empty(t, (&WordBank{}).Pick("", ""))

	same := &WordBank{Default: []string{"Cat", "cat", "CAT"}}
	assert.Equal(t, "Cat", same.Pick("", "cat"))
}

func TestLoadWordBankDropsRepeats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.yaml")

	err := os.WriteFile(path, []byte(`
default: [Cat, cat, Dog]
topics:
  Food: [Taco, taco]
  food: [TACO, Soup]
`), 0o600)
	require.NoError(t, err)

	bank, err := LoadWordBank(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Cat", "Dog"}, bank.Default)
	require.Len(t, bank.Topics["food"], 2)
	assert.ElementsMatch(t, []string{"taco", "soup"}, lower(bank.Topics["food"]))
	assert.Equal(t, "Dog", bank.Pick("", "CAT"))
}

func lower(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strings.ToLower(w)
	}
	return out
}

func TestWordBankSuggest(t *testing.T) {
	word, err := DefaultWordBank().Suggest(context.Background(), "space")
	require.NoError(t, err)
	assert.Contains(t, DefaultWordBank().Topics["space"], word)

	_, err = (&WordBank{}).Suggest(context.Background(), "")
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestHint(t *testing.T) {
	assert.Equal(t, "_ _ _", Hint("Cat"))
	assert.Equal(t, "_ _ _   _ _ _ _ _", Hint("Ice Cream"))
	assert.Equal(t, 8, Letters("Ice Cream"))
	assert.Equal(t, "_ _", Hint("日本"))
	assert.Empty(t, Hint(""))
}
