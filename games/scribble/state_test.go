/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package scribble

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateText(t *testing.T) {
	for _, s := range []State{StateLobby, StatePlaying, StateRoundTransition, StateFinished} {
		t.Run(s.String(), func(t *testing.T) {
			data, err := json.Marshal(Snapshot{State: s})
			require.NoError(t, err)

			var got Snapshot
			require.NoError(t, json.Unmarshal(data, &got))
			assert.Equal(t, s, got.State)
		})
	}

	var s State
	assert.ErrorIs(t, s.UnmarshalText([]byte("paused")), ErrBadRequest)
}
