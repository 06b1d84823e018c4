package mines

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusText(t *testing.T) {
	for _, s := range []Status{InProgress, Won, Lost} {
		text, err := s.MarshalText()
		require.NoError(t, err)
		var got Status
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, s, got)
	}
	var s Status
	assert.Error(t, s.UnmarshalText([]byte("draw")))
}

func TestSnapshotDecodes(t *testing.T) {
	s := newTestSession(t, 3, 3, Point{0, 0})
	_, err := s.ToggleMark(1, 1)
	require.NoError(t, err)
	_, err = s.Reveal(0, 0)
	require.NoError(t, err)

	data, err := json.Marshal(s.Snapshot())
	require.NoError(t, err)

	var got Snapshot
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, s.Snapshot(), got)
}

func TestOutcomeText(t *testing.T) {
	var o Outcome
	require.NoError(t, o.UnmarshalText([]byte("all_safe_revealed")))
	assert.Equal(t, AllSafeRevealed, o)
	assert.Error(t, o.UnmarshalText([]byte("revealed!")))
}
