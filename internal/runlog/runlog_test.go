package runlog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndReadAll_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.jsonl")
	w, err := NewWriter(path)
	require.NoError(t, err)

	require.NoError(t, w.Write(Event{Kind: EventDecision, TS: 0.5, AgentID: 1, Category: "cafe"}))
	require.NoError(t, w.Write(Event{Kind: EventArrival, TS: 12.0, AgentID: 1, Category: "cafe", PathLen: 20, TravelTime: 11.5}))
	require.NoError(t, w.Close())

	events, err := ReadAll(path)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, EventDecision, events[0].Kind)
	assert.Equal(t, EventArrival, events[1].Kind)
	assert.Equal(t, 20, events[1].PathLen)
}

func TestReadAll_IgnoresMalformedTrailingLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.jsonl")
	w, err := NewWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(Event{Kind: EventPurchase, TS: 1, AgentID: 2, Amount: 10}))
	require.NoError(t, w.Close())

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("{not valid json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	events, err := ReadAll(path)
	require.NoError(t, err)
	require.Len(t, events, 1)
}
