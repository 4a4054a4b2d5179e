package game

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendLogNewestFirst(t *testing.T) {
	t.Parallel()

	var entries []Entry
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		entries = AppendLog(entries, 10, Entry{
			At:      base.Add(time.Duration(i) * time.Second),
			Message: fmt.Sprintf("event %d", i),
		})
	}

	require.Len(t, entries, 3)
	assert.Equal(t, "event 2", entries[0].Message)
	assert.Equal(t, "event 0", entries[2].Message)
}

func TestAppendLogBounded(t *testing.T) {
	t.Parallel()

	var entries []Entry
	for i := 0; i < 25; i++ {
		entries = AppendLog(entries, 10, Entry{Message: fmt.Sprintf("event %d", i)})
	}

	require.Len(t, entries, 10)
	// Newest retained, oldest evicted
	assert.Equal(t, "event 24", entries[0].Message)
	assert.Equal(t, "event 15", entries[9].Message)
}

func TestAppendLogDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	first := AppendLog(nil, 10, Entry{Message: "first"})
	second := AppendLog(first, 10, Entry{Message: "second"})

	require.Len(t, first, 1)
	assert.Equal(t, "first", first[0].Message)
	require.Len(t, second, 2)

	// Appending to the shorter log again must not clobber the longer one
	third := AppendLog(first, 10, Entry{Message: "third"})
	assert.Equal(t, "second", second[0].Message)
	assert.Equal(t, "third", third[0].Message)
}
