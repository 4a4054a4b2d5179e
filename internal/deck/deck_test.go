package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokerparty/internal/randutil"
)

func TestNewDeckIsComplete(t *testing.T) {
	t.Parallel()

	d := New()
	require.Equal(t, Size, d.Remaining())
	assert.True(t, d.Full())

	seen := make(map[Card]bool, Size)
	for _, c := range d.Cards {
		assert.False(t, seen[c], "duplicate card %s", c)
		seen[c] = true
	}
	assert.Len(t, seen, Size)
}

func TestShufflePreservesCards(t *testing.T) {
	t.Parallel()

	d := New()
	before := make(map[Card]bool, Size)
	for _, c := range d.Cards {
		before[c] = true
	}

	d.Shuffle(randutil.New(1))

	require.Equal(t, Size, d.Remaining())
	for _, c := range d.Cards {
		assert.True(t, before[c], "shuffle invented card %s", c)
	}
}

func TestShuffleIsDeterministicForSeed(t *testing.T) {
	t.Parallel()

	a, b := New(), New()
	a.Shuffle(randutil.New(99))
	b.Shuffle(randutil.New(99))
	assert.Equal(t, a, b)

	c := New()
	c.Shuffle(randutil.New(100))
	assert.NotEqual(t, a, c)
}

func TestTake(t *testing.T) {
	t.Parallel()

	d := New()
	top := make([]Card, 2)
	copy(top, d.Cards[:2])

	cards := d.Take(2)
	assert.Equal(t, top, cards)
	assert.Equal(t, Size-2, d.Remaining())
	assert.False(t, d.Full())

	// Taking past the end returns what is left
	rest := d.Take(100)
	assert.Len(t, rest, Size-2)
	assert.Equal(t, 0, d.Remaining())
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()

	d := New()
	clone := d.Clone()
	clone.Take(5)

	assert.Equal(t, Size, d.Remaining())
	assert.Equal(t, Size-5, clone.Remaining())
}
