package deck

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCards(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    []Card
		wantErr bool
	}{
		{
			name:  "royal flush spades",
			input: "AsKsQsJsTs",
			want: []Card{
				{Suit: Spades, Rank: Ace},
				{Suit: Spades, Rank: King},
				{Suit: Spades, Rank: Queen},
				{Suit: Spades, Rank: Jack},
				{Suit: Spades, Rank: Ten},
			},
		},
		{
			name:  "mixed suits with spaces",
			input: "2c 7d Th",
			want: []Card{
				{Suit: Clubs, Rank: Two},
				{Suit: Diamonds, Rank: Seven},
				{Suit: Hearts, Rank: Ten},
			},
		},
		{
			name:  "lowercase ranks",
			input: "askh",
			want: []Card{
				{Suit: Spades, Rank: Ace},
				{Suit: Hearts, Rank: King},
			},
		},
		{
			name:    "odd length",
			input:   "AsK",
			wantErr: true,
		},
		{
			name:    "unknown rank",
			input:   "Xs",
			wantErr: true,
		},
		{
			name:    "unknown suit",
			input:   "Az",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseCards(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCardStrings(t *testing.T) {
	t.Parallel()

	c := NewCard(Spades, Ace)
	assert.Equal(t, "A♠", c.String())
	assert.Equal(t, "As", c.Code())

	c = NewCard(Hearts, Ten)
	assert.Equal(t, "T♥", c.String())
	assert.Equal(t, "Th", c.Code())
}

func TestCardJSONRoundTrip(t *testing.T) {
	t.Parallel()

	c := NewCard(Diamonds, Queen)
	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, `"Qd"`, string(data))

	var got Card
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, c, got)

	assert.Error(t, json.Unmarshal([]byte(`"zz"`), &got))
}

func TestFormat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "As Kh", Format(MustParseCards("AsKh")))
	assert.Equal(t, "nothing", Format(nil))
}
