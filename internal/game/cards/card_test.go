package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamedTaroks(t *testing.T) {
	assert.Equal(t, Pagat, Tarok(1))
	assert.Equal(t, XVIII, Tarok(18))
	assert.Equal(t, XIX, Tarok(19))
	assert.Equal(t, XX, Tarok(20))
	assert.Equal(t, XXI, Tarok(21))
	assert.Equal(t, Skiz, Tarok(22))
	assert.Panics(t, func() { Tarok(0) })
	assert.Panics(t, func() { Tarok(23) })
}

func TestSuitAndRank(t *testing.T) {
	c := SuitCard(SuitClubs, RankQueen)
	assert.Equal(t, Card(22+2*5+3), c)
	assert.Equal(t, SuitClubs, c.Suit())
	assert.Equal(t, RankQueen, c.Rank())
	assert.False(t, c.IsTarok())

	assert.Equal(t, SuitTarok, XIX.Suit())
	assert.Panics(t, func() { XIX.Rank() })
	assert.Panics(t, func() { Card(42).Suit() })
}

func TestPointsTotal(t *testing.T) {
	total := 0
	for c := Card(0); c < DeckSize; c++ {
		total += c.Points()
	}
	assert.Equal(t, TotalPoints, total)

	assert.Equal(t, 5, Pagat.Points())
	assert.Equal(t, 5, XXI.Points())
	assert.Equal(t, 5, Skiz.Points())
	assert.Equal(t, 1, XX.Points())
	assert.Equal(t, 5, SuitCard(SuitHearts, RankKing).Points())
	assert.Equal(t, 4, SuitCard(SuitHearts, RankQueen).Points())
	assert.Equal(t, 3, SuitCard(SuitHearts, RankRider).Points())
	assert.Equal(t, 2, SuitCard(SuitHearts, RankJack).Points())
	assert.Equal(t, 1, SuitCard(SuitHearts, RankAceTen).Points())
}

func TestBeats(t *testing.T) {
	heartsKing := SuitCard(SuitHearts, RankKing)
	heartsJack := SuitCard(SuitHearts, RankJack)
	spadesAce := SuitCard(SuitSpades, RankAceTen)

	tests := []struct {
		name string
		a, b Card
		want bool
	}{
		{"tarok over suit", Pagat, heartsKing, true},
		{"suit under tarok", heartsKing, Pagat, false},
		{"higher tarok", Skiz, XXI, true},
		{"lower tarok", XIX, XX, false},
		{"higher in suit", heartsKing, heartsJack, true},
		{"lower in suit", heartsJack, heartsKing, false},
		{"off suit never beats", spadesAce, heartsJack, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Beats(tt.a, tt.b))
		})
	}
}

func TestCardString(t *testing.T) {
	assert.Equal(t, "I", Pagat.String())
	assert.Equal(t, "XIV", Tarok(14).String())
	assert.Equal(t, "XIX", XIX.String())
	assert.Equal(t, "XXI", XXI.String())
	assert.Equal(t, "Skiz", Skiz.String())
	assert.Equal(t, "K/H", SuitCard(SuitHearts, RankKing).String())
	assert.Equal(t, "A/S", SuitCard(SuitSpades, RankAceTen).String())
	assert.Equal(t, "R/D", SuitCard(SuitDiamonds, RankRider).String())
}

func TestDeckLocations(t *testing.T) {
	d := NewDeck()
	require.Equal(t, DeckSize, d.Count(Talon))

	d[Pagat] = Hand(2)
	d[XXI] = Hand(2)
	d[Skiz] = WonCards(1)
	d[XIX] = DeclarerSkart

	assert.True(t, d.Holds(2, Pagat))
	assert.False(t, d.Holds(1, Skiz))
	assert.Equal(t, []Card{Pagat, XXI}, d.Hand(2))
	assert.Equal(t, 2, d.HonorCount(2))
	assert.True(t, d.HoldsHonor(2))
	assert.False(t, d.HoldsHonor(0))
	assert.Equal(t, 2, d.TarokCount(2))
	assert.Equal(t, 1, d.Count(WonCards(1)))
	assert.Equal(t, DeckSize-4, d.Count(Talon))
}

func TestLocationString(t *testing.T) {
	assert.Equal(t, "Player0Hand", Hand(0).String())
	assert.Equal(t, "Player3WonCards", WonCards(3).String())
	assert.Equal(t, "Talon", Talon.String())
	assert.Equal(t, "OpponentsSkart", OpponentsSkart.String())
	assert.Equal(t, 3, WonCards(3).Player())
	assert.Panics(t, func() { Talon.Player() })
	assert.Panics(t, func() { Hand(4) })
}
