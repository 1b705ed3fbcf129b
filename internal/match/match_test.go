package match

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/tarokfree/tarok-server-go/internal/game"
)

var players = []string{"ann", "ben", "cal", "dot"}

func firstLegal(view *game.GameView) int {
	return view.LegalActions[0].ID
}

func newTestMatch(t *testing.T, hands int) (*Match, *game.Engine) {
	t.Helper()
	engine := game.NewEngine(zaptest.NewLogger(t), game.WithSeed(21))
	m, err := New(engine, zaptest.NewLogger(t), players, hands)
	require.NoError(t, err)
	return m, engine
}

func TestNewValidation(t *testing.T) {
	engine := game.NewEngine(nil)

	_, err := New(nil, nil, players, 1)
	assert.Error(t, err)

	_, err = New(engine, nil, players[:3], 1)
	assert.Error(t, err)

	_, err = New(engine, nil, players, 0)
	assert.Error(t, err)

	_, err = New(engine, nil, []string{"ann", "ben", "ann", "dot"}, 1)
	assert.Error(t, err)

	m, err := New(engine, nil, players, 1)
	require.NoError(t, err)
	assert.Equal(t, StateWaiting, m.State())
	assert.Len(t, m.ID, 36)
}

func TestSeatingRotates(t *testing.T) {
	m, _ := newTestMatch(t, 1)

	assert.Equal(t, []string{"ann", "ben", "cal", "dot"}, m.Seating(0))
	assert.Equal(t, []string{"ben", "cal", "dot", "ann"}, m.Seating(1))
	assert.Equal(t, []string{"dot", "ann", "ben", "cal"}, m.Seating(3))
	assert.Equal(t, m.Seating(0), m.Seating(4))
}

func TestPlayHandLifecycle(t *testing.T) {
	m, engine := newTestMatch(t, 2)
	ctx := context.Background()

	first, err := m.PlayHand(ctx, firstLegal)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Number)
	assert.Equal(t, players, first.Seating)
	assert.Positive(t, first.Actions)
	assert.Len(t, first.Checksum, 64)
	assert.Equal(t, StateBetweenHands, m.State())
	assert.Empty(t, engine.Games(), "finished hands are released from the engine")

	sum := 0
	for _, pts := range first.Returns {
		sum += pts
	}
	assert.Zero(t, sum)

	second, err := m.PlayHand(ctx, firstLegal)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Number)
	assert.Equal(t, []string{"ben", "cal", "dot", "ann"}, second.Seating)
	assert.Equal(t, StateFinished, m.State())

	_, err = m.PlayHand(ctx, firstLegal)
	assert.ErrorIs(t, err, ErrMatchFinished)

	summary := m.Summary()
	assert.Equal(t, 2, summary.Played)
	assert.Equal(t, StateFinished, summary.State)
	require.NotNil(t, summary.EndTime)

	want := make(map[string]int)
	for _, r := range summary.Results {
		for name, pts := range r.Returns {
			want[name] += pts
		}
	}
	if diff := cmp.Diff(want, summary.Totals); diff != "" {
		t.Fatalf("totals mismatch (-want +got):\n%s", diff)
	}
}

func TestPlayRunsAllHands(t *testing.T) {
	m, _ := newTestMatch(t, 4)

	summary, err := m.Play(context.Background(), firstLegal)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Played)
	assert.Len(t, summary.Standings(), len(players))

	for i, r := range summary.Results {
		assert.Equal(t, m.Seating(i), r.Seating)
		if r.Outcome == game.OutcomeAllPassed {
			assert.Empty(t, r.Declarer)
		} else {
			assert.Contains(t, players, r.Declarer)
		}
	}
}

func TestBadChooserAbandonsHand(t *testing.T) {
	m, engine := newTestMatch(t, 1)
	ctx := context.Background()

	_, err := m.PlayHand(ctx, func(*game.GameView) int { return 99 })
	assert.ErrorIs(t, err, ErrBadChoice)
	assert.Equal(t, StateBetweenHands, m.State())
	assert.Empty(t, engine.Games())
	assert.Zero(t, m.Summary().Played)

	result, err := m.PlayHand(ctx, firstLegal)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Number)
	assert.Equal(t, StateFinished, m.State())
}

func TestPlayHandHonoursContext(t *testing.T) {
	m, engine := newTestMatch(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.PlayHand(ctx, firstLegal)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateBetweenHands, m.State())
	assert.Empty(t, engine.Games())
}

func TestStandings(t *testing.T) {
	s := Summary{Totals: map[string]int{"ann": -4, "ben": 6, "cal": -4, "dot": 2}}

	got := s.Standings()
	want := []Standing{{"ben", 6}, {"dot", 2}, {"ann", -4}, {"cal", -4}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("standings mismatch (-want +got):\n%s", diff)
	}
}

func TestSummaryIsACopy(t *testing.T) {
	m, _ := newTestMatch(t, 1)
	_, err := m.PlayHand(context.Background(), firstLegal)
	require.NoError(t, err)

	s := m.Summary()
	s.Totals["ann"] = 1000
	s.Results[0].Returns["ann"] = 1000

	again := m.Summary()
	assert.NotEqual(t, 1000, again.Totals["ann"])
	assert.NotEqual(t, 1000, again.Results[0].Returns["ann"])
}

func TestSeededMatchesAgree(t *testing.T) {
	fingerprint := func() []string {
		engine := game.NewEngine(zaptest.NewLogger(t), game.WithSeed(44))
		m, err := New(engine, zaptest.NewLogger(t), players, 3)
		require.NoError(t, err)
		summary, err := m.Play(context.Background(), firstLegal)
		require.NoError(t, err)

		var out []string
		for _, r := range summary.Results {
			// Checksums cover the game id, which embeds the random match id.
			out = append(out, fmt.Sprint(r.Seating, r.Outcome, r.Actions, r.Returns))
		}
		return out
	}
	assert.Equal(t, fingerprint(), fingerprint())
}
