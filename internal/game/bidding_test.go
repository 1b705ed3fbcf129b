package game

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarokfree/tarok-server-go/internal/game/cards"
	"github.com/tarokfree/tarok-server-go/internal/game/rules"
)

const pass = rules.BidPass

func bid(number int, hold bool) int {
	return rules.Bid{Number: number, Hold: hold}.ToAction()
}

// makeState deals the honours and XVIII to XX to the given seats. All other
// cards are dealt first-fit, so the hands are the same on every run.
func makeState(pagat, xxi, skiz, xviii, xix, xx int) *State {
	return NewDealHelper().
		SetCardDestination(cards.Pagat, pagat).
		SetCardDestination(cards.XXI, xxi).
		SetCardDestination(cards.Skiz, skiz).
		SetCardDestination(cards.XVIII, xviii).
		SetCardDestination(cards.XIX, xix).
		SetCardDestination(cards.XX, xx).
		Deal(nil)
}

func runBids(t *testing.T, s *State, actions []int) {
	t.Helper()
	for i, a := range actions {
		require.Equal(t, rules.PhaseBidding, s.Phase(), "step %d", i)
		p := s.CurrentPlayer()
		require.Contains(t, s.LegalActions(), a, "step %d: %s by player %d", i, s.ActionToString(p, a), p)
		s.ApplyAction(a)
	}
	require.Equal(t, rules.PhaseDealTalon, s.Phase())
}

func TestBidSequences(t *testing.T) {
	xix, xviii, xx := cards.XIX, cards.XVIII, cards.XX

	tests := []struct {
		name        string
		deal        [6]int // pagat, xxi, skiz, xviii, xix, xx
		bids        []int
		declarer    int
		winningBid  int
		bidType     rules.BidType
		mandatory   *cards.Card
		cueBidder   int
		wantFullBid bool
	}{
		{
			name:       "straight XIX cue accepted",
			deal:       [6]int{0, 3, 2, 0, 2, 2},
			bids:       []int{pass, pass, bid(2, false), bid(1, false)},
			declarer:   3,
			winningBid: 1,
			bidType:    rules.BidStandard,
			mandatory:  &xix,
			cueBidder:  2,
		},
		{
			name:       "straight XVIII cue accepted",
			deal:       [6]int{0, 0, 2, 0, 2, 2},
			bids:       []int{bid(1, false), pass, bid(0, false), pass},
			declarer:   2,
			winningBid: 0,
			bidType:    rules.BidStandard,
			mandatory:  &xviii,
			cueBidder:  0,
		},
		{
			name:       "straight solo",
			deal:       [6]int{0, 1, 1, 1, 2, 2},
			bids:       []int{bid(0, false), pass, pass, pass},
			declarer:   0,
			winningBid: 0,
			bidType:    rules.BidStraightSolo,
			cueBidder:  -1,
		},
		{
			name:       "straight XIX cue not accepted",
			deal:       [6]int{0, 1, 1, 1, 0, 2},
			bids:       []int{bid(2, false), pass, pass, pass},
			declarer:   0,
			winningBid: 2,
			bidType:    rules.BidCueXIX,
			cueBidder:  -1,
		},
		{
			name: "XIX cue accepted by hold",
			deal: [6]int{0, 1, 2, 1, 1, 2},
			bids: []int{
				pass, bid(3, false), bid(2, false), pass,
				bid(1, false), // P1 skips 1 step
				bid(1, true),  // P2 holds
			},
			declarer:   2,
			winningBid: 1,
			bidType:    rules.BidStandard,
			mandatory:  &xix,
			cueBidder:  1,
		},
		{
			name: "XIX cue not accepted",
			deal: [6]int{0, 1, 2, 1, 1, 2},
			bids: []int{
				pass, bid(3, false), bid(2, false), pass,
				bid(1, false),
				pass,
			},
			declarer:   1,
			winningBid: 1,
			bidType:    rules.BidCueXIX,
			cueBidder:  -1,
		},
		{
			name: "yielded game calls XX",
			deal: [6]int{0, 2, 3, 1, 1, 2},
			bids: []int{
				pass, pass, bid(3, false), bid(2, false),
				pass, // P2 yields holding XX and XXI
			},
			declarer:   3,
			winningBid: 2,
			bidType:    rules.BidYielded,
			mandatory:  &xx,
			cueBidder:  -1,
		},
		{
			name:        "full bid",
			deal:        [6]int{2, 1, 3, 1, 2, 2},
			bids:        []int{pass, bid(3, false), bid(2, false), bid(1, false), pass, pass},
			declarer:    3,
			winningBid:  1,
			bidType:     rules.BidStandard,
			cueBidder:   -1,
			wantFullBid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.deal
			s := makeState(d[0], d[1], d[2], d[3], d[4], d[5])
			runBids(t, s, tt.bids)

			assert.Equal(t, tt.declarer, s.Declarer())
			assert.Equal(t, tt.winningBid, s.WinningBid())
			assert.Equal(t, tt.bidType, s.BidType())
			assert.Equal(t, tt.wantFullBid, s.FullBid())

			card, ok := s.MandatoryCalledCard()
			if tt.mandatory == nil {
				assert.False(t, ok, "unexpected mandatory card %s", card)
			} else {
				require.True(t, ok)
				assert.Equal(t, *tt.mandatory, card)
			}

			cue, ok := s.CueBidder()
			if tt.cueBidder < 0 {
				assert.False(t, ok)
			} else {
				require.True(t, ok)
				assert.Equal(t, tt.cueBidder, cue)
			}
		})
	}
}

func TestAllPassEndsHand(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 10; i++ {
		s := NewDealHelper().Deal(rng)
		for !s.IsTerminal() && s.Phase() == rules.PhaseBidding {
			s.ApplyAction(pass)
		}
		require.True(t, s.IsTerminal())
		assert.Equal(t, rules.PhaseBidding, s.Phase())
		assert.Equal(t, [cards.NumPlayers]int{}, s.Returns())
		assert.Equal(t, TerminalPlayer, s.CurrentPlayer())
		assert.Empty(t, s.LegalActions())
		assert.Equal(t, -1, s.Declarer())
	}
}

func TestBiddingNeedsHonour(t *testing.T) {
	// P1 holds no honour and gets to bid only after everyone else passed.
	s := makeState(0, 2, 3, 0, 2, 2)
	require.Equal(t, 0, s.CurrentPlayer())
	s.ApplyAction(pass)

	require.Equal(t, 1, s.CurrentPlayer())
	assert.Equal(t, []int{pass}, s.LegalActions())
}

func TestUnconditionalBidWithoutHonour(t *testing.T) {
	s := makeState(0, 2, 2, 0, 2, 2)
	s.ApplyAction(pass)
	s.ApplyAction(pass)
	s.ApplyAction(pass)

	// P3 holds no honour but is the only seat left.
	require.Equal(t, 3, s.CurrentPlayer())
	legal := s.LegalActions()
	assert.Contains(t, legal, bid(3, false))
	assert.Contains(t, legal, bid(2, false), "cue needs no cue card when bidding unconditionally")
	assert.Contains(t, legal, bid(0, false))
	assert.Contains(t, legal, pass)
}

func TestCueNeedsCueCard(t *testing.T) {
	// P0 holds Pagat but not XIX or XVIII.
	s := makeState(0, 1, 1, 1, 2, 2)
	legal := s.LegalActions()
	assert.Contains(t, legal, bid(3, false))
	assert.NotContains(t, legal, bid(2, false))
	assert.NotContains(t, legal, bid(1, false))
	assert.Contains(t, legal, bid(0, false))
}

func TestOnlyOneCuePerAuction(t *testing.T) {
	s := makeState(0, 1, 2, 0, 0, 2)
	s.ApplyAction(bid(2, false)) // P0 cues XIX

	// P1 may only raise by one step while the cue stands.
	legal := s.LegalActions()
	assert.Equal(t, []int{bid(1, false), pass}, legal)
}

func TestYieldingPassNeedsXXAndHonour(t *testing.T) {
	// P2 bid 3, P3 raised to 2. P2 lacks XX and so cannot pass.
	s := makeState(0, 2, 3, 1, 1, 1)
	s.ApplyAction(pass)
	s.ApplyAction(pass)
	s.ApplyAction(bid(3, false))
	s.ApplyAction(bid(2, false))

	require.Equal(t, 2, s.CurrentPlayer())
	assert.NotContains(t, s.LegalActions(), pass)
}

func TestTrialThree(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	checked := 0
	for i := 0; i < 200; i++ {
		s := NewDealHelper().Deal(rng)
		if s.rec.deck.HoldsHonor(3) {
			continue
		}
		checked++

		for s.Phase() == rules.PhaseBidding {
			if s.CurrentPlayer() == 3 {
				s.ApplyAction(bid(3, false))
			} else {
				s.ApplyAction(pass)
			}
		}
		require.Equal(t, 3, s.Declarer())
		for !s.IsTerminal() && s.Phase() == rules.PhaseDealTalon {
			s.ApplyAction(s.SampleChance(rng))
		}

		if s.rec.deck.HoldsHonor(3) {
			assert.False(t, s.IsTerminal())
			assert.Equal(t, rules.PhaseSkart, s.Phase())
		} else {
			require.True(t, s.IsTerminal())
			assert.Equal(t, [cards.NumPlayers]int{
				TrialThreeOpponentScore, TrialThreeOpponentScore, TrialThreeOpponentScore, TrialThreeDeclarerScore,
			}, s.Returns())
		}
	}
	assert.NotZero(t, checked)
}

func TestAcceptedBidsImprove(t *testing.T) {
	rng := rand.New(rand.NewPCG(31, 37))
	accepted := 0
	for game := 0; game < 300; game++ {
		s := NewDealHelper().Deal(rng)
		for s.Phase() == rules.PhaseBidding && !s.IsTerminal() {
			legal := s.LegalActions()
			require.NotEmpty(t, legal)
			action := legal[rng.IntN(len(legal))]
			before := s.bidding.bid
			s.ApplyAction(action)
			if action == pass {
				assert.Equal(t, before, s.bidding.bid, "a pass leaves the standing bid")
				continue
			}
			accepted++
			assert.True(t, s.bidding.bid.Better(before), "%v does not improve on %v", s.bidding.bid, before)
		}
	}
	assert.Positive(t, accepted)
}

func TestCueBidderLockedOutAfterAcceptance(t *testing.T) {
	s := makeState(0, 1, 2, 1, 1, 2)
	for i, a := range []int{pass, bid(3, false), bid(2, false), pass, bid(1, false)} {
		require.Contains(t, s.LegalActions(), a, "step %d", i)
		s.ApplyAction(a)
	}
	require.Equal(t, rules.BidCueXIX, s.bidding.winnerType)
	require.Equal(t, 2, s.CurrentPlayer())

	s.ApplyAction(bid(1, true))

	assert.True(t, s.bidding.lockedOut[1])
	assert.False(t, s.bidding.passed[1], "the cue bidder never passed")
	assert.Equal(t, rules.PhaseDealTalon, s.Phase(), "the turn does not return to the cue bidder")
	assert.Equal(t, 2, s.Declarer())
	cue, ok := s.CueBidder()
	require.True(t, ok)
	assert.Equal(t, 1, cue)
}
