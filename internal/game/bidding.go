package game

import (
	"github.com/tarokfree/tarok-server-go/internal/game/cards"
	"github.com/tarokfree/tarok-server-go/internal/game/rules"
)

type pendingCue struct {
	bidder int
	card   cards.Card
}

type biddingState struct {
	current    int
	bid        rules.Bid
	winner     int
	winnerType rules.BidType

	hasHonor  [cards.NumPlayers]bool
	hasBid    [cards.NumPlayers]bool
	passed    [cards.NumPlayers]bool
	lockedOut [cards.NumPlayers]bool

	// cue is the cue bid waiting for another player to raise over it.
	cue *pendingCue
	// cueMade is set once any cue bid has been made. Only one cue bid is
	// allowed per auction.
	cueMade bool
	// yieldedTo is the winner at the moment a yielding pass was made, -1
	// when nobody yielded.
	yieldedTo int

	over bool
}

func (s *State) startBidding() {
	s.bidding = biddingState{
		bid:       rules.InitialBid(),
		winner:    -1,
		yieldedTo: -1,
	}
	for _, h := range cards.Honors {
		if loc := s.rec.deck[h]; loc.IsHand() {
			s.bidding.hasHonor[loc.Player()] = true
		}
	}
}

// unconditionalBid reports whether p is the last seat left with nobody
// having bid. That player may make any bid, honour or not.
func (s *State) unconditionalBid(p int) bool {
	b := &s.bidding
	if b.winner != -1 {
		return false
	}
	for other := 0; other < cards.NumPlayers; other++ {
		if other != p && !b.passed[other] {
			return false
		}
	}
	return true
}

func (s *State) canBid(p int, candidate rules.Bid, unconditional bool) bool {
	b := &s.bidding
	d, ok := rules.Distance(b.bid, candidate, !b.hasBid[p])
	if !ok {
		return false
	}
	if d == 4 && b.winner != -1 {
		return false
	}
	if b.cue != nil && d != 1 {
		return false
	}
	if typ := rules.BidTypeOf(d); typ.IsCue() {
		if b.cueMade || s.rec.mandatoryCard != nil {
			return false
		}
		if !unconditional && !s.rec.deck.Holds(p, typ.CueCard()) {
			return false
		}
	}
	return true
}

// yieldingPass reports whether a pass by p would yield the game to the
// current (2, no hold) bid of another player.
func (s *State) yieldingPass(p int) bool {
	b := &s.bidding
	return b.hasBid[p] && b.winner != p && b.bid == rules.Bid{Number: 2, Hold: false}
}

func (s *State) canPass(p int) bool {
	if !s.yieldingPass(p) {
		return true
	}
	deck := s.rec.deck
	return deck.Holds(p, cards.XX) && (deck.Holds(p, cards.XXI) || deck.Holds(p, cards.Skiz))
}

func (s *State) biddingLegalActions() []int {
	b := &s.bidding
	p := b.current
	actions := make([]int, 0, rules.BidPass+1)
	unconditional := s.unconditionalBid(p)
	if b.hasHonor[p] || unconditional {
		for a := 0; a < rules.BidPass; a++ {
			if s.canBid(p, rules.BidFromAction(a), unconditional) {
				actions = append(actions, a)
			}
		}
	}
	if s.canPass(p) {
		actions = append(actions, rules.BidPass)
	}
	return actions
}

func (s *State) biddingApply(action int) {
	b := &s.bidding
	p := b.current

	if action == rules.BidPass {
		if s.yieldingPass(p) {
			b.yieldedTo = b.winner
		}
		b.passed[p] = true
		s.biddingNextPlayer()
		return
	}

	bid := rules.BidFromAction(action)
	d, _ := rules.Distance(b.bid, bid, !b.hasBid[p])
	typ := rules.BidTypeOf(d)

	if b.cue != nil && b.cue.bidder != p {
		card := b.cue.card
		bidder := b.cue.bidder
		s.rec.mandatoryCard = &card
		s.rec.cueBidder = &bidder
		b.lockedOut[bidder] = true
		b.cue = nil
	}
	if typ.IsCue() {
		b.cue = &pendingCue{bidder: p, card: typ.CueCard()}
		b.cueMade = true
	}

	b.bid = bid
	b.winner = p
	b.winnerType = typ
	b.hasBid[p] = true
	s.biddingNextPlayer()
}

func (s *State) biddingNextPlayer() {
	b := &s.bidding
	if b.bid == (rules.Bid{Number: 0, Hold: true}) {
		b.over = true
		return
	}

	next := b.current
	for i := 0; i < cards.NumPlayers; i++ {
		next = nextSeat(next)
		if !b.passed[next] && !b.lockedOut[next] {
			break
		}
	}
	if b.passed[next] || b.lockedOut[next] {
		// Everybody passed without a bid.
		b.over = true
		s.end([cards.NumPlayers]int{})
		return
	}
	if next == b.winner {
		b.over = true
		return
	}
	b.current = next
}

// finishBidding copies the auction result into the shared record.
func (s *State) finishBidding() {
	b := &s.bidding
	r := &s.rec

	r.declarer = b.winner
	r.winningBid = b.bid.Number
	r.bidType = b.winnerType

	bidders := 0
	for _, bid := range b.hasBid {
		if bid {
			bidders++
		}
	}
	r.fullBid = bidders >= 3

	if b.yieldedTo == b.winner && b.bid == (rules.Bid{Number: 2, Hold: false}) {
		xx := cards.XX
		r.mandatoryCard = &xx
		r.bidType = rules.BidYielded
	}

	r.trialThree = !r.deck.HoldsHonor(r.declarer)
}
