package game

import (
	"github.com/tarokfree/tarok-server-go/internal/game/cards"
	"github.com/tarokfree/tarok-server-go/internal/game/rules"
	"github.com/tarokfree/tarok-server-go/internal/game/scoring"
)

// cardSide returns the side a card counts for once it left the hands.
func (s *State) cardSide(c cards.Card) (rules.Side, bool) {
	loc := s.rec.deck[c]
	switch {
	case loc.IsWonCards():
		return s.rec.playerSides[loc.Player()], true
	case loc == cards.DeclarerSkart:
		return rules.SideDeclarer, true
	case loc == cards.OpponentsSkart:
		return rules.SideOpponents, true
	}
	return 0, false
}

// ownerOfAll returns the side that took every card of set.
func (s *State) ownerOfAll(set []cards.Card) *rules.Side {
	first, ok := s.cardSide(set[0])
	if !ok {
		return nil
	}
	for _, c := range set[1:] {
		if side, ok := s.cardSide(c); !ok || side != first {
			return nil
		}
	}
	return scoring.SideOf(first)
}

// Summary condenses the finished hand into the scoring input.
func (s *State) Summary() scoring.Summary {
	r := &s.rec
	sum := scoring.Summary{
		WinningBid:    r.winningBid,
		HasPartner:    r.partner != nil,
		PlayerSides:   r.playerSides,
		DeclarerSide:  r.declarerSide,
		OpponentsSide: r.opponentsSide,
	}

	for c := cards.Card(0); c < cards.DeckSize; c++ {
		if side, ok := s.cardSide(c); ok && side == rules.SideDeclarer {
			sum.DeclarerCardPoints += c.Points()
		}
	}

	sum.TuletroaWinner = s.ownerOfAll(cards.Honors[:])
	sum.FourKingsWinner = s.ownerOfAll(cards.Kings[:])

	for _, t := range r.tricks {
		xxiBy, okXXI := t.PlayedBy(cards.XXI)
		skizBy, okSkiz := t.PlayedBy(cards.Skiz)
		if okXXI && okSkiz && r.playerSides[xxiBy] != r.playerSides[skizBy] {
			sum.XXICaptureWinner = scoring.SideOf(r.playerSides[t.Winner])
		}
	}

	switch {
	case sum.DeclarerCardPoints > scoring.DoubleGameThreshold:
		sum.DoubleGameWinner = scoring.SideOf(rules.SideDeclarer)
	case cards.TotalPoints-sum.DeclarerCardPoints > scoring.DoubleGameThreshold:
		sum.DoubleGameWinner = scoring.SideOf(rules.SideOpponents)
	}

	if len(r.tricks) == cards.NumTricks {
		sweep := r.playerSides[r.tricks[0].Winner]
		volat := true
		for _, t := range r.tricks[1:] {
			if r.playerSides[t.Winner] != sweep {
				volat = false
				break
			}
		}
		if volat {
			sum.VolatWinner = scoring.SideOf(sweep)
		}
	}

	sum.PagatUltimoResult = scoring.PagatNotInLastTrick
	if r.pagatHolder >= 0 {
		sum.PagatHolderSide = r.playerSides[r.pagatHolder]
	}
	if n := len(r.tricks); n == cards.NumTricks {
		last := r.tricks[n-1]
		if p, ok := last.PlayedBy(cards.Pagat); ok {
			sum.PagatHolderSide = r.playerSides[p]
			if r.playerSides[last.Winner] == sum.PagatHolderSide {
				sum.PagatUltimoResult = scoring.PagatSucceeded
			} else {
				sum.PagatUltimoResult = scoring.PagatFailed
			}
		}
	}
	return sum
}
