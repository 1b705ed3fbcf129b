package game

import (
	"github.com/tarokfree/tarok-server-go/internal/game/cards"
)

type skartState struct {
	discarded [cards.NumPlayers]int
}

// skartCurrentPlayer returns the first player in discard order, the
// declarer and then the seats after it, who still holds too many cards.
func (s *State) skartCurrentPlayer() int {
	p := s.rec.declarer
	for i := 0; i < cards.NumPlayers; i++ {
		if s.rec.deck.HandSize(p) > cards.HandSize {
			return p
		}
		p = nextSeat(p)
	}
	return TerminalPlayer
}

// canDiscard reports whether c may be put into the skart. Honours, Kings and
// the mandatory called card stay in hand.
func (s *State) canDiscard(c cards.Card) bool {
	if c.IsHonor() || c.IsKing() {
		return false
	}
	if m := s.rec.mandatoryCard; m != nil && *m == c {
		return false
	}
	return true
}

func (s *State) skartLegalActions() []int {
	p := s.skartCurrentPlayer()
	hand := s.rec.deck.Hand(p)
	actions := make([]int, 0, len(hand))
	for _, c := range hand {
		if s.canDiscard(c) {
			actions = append(actions, int(c))
		}
	}
	return actions
}

func (s *State) skartApply(action int) {
	p := s.skartCurrentPlayer()
	if p == s.rec.declarer {
		s.rec.deck[action] = cards.DeclarerSkart
	} else {
		s.rec.deck[action] = cards.OpponentsSkart
	}
	s.skart.discarded[p]++
}
