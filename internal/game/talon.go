package game

import (
	"fmt"

	"github.com/tarokfree/tarok-server-go/internal/game/cards"
)

// Trial three returns: a declarer who bid without an honour and did not
// find one in the talon pays each other player.
const (
	TrialThreeDeclarerScore = -9
	TrialThreeOpponentScore = 3
)

// talonState hands out the talon. Slots index the talon cards as they lay in
// ascending order when the phase started; receivers lists who gets the n-th
// drawn card.
type talonState struct {
	slots     [cards.TalonSize]cards.Card
	drawn     [cards.TalonSize]bool
	receivers [cards.TalonSize]int
	next      int
}

func (s *State) startTalon() {
	talon := s.rec.deck.Cards(cards.Talon)
	if len(talon) != cards.TalonSize {
		panic(fmt.Sprintf("talon holds %d cards, want %d", len(talon), cards.TalonSize))
	}

	t := talonState{}
	copy(t.slots[:], talon)

	declarer := s.rec.declarer
	i := 0
	for ; i < s.rec.winningBid; i++ {
		t.receivers[i] = declarer
	}
	p := declarer
	for ; i < cards.TalonSize; i++ {
		p = nextSeat(p)
		if p == declarer {
			p = nextSeat(p)
		}
		t.receivers[i] = p
	}
	s.talon = t
}

// talonReceiver returns the player who receives the next talon card.
func (s *State) talonReceiver() int {
	return s.talon.receivers[s.talon.next]
}

func (s *State) talonOver() bool {
	return s.talon.next == cards.TalonSize
}

func (s *State) talonLegalActions() []int {
	actions := make([]int, 0, cards.TalonSize)
	for slot, drawn := range s.talon.drawn {
		if !drawn {
			actions = append(actions, slot)
		}
	}
	return actions
}

func (s *State) talonChanceOutcomes() []ChanceOutcome {
	actions := s.talonLegalActions()
	prob := 1 / float64(len(actions))
	outcomes := make([]ChanceOutcome, len(actions))
	for i, a := range actions {
		outcomes[i] = ChanceOutcome{Action: a, Probability: prob}
	}
	return outcomes
}

func (s *State) talonApply(slot int) {
	t := &s.talon
	receiver := s.talonReceiver()
	c := t.slots[slot]
	s.rec.deck[c] = cards.Hand(receiver)
	if c == cards.Pagat {
		s.rec.pagatHolder = receiver
	}
	t.drawn[slot] = true
	t.next++

	if s.talonOver() && s.rec.trialThree && !s.rec.deck.HoldsHonor(s.rec.declarer) {
		var returns [cards.NumPlayers]int
		for p := range returns {
			if p == s.rec.declarer {
				returns[p] = TrialThreeDeclarerScore
			} else {
				returns[p] = TrialThreeOpponentScore
			}
		}
		s.end(returns)
	}
}
