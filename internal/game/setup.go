package game

import "github.com/tarokfree/tarok-server-go/internal/game/cards"

// SetupTalon is the setup action that leaves the next card in the talon.
const SetupTalon = cards.NumPlayers

// setupState deals the cards in id order. Each card goes to a hand with room
// or stays in the talon while the talon still has room.
type setupState struct {
	next     cards.Card
	reserved int
}

func (s *State) startSetup() {
	s.setup = setupState{}
}

func (s *State) dealtToHands() int {
	return int(s.setup.next) - s.setup.reserved
}

func (s *State) setupOver() bool {
	return s.dealtToHands() == cards.HandSize*cards.NumPlayers
}

func (s *State) setupRoom(dest int) int {
	if dest == SetupTalon {
		return cards.TalonSize - s.setup.reserved
	}
	return cards.HandSize - s.rec.deck.HandSize(dest)
}

func (s *State) setupLegalActions() []int {
	actions := make([]int, 0, cards.NumPlayers+1)
	for dest := 0; dest <= SetupTalon; dest++ {
		if s.setupRoom(dest) > 0 {
			actions = append(actions, dest)
		}
	}
	return actions
}

// setupChanceOutcomes weights every destination by its free room, which
// makes the deal uniform over all partitions of the deck.
func (s *State) setupChanceOutcomes() []ChanceOutcome {
	remaining := float64(cards.DeckSize - int(s.setup.next))
	actions := s.setupLegalActions()
	outcomes := make([]ChanceOutcome, 0, len(actions))
	for _, dest := range actions {
		outcomes = append(outcomes, ChanceOutcome{
			Action:      dest,
			Probability: float64(s.setupRoom(dest)) / remaining,
		})
	}
	return outcomes
}

func (s *State) setupApply(dest int) {
	c := s.setup.next
	if dest == SetupTalon {
		s.setup.reserved++
	} else {
		s.rec.deck[c] = cards.Hand(dest)
		if c == cards.Pagat {
			s.rec.pagatHolder = dest
		}
	}
	s.setup.next++
}
