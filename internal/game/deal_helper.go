package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/tarokfree/tarok-server-go/internal/game/cards"
	"github.com/tarokfree/tarok-server-go/internal/game/rules"
)

// DealHelper builds hands that start with chosen cards in chosen places.
// Cards without a destination are dealt at random around them.
type DealHelper struct {
	destinations map[cards.Card]int
}

func NewDealHelper() *DealHelper {
	return &DealHelper{destinations: make(map[cards.Card]int)}
}

// SetCardDestination pins c to a player hand, or to the talon with
// SetupTalon.
func (h *DealHelper) SetCardDestination(c cards.Card, dest int) *DealHelper {
	if !c.Valid() {
		panic(fmt.Sprintf("card %d out of range", int(c)))
	}
	if dest < 0 || dest > SetupTalon {
		panic(fmt.Sprintf("destination %d out of range", dest))
	}
	h.destinations[c] = dest
	return h
}

// Deal plays out the setup phase and returns the hand at the start of the
// auction. With a nil rng free cards go to the first destination with room.
func (h *DealHelper) Deal(rng *rand.Rand) *State {
	var pinned [SetupTalon + 1]int
	for _, dest := range h.destinations {
		pinned[dest]++
	}
	for p := 0; p < cards.NumPlayers; p++ {
		if pinned[p] > cards.HandSize {
			panic(fmt.Sprintf("%d cards pinned to player %d", pinned[p], p))
		}
	}
	if pinned[SetupTalon] > cards.TalonSize {
		panic(fmt.Sprintf("%d cards pinned to the talon", pinned[SetupTalon]))
	}

	s := NewState()
	for s.phase == rules.PhaseSetup {
		c := s.setup.next
		if dest, ok := h.destinations[c]; ok {
			pinned[dest]--
			s.ApplyAction(dest)
			continue
		}
		s.ApplyAction(h.pickFree(s, pinned, rng))
	}
	return s
}

// pickFree chooses a destination for an unpinned card, leaving enough room
// for the pinned cards still to come.
func (h *DealHelper) pickFree(s *State, pinned [SetupTalon + 1]int, rng *rand.Rand) int {
	var free [SetupTalon + 1]int
	total := 0
	for _, dest := range s.setupLegalActions() {
		free[dest] = s.setupRoom(dest) - pinned[dest]
		if free[dest] > 0 {
			total += free[dest]
		}
	}
	if total == 0 {
		panic("no room left for unpinned card")
	}

	pick := 0
	if rng != nil {
		pick = rng.IntN(total)
	}
	for dest, n := range free {
		if n <= 0 {
			continue
		}
		if pick < n {
			return dest
		}
		pick -= n
	}
	panic("unreachable deal destination")
}
