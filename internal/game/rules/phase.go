package rules

import "fmt"

// Phase represents the sub-games a hand passes through, in order.
type Phase int

const (
	PhaseSetup Phase = iota
	PhaseBidding
	PhaseDealTalon
	PhaseSkart
	PhaseAnnouncements
	PhasePlay
)

var phaseNames = map[Phase]string{
	PhaseSetup:         "SETUP",
	PhaseBidding:       "BIDDING",
	PhaseDealTalon:     "DEAL_TALON",
	PhaseSkart:         "SKART",
	PhaseAnnouncements: "ANNOUNCEMENTS",
	PhasePlay:          "PLAY",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// Next returns the phase that follows p. Play has no successor.
func (p Phase) Next() (Phase, bool) {
	if p < PhaseSetup || p >= PhasePlay {
		return p, false
	}
	return p + 1, true
}

// IsChance reports whether the phase is driven by chance actions.
func (p Phase) IsChance() bool {
	return p == PhaseSetup || p == PhaseDealTalon
}

// Side is one of the two teams of a hand.
type Side int

const (
	SideDeclarer Side = iota
	SideOpponents
)

func (s Side) String() string {
	switch s {
	case SideDeclarer:
		return "DECLARER"
	case SideOpponents:
		return "OPPONENTS"
	}
	return fmt.Sprintf("SIDE_%d", int(s))
}

// Other returns the opposing side.
func (s Side) Other() Side {
	if s == SideDeclarer {
		return SideOpponents
	}
	return SideDeclarer
}
