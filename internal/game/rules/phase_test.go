package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhaseOrder(t *testing.T) {
	var order []Phase
	for p, ok := PhaseSetup, true; ok; p, ok = p.Next() {
		order = append(order, p)
	}
	assert.Equal(t, []Phase{PhaseSetup, PhaseBidding, PhaseDealTalon, PhaseSkart, PhaseAnnouncements, PhasePlay}, order)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "DEAL_TALON", PhaseDealTalon.String())
	assert.Equal(t, "PHASE_9", Phase(9).String())
}

func TestChancePhases(t *testing.T) {
	assert.True(t, PhaseSetup.IsChance())
	assert.True(t, PhaseDealTalon.IsChance())
	assert.False(t, PhaseBidding.IsChance())
	assert.False(t, PhasePlay.IsChance())
}

func TestSides(t *testing.T) {
	assert.Equal(t, SideOpponents, SideDeclarer.Other())
	assert.Equal(t, SideDeclarer, SideOpponents.Other())
	assert.Equal(t, "OPPONENTS", SideOpponents.String())
}
