package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tarokfree/tarok-server-go/internal/game/cards"
)

func TestAnnouncementActionEncoding(t *testing.T) {
	for action := 0; action < AnnouncementPass; action++ {
		assert.Equal(t, action, AnnouncementFromAction(action).ToAction())
	}
	assert.Equal(t, 1, AnnounceAction(AnnounceTuletroa))
	assert.Equal(t, 8+2, ContraAction(AnnounceDoubleGame))
	assert.Equal(t, 16+4, ReContraAction(AnnouncePagatUltimo))
	assert.Equal(t, 24, AnnouncementPass)

	a := AnnouncementFromAction(13)
	assert.Equal(t, LevelContra, a.Level)
	assert.Equal(t, AnnounceXXICapture, a.Type)
	assert.Equal(t, "Contra XXI Capture", a.String())
	assert.Panics(t, func() { AnnouncementFromAction(AnnouncementPass) })
}

func TestAnnouncementSideMultiplier(t *testing.T) {
	var side AnnouncementSide
	assert.Equal(t, 1, side.Multiplier(AnnounceVolat))

	side.Announced[AnnounceVolat] = true
	assert.Equal(t, 2, side.Multiplier(AnnounceVolat))

	side.ContraLevel[AnnounceVolat] = 1
	assert.Equal(t, 4, side.Multiplier(AnnounceVolat))

	side.ContraLevel[AnnounceVolat] = 2
	assert.Equal(t, 8, side.Multiplier(AnnounceVolat))
}

func TestContraLadder(t *testing.T) {
	var side AnnouncementSide
	assert.False(t, side.CanContra(AnnounceDoubleGame), "unannounced types cannot be contra'd")

	side.Announced[AnnounceDoubleGame] = true
	for level := 0; level < MaxContraLevel; level++ {
		side.ContraLevel[AnnounceDoubleGame] = level
		assert.Equal(t, level%2 == 0, side.CanContra(AnnounceDoubleGame), "level %d", level)
		assert.Equal(t, level%2 == 1, side.CanReContra(AnnounceDoubleGame), "level %d", level)
	}
	side.ContraLevel[AnnounceDoubleGame] = MaxContraLevel
	assert.False(t, side.CanContra(AnnounceDoubleGame))
	assert.False(t, side.CanReContra(AnnounceDoubleGame))

	side.Announced[AnnounceEightTaroks] = true
	assert.False(t, side.CanContra(AnnounceEightTaroks))
}

func TestTrickPlayedBy(t *testing.T) {
	trick := Trick{
		Leader: 2,
		Cards:  [4]cards.Card{cards.XIX, cards.Skiz, cards.Pagat, cards.XXI},
		Winner: 3,
	}
	p, ok := trick.PlayedBy(cards.Skiz)
	assert.True(t, ok)
	assert.Equal(t, 3, p)

	p, ok = trick.PlayedBy(cards.XXI)
	assert.True(t, ok)
	assert.Equal(t, 1, p)

	assert.False(t, trick.Contains(cards.XX))
}

func TestPhaseOrderTransitions(t *testing.T) {
	order := []Phase{PhaseSetup, PhaseBidding, PhaseDealTalon, PhaseSkart, PhaseAnnouncements, PhasePlay}
	for i := 0; i < len(order)-1; i++ {
		next, ok := order[i].Next()
		if !ok || next != order[i+1] {
			t.Fatalf("expected %s after %s, got %s (ok=%v)", order[i+1], order[i], next, ok)
		}
	}
	if _, ok := PhasePlay.Next(); ok {
		t.Fatal("play must not have a successor")
	}
	if !PhaseDealTalon.IsChance() || PhaseSkart.IsChance() {
		t.Fatal("unexpected chance classification")
	}
	if PhaseAnnouncements.String() != "ANNOUNCEMENTS" || Phase(42).String() != "PHASE_42" {
		t.Fatal("unexpected phase names")
	}
	if SideDeclarer.Other() != SideOpponents || SideOpponents.Other() != SideDeclarer {
		t.Fatal("unexpected side complement")
	}
}
