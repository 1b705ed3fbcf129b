package game

import (
	"fmt"
	"strings"

	"github.com/tarokfree/tarok-server-go/internal/game/cards"
	"github.com/tarokfree/tarok-server-go/internal/game/rules"
)

// ActionToString renders action as it would be applied in the current
// phase.
func (s *State) ActionToString(player, action int) string {
	switch s.phase {
	case rules.PhaseSetup:
		if s.setupOver() {
			return fmt.Sprintf("Action %d", action)
		}
		c := s.setup.next
		if action == SetupTalon {
			return fmt.Sprintf("Leave %s in talon", c)
		}
		return fmt.Sprintf("Deal %s to player %d", c, action)
	case rules.PhaseBidding:
		if action == rules.BidPass {
			return "Pass"
		}
		return rules.BidFromAction(action).String()
	case rules.PhaseDealTalon:
		if s.talonOver() || action < 0 || action >= cards.TalonSize {
			return fmt.Sprintf("Talon slot %d", action)
		}
		return fmt.Sprintf("Talon card %s to player %d", s.talon.slots[action], s.talonReceiver())
	case rules.PhaseSkart:
		return fmt.Sprintf("Discard %s", cards.Card(action))
	case rules.PhaseAnnouncements:
		if !s.announcements.partnerCalled {
			if action == rules.CallSelf {
				return "Call self"
			}
			return "Call partner"
		}
		if action == rules.AnnouncementPass {
			return "Pass"
		}
		return rules.AnnouncementFromAction(action).String()
	case rules.PhasePlay:
		return fmt.Sprintf("Play %s", cards.Card(action))
	}
	return fmt.Sprintf("Player %d action %d", player, action)
}

func (s *State) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Phase: %s\n", s.phase)
	b.WriteString(s.rec.deck.String())

	switch s.phase {
	case rules.PhaseSetup:
		fmt.Fprintf(&b, "Next card: %s, left in talon: %d\n", s.setup.next, s.setup.reserved)
	case rules.PhaseBidding:
		bd := &s.bidding
		if bd.winner >= 0 {
			fmt.Fprintf(&b, "Winning bid: %s by player %d\n", bd.bid, bd.winner)
		} else {
			b.WriteString("No bids yet\n")
		}
	case rules.PhaseDealTalon:
		fmt.Fprintf(&b, "Declarer: %d, bid: %d, talon cards drawn: %d\n", s.rec.declarer, s.rec.winningBid, s.talon.next)
	case rules.PhaseSkart:
		fmt.Fprintf(&b, "Declarer: %d, discarded: %v\n", s.rec.declarer, s.skart.discarded)
	case rules.PhaseAnnouncements:
		s.writeSides(&b)
	case rules.PhasePlay:
		s.writeSides(&b)
		for i, t := range s.rec.tricks {
			fmt.Fprintf(&b, "Trick %d (led by %d):", i+1, t.Leader)
			for _, c := range t.Cards {
				fmt.Fprintf(&b, " %s", c)
			}
			fmt.Fprintf(&b, ", won by %d\n", t.Winner)
		}
	}

	if s.IsTerminal() {
		fmt.Fprintf(&b, "Returns: %v\n", s.Returns())
	}
	return b.String()
}

func (s *State) writeSides(b *strings.Builder) {
	if !s.announcements.partnerCalled {
		fmt.Fprintf(b, "Declarer %d has not called a partner\n", s.rec.declarer)
		return
	}
	if s.rec.partner != nil {
		fmt.Fprintf(b, "Declarer: %d, partner: %d\n", s.rec.declarer, *s.rec.partner)
	} else {
		fmt.Fprintf(b, "Declarer: %d playing solo\n", s.rec.declarer)
	}
	for _, side := range []rules.Side{rules.SideDeclarer, rules.SideOpponents} {
		as := s.rec.side(side)
		var parts []string
		for t := rules.AnnouncementType(0); t < rules.NumAnnouncementTypes; t++ {
			if as.Announced[t] {
				parts = append(parts, fmt.Sprintf("%s x%d", t, as.Multiplier(t)))
			}
		}
		if len(parts) == 0 {
			parts = append(parts, "none")
		}
		fmt.Fprintf(b, "%s announced: %s\n", side, strings.Join(parts, ", "))
	}
}
