package game

import (
	"fmt"

	"github.com/tarokfree/tarok-server-go/internal/game/cards"
	"github.com/tarokfree/tarok-server-go/internal/game/rules"
)

// announcementsState covers both the partner call and the announcement
// auction that follows it.
type announcementsState struct {
	partnerCalled bool
	calledCard    cards.Card
	calledSelf    bool

	current     int
	lastToSpeak int
	firstRound  bool
	over        bool
}

func (s *State) startAnnouncements() {
	s.announcements = announcementsState{
		current:     s.rec.declarer,
		lastToSpeak: s.rec.declarer,
		firstRound:  true,
	}
}

// callTarget returns the card a partner call names: the mandatory card if
// there is one, else the highest tarok from XX down the declarer lacks.
func (s *State) callTarget() cards.Card {
	if m := s.rec.mandatoryCard; m != nil {
		return *m
	}
	for c := cards.XX; c >= cards.Pagat; c-- {
		if !s.rec.deck.Holds(s.rec.declarer, c) {
			return c
		}
	}
	panic("declarer holds every tarok up to XX")
}

func (s *State) partnerCallActions() []int {
	if s.rec.bidType == rules.BidStraightSolo {
		return []int{rules.CallSelf}
	}
	actions := []int{rules.CallPartner}
	if s.rec.mandatoryCard == nil && s.rec.deck.Holds(s.rec.declarer, cards.XX) {
		actions = append(actions, rules.CallSelf)
	}
	return actions
}

func (s *State) applyPartnerCall(action int) {
	a := &s.announcements
	r := &s.rec

	r.partner = nil
	if action == rules.CallPartner {
		a.calledCard = s.callTarget()
		if loc := r.deck[a.calledCard]; loc.IsHand() && loc.Player() != r.declarer {
			partner := loc.Player()
			r.partner = &partner
		}
	} else {
		a.calledSelf = true
	}

	for p := range r.playerSides {
		r.playerSides[p] = rules.SideOpponents
	}
	r.playerSides[r.declarer] = rules.SideDeclarer
	if r.partner != nil {
		r.playerSides[*r.partner] = rules.SideDeclarer
	}
	a.partnerCalled = true
}

func (s *State) announcementsLegalActions() []int {
	if !s.announcements.partnerCalled {
		return s.partnerCallActions()
	}

	p := s.announcements.current
	if s.pagatUltimoMandatory(p) {
		return []int{rules.AnnounceAction(rules.AnnouncePagatUltimo)}
	}
	side := s.rec.playerSides[p]
	own := s.rec.side(side)
	other := s.rec.side(side.Other())

	actions := make([]int, 0, rules.AnnouncementPass+1)
	for t := rules.AnnouncementType(0); t < rules.NumAnnouncementTypes; t++ {
		if s.canAnnounce(p, t) {
			actions = append(actions, rules.AnnounceAction(t))
		}
	}
	for t := rules.AnnouncementType(0); t < rules.NumAnnouncementTypes; t++ {
		if other.CanContra(t) {
			actions = append(actions, rules.ContraAction(t))
		}
	}
	for t := rules.AnnouncementType(0); t < rules.NumAnnouncementTypes; t++ {
		if own.CanReContra(t) {
			actions = append(actions, rules.ReContraAction(t))
		}
	}
	return append(actions, rules.AnnouncementPass)
}

func (s *State) canAnnounce(p int, t rules.AnnouncementType) bool {
	own := s.rec.side(s.rec.playerSides[p])
	if own.Announced[t] {
		return false
	}
	switch t {
	case rules.AnnounceTuletroa:
		return !own.Announced[rules.AnnounceVolat] && s.tuletroaAllowed(p)
	case rules.AnnounceFourKings, rules.AnnounceDoubleGame:
		return !own.Announced[rules.AnnounceVolat]
	case rules.AnnounceEightTaroks:
		return s.rec.deck.TarokCount(p) == 8
	case rules.AnnounceNineTaroks:
		return s.rec.deck.TarokCount(p) == 9
	}
	return true
}

// tuletroaAllowed applies the first round honour requirements for the
// declarer side. Opponents and later rounds are free to announce.
func (s *State) tuletroaAllowed(p int) bool {
	r := &s.rec
	if !s.announcements.firstRound || r.playerSides[p] == rules.SideOpponents {
		return true
	}
	xxi := r.deck.Holds(p, cards.XXI)
	skiz := r.deck.Holds(p, cards.Skiz)

	if p == r.declarer {
		switch {
		case r.cueBidder != nil:
			return xxi || skiz
		case r.fullBid:
			return skiz
		default:
			return xxi && skiz
		}
	}
	if r.cueBidder != nil && *r.cueBidder == p {
		return r.deck.HonorCount(p) >= 2
	}
	return xxi || skiz
}

// pagatUltimoMandatory reports whether p must announce pagat ultimo before
// anything else. This binds the cue bidder of an accepted cue who holds
// neither XXI nor Skiz.
func (s *State) pagatUltimoMandatory(p int) bool {
	r := &s.rec
	if r.cueBidder == nil || *r.cueBidder != p {
		return false
	}
	if r.deck.Holds(p, cards.XXI) || r.deck.Holds(p, cards.Skiz) {
		return false
	}
	return !r.side(r.playerSides[p]).Announced[rules.AnnouncePagatUltimo]
}

func (s *State) announcementsApply(action int) {
	a := &s.announcements
	if !a.partnerCalled {
		s.applyPartnerCall(action)
		return
	}

	p := a.current
	if action != rules.AnnouncementPass {
		side := s.rec.playerSides[p]
		decoded := rules.AnnouncementFromAction(action)
		switch decoded.Level {
		case rules.LevelAnnounce:
			s.rec.side(side).Announced[decoded.Type] = true
		case rules.LevelContra:
			s.rec.side(side.Other()).ContraLevel[decoded.Type]++
		case rules.LevelReContra:
			s.rec.side(side).ContraLevel[decoded.Type]++
		default:
			panic(fmt.Sprintf("unknown announcement level %d", decoded.Level))
		}
		a.lastToSpeak = p
	}

	next := nextSeat(p)
	if next == a.lastToSpeak {
		a.over = true
		return
	}
	if next == s.rec.declarer {
		a.firstRound = false
	}
	a.current = next
}
