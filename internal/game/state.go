package game

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/tarokfree/tarok-server-go/internal/game/cards"
	"github.com/tarokfree/tarok-server-go/internal/game/rules"
	"github.com/tarokfree/tarok-server-go/internal/game/scoring"
)

// Pseudo players returned by CurrentPlayer.
const (
	ChancePlayer   = -1
	TerminalPlayer = -4
)

// record is the cross-phase state of a hand. It lives for the whole hand and
// is never rebuilt by a phase transition.
type record struct {
	deck        cards.Deck
	pagatHolder int
	declarer    int
	partner     *int

	winningBid    int
	fullBid       bool
	bidType       rules.BidType
	mandatoryCard *cards.Card
	cueBidder     *int
	trialThree    bool

	declarerSide  rules.AnnouncementSide
	opponentsSide rules.AnnouncementSide
	playerSides   [cards.NumPlayers]rules.Side

	tricks []rules.Trick
}

func (r *record) side(s rules.Side) *rules.AnnouncementSide {
	if s == rules.SideDeclarer {
		return &r.declarerSide
	}
	return &r.opponentsSide
}

// ChanceOutcome is one possible chance action with its probability.
type ChanceOutcome struct {
	Action      int
	Probability float64
}

// State is a single hand of Hungarian Tarok. It is a game-tree node: hosts
// query CurrentPlayer and LegalActions, then advance it with ApplyAction.
// A State is not safe for concurrent use; Clone it instead.
type State struct {
	phase rules.Phase
	rec   record

	setup         setupState
	bidding       biddingState
	talon         talonState
	skart         skartState
	announcements announcementsState
	play          playState

	ended      bool
	endReturns [cards.NumPlayers]int
	history    []int
}

// NewState returns a hand at the start of the deal with every card in the
// talon.
func NewState() *State {
	s := &State{phase: rules.PhaseSetup}
	s.rec.deck = cards.NewDeck()
	s.rec.pagatHolder = -1
	s.rec.declarer = -1
	s.rec.winningBid = -1
	// Everybody counts as an opponent until the partner call.
	for p := range s.rec.playerSides {
		s.rec.playerSides[p] = rules.SideOpponents
	}
	s.startSetup()
	return s
}

// Phase returns the active phase.
func (s *State) Phase() rules.Phase { return s.phase }

// Deck returns a copy of the card locations.
func (s *State) Deck() cards.Deck { return s.rec.deck }

// History returns the actions applied so far, chance actions included.
func (s *State) History() []int { return slices.Clone(s.history) }

func (s *State) PlayerHand(p int) []cards.Card { return s.rec.deck.Hand(p) }

func (s *State) PlayerHoldsCard(p int, c cards.Card) bool { return s.rec.deck.Holds(p, c) }

// Declarer returns the auction winner, or -1 before the auction ended.
func (s *State) Declarer() int { return s.rec.declarer }

// Partner returns the declarer's partner. ok is false for a solo declarer or
// before the partner call.
func (s *State) Partner() (int, bool) {
	if s.rec.partner == nil {
		return -1, false
	}
	return *s.rec.partner, true
}

// WinningBid returns the number of the winning bid, or -1 before the auction
// ended.
func (s *State) WinningBid() int { return s.rec.winningBid }

// FullBid reports whether three different players bid in the auction.
func (s *State) FullBid() bool { return s.rec.fullBid }

// BidType returns the classification of the winning bid.
func (s *State) BidType() rules.BidType { return s.rec.bidType }

// MandatoryCalledCard returns the card the declarer is forced to call.
func (s *State) MandatoryCalledCard() (cards.Card, bool) {
	if s.rec.mandatoryCard == nil {
		return 0, false
	}
	return *s.rec.mandatoryCard, true
}

// CueBidder returns the player whose cue bid was accepted.
func (s *State) CueBidder() (int, bool) {
	if s.rec.cueBidder == nil {
		return -1, false
	}
	return *s.rec.cueBidder, true
}

// PagatHolder returns the player holding Pagat, or -1 while it is in the
// talon.
func (s *State) PagatHolder() int { return s.rec.pagatHolder }

// PlayerSide returns the side of p. Sides are meaningful once the partner
// has been called.
func (s *State) PlayerSide(p int) rules.Side { return s.rec.playerSides[p] }

// Tricks returns the completed tricks in order.
func (s *State) Tricks() []rules.Trick { return slices.Clone(s.rec.tricks) }

// AnnouncementSides returns the announcement records of both sides.
func (s *State) AnnouncementSides() (declarer, opponents rules.AnnouncementSide) {
	return s.rec.declarerSide, s.rec.opponentsSide
}

// IsTerminal reports whether the hand is over.
func (s *State) IsTerminal() bool {
	return s.ended || (s.phase == rules.PhasePlay && len(s.rec.tricks) == cards.NumTricks)
}

// IsChanceNode reports whether the next action is drawn by chance.
func (s *State) IsChanceNode() bool {
	return s.CurrentPlayer() == ChancePlayer
}

// CurrentPlayer returns the seat to act, ChancePlayer during the deal or
// TerminalPlayer once the hand is over.
func (s *State) CurrentPlayer() int {
	if s.IsTerminal() {
		return TerminalPlayer
	}
	switch s.phase {
	case rules.PhaseSetup, rules.PhaseDealTalon:
		return ChancePlayer
	case rules.PhaseBidding:
		return s.bidding.current
	case rules.PhaseSkart:
		return s.skartCurrentPlayer()
	case rules.PhaseAnnouncements:
		return s.announcements.current
	case rules.PhasePlay:
		return s.play.current
	}
	panic(fmt.Sprintf("unknown phase %s", s.phase))
}

// LegalActions returns the legal actions of the current player in ascending
// id order. It is empty once the hand is over.
func (s *State) LegalActions() []int {
	if s.IsTerminal() {
		return nil
	}
	switch s.phase {
	case rules.PhaseSetup:
		return s.setupLegalActions()
	case rules.PhaseBidding:
		return s.biddingLegalActions()
	case rules.PhaseDealTalon:
		return s.talonLegalActions()
	case rules.PhaseSkart:
		return s.skartLegalActions()
	case rules.PhaseAnnouncements:
		return s.announcementsLegalActions()
	case rules.PhasePlay:
		return s.playLegalActions()
	}
	panic(fmt.Sprintf("unknown phase %s", s.phase))
}

// IsLegal reports whether action is among the current legal actions.
func (s *State) IsLegal(action int) bool {
	return slices.Contains(s.LegalActions(), action)
}

// ApplyAction advances the hand. It panics when the action is not legal.
func (s *State) ApplyAction(action int) {
	if s.IsTerminal() {
		panic(fmt.Sprintf("action %d applied to a finished hand", action))
	}
	if !s.IsLegal(action) {
		panic(fmt.Sprintf("illegal action %d in phase %s for player %d", action, s.phase, s.CurrentPlayer()))
	}

	switch s.phase {
	case rules.PhaseSetup:
		s.setupApply(action)
	case rules.PhaseBidding:
		s.biddingApply(action)
	case rules.PhaseDealTalon:
		s.talonApply(action)
	case rules.PhaseSkart:
		s.skartApply(action)
	case rules.PhaseAnnouncements:
		s.announcementsApply(action)
	case rules.PhasePlay:
		s.playApply(action)
	}
	s.history = append(s.history, action)

	for !s.IsTerminal() && s.phaseOver() {
		s.advancePhase()
	}
}

func (s *State) phaseOver() bool {
	switch s.phase {
	case rules.PhaseSetup:
		return s.setupOver()
	case rules.PhaseBidding:
		return s.bidding.over
	case rules.PhaseDealTalon:
		return s.talonOver()
	case rules.PhaseSkart:
		return s.skartCurrentPlayer() == TerminalPlayer
	case rules.PhaseAnnouncements:
		return s.announcements.over
	}
	return false
}

func (s *State) advancePhase() {
	switch s.phase {
	case rules.PhaseSetup:
		s.phase = rules.PhaseBidding
		s.startBidding()
	case rules.PhaseBidding:
		s.finishBidding()
		s.phase = rules.PhaseDealTalon
		s.startTalon()
	case rules.PhaseDealTalon:
		s.phase = rules.PhaseSkart
		s.skart = skartState{}
	case rules.PhaseSkart:
		s.phase = rules.PhaseAnnouncements
		s.startAnnouncements()
	case rules.PhaseAnnouncements:
		s.phase = rules.PhasePlay
		s.startPlay()
	default:
		panic(fmt.Sprintf("no phase after %s", s.phase))
	}
}

// end finishes the hand early with fixed returns.
func (s *State) end(returns [cards.NumPlayers]int) {
	s.ended = true
	s.endReturns = returns
}

// Returns gives each player's payoff. It is all zeros until the hand is
// over.
func (s *State) Returns() [cards.NumPlayers]int {
	if s.ended {
		return s.endReturns
	}
	if !s.IsTerminal() {
		return [cards.NumPlayers]int{}
	}
	return scoring.CalculateScores(s.Summary())
}

// ChanceOutcomes lists the chance actions with their probabilities. It is
// empty outside the chance phases.
func (s *State) ChanceOutcomes() []ChanceOutcome {
	if !s.IsChanceNode() {
		return nil
	}
	if s.phase == rules.PhaseSetup {
		return s.setupChanceOutcomes()
	}
	return s.talonChanceOutcomes()
}

// SampleChance draws one chance action from ChanceOutcomes.
func (s *State) SampleChance(rng *rand.Rand) int {
	outcomes := s.ChanceOutcomes()
	if len(outcomes) == 0 {
		panic(fmt.Sprintf("no chance outcomes in phase %s", s.phase))
	}
	x := rng.Float64()
	for _, o := range outcomes {
		x -= o.Probability
		if x < 0 {
			return o.Action
		}
	}
	return outcomes[len(outcomes)-1].Action
}

// Clone returns an independent copy of the hand.
func (s *State) Clone() *State {
	c := *s
	c.rec.partner = clonePtr(s.rec.partner)
	c.rec.mandatoryCard = clonePtr(s.rec.mandatoryCard)
	c.rec.cueBidder = clonePtr(s.rec.cueBidder)
	c.rec.tricks = slices.Clone(s.rec.tricks)
	c.bidding.cue = clonePtr(s.bidding.cue)
	c.history = slices.Clone(s.history)
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func nextSeat(p int) int {
	return (p + 1) % cards.NumPlayers
}
