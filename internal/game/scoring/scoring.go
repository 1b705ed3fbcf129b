// Package scoring turns the outcome of a played hand into per-player returns.
package scoring

import (
	"github.com/tarokfree/tarok-server-go/internal/game/cards"
	"github.com/tarokfree/tarok-server-go/internal/game/rules"
)

// PagatUltimoResult describes what happened to Pagat in the last trick.
type PagatUltimoResult int

const (
	PagatNotInLastTrick PagatUltimoResult = iota
	PagatSucceeded
	PagatFailed
)

func (r PagatUltimoResult) String() string {
	switch r {
	case PagatSucceeded:
		return "SUCCEEDED"
	case PagatFailed:
		return "FAILED"
	default:
		return "NOT_IN_LAST_TRICK"
	}
}

const (
	TuletroaScore    = 1
	FourKingsScore   = 1
	PagatUltimoScore = 5
	XXICaptureScore  = 21
	EightTaroksScore = 1
	NineTaroksScore  = 2

	DoubleGameMultiplier = 2
	VolatMultiplier      = 3
	SoloMultiplier       = 3

	DoubleGameThreshold = 70
	GameThreshold       = cards.TotalPoints / 2
)

// Summary is everything the score formula needs to know about a finished
// hand. Winner fields are nil when no side achieved the bonus.
type Summary struct {
	WinningBid  int
	HasPartner  bool
	PlayerSides [cards.NumPlayers]rules.Side

	DeclarerSide  rules.AnnouncementSide
	OpponentsSide rules.AnnouncementSide

	DeclarerCardPoints int

	TuletroaWinner   *rules.Side
	FourKingsWinner  *rules.Side
	XXICaptureWinner *rules.Side
	DoubleGameWinner *rules.Side
	VolatWinner      *rules.Side

	PagatUltimoResult PagatUltimoResult
	PagatHolderSide   rules.Side
}

// SideOf is a convenience for building winner fields.
func SideOf(s rules.Side) *rules.Side {
	return &s
}

func (s *Summary) side(side rules.Side) rules.AnnouncementSide {
	if side == rules.SideDeclarer {
		return s.DeclarerSide
	}
	return s.OpponentsSide
}

func (s *Summary) announced(side rules.Side, t rules.AnnouncementType) bool {
	return s.side(side).Announced[t]
}

func (s *Summary) multiplier(side rules.Side, t rules.AnnouncementType) int {
	return s.side(side).Multiplier(t)
}

// tally accumulates the declarer side's score. The opponents hold its negation.
type tally struct {
	summary *Summary
	score   int
}

func (t *tally) credit(side rules.Side, amount int) {
	if side == rules.SideDeclarer {
		t.score += amount
	} else {
		t.score -= amount
	}
}

// add pays base to the winning side and charges every side that announced
// the type without winning it.
func (t *tally) add(winner *rules.Side, base int, typ rules.AnnouncementType) {
	if winner != nil {
		t.credit(*winner, base*t.summary.multiplier(*winner, typ))
	}
	for _, side := range []rules.Side{rules.SideDeclarer, rules.SideOpponents} {
		if t.summary.announced(side, typ) && (winner == nil || *winner != side) {
			t.credit(side, -base*t.summary.multiplier(side, typ))
		}
	}
}

func (t *tally) addPagatUltimo() {
	s := t.summary
	holder := s.PagatHolderSide
	typ := rules.AnnouncePagatUltimo
	base := PagatUltimoScore

	switch s.PagatUltimoResult {
	case PagatSucceeded:
		t.credit(holder, base*s.multiplier(holder, typ))
	case PagatFailed:
		// The other side collects the plain bonus, and a holder side that
		// announced also pays for the failed announcement.
		t.credit(holder, -base)
		if s.announced(holder, typ) {
			t.credit(holder, -base*s.multiplier(holder, typ))
		}
	default:
		if s.announced(holder, typ) {
			t.credit(holder, -base*s.multiplier(holder, typ))
		}
	}
	if other := holder.Other(); s.announced(other, typ) {
		t.credit(other, -base*s.multiplier(other, typ))
	}
}

// suppressedBy drops a winner that only won silently while the other side
// made volat.
func (t *tally) suppressedBy(volat *rules.Side, winner *rules.Side, typ rules.AnnouncementType) *rules.Side {
	if volat == nil || winner == nil || *winner == *volat {
		return winner
	}
	if t.summary.announced(*winner, typ) {
		return winner
	}
	return nil
}

// CalculateScores returns the payoff of each player. The result is zero-sum.
func CalculateScores(s Summary) [cards.NumPlayers]int {
	base := rules.MaxBidNumber - s.WinningBid
	t := &tally{summary: &s}

	t.add(t.suppressedBy(s.VolatWinner, s.TuletroaWinner, rules.AnnounceTuletroa), TuletroaScore, rules.AnnounceTuletroa)
	t.add(t.suppressedBy(s.VolatWinner, s.FourKingsWinner, rules.AnnounceFourKings), FourKingsScore, rules.AnnounceFourKings)
	t.add(s.XXICaptureWinner, XXICaptureScore, rules.AnnounceXXICapture)
	t.addPagatUltimo()

	doubleGame := s.DoubleGameWinner
	if s.VolatWinner != nil && doubleGame != nil && !s.announced(*doubleGame, rules.AnnounceDoubleGame) {
		doubleGame = nil
	}
	t.add(doubleGame, base*DoubleGameMultiplier, rules.AnnounceDoubleGame)
	t.add(s.VolatWinner, base*VolatMultiplier, rules.AnnounceVolat)

	// The plain game is already contained in a double game or volat.
	if doubleGame == nil && s.VolatWinner == nil {
		if s.DeclarerCardPoints > GameThreshold {
			t.credit(rules.SideDeclarer, base)
		} else {
			t.credit(rules.SideDeclarer, -base)
		}
	}

	for _, side := range []rules.Side{rules.SideDeclarer, rules.SideOpponents} {
		as := s.side(side)
		if as.Announced[rules.AnnounceEightTaroks] {
			t.credit(side, EightTaroksScore)
		}
		if as.Announced[rules.AnnounceNineTaroks] {
			t.credit(side, NineTaroksScore)
		}
	}

	var out [cards.NumPlayers]int
	for p := range out {
		switch {
		case s.PlayerSides[p] == rules.SideOpponents:
			out[p] = -t.score
		case s.HasPartner:
			out[p] = t.score
		default:
			out[p] = t.score * SoloMultiplier
		}
	}
	return out
}
