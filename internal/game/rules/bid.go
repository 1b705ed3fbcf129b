package rules

import (
	"fmt"

	"github.com/tarokfree/tarok-server-go/internal/game/cards"
)

// BidPass is the bidding action id for passing.
const BidPass = 7

// MaxBidNumber is the number of the initial sentinel bid.
const MaxBidNumber = 4

// Bid is a bid in the auction. Lower numbers are stronger, and a hold of a
// number is stronger than the plain bid of the same number. The number also
// is the count of talon cards the declarer takes.
type Bid struct {
	Number int
	Hold   bool
}

// InitialBid is the sentinel standing before anyone has bid.
func InitialBid() Bid {
	return Bid{Number: MaxBidNumber, Hold: true}
}

// ToAction encodes the bid as number*2 + hold.
func (b Bid) ToAction() int {
	a := b.Number * 2
	if b.Hold {
		a++
	}
	return a
}

// BidFromAction decodes a non-pass bidding action.
func BidFromAction(action int) Bid {
	if action < 0 || action >= BidPass {
		panic(fmt.Sprintf("bid action %d out of range", action))
	}
	return Bid{Number: action / 2, Hold: action%2 == 1}
}

// Better reports whether b strictly improves on current.
func (b Bid) Better(current Bid) bool {
	if b.Number == current.Number {
		return b.Hold && !current.Hold
	}
	return b.Number < current.Number
}

func (b Bid) String() string {
	if b.Hold {
		return fmt.Sprintf("Hold %d", b.Number)
	}
	return fmt.Sprintf("Bid %d", b.Number)
}

// Distance returns how many steps candidate is ahead of current for a bidder.
// A bidder who has bid before sees the hold of an unheld bid as the first
// step; a first-time bidder cannot hold at all. The second result is false
// when candidate is not a valid raise or lies more than four steps ahead.
func Distance(current, candidate Bid, firstBid bool) (int, bool) {
	if candidate.Hold {
		if !firstBid && !current.Hold && candidate.Number == current.Number {
			return 1, true
		}
		return 0, false
	}
	if candidate.Number >= current.Number {
		return 0, false
	}
	d := current.Number - candidate.Number
	if !current.Hold && !firstBid {
		d++
	}
	if d < 1 || d > 4 {
		return 0, false
	}
	return d, true
}

// BidType classifies the winning bid of an auction.
type BidType int

const (
	BidStandard BidType = iota
	BidCueXIX
	BidCueXVIII
	BidStraightSolo
	BidYielded
)

var bidTypeNames = map[BidType]string{
	BidStandard:     "STANDARD",
	BidCueXIX:       "CUE_XIX",
	BidCueXVIII:     "CUE_XVIII",
	BidStraightSolo: "STRAIGHT_SOLO",
	BidYielded:      "YIELDED",
}

func (t BidType) String() string {
	if name, ok := bidTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("BID_TYPE_%d", int(t))
}

// BidTypeOf maps a raise distance to its bid type.
func BidTypeOf(distance int) BidType {
	switch distance {
	case 1:
		return BidStandard
	case 2:
		return BidCueXIX
	case 3:
		return BidCueXVIII
	case 4:
		return BidStraightSolo
	}
	panic(fmt.Sprintf("bid distance %d out of range", distance))
}

// IsCue reports whether t is one of the two cue bids.
func (t BidType) IsCue() bool {
	return t == BidCueXIX || t == BidCueXVIII
}

// CueCard returns the card a cue bid points at.
func (t BidType) CueCard() cards.Card {
	switch t {
	case BidCueXIX:
		return cards.XIX
	case BidCueXVIII:
		return cards.XVIII
	}
	panic(fmt.Sprintf("bid type %s has no cue card", t))
}
