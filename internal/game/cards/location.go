package cards

import (
	"fmt"
	"strings"
)

// Location tags where a card currently is. Values 0..3 are player hands,
// 4..7 the won-cards piles of those players.
type Location int

const (
	Talon Location = 8 + iota
	DeclarerSkart
	OpponentsSkart
	CurrentTrick
)

// Hand returns the hand location of player p.
func Hand(p int) Location {
	checkPlayer(p)
	return Location(p)
}

// WonCards returns the won-cards pile location of player p.
func WonCards(p int) Location {
	checkPlayer(p)
	return Location(p + NumPlayers)
}

func checkPlayer(p int) {
	if p < 0 || p >= NumPlayers {
		panic(fmt.Sprintf("player %d out of range", p))
	}
}

// IsHand reports whether l is one of the four hands.
func (l Location) IsHand() bool {
	return l >= 0 && l < NumPlayers
}

// IsWonCards reports whether l is one of the four won-cards piles.
func (l Location) IsWonCards() bool {
	return l >= NumPlayers && l < 2*NumPlayers
}

// Player returns the player owning a hand or won-cards pile.
func (l Location) Player() int {
	switch {
	case l.IsHand():
		return int(l)
	case l.IsWonCards():
		return int(l) - NumPlayers
	}
	panic(fmt.Sprintf("location %s has no owning player", l))
}

func (l Location) String() string {
	switch {
	case l.IsHand():
		return fmt.Sprintf("Player%dHand", int(l))
	case l.IsWonCards():
		return fmt.Sprintf("Player%dWonCards", int(l)-NumPlayers)
	}
	switch l {
	case Talon:
		return "Talon"
	case DeclarerSkart:
		return "DeclarerSkart"
	case OpponentsSkart:
		return "OpponentsSkart"
	case CurrentTrick:
		return "CurrentTrick"
	}
	return fmt.Sprintf("LOCATION_%d", int(l))
}

// Deck maps every card to its location. It is the only record of who holds
// what.
type Deck [DeckSize]Location

// NewDeck returns a deck with every card in the talon.
func NewDeck() Deck {
	var d Deck
	for c := range d {
		d[c] = Talon
	}
	return d
}

// Cards returns the cards at location l in ascending order.
func (d Deck) Cards(l Location) []Card {
	out := make([]Card, 0, HandSize+3)
	for c, loc := range d {
		if loc == l {
			out = append(out, Card(c))
		}
	}
	return out
}

// Count returns the number of cards at location l.
func (d Deck) Count(l Location) int {
	n := 0
	for _, loc := range d {
		if loc == l {
			n++
		}
	}
	return n
}

// Hand returns the cards held by player p.
func (d Deck) Hand(p int) []Card {
	return d.Cards(Hand(p))
}

func (d Deck) HandSize(p int) int {
	return d.Count(Hand(p))
}

// Holds reports whether player p has card c in hand.
func (d Deck) Holds(p int, c Card) bool {
	c.check()
	return d[c] == Hand(p)
}

// HoldsHonor reports whether player p has any of the three honours in hand.
func (d Deck) HoldsHonor(p int) bool {
	for _, h := range Honors {
		if d.Holds(p, h) {
			return true
		}
	}
	return false
}

// HonorCount returns how many honours player p has in hand.
func (d Deck) HonorCount(p int) int {
	n := 0
	for _, h := range Honors {
		if d.Holds(p, h) {
			n++
		}
	}
	return n
}

// TarokCount returns how many taroks player p has in hand.
func (d Deck) TarokCount(p int) int {
	n := 0
	for c := Card(0); c < NumTaroks; c++ {
		if d.Holds(p, c) {
			n++
		}
	}
	return n
}

func (d Deck) String() string {
	var b strings.Builder
	for p := 0; p < NumPlayers; p++ {
		hand := d.Hand(p)
		fmt.Fprintf(&b, "Player %d hand:", p)
		for _, c := range hand {
			fmt.Fprintf(&b, " %s", c)
		}
		fmt.Fprintf(&b, " (total %d)\n", len(hand))
	}
	return b.String()
}
