package cards

import "fmt"

const (
	NumTaroks       = 22
	NumSuits        = 4
	NumRanksPerSuit = 5
	DeckSize        = 42
	NumPlayers      = 4
	HandSize        = 9
	TalonSize       = 6
	NumTricks       = 9

	// TotalPoints is the sum of all card point values in the deck.
	TotalPoints = 94
)

// Card identifies one of the 42 cards. Taroks occupy 0..21 in ascending
// trump strength, suit cards follow at 22 + suit*5 + rank.
type Card int

// Suit is the suit of a card. Taroks form their own suit.
type Suit int

const (
	SuitHearts Suit = iota
	SuitDiamonds
	SuitClubs
	SuitSpades
	SuitTarok
)

var suitNames = map[Suit]string{
	SuitHearts:   "Hearts",
	SuitDiamonds: "Diamonds",
	SuitClubs:    "Clubs",
	SuitSpades:   "Spades",
	SuitTarok:    "Tarok",
}

func (s Suit) String() string {
	if name, ok := suitNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SUIT_%d", int(s))
}

// Rank is the rank of a suit card.
type Rank int

const (
	RankAceTen Rank = iota
	RankJack
	RankRider
	RankQueen
	RankKing
)

var rankNames = map[Rank]string{
	RankAceTen: "Ace/Ten",
	RankJack:   "Jack",
	RankRider:  "Rider",
	RankQueen:  "Queen",
	RankKing:   "King",
}

func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return fmt.Sprintf("RANK_%d", int(r))
}

var suitLetters = [NumSuits]string{"H", "D", "C", "S"}
var rankLetters = [NumRanksPerSuit]string{"A", "J", "R", "Q", "K"}

// Tarok returns the tarok with the given 1-based rank (1 = Pagat, 22 = Skiz).
func Tarok(rank int) Card {
	if rank < 1 || rank > NumTaroks {
		panic(fmt.Sprintf("tarok rank %d out of range", rank))
	}
	return Card(rank - 1)
}

// SuitCard returns the card of the given suit and rank.
func SuitCard(suit Suit, rank Rank) Card {
	if suit == SuitTarok {
		panic("SuitCard called with tarok suit")
	}
	return Card(NumTaroks + int(suit)*NumRanksPerSuit + int(rank))
}

// Named taroks.
const (
	Pagat Card = 0
	XVIII Card = 17
	XIX   Card = 18
	XX    Card = 19
	XXI   Card = 20
	Skiz  Card = 21
)

var (
	// Honors are the three cards that make up tuletroa.
	Honors = [3]Card{Pagat, XXI, Skiz}
	Kings  = [NumSuits]Card{
		SuitCard(SuitHearts, RankKing),
		SuitCard(SuitDiamonds, RankKing),
		SuitCard(SuitClubs, RankKing),
		SuitCard(SuitSpades, RankKing),
	}
)

// Valid reports whether c is a card of the deck.
func (c Card) Valid() bool {
	return c >= 0 && c < DeckSize
}

func (c Card) check() {
	if !c.Valid() {
		panic(fmt.Sprintf("card %d out of range", int(c)))
	}
}

// IsTarok reports whether c belongs to the trump suit.
func (c Card) IsTarok() bool {
	c.check()
	return c < NumTaroks
}

// IsHonor reports whether c is Pagat, XXI or Skiz.
func (c Card) IsHonor() bool {
	return c == Pagat || c == XXI || c == Skiz
}

// IsKing reports whether c is a suit King.
func (c Card) IsKing() bool {
	return !c.IsTarok() && c.Rank() == RankKing
}

func (c Card) Suit() Suit {
	c.check()
	if c < NumTaroks {
		return SuitTarok
	}
	return Suit((int(c) - NumTaroks) / NumRanksPerSuit)
}

// Rank returns the rank of a suit card. It panics for taroks.
func (c Card) Rank() Rank {
	if c.IsTarok() {
		panic(fmt.Sprintf("tarok %s has no suit rank", c))
	}
	return Rank((int(c) - NumTaroks) % NumRanksPerSuit)
}

// Points returns the card point value used for counting the game.
func (c Card) Points() int {
	if c.IsTarok() {
		if c.IsHonor() {
			return 5
		}
		return 1
	}
	switch c.Rank() {
	case RankKing:
		return 5
	case RankQueen:
		return 4
	case RankRider:
		return 3
	case RankJack:
		return 2
	default:
		return 1
	}
}

// Beats reports whether a beats b when b is the card to beat in a trick.
func Beats(a, b Card) bool {
	suitA, suitB := a.Suit(), b.Suit()
	switch {
	case suitA == SuitTarok && suitB != SuitTarok:
		return true
	case suitA != SuitTarok && suitB == SuitTarok:
		return false
	case suitA != suitB:
		return false
	default:
		return a > b
	}
}

func (c Card) String() string {
	if !c.Valid() {
		return fmt.Sprintf("CARD_%d", int(c))
	}
	if c < NumTaroks {
		if c == Skiz {
			return "Skiz"
		}
		return romanNumeral(int(c) + 1)
	}
	return rankLetters[c.Rank()] + "/" + suitLetters[c.Suit()]
}

func romanNumeral(n int) string {
	symbols := []struct {
		value  int
		symbol string
	}{{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"}}
	out := ""
	for _, s := range symbols {
		for n >= s.value {
			out += s.symbol
			n -= s.value
		}
	}
	return out
}
