package rules

import (
	"fmt"

	"github.com/tarokfree/tarok-server-go/internal/game/cards"
)

// AnnouncementType is a bonus a side can announce before play.
type AnnouncementType int

const (
	AnnounceFourKings AnnouncementType = iota
	AnnounceTuletroa
	AnnounceDoubleGame
	AnnounceVolat
	AnnouncePagatUltimo
	AnnounceXXICapture
	AnnounceEightTaroks
	AnnounceNineTaroks

	NumAnnouncementTypes = 8
)

var announcementNames = map[AnnouncementType]string{
	AnnounceFourKings:   "Four Kings",
	AnnounceTuletroa:    "Tuletroa",
	AnnounceDoubleGame:  "Double Game",
	AnnounceVolat:       "Volat",
	AnnouncePagatUltimo: "Pagat Ultimo",
	AnnounceXXICapture:  "XXI Capture",
	AnnounceEightTaroks: "Eight Taroks",
	AnnounceNineTaroks:  "Nine Taroks",
}

func (t AnnouncementType) String() string {
	if name, ok := announcementNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ANNOUNCEMENT_%d", int(t))
}

// Contrable reports whether the other side may contra t. Showing eight or
// nine taroks cannot be challenged.
func (t AnnouncementType) Contrable() bool {
	return t != AnnounceEightTaroks && t != AnnounceNineTaroks
}

// AnnouncementLevel is the kind of an announcement action.
type AnnouncementLevel int

const (
	LevelAnnounce AnnouncementLevel = iota
	LevelContra
	LevelReContra
)

var levelNames = map[AnnouncementLevel]string{
	LevelAnnounce: "Announce",
	LevelContra:   "Contra",
	LevelReContra: "Re-Contra",
}

func (l AnnouncementLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL_%d", int(l))
}

const (
	// AnnouncementPass is the announcement action id for passing.
	AnnouncementPass = NumAnnouncementTypes * 3

	// Partner call actions, used before the announcement auction starts.
	CallPartner = 0
	CallSelf    = 1

	// MaxContraLevel bounds how often an announcement can be doubled.
	MaxContraLevel = 5
)

// AnnouncementAction is a decoded announcement action.
type AnnouncementAction struct {
	Type  AnnouncementType
	Level AnnouncementLevel
}

// ToAction encodes the action as level*8 + type.
func (a AnnouncementAction) ToAction() int {
	return int(a.Level)*NumAnnouncementTypes + int(a.Type)
}

// AnnouncementFromAction decodes a non-pass announcement action.
func AnnouncementFromAction(action int) AnnouncementAction {
	if action < 0 || action >= AnnouncementPass {
		panic(fmt.Sprintf("announcement action %d out of range", action))
	}
	return AnnouncementAction{
		Type:  AnnouncementType(action % NumAnnouncementTypes),
		Level: AnnouncementLevel(action / NumAnnouncementTypes),
	}
}

func (a AnnouncementAction) String() string {
	return a.Level.String() + " " + a.Type.String()
}

// AnnounceAction returns the action id announcing t.
func AnnounceAction(t AnnouncementType) int {
	return AnnouncementAction{Type: t, Level: LevelAnnounce}.ToAction()
}

// ContraAction returns the action id contra-ing t.
func ContraAction(t AnnouncementType) int {
	return AnnouncementAction{Type: t, Level: LevelContra}.ToAction()
}

// ReContraAction returns the action id re-contra-ing t.
func ReContraAction(t AnnouncementType) int {
	return AnnouncementAction{Type: t, Level: LevelReContra}.ToAction()
}

// AnnouncementSide records what one side announced and how far each
// announcement has been contra'd. Odd levels await a re-contra from the
// announcing side, even levels a contra from the other side.
type AnnouncementSide struct {
	Announced   [NumAnnouncementTypes]bool
	ContraLevel [NumAnnouncementTypes]int
}

// Multiplier returns 1 for an unannounced type and 2^(1+level) otherwise.
func (s AnnouncementSide) Multiplier(t AnnouncementType) int {
	if !s.Announced[t] {
		return 1
	}
	return 1 << (1 + s.ContraLevel[t])
}

// CanContra reports whether the other side may contra t of this side.
func (s AnnouncementSide) CanContra(t AnnouncementType) bool {
	level := s.ContraLevel[t]
	return t.Contrable() && s.Announced[t] && level%2 == 0 && level < MaxContraLevel
}

// CanReContra reports whether this side may re-contra its own t.
func (s AnnouncementSide) CanReContra(t AnnouncementType) bool {
	level := s.ContraLevel[t]
	return s.Announced[t] && level%2 == 1 && level < MaxContraLevel
}

// Trick is one completed trick.
type Trick struct {
	Leader int
	Cards  [cards.NumPlayers]cards.Card
	Winner int
}

// PlayedBy returns the player who played card c in the trick.
func (t Trick) PlayedBy(c cards.Card) (int, bool) {
	for i, tc := range t.Cards {
		if tc == c {
			return (t.Leader + i) % cards.NumPlayers, true
		}
	}
	return 0, false
}

// Contains reports whether c was played in the trick.
func (t Trick) Contains(c cards.Card) bool {
	_, ok := t.PlayedBy(c)
	return ok
}
