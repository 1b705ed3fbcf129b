package game

import (
	"github.com/tarokfree/tarok-server-go/internal/game/cards"
	"github.com/tarokfree/tarok-server-go/internal/game/rules"
)

type playState struct {
	leader  int
	current int
	trick   [cards.NumPlayers]cards.Card
	played  int
}

func (s *State) startPlay() {
	s.play = playState{
		leader:  s.rec.declarer,
		current: s.rec.declarer,
	}
}

// CurrentTrick returns the cards played so far in the trick in progress, in
// play order starting with the leader.
func (s *State) CurrentTrick() (leader int, played []cards.Card) {
	if s.phase != rules.PhasePlay {
		return -1, nil
	}
	return s.play.leader, append([]cards.Card(nil), s.play.trick[:s.play.played]...)
}

func (s *State) playLegalActions() []int {
	hand := s.rec.deck.Hand(s.play.current)
	if s.play.played == 0 {
		return cardActions(hand)
	}

	led := s.play.trick[0].Suit()
	var follow, taroks []cards.Card
	for _, c := range hand {
		if c.Suit() == led {
			follow = append(follow, c)
		}
		if c.IsTarok() {
			taroks = append(taroks, c)
		}
	}
	switch {
	case len(follow) > 0:
		return cardActions(follow)
	case len(taroks) > 0:
		return cardActions(taroks)
	default:
		return cardActions(hand)
	}
}

func cardActions(cs []cards.Card) []int {
	actions := make([]int, len(cs))
	for i, c := range cs {
		actions[i] = int(c)
	}
	return actions
}

func (s *State) playApply(action int) {
	pl := &s.play
	c := cards.Card(action)
	s.rec.deck[c] = cards.CurrentTrick
	pl.trick[pl.played] = c
	pl.played++

	if pl.played < cards.NumPlayers {
		pl.current = nextSeat(pl.current)
		return
	}

	best := 0
	for i := 1; i < cards.NumPlayers; i++ {
		if cards.Beats(pl.trick[i], pl.trick[best]) {
			best = i
		}
	}
	winner := (pl.leader + best) % cards.NumPlayers
	for _, tc := range pl.trick {
		s.rec.deck[tc] = cards.WonCards(winner)
	}
	s.rec.tricks = append(s.rec.tricks, rules.Trick{
		Leader: pl.leader,
		Cards:  pl.trick,
		Winner: winner,
	})

	pl.leader = winner
	pl.current = winner
	pl.played = 0
}
