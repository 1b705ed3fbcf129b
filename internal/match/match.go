package match

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"github.com/tarokfree/tarok-server-go/internal/game"
	"github.com/tarokfree/tarok-server-go/internal/game/cards"
	"github.com/tarokfree/tarok-server-go/internal/game/rules"
)

// Match lifecycle states.
const (
	StateWaiting      = "waiting"
	StatePlaying      = "playing"
	StateBetweenHands = "between_hands"
	StateFinished     = "finished"
)

const (
	eventDeal    = "deal"
	eventScore   = "score"
	eventAbandon = "abandon"
	eventFinish  = "finish"
)

var (
	ErrMatchFinished  = errors.New("match is finished")
	ErrHandInProgress = errors.New("hand already in progress")
	ErrBadChoice      = errors.New("chooser returned an illegal action")
)

// Chooser picks an action id from view.LegalActions for the seat to act.
type Chooser func(view *game.GameView) int

// HandResult records one finished hand of a match.
type HandResult struct {
	Number   int
	GameID   string
	Seating  []string // player names by seat for this hand
	Declarer string   // empty when nobody won the auction
	Outcome  string
	Returns  map[string]int
	Actions  int
	Checksum string // hash of the final snapshot
}

// Standing is one line of the match table.
type Standing struct {
	Name   string
	Points int
}

// Summary is a consistent copy of a match.
type Summary struct {
	ID         string
	Players    []string
	Hands      int
	Played     int
	State      string
	Totals     map[string]int
	Results    []HandResult
	CreateTime time.Time
	EndTime    *time.Time
}

// Standings orders the totals by points, best first, ties by name.
func (s Summary) Standings() []Standing {
	out := make([]Standing, 0, len(s.Totals))
	for name, pts := range s.Totals {
		out = append(out, Standing{Name: name, Points: pts})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Match plays a fixed number of hands among four players on one engine.
// The first seat moves one place round the table every hand.
type Match struct {
	ID      string
	Players []string
	Hands   int

	engine   *game.Engine
	logger   *zap.Logger
	sm       *fsm.FSM
	totals   map[string]int
	results  []HandResult
	created  time.Time
	ended    *time.Time
	onFinish func(Summary)
	seq      int
	mu       sync.RWMutex
}

// New creates a match in the waiting state.
func New(engine *game.Engine, logger *zap.Logger, players []string, hands int) (*Match, error) {
	if engine == nil {
		return nil, errors.New("match needs an engine")
	}
	if len(players) != cards.NumPlayers {
		return nil, fmt.Errorf("need %d players, got %d", cards.NumPlayers, len(players))
	}
	if hands < 1 {
		return nil, fmt.Errorf("hands must be positive, got %d", hands)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Match{
		ID:      uuid.New().String(),
		Players: append([]string(nil), players...),
		Hands:   hands,
		engine:  engine,
		totals:  make(map[string]int, len(players)),
		created: time.Now(),
	}
	for _, p := range players {
		if _, dup := m.totals[p]; dup || p == "" {
			return nil, fmt.Errorf("invalid or repeated player name %q", p)
		}
		m.totals[p] = 0
	}
	m.logger = logger.With(zap.String("match_id", m.ID))

	m.sm = fsm.NewFSM(
		StateWaiting,
		fsm.Events{
			{Name: eventDeal, Src: []string{StateWaiting, StateBetweenHands}, Dst: StatePlaying},
			{Name: eventScore, Src: []string{StatePlaying}, Dst: StateBetweenHands},
			{Name: eventAbandon, Src: []string{StatePlaying}, Dst: StateBetweenHands},
			{Name: eventFinish, Src: []string{StateBetweenHands}, Dst: StateFinished},
		},
		fsm.Callbacks{
			"enter_state":    func(e *fsm.Event) { m.enterState(e) },
			"enter_finished": func(e *fsm.Event) { m.enterFinished() },
		},
	)
	return m, nil
}

func (m *Match) enterState(e *fsm.Event) {
	m.logger.Debug("match state changed",
		zap.String("from", e.Src),
		zap.String("to", e.Dst),
		zap.String("event", e.Event),
	)
}

// enterFinished runs with m.mu held by PlayHand.
func (m *Match) enterFinished() {
	now := time.Now()
	m.ended = &now
	m.logger.Info("match finished",
		zap.Int("hands", len(m.results)),
		zap.Any("totals", m.totals),
	)
	if m.onFinish != nil {
		m.onFinish(m.summaryLocked())
	}
}

// State returns the lifecycle state.
func (m *Match) State() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sm.Current()
}

// Seating returns the player names by seat for the given zero-based hand.
func (m *Match) Seating(hand int) []string {
	seats := make([]string, cards.NumPlayers)
	for i := range seats {
		seats[i] = m.Players[(i+hand)%cards.NumPlayers]
	}
	return seats
}

// PlayHand deals the next hand and drives it to the end, asking chooser for
// every player decision. Chance is resolved through the engine.
func (m *Match) PlayHand(ctx context.Context, chooser Chooser) (*HandResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.sm.Current() {
	case StateFinished:
		return nil, fmt.Errorf("match %s: %w", m.ID, ErrMatchFinished)
	case StatePlaying:
		return nil, fmt.Errorf("match %s: %w", m.ID, ErrHandInProgress)
	}

	number := len(m.results) + 1
	seating := m.Seating(number - 1)
	gameID := fmt.Sprintf("%s-hand-%d", m.ID, number)

	if err := m.sm.Event(eventDeal); err != nil {
		return nil, fmt.Errorf("failed to deal hand %d: %w", number, err)
	}
	if _, err := m.engine.StartGame(gameID, seating); err != nil {
		m.abandonLocked(gameID, false)
		return nil, fmt.Errorf("failed to start hand %d: %w", number, err)
	}

	view, err := m.drive(ctx, gameID, seating, chooser)
	if err != nil {
		m.abandonLocked(gameID, true)
		return nil, fmt.Errorf("hand %d: %w", number, err)
	}

	result := HandResult{
		Number:   number,
		GameID:   gameID,
		Seating:  seating,
		Declarer: seatName(seating, view.Declarer),
		Outcome:  outcomeOf(view),
		Returns:  make(map[string]int, cards.NumPlayers),
	}
	if replay, err := m.engine.Replay(gameID); err == nil {
		if latest := replay.Latest(); latest != nil {
			result.Actions = len(latest.Actions)
			if checksum, err := latest.ComputeChecksum(); err == nil {
				result.Checksum = checksum.Hash
			}
		}
	}
	for seat, pts := range view.Returns {
		result.Returns[seating[seat]] = pts
		m.totals[seating[seat]] += pts
	}
	m.results = append(m.results, result)

	if err := m.engine.EndGame(gameID); err != nil {
		m.logger.Warn("failed to release hand", zap.String("game_id", gameID), zap.Error(err))
	}

	m.logger.Info("match hand finished",
		zap.Int("hand", number),
		zap.String("game_id", gameID),
		zap.String("declarer", result.Declarer),
		zap.String("outcome", result.Outcome),
		zap.Ints("returns", view.Returns[:]),
	)

	if err := m.sm.Event(eventScore); err != nil {
		return nil, fmt.Errorf("failed to score hand %d: %w", number, err)
	}
	if number == m.Hands {
		if err := m.sm.Event(eventFinish); err != nil {
			return nil, fmt.Errorf("failed to finish match: %w", err)
		}
	}

	out := result
	return &out, nil
}

// Play runs the remaining hands.
func (m *Match) Play(ctx context.Context, chooser Chooser) (Summary, error) {
	for m.State() != StateFinished {
		if _, err := m.PlayHand(ctx, chooser); err != nil {
			return m.Summary(), err
		}
	}
	return m.Summary(), nil
}

func (m *Match) drive(ctx context.Context, gameID string, seating []string, chooser Chooser) (*game.GameView, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		view, err := m.engine.GetGameView(gameID, seating[0])
		if err != nil {
			return nil, err
		}
		if view.Terminal {
			return view, nil
		}
		if view.CurrentPlayer == game.ChancePlayer {
			if _, err := m.engine.AutoResolveChance(gameID); err != nil {
				return nil, err
			}
			continue
		}

		current := seating[view.CurrentPlayer]
		seatView, err := m.engine.GetGameView(gameID, current)
		if err != nil {
			return nil, err
		}
		action := chooser(seatView)
		err = m.engine.ProcessAction(gameID, game.PlayerAction{
			PlayerID:  current,
			Action:    action,
			Timestamp: time.Now(),
		})
		if errors.Is(err, game.ErrIllegalAction) {
			return nil, fmt.Errorf("%s chose %d in %s: %w", current, action, seatView.Phase, ErrBadChoice)
		}
		if err != nil {
			return nil, err
		}
	}
}

func (m *Match) abandonLocked(gameID string, started bool) {
	if started {
		if err := m.engine.EndGame(gameID); err != nil {
			m.logger.Warn("failed to release hand", zap.String("game_id", gameID), zap.Error(err))
		}
	}
	if err := m.sm.Event(eventAbandon); err != nil {
		m.logger.Error("failed to abandon hand", zap.Error(err))
	}
	m.logger.Warn("match hand abandoned", zap.String("game_id", gameID))
}

// Summary returns a consistent copy of the match.
func (m *Match) Summary() Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.summaryLocked()
}

func (m *Match) summaryLocked() Summary {
	totals := make(map[string]int, len(m.totals))
	for k, v := range m.totals {
		totals[k] = v
	}
	results := make([]HandResult, len(m.results))
	for i, r := range m.results {
		r.Seating = append([]string(nil), r.Seating...)
		returns := make(map[string]int, len(r.Returns))
		for k, v := range r.Returns {
			returns[k] = v
		}
		r.Returns = returns
		results[i] = r
	}
	var ended *time.Time
	if m.ended != nil {
		cp := *m.ended
		ended = &cp
	}
	return Summary{
		ID:         m.ID,
		Players:    append([]string(nil), m.Players...),
		Hands:      m.Hands,
		Played:     len(m.results),
		State:      m.sm.Current(),
		Totals:     totals,
		Results:    results,
		CreateTime: m.created,
		EndTime:    ended,
	}
}

func seatName(seating []string, seat int) string {
	if seat < 0 || seat >= len(seating) {
		return ""
	}
	return seating[seat]
}

func outcomeOf(view *game.GameView) string {
	switch view.Phase {
	case rules.PhaseBidding.String():
		return game.OutcomeAllPassed
	case rules.PhaseDealTalon.String():
		return game.OutcomeTrialThree
	default:
		return game.OutcomePlayed
	}
}
