package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/tarokfree/tarok-server-go/internal/game/cards"
	"github.com/tarokfree/tarok-server-go/internal/game/rules"
)

var (
	ErrGameNotFound  = errors.New("game not found")
	ErrGameExists    = errors.New("game already exists")
	ErrGameOver      = errors.New("game has ended")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrIllegalAction = errors.New("illegal action")
	ErrNotSeated     = errors.New("player not seated")
	ErrNoChance      = errors.New("no chance action pending")
)

// PlayerAction is an action submitted by a seated player.
type PlayerAction struct {
	PlayerID  string
	Action    int
	Timestamp time.Time
}

// ActionView is a legal action with its human-readable label.
type ActionView struct {
	ID    int
	Label string
}

// GameView is what one seat sees of a hand.
type GameView struct {
	GameID        string
	PlayerID      string
	Seat          int
	Players       []string
	Phase         string
	CurrentPlayer int
	Hand          []cards.Card
	HandSizes     [cards.NumPlayers]int
	Declarer      int
	Partner       int // -1 until known or when solo
	WinningBid    int
	TrickLeader   int
	CurrentTrick  []cards.Card
	Tricks        []rules.Trick
	LegalActions  []ActionView
	Terminal      bool
	Returns       [cards.NumPlayers]int
	StartedAt     time.Time
}

// MyTurn reports whether the viewing seat is to act.
func (v *GameView) MyTurn() bool {
	return !v.Terminal && v.CurrentPlayer == v.Seat
}

type engineGame struct {
	id        string
	players   []string
	seats     map[string]int
	state     *State
	replay    *Replay
	startedAt time.Time
	mu        sync.Mutex
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithSeed makes chance resolution reproducible.
func WithSeed(seed uint64) EngineOption {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithReplayLimit bounds the snapshots kept per hand. Zero keeps all.
func WithReplayLimit(limit int) EngineOption {
	return func(e *Engine) {
		e.replayLimit = limit
	}
}

// WithRegisterer registers the engine metrics with reg instead of a private
// registry.
func WithRegisterer(reg prometheus.Registerer) EngineOption {
	return func(e *Engine) {
		e.registerer = reg
	}
}

// WithManualChance leaves chance actions to ResolveChance instead of
// resolving them after every player action.
func WithManualChance() EngineOption {
	return func(e *Engine) {
		e.autoChance = false
	}
}

// Engine runs many hands concurrently, keyed by game id.
type Engine struct {
	logger *zap.Logger
	events *rules.EventBus

	mu    sync.RWMutex
	games map[string]*engineGame

	rngMu       sync.Mutex
	rng         *rand.Rand
	replayLimit int
	autoChance  bool

	registerer prometheus.Registerer
	metrics    *engineMetrics
}

// NewEngine creates an engine. A nil logger disables logging.
func NewEngine(logger *zap.Logger, opts ...EngineOption) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		logger:     logger,
		events:     rules.NewEventBus(),
		games:      make(map[string]*engineGame),
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		autoChance: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.registerer == nil {
		e.registerer = prometheus.NewRegistry()
	}
	e.metrics = newEngineMetrics(e.registerer)
	return e
}

// Events returns the bus every hand publishes to. Listeners run while the
// publishing hand is locked and must not call back into the engine for it.
func (e *Engine) Events() *rules.EventBus {
	return e.events
}

// StartGame seats four players and deals a new hand. An empty gameID gets a
// generated one. The id in use is returned.
func (e *Engine) StartGame(gameID string, players []string) (string, error) {
	if len(players) != cards.NumPlayers {
		return "", fmt.Errorf("need %d players, got %d", cards.NumPlayers, len(players))
	}
	seats := make(map[string]int, len(players))
	for i, p := range players {
		if p == "" {
			return "", fmt.Errorf("player %d has no id", i)
		}
		if _, dup := seats[p]; dup {
			return "", fmt.Errorf("player %s seated twice", p)
		}
		seats[p] = i
	}
	if gameID == "" {
		gameID = uuid.New().String()
	}

	g := &engineGame{
		id:        gameID,
		players:   append([]string(nil), players...),
		seats:     seats,
		state:     NewState(),
		replay:    NewReplay(gameID, e.replayLimit),
		startedAt: time.Now(),
	}

	e.mu.Lock()
	if _, exists := e.games[gameID]; exists {
		e.mu.Unlock()
		return "", fmt.Errorf("game %s: %w", gameID, ErrGameExists)
	}
	e.games[gameID] = g
	e.mu.Unlock()
	e.metrics.GameStarted()

	g.mu.Lock()
	defer g.mu.Unlock()

	g.replay.Record(newSnapshot(gameID, g.state))
	e.events.Publish(rules.NewEvent(rules.EventGameStarted, gameID, -1, rules.PhaseSetup))
	if e.autoChance {
		e.resolveChanceLocked(g, -1)
	}

	e.logger.Info("tarok engine started game",
		zap.String("game_id", gameID),
		zap.Strings("players", players),
	)
	return gameID, nil
}

func (e *Engine) game(gameID string) (*engineGame, error) {
	e.mu.RLock()
	g, ok := e.games[gameID]
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("game %s: %w", gameID, ErrGameNotFound)
	}
	return g, nil
}

// ProcessAction applies a player's action after checking seat, turn and
// legality.
func (e *Engine) ProcessAction(gameID string, action PlayerAction) error {
	g, err := e.game(gameID)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.IsTerminal() {
		return fmt.Errorf("game %s: %w", gameID, ErrGameOver)
	}
	seat, ok := g.seats[action.PlayerID]
	if !ok {
		return fmt.Errorf("player %s in game %s: %w", action.PlayerID, gameID, ErrNotSeated)
	}
	if current := g.state.CurrentPlayer(); current != seat {
		return fmt.Errorf("player %s (seat %d), current seat %d: %w", action.PlayerID, seat, current, ErrNotYourTurn)
	}
	if !g.state.IsLegal(action.Action) {
		e.metrics.ActionRejected()
		e.logger.Warn("rejected illegal action",
			zap.String("game_id", gameID),
			zap.String("player_id", action.PlayerID),
			zap.Int("action", action.Action),
			zap.String("phase", g.state.Phase().String()),
		)
		return fmt.Errorf("action %d in phase %s: %w", action.Action, g.state.Phase(), ErrIllegalAction)
	}

	e.applyLocked(g, seat, action.Action)
	if e.autoChance {
		e.resolveChanceLocked(g, -1)
	}
	return nil
}

// ResolveChance samples and applies one chance action.
func (e *Engine) ResolveChance(gameID string) (int, error) {
	g, err := e.game(gameID)
	if err != nil {
		return 0, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.IsTerminal() {
		return 0, fmt.Errorf("game %s: %w", gameID, ErrGameOver)
	}
	if !g.state.IsChanceNode() {
		return 0, fmt.Errorf("game %s: %w", gameID, ErrNoChance)
	}
	_, action := e.resolveChanceLocked(g, 1)
	return action, nil
}

// AutoResolveChance applies chance actions until a player is to act or the
// hand ends. It returns how many were applied.
func (e *Engine) AutoResolveChance(gameID string) (int, error) {
	g, err := e.game(gameID)
	if err != nil {
		return 0, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	applied, _ := e.resolveChanceLocked(g, -1)
	return applied, nil
}

// resolveChanceLocked applies up to limit chance actions, or all pending
// ones with a negative limit. It returns the count and the last action.
func (e *Engine) resolveChanceLocked(g *engineGame, limit int) (applied, last int) {
	for (limit < 0 || applied < limit) && !g.state.IsTerminal() && g.state.IsChanceNode() {
		e.rngMu.Lock()
		action := g.state.SampleChance(e.rng)
		e.rngMu.Unlock()
		e.applyLocked(g, ChancePlayer, action)
		applied++
		last = action
	}
	return applied, last
}

func (e *Engine) applyLocked(g *engineGame, player, action int) {
	s := g.state
	phase := s.Phase()
	label := s.ActionToString(player, action)
	evt := actionEvent(s, g.id, player, action, label)
	tricksBefore := len(s.rec.tricks)

	s.ApplyAction(action)
	g.replay.Record(newSnapshot(g.id, s))
	e.metrics.ActionApplied(phase.String())

	events := []rules.Event{evt}
	if len(s.rec.tricks) > tricksBefore {
		trick := s.rec.tricks[len(s.rec.tricks)-1]
		tw := rules.NewEventWithAmount(rules.EventTrickWon, g.id, trick.Winner, rules.PhasePlay, trick.Winner)
		tw.Metadata["trick"] = strconv.Itoa(len(s.rec.tricks))
		events = append(events, tw)
	}
	if s.Phase() != phase {
		pc := rules.NewEvent(rules.EventPhaseChanged, g.id, -1, s.Phase())
		pc.Metadata["from"] = phase.String()
		pc.Metadata["to"] = s.Phase().String()
		events = append(events, pc)
	}
	if s.IsTerminal() {
		events = append(events, e.finishEvents(g)...)
	}
	e.events.PublishBatch(events)

	if player != ChancePlayer {
		e.logger.Debug("applied action",
			zap.String("game_id", g.id),
			zap.Int("player", player),
			zap.Int("action", action),
			zap.String("label", label),
			zap.String("phase", phase.String()),
		)
	}
}

func (e *Engine) finishEvents(g *engineGame) []rules.Event {
	s := g.state
	returns := s.Returns()
	var events []rules.Event

	outcome := OutcomePlayed
	switch {
	case s.Phase() == rules.PhaseBidding:
		outcome = OutcomeAllPassed
		events = append(events, rules.NewEvent(rules.EventAuctionAborted, g.id, -1, rules.PhaseBidding))
	case s.Phase() == rules.PhaseDealTalon:
		outcome = OutcomeTrialThree
		events = append(events, rules.NewEvent(rules.EventTrialThreeFailed, g.id, s.Declarer(), rules.PhaseDealTalon))
	}
	e.metrics.HandFinished(outcome)
	for p, score := range returns {
		events = append(events, rules.NewEventWithAmount(rules.EventHandScored, g.id, p, s.Phase(), score))
	}
	events = append(events, rules.NewEvent(rules.EventGameEnded, g.id, -1, s.Phase()))

	fields := []zap.Field{
		zap.String("game_id", g.id),
		zap.Ints("returns", returns[:]),
		zap.Int("declarer", s.Declarer()),
		zap.Int("winning_bid", s.WinningBid()),
		zap.String("outcome", outcome),
	}
	if latest := g.replay.Latest(); latest != nil {
		if checksum, err := latest.ComputeChecksum(); err == nil {
			fields = append(fields, zap.String("checksum", checksum.Hash))
		}
	}
	e.logger.Info("tarok hand scored", fields...)
	return events
}

// actionEvent classifies an action about to be applied.
func actionEvent(s *State, gameID string, player, action int, label string) rules.Event {
	var typ rules.EventType
	switch s.Phase() {
	case rules.PhaseSetup:
		typ = rules.EventCardDealt
	case rules.PhaseBidding:
		typ = rules.EventBidMade
		if action == rules.BidPass {
			typ = rules.EventBidPassed
		}
	case rules.PhaseDealTalon:
		typ = rules.EventTalonCardDrawn
		player = s.talonReceiver()
	case rules.PhaseSkart:
		typ = rules.EventCardDiscarded
	case rules.PhaseAnnouncements:
		switch {
		case !s.announcements.partnerCalled:
			typ = rules.EventPartnerCalled
		case action == rules.AnnouncementPass:
			typ = rules.EventAnnouncePassed
		default:
			switch rules.AnnouncementFromAction(action).Level {
			case rules.LevelContra:
				typ = rules.EventContra
			case rules.LevelReContra:
				typ = rules.EventReContra
			default:
				typ = rules.EventAnnounced
			}
		}
	case rules.PhasePlay:
		typ = rules.EventCardPlayed
	}
	evt := rules.NewActionEvent(typ, gameID, player, s.Phase(), action, label)
	if s.Phase() >= rules.PhaseAnnouncements && s.announcements.partnerCalled && player >= 0 {
		evt.Metadata["side"] = s.PlayerSide(player).String()
	}
	return evt
}

// GetGameView returns the hand as seen from playerID's seat.
func (e *Engine) GetGameView(gameID, playerID string) (*GameView, error) {
	g, err := e.game(gameID)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	seat, ok := g.seats[playerID]
	if !ok {
		return nil, fmt.Errorf("player %s in game %s: %w", playerID, gameID, ErrNotSeated)
	}

	s := g.state
	view := &GameView{
		GameID:        gameID,
		PlayerID:      playerID,
		Seat:          seat,
		Players:       append([]string(nil), g.players...),
		Phase:         s.Phase().String(),
		CurrentPlayer: s.CurrentPlayer(),
		Hand:          s.PlayerHand(seat),
		Declarer:      s.Declarer(),
		Partner:       -1,
		WinningBid:    s.WinningBid(),
		Tricks:        s.Tricks(),
		Terminal:      s.IsTerminal(),
		StartedAt:     g.startedAt,
	}
	for p := range view.HandSizes {
		view.HandSizes[p] = s.rec.deck.HandSize(p)
	}
	// The partner is public once play has started.
	if p, ok := s.Partner(); ok && (s.Phase() == rules.PhasePlay || p == seat) {
		view.Partner = p
	}
	view.TrickLeader, view.CurrentTrick = s.CurrentTrick()
	if view.MyTurn() {
		for _, a := range s.LegalActions() {
			view.LegalActions = append(view.LegalActions, ActionView{ID: a, Label: s.ActionToString(seat, a)})
		}
	}
	if view.Terminal {
		view.Returns = s.Returns()
	}
	return view, nil
}

// Clone returns an independent copy of a hand for search or analysis.
func (e *Engine) Clone(gameID string) (*State, error) {
	g, err := e.game(gameID)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Clone(), nil
}

// Replay returns the snapshot history of a hand.
func (e *Engine) Replay(gameID string) (*Replay, error) {
	g, err := e.game(gameID)
	if err != nil {
		return nil, err
	}
	return g.replay, nil
}

// EndGame removes a hand from the engine.
func (e *Engine) EndGame(gameID string) error {
	e.mu.Lock()
	g, ok := e.games[gameID]
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("game %s: %w", gameID, ErrGameNotFound)
	}
	delete(e.games, gameID)
	e.mu.Unlock()
	e.metrics.GameRemoved()

	g.mu.Lock()
	terminal := g.state.IsTerminal()
	actions := len(g.state.history)
	g.mu.Unlock()

	e.logger.Info("tarok engine ended game",
		zap.String("game_id", gameID),
		zap.Bool("finished", terminal),
		zap.Int("actions", actions),
	)
	return nil
}

// Games lists the ids of the hands in progress, sorted.
func (e *Engine) Games() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ids := make([]string, 0, len(e.games))
	for id := range e.games {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
