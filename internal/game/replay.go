package game

import (
	"slices"
	"sync"
	"time"

	"github.com/tarokfree/tarok-server-go/internal/game/cards"
	"github.com/tarokfree/tarok-server-go/internal/game/rules"
)

// Snapshot is the observable state of a hand after an action.
type Snapshot struct {
	GameID        string
	Sequence      int
	Phase         rules.Phase
	CurrentPlayer int
	Deck          cards.Deck
	Declarer      int
	WinningBid    int
	Tricks        []rules.Trick
	Terminal      bool
	Returns       [cards.NumPlayers]int
	Actions       []int
	Timestamp     time.Time
}

func newSnapshot(gameID string, s *State) *Snapshot {
	return &Snapshot{
		GameID:        gameID,
		Sequence:      len(s.history),
		Phase:         s.Phase(),
		CurrentPlayer: s.CurrentPlayer(),
		Deck:          s.Deck(),
		Declarer:      s.Declarer(),
		WinningBid:    s.WinningBid(),
		Tricks:        s.Tricks(),
		Terminal:      s.IsTerminal(),
		Returns:       s.Returns(),
		Actions:       s.History(),
		Timestamp:     time.Now(),
	}
}

// Replay is the recorded sequence of snapshots of one hand, with a cursor
// for stepping through it. A positive limit keeps only the latest snapshots.
type Replay struct {
	GameID       string
	States       []*Snapshot
	CurrentIndex int
	limit        int
	dropped      int
	mu           sync.RWMutex
}

// NewReplay creates an empty replay.
func NewReplay(gameID string, limit int) *Replay {
	return &Replay{
		GameID: gameID,
		States: make([]*Snapshot, 0),
		limit:  limit,
	}
}

// Record appends a snapshot, evicting the oldest one when full.
func (r *Replay) Record(snapshot *Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.States = append(r.States, snapshot)
	if r.limit > 0 && len(r.States) > r.limit {
		over := len(r.States) - r.limit
		r.States = slices.Delete(r.States, 0, over)
		r.dropped += over
		r.CurrentIndex = max(0, r.CurrentIndex-over)
	}
}

// Start rewinds to the oldest snapshot still held, normally the fresh
// setup state before the deal.
func (r *Replay) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.CurrentIndex = 0
}

// Next returns the snapshot under the cursor and advances one action, so
// repeated calls walk the hand from deal through bidding to the last trick.
// It returns nil once the scored hand has been passed.
func (r *Replay) Next() *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CurrentIndex < len(r.States) {
		state := r.States[r.CurrentIndex]
		r.CurrentIndex++
		return state
	}
	return nil
}

// Previous steps back one action and returns the hand as it stood then.
func (r *Replay) Previous() *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CurrentIndex > 0 {
		r.CurrentIndex--
		return r.States[r.CurrentIndex]
	}
	return nil
}

// Skip jumps count actions forward, or back when negative, and returns that
// snapshot. Jumps past either end stop at the first or last recorded state.
func (r *Replay) Skip(count int) *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	newIndex := r.CurrentIndex + count
	if newIndex >= len(r.States) {
		newIndex = len(r.States) - 1
	}
	if newIndex < 0 {
		newIndex = 0
	}

	r.CurrentIndex = newIndex
	if r.CurrentIndex < len(r.States) {
		return r.States[r.CurrentIndex]
	}
	return nil
}

// Size returns the number of snapshots held.
func (r *Replay) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.States)
}

// Dropped returns how many snapshots were evicted by the limit.
func (r *Replay) Dropped() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.dropped
}

// StateAt returns the hand after the index-th recorded action, counting
// from the oldest snapshot held. Evicted or future indexes give nil.
func (r *Replay) StateAt(index int) *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index >= 0 && index < len(r.States) {
		return r.States[index]
	}
	return nil
}

// Latest returns the most recent snapshot, or nil.
func (r *Replay) Latest() *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}
