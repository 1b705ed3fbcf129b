package match

import (
	"fmt"
	"sort"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"

	"github.com/tarokfree/tarok-server-go/internal/game"
)

// Manager tracks live matches on a shared engine and keeps the summaries of
// recently finished ones.
type Manager struct {
	engine  *game.Engine
	matches map[string]*Match
	archive *lru.Cache
	nextSeq int
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewManager creates a manager whose archive holds up to archiveSize
// finished matches.
func NewManager(engine *game.Engine, logger *zap.Logger, archiveSize int) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	archive, err := lru.New(archiveSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create match archive: %w", err)
	}
	return &Manager{
		engine:  engine,
		matches: make(map[string]*Match),
		archive: archive,
		logger:  logger,
	}, nil
}

// CreateMatch creates a match in the waiting state.
func (m *Manager) CreateMatch(players []string, hands int) (*Match, error) {
	match, err := New(m.engine, m.logger, players, hands)
	if err != nil {
		return nil, err
	}
	match.onFinish = m.archiveSummary

	m.mu.Lock()
	m.nextSeq++
	match.seq = m.nextSeq
	m.matches[match.ID] = match
	m.mu.Unlock()

	m.logger.Info("match created",
		zap.String("match_id", match.ID),
		zap.Strings("players", players),
		zap.Int("hands", hands),
	)
	return match, nil
}

func (m *Manager) archiveSummary(s Summary) {
	if evicted := m.archive.Add(s.ID, s); evicted {
		m.logger.Debug("match archive full, evicted oldest entry")
	}
}

// GetMatch retrieves a live match by ID.
func (m *Manager) GetMatch(matchID string) (*Match, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	match, ok := m.matches[matchID]
	return match, ok
}

// RemoveMatch drops a match from the live set. Archived summaries stay.
func (m *Manager) RemoveMatch(matchID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.matches, matchID)

	m.logger.Info("match removed", zap.String("match_id", matchID))
}

// GetAllMatches returns the live matches in creation order.
func (m *Manager) GetAllMatches() []*Match {
	m.mu.RLock()
	matches := make([]*Match, 0, len(m.matches))
	for _, match := range m.matches {
		matches = append(matches, match)
	}
	m.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].seq < matches[j].seq
	})
	return matches
}

// GetActiveMatchCount returns the count of live matches not yet finished.
func (m *Manager) GetActiveMatchCount() int {
	count := 0
	for _, match := range m.GetAllMatches() {
		if match.State() != StateFinished {
			count++
		}
	}
	return count
}

// Finished looks up the archived summary of a finished match.
func (m *Manager) Finished(matchID string) (Summary, bool) {
	v, ok := m.archive.Get(matchID)
	if !ok {
		return Summary{}, false
	}
	return v.(Summary), true
}

// Archived returns the archived summaries, oldest first.
func (m *Manager) Archived() []Summary {
	keys := m.archive.Keys()
	out := make([]Summary, 0, len(keys))
	for _, k := range keys {
		if v, ok := m.archive.Peek(k); ok {
			out = append(out, v.(Summary))
		}
	}
	return out
}
