package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// HandChecksum is a digest of the deterministic part of a snapshot. Two
// hands fed the same actions under the same id produce the same hash.
type HandChecksum struct {
	Hash      string // SHA-256 of the canonical rendering
	Timestamp string // when the snapshot was taken
	Version   int
}

// ComputeChecksum hashes the canonical rendering of the snapshot. The
// timestamp is not part of it.
func (snapshot *Snapshot) ComputeChecksum() (*HandChecksum, error) {
	hash := sha256.New()
	if _, err := hash.Write([]byte(snapshot.buildDeterministicRepresentation())); err != nil {
		return nil, fmt.Errorf("failed to compute hash: %w", err)
	}

	return &HandChecksum{
		Hash:      hex.EncodeToString(hash.Sum(nil)),
		Timestamp: snapshot.Timestamp.Format("2006-01-02T15:04:05.000Z"),
		Version:   1,
	}, nil
}

func (snapshot *Snapshot) buildDeterministicRepresentation() string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "GAME:%s|%d|%s|%d|%d|%d|%t\n",
		snapshot.GameID,
		snapshot.Sequence,
		snapshot.Phase,
		snapshot.CurrentPlayer,
		snapshot.Declarer,
		snapshot.WinningBid,
		snapshot.Terminal,
	)

	// Card order is fixed, so the deck needs no sorting.
	locs := make([]string, len(snapshot.Deck))
	for c, loc := range snapshot.Deck {
		locs[c] = strconv.Itoa(int(loc))
	}
	buf.WriteString("DECK:")
	buf.WriteString(strings.Join(locs, ","))
	buf.WriteString("\n")

	for i, t := range snapshot.Tricks {
		fmt.Fprintf(&buf, "TRICK:%d|%d|%d|%d,%d,%d,%d\n",
			i, t.Leader, t.Winner, t.Cards[0], t.Cards[1], t.Cards[2], t.Cards[3])
	}

	fmt.Fprintf(&buf, "RETURNS:%d,%d,%d,%d\n",
		snapshot.Returns[0], snapshot.Returns[1], snapshot.Returns[2], snapshot.Returns[3])

	actions := make([]string, len(snapshot.Actions))
	for i, a := range snapshot.Actions {
		actions[i] = strconv.Itoa(a)
	}
	buf.WriteString("ACTIONS:")
	buf.WriteString(strings.Join(actions, ","))
	buf.WriteString("\n")

	return buf.String()
}
