// Package query returns bounded, most-recent-first session history for
// one player.
package query

import (
	"encoding/json"
	"sort"

	"github.com/greenside-labs/go-putt/internal/putt"
	"github.com/greenside-labs/go-putt/internal/store"
)

// Page size bounds for history queries.
const (
	DefaultLimit = 20
	MaxLimit     = 200
)

// ClampLimit normalizes a requested page size: non-positive values fall
// back to the default, oversized values saturate at the maximum.
func ClampLimit(n int) int {
	if n <= 0 {
		return DefaultLimit
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}

// Record pairs a decoded envelope with the stored line it came from. Raw
// is what goes back over the wire, so fields the schema does not model
// survive the round trip; Envelope is for code that reads fields.
type Record struct {
	Envelope putt.Envelope
	Raw      json.RawMessage
}

// History returns up to limit records for playerID, newest first by
// session start time. Start times are compared as raw strings, which the
// validator's fixed-width zoned timestamp format makes sound; equal keys
// keep log order. A missing log yields an empty slice.
func History(st *store.Store, playerID string, limit int) ([]Record, error) {
	if !putt.ValidPlayerID(playerID) {
		return nil, putt.ErrPlayerID
	}
	limit = ClampLimit(limit)

	var matches []Record
	err := st.StreamAll(func(env *putt.Envelope, raw []byte) bool {
		if env.Session.PlayerID == playerID {
			matches = append(matches, Record{
				Envelope: *env,
				Raw:      append(json.RawMessage(nil), raw...),
			})
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Envelope.Session.StartedAt > matches[j].Envelope.Session.StartedAt
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}
