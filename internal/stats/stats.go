// Package stats computes the per-drill last and personal-best summary for
// a player by streaming the whole session log. There is no index and no
// cache across requests: every call recomputes from the log, which keeps
// the summary trivially consistent with whatever the log holds.
package stats

import (
	"golang.org/x/sync/singleflight"

	"github.com/greenside-labs/go-putt/internal/drill"
	"github.com/greenside-labs/go-putt/internal/putt"
	"github.com/greenside-labs/go-putt/internal/store"
)

// Mark is one recorded result: the scalar score plus its display form.
// Internal bookkeeping (start time, session id) is never serialized.
type Mark struct {
	Value   float64 `json:"value"`
	Display string  `json:"display"`
}

// Entry is the summary for one drill. Both fields are null until the
// player records a value for the drill.
type Entry struct {
	Last *Mark `json:"last"`
	PB   *Mark `json:"pb"`
}

// Meta carries summary-level counters.
type Meta struct {
	SessionsCount int `json:"sessionsCount"`
}

// Summary is the full per-player aggregation result. Games holds an entry
// for every drill in the table, recorded or not.
type Summary struct {
	PlayerID string           `json:"playerId"`
	Meta     Meta             `json:"meta"`
	Games    map[string]Entry `json:"games"`
}

// Engine streams the log and aggregates per-drill results.
type Engine struct {
	store *store.Store
	reg   *drill.Registry
	group singleflight.Group
}

// NewEngine returns an engine over the given store and drill table.
func NewEngine(st *store.Store, reg *drill.Registry) *Engine {
	return &Engine{store: st, reg: reg}
}

// Compute builds the summary for playerID. Concurrent calls for the same
// player share one log scan; the shared result may predate an append that
// raced it, which is within the store's read-consistency contract.
func (e *Engine) Compute(playerID string) (*Summary, error) {
	if !putt.ValidPlayerID(playerID) {
		return nil, putt.ErrPlayerID
	}
	v, err, _ := e.group.Do(playerID, func() (any, error) {
		return e.compute(playerID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Summary), nil
}

// running tracks the in-flight last/pb state for one drill during a scan.
type running struct {
	last   *Mark
	lastAt string
	pb     *Mark
}

func (e *Engine) compute(playerID string) (*Summary, error) {
	state := make(map[string]*running)
	count := 0

	err := e.store.StreamAll(func(env *putt.Envelope, _ []byte) bool {
		sess := env.Session
		if sess.PlayerID != playerID {
			return true
		}
		count++

		for _, g := range sess.Games {
			def, ok := e.reg.Lookup(g.GameID)
			if !ok {
				continue
			}
			val, ok := def.Extract(g)
			if !ok {
				continue
			}
			mark := &Mark{Value: val, Display: def.Display(g)}

			st := state[g.GameID]
			if st == nil {
				st = &running{}
				state[g.GameID] = st
			}

			// Last tracks recency by start time; the first value seen
			// always seeds it. PB tracks the best value per the drill's
			// direction; the two diverge freely.
			if st.last == nil || sess.StartedAt > st.lastAt {
				st.last = mark
				st.lastAt = sess.StartedAt
			}
			if st.pb == nil || def.Direction.Better(val, st.pb.Value) {
				st.pb = mark
			}
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	ids := e.reg.IDs()
	games := make(map[string]Entry, len(ids))
	for _, id := range ids {
		var entry Entry
		if st := state[id]; st != nil {
			entry.Last = st.last
			entry.PB = st.pb
		}
		games[id] = entry
	}

	return &Summary{
		PlayerID: playerID,
		Meta:     Meta{SessionsCount: count},
		Games:    games,
	}, nil
}
