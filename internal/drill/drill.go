// Package drill defines the drill configuration table: for each gameId,
// how to pull a scalar score out of a game result, which direction counts
// as an improvement, and how to format the score for display. Every place
// that processes a drill consults this table; adding a drill is a table
// row, not a code change.
package drill

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/greenside-labs/go-putt/internal/putt"
)

// Direction is a drill's improvement direction for personal bests.
type Direction string

const (
	Lower  Direction = "lower"  // fewer is better (attempts, putts)
	Higher Direction = "higher" // more is better (makes, points)
	None   Direction = "na"     // no quantitative ranking
)

// Better reports whether candidate beats current under this direction.
// None never replaces an established best.
func (d Direction) Better(candidate, current float64) bool {
	switch d {
	case Lower:
		return candidate < current
	case Higher:
		return candidate > current
	default:
		return false
	}
}

// Kind names the extraction/display rule a drill row uses. TOML overlays
// reference kinds by name since a config file cannot carry code.
const (
	KindCheck    = "check"    // completion only, constant score 1.0
	KindAttempts = "attempts" // result.attemptsToComplete
	KindPutts    = "putts"    // result.puttsToReachTarget
	KindMakes    = "makes"    // result.score.makes
	KindPoints   = "points"   // result.score, falling back to result.points
)

// Definition is one row of the drill table.
type Definition struct {
	ID        string    `toml:"id"`
	Kind      string    `toml:"kind"`
	Direction Direction `toml:"direction"`
	Baseline  int       `toml:"baseline"` // makes drills: target shown next to the score
	Total     int       `toml:"total"`    // makes drills: putts per round
	Unit      string    `toml:"unit"`     // points drills: default scoring unit
}

// resultPayload is the union of result fields the built-in kinds read.
// Candidate score fields stay raw so extraction can insist on strictly
// numeric values; anything else counts as "no value", never as zero.
type resultPayload struct {
	AttemptsToComplete json.RawMessage `json:"attemptsToComplete"`
	PuttsToReachTarget json.RawMessage `json:"puttsToReachTarget"`
	Score              json.RawMessage `json:"score"`
	Points             json.RawMessage `json:"points"`
	Unit               string          `json:"unit"`
	Note               string          `json:"note"`
}

// makesScore is the nested score object of makes-style drills.
type makesScore struct {
	Makes      json.RawMessage `json:"makes"`
	TotalPutts json.RawMessage `json:"totalPutts"`
}

func decodeResult(g putt.Game) resultPayload {
	var p resultPayload
	if len(g.Result) > 0 {
		// Ignore type errors; whatever decoded cleanly is usable.
		_ = json.Unmarshal(g.Result, &p)
	}
	return p
}

// numeric parses raw strictly as a JSON number. Missing fields, strings,
// objects and nulls all report false. Null needs its own check: Unmarshal
// treats it as a no-op on a float64 and reports no error.
func numeric(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	return n, true
}

// Extract returns the scalar score for a game, or false when the game is
// incomplete or its result carries no usable numeric value.
func (d Definition) Extract(g putt.Game) (float64, bool) {
	if !g.Completed {
		return 0, false
	}
	p := decodeResult(g)
	switch d.Kind {
	case KindCheck:
		return 1.0, true
	case KindAttempts:
		return numeric(p.AttemptsToComplete)
	case KindPutts:
		return numeric(p.PuttsToReachTarget)
	case KindMakes:
		var s makesScore
		if json.Unmarshal(p.Score, &s) == nil {
			return numeric(s.Makes)
		}
	case KindPoints:
		if n, ok := numeric(p.Score); ok {
			return n, true
		}
		return numeric(p.Points)
	}
	return 0, false
}

// Display formats a game's score for humans, e.g. "22 attempts" or
// "14 / 18 (base 12)".
func (d Definition) Display(g putt.Game) string {
	v, ok := d.Extract(g)
	if !ok {
		return "—"
	}
	p := decodeResult(g)
	switch d.Kind {
	case KindCheck:
		if p.Note != "" {
			return p.Note
		}
		return "Done"
	case KindAttempts:
		return fmt.Sprintf("%d attempts", int(v))
	case KindPutts:
		return fmt.Sprintf("%d putts", int(v))
	case KindMakes:
		total := d.Total
		var s makesScore
		if json.Unmarshal(p.Score, &s) == nil {
			if tp, ok := numeric(s.TotalPutts); ok {
				total = int(tp)
			}
		}
		out := fmt.Sprintf("%d", int(v))
		if total > 0 {
			out = fmt.Sprintf("%d / %d", int(v), total)
		}
		if d.Baseline > 0 {
			out += fmt.Sprintf(" (base %d)", d.Baseline)
		}
		return out
	case KindPoints:
		unit := p.Unit
		if unit == "" {
			unit = d.Unit
		}
		if unit == "" {
			unit = "points"
		}
		return fmt.Sprintf("%d %s", int(v), unit)
	}
	return "—"
}

// Defaults is the built-in drill table. It registers every historical
// gameId variant seen in stored logs; touch_drill and its uphill/downhill
// split are separate rows of the same table, not special cases.
func Defaults() []Definition {
	return []Definition{
		{ID: "home_base", Kind: KindCheck, Direction: None},
		{ID: "touch_drill", Kind: KindAttempts, Direction: Lower},
		{ID: "touch_drill_uphill", Kind: KindAttempts, Direction: Lower},
		{ID: "touch_drill_downhill", Kind: KindAttempts, Direction: Lower},
		{ID: "lag_distance", Kind: KindPutts, Direction: Lower},
		{ID: "short_makes", Kind: KindMakes, Direction: Higher, Baseline: 12, Total: 18},
		{ID: "mid_makes", Kind: KindMakes, Direction: Higher, Baseline: 9, Total: 18},
		{ID: "win_on_tour", Kind: KindPoints, Direction: Higher, Unit: "points"},
	}
}

// Registry is the live drill table. Reads are concurrent; Replace swaps
// the whole table (used by the config watcher).
type Registry struct {
	mu   sync.RWMutex
	defs map[string]Definition
	ids  []string
}

// NewRegistry builds a registry from the given rows.
func NewRegistry(defs ...Definition) *Registry {
	r := &Registry{}
	r.Replace(defs)
	return r
}

// Lookup returns the definition for a gameId.
func (r *Registry) Lookup(id string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.defs[id]
	return d, ok
}

// IDs returns all registered drill ids in a stable order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}

// Replace swaps the full table atomically.
func (r *Registry) Replace(defs []Definition) {
	m := make(map[string]Definition, len(defs))
	ids := make([]string, 0, len(defs))
	for _, d := range defs {
		if _, seen := m[d.ID]; !seen {
			ids = append(ids, d.ID)
		}
		m[d.ID] = d
	}
	sort.Strings(ids)

	r.mu.Lock()
	r.defs = m
	r.ids = ids
	r.mu.Unlock()
}
