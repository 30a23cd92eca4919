package stats

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/greenside-labs/go-putt/internal/drill"
	"github.com/greenside-labs/go-putt/internal/putt"
	"github.com/greenside-labs/go-putt/internal/store"
)

func testEngine(t *testing.T) (*Engine, *store.Store) {
	t.Helper()
	st := store.Open(filepath.Join(t.TempDir(), "sessions.jsonl"))
	return NewEngine(st, drill.NewRegistry(drill.Defaults()...)), st
}

// appendSession stores one session for ply_001 with the given games JSON
// array, e.g. `[{"gameId":"touch_drill","completed":true,"result":{...}}]`.
func appendSession(t *testing.T, st *store.Store, sessionID, startedAt, gamesJSON string) {
	t.Helper()
	raw := fmt.Appendf(nil,
		`{"schemaVersion":"1.0","app":"PuttingTracker","session":{"sessionId":%q,"playerId":"ply_001","startedAt":%q,"endedAt":%q,"games":%s}}`,
		sessionID, startedAt, startedAt, gamesJSON)
	if err := st.Append(raw, sessionID); err != nil {
		t.Fatalf("Append %s: %v", sessionID, err)
	}
}

func attemptsGame(drillID string, attempts int) string {
	return fmt.Sprintf(`[{"gameId":%q,"completed":true,"result":{"attemptsToComplete":%d}}]`, drillID, attempts)
}

func makesGame(drillID string, makes, total int) string {
	return fmt.Sprintf(`[{"gameId":%q,"completed":true,"result":{"score":{"makes":%d,"totalPutts":%d}}}]`, drillID, makes, total)
}

func TestPBLowerIsBetter(t *testing.T) {
	eng, st := testEngine(t)
	appendSession(t, st, "s1", "2024-05-01T10:00:00Z", attemptsGame("touch_drill", 30))
	appendSession(t, st, "s2", "2024-05-02T10:00:00Z", attemptsGame("touch_drill", 22))
	appendSession(t, st, "s3", "2024-05-03T10:00:00Z", attemptsGame("touch_drill", 27))

	sum, err := eng.Compute("ply_001")
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	entry := sum.Games["touch_drill"]
	if entry.PB == nil || entry.PB.Value != 22 {
		t.Errorf("pb = %+v, want value 22", entry.PB)
	}
	if entry.Last == nil || entry.Last.Value != 27 {
		t.Errorf("last = %+v, want value 27", entry.Last)
	}
}

func TestPBHigherIsBetter(t *testing.T) {
	eng, st := testEngine(t)
	appendSession(t, st, "s1", "2024-05-01T10:00:00Z", makesGame("short_makes", 10, 18))
	appendSession(t, st, "s2", "2024-05-02T10:00:00Z", makesGame("short_makes", 14, 18))
	appendSession(t, st, "s3", "2024-05-03T10:00:00Z", makesGame("short_makes", 12, 18))

	sum, err := eng.Compute("ply_001")
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	entry := sum.Games["short_makes"]
	if entry.PB == nil || entry.PB.Value != 14 {
		t.Errorf("pb = %+v, want value 14", entry.PB)
	}
	if entry.PB != nil && entry.PB.Display != "14 / 18 (base 12)" {
		t.Errorf("pb display = %q, want %q", entry.PB.Display, "14 / 18 (base 12)")
	}
	if entry.Last == nil || entry.Last.Value != 12 {
		t.Errorf("last = %+v, want value 12", entry.Last)
	}
}

// Last and PB are independent: an old best never leaks into last, and a
// worse recent result never erases the best.
func TestLastAndPBDiverge(t *testing.T) {
	eng, st := testEngine(t)
	appendSession(t, st, "s1", "2024-05-01T10:00:00Z", attemptsGame("touch_drill", 22))
	appendSession(t, st, "s2", "2024-05-02T10:00:00Z", attemptsGame("touch_drill", 30))

	sum, err := eng.Compute("ply_001")
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	entry := sum.Games["touch_drill"]
	if entry.Last == nil || entry.Last.Value != 30 {
		t.Errorf("last = %+v, want value 30", entry.Last)
	}
	if entry.PB == nil || entry.PB.Value != 22 {
		t.Errorf("pb = %+v, want value 22", entry.PB)
	}
}

// Last follows start time, not log order: a backfilled older session must
// not displace a newer recorded result.
func TestLastPrefersStartTimeOverLogOrder(t *testing.T) {
	eng, st := testEngine(t)
	appendSession(t, st, "s-new", "2024-06-01T10:00:00Z", attemptsGame("touch_drill", 25))
	appendSession(t, st, "s-backfill", "2024-03-01T10:00:00Z", attemptsGame("touch_drill", 40))

	sum, err := eng.Compute("ply_001")
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	entry := sum.Games["touch_drill"]
	if entry.Last == nil || entry.Last.Value != 25 {
		t.Errorf("last = %+v, want value 25 from the newer session", entry.Last)
	}
}

func TestEmptyStore(t *testing.T) {
	eng, _ := testEngine(t)

	sum, err := eng.Compute("ply_001")
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if sum.Meta.SessionsCount != 0 {
		t.Errorf("sessionsCount = %d, want 0", sum.Meta.SessionsCount)
	}
	if got, want := len(sum.Games), len(drill.Defaults()); got != want {
		t.Fatalf("games has %d entries, want one per drill (%d)", got, want)
	}
	for id, entry := range sum.Games {
		if entry.Last != nil || entry.PB != nil {
			t.Errorf("%s entry = %+v, want null last and pb", id, entry)
		}
	}
}

func TestSessionsCountIgnoresOtherPlayers(t *testing.T) {
	eng, st := testEngine(t)
	appendSession(t, st, "s1", "2024-05-01T10:00:00Z", "[]")
	appendSession(t, st, "s2", "2024-05-02T10:00:00Z", "[]")

	other := []byte(`{"schemaVersion":"1.0","app":"PuttingTracker","session":{"sessionId":"s3","playerId":"ply_002","startedAt":"2024-05-03T10:00:00Z","endedAt":"2024-05-03T10:00:00Z","games":[]}}`)
	if err := st.Append(other, "s3"); err != nil {
		t.Fatalf("Append: %v", err)
	}

	sum, err := eng.Compute("ply_001")
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if sum.Meta.SessionsCount != 2 {
		t.Errorf("sessionsCount = %d, want 2", sum.Meta.SessionsCount)
	}
}

// Sessions count toward the total even when none of their games produce a
// value; the games themselves are skipped without failing the scan.
func TestSkipsUnusableGamesButCountsSession(t *testing.T) {
	eng, st := testEngine(t)
	appendSession(t, st, "s1", "2024-05-01T10:00:00Z",
		`[{"gameId":"mystery_drill","completed":true,"result":{"score":5}},`+
			`{"gameId":"touch_drill","completed":false,"result":{"attemptsToComplete":9}},`+
			`{"gameId":"touch_drill","completed":true,"result":{"attemptsToComplete":"many"}}]`)

	sum, err := eng.Compute("ply_001")
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if sum.Meta.SessionsCount != 1 {
		t.Errorf("sessionsCount = %d, want 1", sum.Meta.SessionsCount)
	}
	entry := sum.Games["touch_drill"]
	if entry.Last != nil || entry.PB != nil {
		t.Errorf("unusable games should leave the entry empty, got %+v", entry)
	}
}

func TestCheckDrillNoteDisplay(t *testing.T) {
	eng, st := testEngine(t)
	appendSession(t, st, "s1", "2024-05-01T10:00:00Z",
		`[{"gameId":"home_base","completed":true,"result":{"note":"felt great"}}]`)
	appendSession(t, st, "s2", "2024-05-02T10:00:00Z",
		`[{"gameId":"home_base","completed":true,"result":{}}]`)

	sum, err := eng.Compute("ply_001")
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	entry := sum.Games["home_base"]
	if entry.Last == nil || entry.Last.Display != "Done" {
		t.Errorf("last display = %+v, want Done", entry.Last)
	}
	// A check drill has no better direction, so pb stays at the first
	// recorded mark.
	if entry.PB == nil || entry.PB.Display != "felt great" {
		t.Errorf("pb display = %+v, want the first mark's note", entry.PB)
	}
}

func TestComputeInvalidPlayer(t *testing.T) {
	eng, _ := testEngine(t)
	if _, err := eng.Compute("../etc"); !errors.Is(err, putt.ErrPlayerID) {
		t.Errorf("Compute = %v, want ErrPlayerID", err)
	}
}
