// Package putt defines the persisted session records for the putting
// tracker and validates incoming envelopes before they reach the store.
package putt

import "encoding/json"

// Wire constants every stored envelope must carry.
const (
	SchemaVersion = "1.0"
	AppName       = "PuttingTracker"
)

// Envelope is the atomic persisted unit: one envelope per log line.
// Lines are immutable once written; corrections are out of scope.
type Envelope struct {
	SchemaVersion string  `json:"schemaVersion"`
	App           string  `json:"app"`
	Session       Session `json:"session"`
}

// Session is one practice session for one player.
type Session struct {
	SessionID string `json:"sessionId"`
	PlayerID  string `json:"playerId"`
	StartedAt string `json:"startedAt"`
	EndedAt   string `json:"endedAt"`
	Games     []Game `json:"games"`
}

// Game is one drill played within a session. Result is kept raw because
// its shape is drill-specific; only the drill table knows how to read it.
type Game struct {
	GameID    string          `json:"gameId"`
	Completed bool            `json:"completed"`
	Result    json.RawMessage `json:"result,omitempty"`
}

// UnmarshalJSON tolerates malformed game entries in historical log lines:
// an entry that is not an object (or has wrongly-typed fields) decodes to
// the zero Game, whose empty GameID makes every scan skip it.
func (g *Game) UnmarshalJSON(data []byte) error {
	type plain Game
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		*g = Game{}
		return nil
	}
	*g = Game(p)
	return nil
}
