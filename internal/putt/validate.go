package putt

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
)

// Validation errors. The strings are part of the wire contract: clients
// match on them, so each violation keeps its own distinguishable message.
var (
	ErrEmptyBody     = errors.New("Empty request body")
	ErrInvalidJSON   = errors.New("Invalid JSON body")
	ErrSchemaVersion = errors.New(`schemaVersion must be "1.0"`)
	ErrApp           = errors.New(`app must be "PuttingTracker"`)
	ErrSessionShape  = errors.New("session must be an object")
	ErrSessionID     = errors.New("session.sessionId is required")
	ErrPlayerID      = errors.New("session.playerId is required (A-Z a-z 0-9 _ - only, max 64)")
	ErrStartedAt     = errors.New("session.startedAt must be ISO8601 with timezone")
	ErrEndedAt       = errors.New("session.endedAt must be ISO8601 with timezone")
	ErrGames         = errors.New("session.games must be an array")
)

var (
	playerIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_\-]{1,64}$`)

	// Shape check only, not calendar validation: "2024-13-99T00:00:00Z"
	// passes. History ordering compares these as raw strings, which is
	// what the fixed-width zoned format guarantees.
	timestampPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+\-]\d{2}:\d{2})$`)
)

// ValidPlayerID reports whether id is a safe player identifier. The
// character restriction is a security boundary: player ids double as
// lookup keys and filesystem-adjacent tokens in naive deployments.
func ValidPlayerID(id string) bool {
	return playerIDPattern.MatchString(id)
}

// ValidTimestamp reports whether ts has the strict ISO-8601-with-zone shape.
func ValidTimestamp(ts string) bool {
	return timestampPattern.MatchString(ts)
}

// ParseAndValidate checks the shape of a raw envelope and returns the
// decoded record. Per-drill result payloads are not validated here; the
// aggregation side treats unreadable values as "no value" instead.
func ParseAndValidate(raw []byte) (*Envelope, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ErrEmptyBody
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil || top == nil {
		return nil, ErrInvalidJSON
	}

	if s, ok := rawString(top["schemaVersion"]); !ok || s != SchemaVersion {
		return nil, ErrSchemaVersion
	}
	if s, ok := rawString(top["app"]); !ok || s != AppName {
		return nil, ErrApp
	}

	var sess map[string]json.RawMessage
	if err := json.Unmarshal(top["session"], &sess); err != nil || sess == nil {
		return nil, ErrSessionShape
	}

	if s, ok := rawString(sess["sessionId"]); !ok || s == "" {
		return nil, ErrSessionID
	}
	if s, ok := rawString(sess["playerId"]); !ok || !ValidPlayerID(s) {
		return nil, ErrPlayerID
	}
	if s, ok := rawString(sess["startedAt"]); !ok || !ValidTimestamp(s) {
		return nil, ErrStartedAt
	}
	if s, ok := rawString(sess["endedAt"]); !ok || !ValidTimestamp(s) {
		return nil, ErrEndedAt
	}

	var games []json.RawMessage
	if g, ok := sess["games"]; !ok || isNull(g) || json.Unmarshal(g, &games) != nil {
		return nil, ErrGames
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, ErrInvalidJSON
	}
	return &env, nil
}

// Reason maps a validation error to a short stable token for metrics labels.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrEmptyBody):
		return "empty_body"
	case errors.Is(err, ErrInvalidJSON):
		return "invalid_json"
	case errors.Is(err, ErrSchemaVersion):
		return "schema_version"
	case errors.Is(err, ErrApp):
		return "app"
	case errors.Is(err, ErrSessionShape):
		return "session_shape"
	case errors.Is(err, ErrSessionID):
		return "session_id"
	case errors.Is(err, ErrPlayerID):
		return "player_id"
	case errors.Is(err, ErrStartedAt):
		return "started_at"
	case errors.Is(err, ErrEndedAt):
		return "ended_at"
	case errors.Is(err, ErrGames):
		return "games"
	default:
		return "invalid"
	}
}

func rawString(raw json.RawMessage) (string, bool) {
	if raw == nil {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
