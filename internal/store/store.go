// Package store persists session envelopes as an append-only
// newline-delimited JSON log. One store per deployment; the log file is
// the entire durability model. Writers hold an exclusive lock across the
// duplicate check and the append so two submissions with the same
// sessionId can never both land.
package store

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/greenside-labs/go-putt/internal/putt"
)

// DefaultDupWindow is the number of most-recent log lines scanned for a
// duplicate sessionId. Real duplicates (client double-submits) are
// temporally adjacent, so a bounded tail scan is enough; duplicates older
// than the window are accepted again. That is a documented tradeoff, not
// a bug: a full-log scan would not scale.
const DefaultDupWindow = 200

// ErrDuplicateSession reports that the sessionId was already stored
// within the duplicate scan window.
var ErrDuplicateSession = errors.New("duplicate sessionId")

// Store is an append-only JSONL session log.
type Store struct {
	path      string
	dupWindow int
}

// Option configures a Store.
type Option func(*Store)

// WithDupWindow sets the duplicate scan window. Non-positive values keep
// the default.
func WithDupWindow(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.dupWindow = n
		}
	}
}

// Open returns a store over the JSONL file at path. The file and its
// directory are created lazily on first append.
func Open(path string, opts ...Option) *Store {
	s := &Store{path: path, dupWindow: DefaultDupWindow}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the log file path.
func (s *Store) Path() string {
	return s.path
}

// Append persists one envelope as a single log line. raw must be the
// validated envelope JSON; it is compacted and written verbatim, so fields
// the schema does not model survive round trips. Returns
// ErrDuplicateSession when sessionID was seen within the scan window. Any
// lock or I/O failure is fatal for this call and never retried here.
func (s *Store) Append(raw []byte, sessionID string) error {
	var line bytes.Buffer
	if err := json.Compact(&line, raw); err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	line.WriteByte('\n')

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	// Exclusive lock held across the duplicate check and the write: both
	// are one critical section relative to other appenders.
	if err := lockFile(f); err != nil {
		return fmt.Errorf("lock data file: %w", err)
	}
	defer unlockFile(f)

	dup, err := s.tailHasSession(sessionID)
	if err != nil {
		return err
	}
	if dup {
		return ErrDuplicateSession
	}

	// One Write call for the complete line so a lock-free reader can
	// never observe a torn record.
	if _, err := f.Write(line.Bytes()); err != nil {
		return fmt.Errorf("write envelope: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("flush envelope: %w", err)
	}
	return nil
}

// tailHasSession scans the last dupWindow lines for sessionID.
func (s *Store) tailHasSession(sessionID string) (bool, error) {
	lines, err := tailLines(s.path, s.dupWindow)
	if err != nil {
		return false, err
	}
	for _, line := range lines {
		var rec struct {
			Session struct {
				SessionID string `json:"sessionId"`
			} `json:"session"`
		}
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		if rec.Session.SessionID == sessionID {
			return true, nil
		}
	}
	return false, nil
}

// StreamAll scans every record in append order. Malformed or non-object
// lines are skipped, never fatal: one corrupt historical line must not
// fail a whole query. fn receives the decoded envelope plus the stored
// line exactly as persisted; raw aliases the scan buffer, so callbacks
// that retain it must copy. fn returns false to stop early. A missing log
// file yields zero records.
func (s *Store) StreamAll(fn func(env *putt.Envelope, raw []byte) bool) error {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	// Envelopes with many games can produce long lines.
	const maxLine = 10 * 1024 * 1024
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] != '{' {
			continue
		}
		var env putt.Envelope
		if err := json.Unmarshal(line, &env); err != nil {
			continue
		}
		if !fn(&env, line) {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan data file: %w", err)
	}
	return nil
}
