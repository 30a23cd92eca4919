package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/greenside-labs/go-putt/internal/putt"
	"github.com/greenside-labs/go-putt/internal/server"
)

// Submit command flags
var (
	submitServer string
	submitPlayer string
)

var submitCmd = &cobra.Command{
	Use:   "submit <session.json>",
	Short: "Post a session file to a running server",
	Long: `submit reads a session (or full envelope) from a JSON file, fills in the
envelope wrapper, a generated sessionId, and timestamps where missing, and
posts it to the server.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		body, err := prepareEnvelope(raw, submitPlayer)
		if err != nil {
			return err
		}

		url := strings.TrimRight(submitServer, "/") + "/sessions"
		resp, err := http.Post(url, "application/json", bytes.NewReader(body))
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		var out struct {
			OK        bool   `json:"ok"`
			Error     string `json:"error"`
			SessionID string `json:"sessionId"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return fmt.Errorf("decode response (%s): %w", resp.Status, err)
		}

		switch {
		case resp.StatusCode == http.StatusCreated:
			fmt.Printf("stored %s\n", out.SessionID)
			return nil
		case resp.StatusCode == http.StatusConflict:
			fmt.Printf("already stored %s\n", out.SessionID)
			return nil
		default:
			return fmt.Errorf("%s: %s", resp.Status, out.Error)
		}
	},
}

// prepareEnvelope wraps a bare session in an envelope when needed and
// fills sessionId/startedAt/endedAt defaults. Unknown fields pass through
// untouched; the server revalidates everything anyway.
func prepareEnvelope(raw []byte, playerID string) ([]byte, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse session file: %w", err)
	}

	if _, ok := doc["session"]; !ok {
		doc = map[string]any{"session": doc}
	}
	if _, ok := doc["schemaVersion"]; !ok {
		doc["schemaVersion"] = putt.SchemaVersion
	}
	if _, ok := doc["app"]; !ok {
		doc["app"] = putt.AppName
	}

	sess, ok := doc["session"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("session file: session must be an object")
	}
	if playerID != "" {
		sess["playerId"] = playerID
	}
	if s, _ := sess["sessionId"].(string); s == "" {
		sess["sessionId"] = uuid.NewString()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	if s, _ := sess["startedAt"].(string); s == "" {
		sess["startedAt"] = now
	}
	if s, _ := sess["endedAt"].(string); s == "" {
		sess["endedAt"] = now
	}
	if _, ok := sess["games"]; !ok {
		sess["games"] = []any{}
	}

	return json.Marshal(doc)
}

func init() {
	submitCmd.Flags().StringVar(&submitServer, "server", fmt.Sprintf("http://localhost:%d", server.DefaultPort), "server base URL")
	submitCmd.Flags().StringVar(&submitPlayer, "player", "", "override session.playerId")
}
