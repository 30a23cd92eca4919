package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/greenside-labs/go-putt/internal/query"
	"github.com/greenside-labs/go-putt/internal/store"
)

// History command flags
var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history <playerId>",
	Short: "Show recent sessions for a player, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st := store.Open(dataPath)
		records, err := query.History(st, args[0], historyLimit)
		if err != nil {
			return err
		}

		if historyJSON {
			// Emit the stored lines verbatim, as the API does.
			raws := make([]json.RawMessage, len(records))
			for i, rec := range records {
				raws[i] = rec.Raw
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(raws)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "STARTED\tENDED\tSESSION\tGAMES")
		for _, rec := range records {
			s := rec.Envelope.Session
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", s.StartedAt, s.EndedAt, s.SessionID, len(s.Games))
		}
		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", query.DefaultLimit, "maximum sessions to show")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output JSON instead of a table")
}
