package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/greenside-labs/go-putt/internal/drill"
	"github.com/greenside-labs/go-putt/internal/stats"
	"github.com/greenside-labs/go-putt/internal/store"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats <playerId>",
	Short: "Show per-drill last and personal-best results for a player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := drill.Load(drillsPath)
		if err != nil {
			return err
		}
		st := store.Open(dataPath)

		summary, err := stats.NewEngine(st, reg).Compute(args[0])
		if err != nil {
			return err
		}

		if statsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		}

		fmt.Printf("Player %s: %d sessions\n\n", summary.PlayerID, summary.Meta.SessionsCount)
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "DRILL\tLAST\tPB")
		for _, id := range reg.IDs() {
			entry := summary.Games[id]
			fmt.Fprintf(w, "%s\t%s\t%s\n", id, markDisplay(entry.Last), markDisplay(entry.PB))
		}
		return w.Flush()
	},
}

func markDisplay(m *stats.Mark) string {
	if m == nil {
		return "—"
	}
	return m.Display
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output JSON instead of a table")
}
