// putt is the putting practice tracker CLI: it serves the HTTP API and
// inspects the session log offline.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/greenside-labs/go-putt/internal/applog"
	"github.com/greenside-labs/go-putt/internal/version"
)

// Global flags
var (
	dataPath   string
	drillsPath string
	logPath    string
)

var rootCmd = &cobra.Command{
	Use:   "putt",
	Short: "Putting practice session tracker",
	Long: `putt tracks putting practice sessions in an append-only JSONL log and
computes per-drill last and personal-best statistics.

Commands:
  serve     Run the HTTP API server
  history   Show recent sessions for a player
  stats     Show per-drill last/PB summary for a player
  submit    Post a session file to a running server
  version   Print version information

Examples:
  putt serve --port 8470 --data data/sessions.jsonl
  putt history ply_001 --limit 10
  putt stats ply_001
  putt submit session.json --server http://localhost:8470`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		info := version.GetInfo("putt")
		fmt.Printf("%s %s\n", info.Name, info.Version)
		if info.Revision != "" {
			fmt.Printf("revision: %s\n", info.Revision)
		}
	},
}

func defaultDataPath() string {
	return filepath.Join("data", "sessions.jsonl")
}

func main() {
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", defaultDataPath(), "path to the sessions JSONL log")
	rootCmd.PersistentFlags().StringVar(&drillsPath, "drills", "", "path to a drills.toml overlay")
	rootCmd.PersistentFlags().StringVar(&logPath, "log", "", "write debug log to file")

	cobra.OnInitialize(func() {
		if err := applog.Init(logPath); err != nil {
			fmt.Fprintf(os.Stderr, "error: init log: %v\n", err)
			os.Exit(1)
		}
	})

	rootCmd.AddCommand(serveCmd, historyCmd, statsCmd, submitCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
