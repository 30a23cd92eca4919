package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/greenside-labs/go-putt/internal/applog"
	"github.com/greenside-labs/go-putt/internal/drill"
	"github.com/greenside-labs/go-putt/internal/server"
	"github.com/greenside-labs/go-putt/internal/store"
)

// Serve command flags
var (
	servePort        int
	serveHost        string
	serveOrigins     []string
	serveDupWindow   int
	serveQuiet       bool
	serveWatchDrills bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := drill.Load(drillsPath)
		if err != nil {
			return err
		}
		st := store.Open(dataPath, store.WithDupWindow(serveDupWindow))

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if serveWatchDrills && drillsPath != "" {
			stop, err := drill.Watch(ctx, reg, drillsPath, 2*time.Second)
			if err != nil {
				applog.Log.Warn("Drill config watch disabled", "error", err)
			} else {
				defer stop()
			}
		}

		srv := server.New(st, reg, server.Config{
			Host:    serveHost,
			Port:    servePort,
			Origins: serveOrigins,
			Quiet:   serveQuiet,
		})
		applog.Log.Info("Server starting",
			"addr", srv.Addr(),
			"data", dataPath,
			"dup_window", serveDupWindow)
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", server.DefaultPort, "server port")
	serveCmd.Flags().StringVar(&serveHost, "host", server.DefaultHost, "server host")
	serveCmd.Flags().StringSliceVar(&serveOrigins, "origins", nil, "allowed CORS origins (empty = same-origin only, \"*\" = any)")
	serveCmd.Flags().IntVar(&serveDupWindow, "dup-window", store.DefaultDupWindow, "recent lines scanned for duplicate sessionIds")
	serveCmd.Flags().BoolVar(&serveQuiet, "quiet", false, "suppress request logging")
	serveCmd.Flags().BoolVar(&serveWatchDrills, "watch-drills", true, "reload the drill table when --drills changes")
}
