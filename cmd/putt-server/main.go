// putt-server is a standalone binary that runs the putting tracker HTTP
// API: it accepts practice session submissions, appends them to a JSONL
// log, and serves history and per-drill statistics.
//
// Usage:
//
//	putt-server
//	putt-server --port 8470 --data /var/lib/putt/sessions.jsonl
//	putt-server --origins https://example.com,https://staging.example.com
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/greenside-labs/go-putt/internal/applog"
	"github.com/greenside-labs/go-putt/internal/drill"
	"github.com/greenside-labs/go-putt/internal/server"
	"github.com/greenside-labs/go-putt/internal/store"
	"github.com/greenside-labs/go-putt/internal/version"
)

func main() {
	var (
		port        int
		host        string
		data        string
		drillsFile  string
		origins     string
		dupWindow   int
		quiet       bool
		showVersion bool
		logFile     string
	)

	flag.IntVar(&port, "port", server.DefaultPort, "server port")
	flag.StringVar(&host, "host", server.DefaultHost, "server host")
	flag.StringVar(&data, "data", "data/sessions.jsonl", "path to the sessions JSONL log")
	flag.StringVar(&drillsFile, "drills", "", "path to a drills.toml overlay")
	flag.StringVar(&origins, "origins", "", "comma-separated CORS origin allow-list (empty = same-origin only)")
	flag.IntVar(&dupWindow, "dup-window", store.DefaultDupWindow, "recent lines scanned for duplicate sessionIds")
	flag.BoolVar(&quiet, "quiet", false, "suppress non-error output")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.StringVar(&logFile, "log", "", "write debug log to file")
	flag.Parse()

	if showVersion {
		fmt.Printf("putt-server %s\n", version.Get())
		os.Exit(0)
	}

	if logFile != "" {
		if err := applog.Init(logFile); err != nil {
			fmt.Fprintf(os.Stderr, "error: init log: %v\n", err)
			os.Exit(1)
		}
		defer applog.Log.Close()
	}

	reg, err := drill.Load(drillsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	st := store.Open(data, store.WithDupWindow(dupWindow))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		if !quiet {
			fmt.Fprintln(os.Stderr, "\nShutting down...")
		}
		cancel()
	}()

	if drillsFile != "" {
		stop, err := drill.Watch(ctx, reg, drillsFile, 2*time.Second)
		if err != nil {
			applog.Log.Warn("Drill config watch disabled", "error", err)
		} else {
			defer stop()
		}
	}

	var allowList []string
	if origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				allowList = append(allowList, o)
			}
		}
	}

	srv := server.New(st, reg, server.Config{
		Host:    host,
		Port:    port,
		Origins: allowList,
		Quiet:   quiet,
	})

	if !quiet {
		fmt.Fprintf(os.Stderr, "putt-server %s\n", version.Get())
		fmt.Fprintf(os.Stderr, "Data log: %s (duplicate window %d lines)\n", data, dupWindow)
		if len(allowList) > 0 {
			fmt.Fprintf(os.Stderr, "CORS origins: %s\n", strings.Join(allowList, ", "))
		} else {
			fmt.Fprintln(os.Stderr, "CORS: same-origin only (use --origins to allow callers)")
		}
	}

	if err := srv.ListenAndServe(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
