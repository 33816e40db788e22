// Package cmd is reactorctl's urfave/cli/v2 entrypoint: a "run" command
// that boots the demo host application from internal/app/root plus its
// optional debug graph HTTP/WS endpoints and terminal UI, and a "graph"
// command that curls a running instance's debug endpoint and pretty-prints
// it for piping into jq. Grounded on the teacher's cmd/cmd.go shape (an
// urfave/cli.App wrapping a single long-running server command) generalized
// to two subcommands.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/novywave/reactivecore/internal/app/root"
	"github.com/novywave/reactivecore/internal/app/ui"
	"github.com/novywave/reactivecore/internal/config"
	"github.com/novywave/reactivecore/internal/debughttp"
	"github.com/novywave/reactivecore/internal/debugws"
	"github.com/novywave/reactivecore/internal/obslog"
)

const ServiceName = "reactorctl"

// Run builds and executes the reactorctl CLI application against os.Args.
func Run() error {
	app := &cli.App{
		Name:  ServiceName,
		Usage: "demo host for the reactive state-management core (file tracking, variable selection, terminal UI)",
		Commands: []*cli.Command{
			runCmd(),
			graphCmd(),
		},
	}
	return app.Run(os.Args)
}

func runCmd() *cli.Command {
	def := config.Defaults()
	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "boot the demo host application",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: def.LogLevel, Usage: "debug, info, warn, error"},
			&cli.StringFlag{Name: "log-format", Value: def.LogFormat, Usage: "text or json"},
			&cli.StringFlag{Name: "tracked-files-dir", Value: def.TrackedFilesDir, Usage: "directory watched for tracked files"},
			&cli.DurationFlag{Name: "parse-retry-max", Value: def.ParseRetryMax, Usage: "max elapsed time retrying a flaky file parse"},
			&cli.BoolFlag{Name: "debug-graph-enabled", Value: def.DebugGraphEnabled, Usage: "enable the debug connection graph HTTP/WS endpoints"},
			&cli.StringFlag{Name: "debug-http-addr", Value: def.DebugHTTPAddr, Usage: "address the debug graph HTTP server listens on"},
			&cli.BoolFlag{Name: "headless", Usage: "skip the terminal UI; useful under a debugger or CI"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(nil)
			if err != nil {
				return err
			}
			if c.IsSet("log-level") {
				cfg.LogLevel = c.String("log-level")
			}
			if c.IsSet("log-format") {
				cfg.LogFormat = c.String("log-format")
			}
			if c.IsSet("tracked-files-dir") {
				cfg.TrackedFilesDir = c.String("tracked-files-dir")
			}
			if c.IsSet("parse-retry-max") {
				cfg.ParseRetryMax = c.Duration("parse-retry-max")
			}
			if c.IsSet("debug-graph-enabled") {
				cfg.DebugGraphEnabled = c.Bool("debug-graph-enabled")
			}
			if c.IsSet("debug-http-addr") {
				cfg.DebugHTTPAddr = c.String("debug-http-addr")
			}

			log := obslog.New(cfg.LogLevel, cfg.LogFormat)

			ctx, cancel := context.WithCancel(c.Context)
			defer cancel()

			app, err := root.New(ctx, cfg, log)
			if err != nil {
				return fmt.Errorf("reactorctl: %w", err)
			}
			if err := app.Start(ctx); err != nil {
				return err
			}
			defer func() {
				stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer stopCancel()
				if err := app.Stop(stopCtx); err != nil {
					log.Error("reactorctl: stop failed", "err", err)
				}
			}()

			if cfg.DebugGraphEnabled && app.Graph != nil {
				mux := http.NewServeMux()
				mux.Handle("/", debughttp.NewRouter(app.Graph))
				mux.HandleFunc("/debug/graph/ws", debugws.Handler(app.Graph, log))
				srv := &http.Server{Addr: cfg.DebugHTTPAddr, Handler: mux}

				go func() {
					if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
						log.Error("reactorctl: debug http server failed", "err", err)
					}
				}()
				go func() {
					<-ctx.Done()
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
					defer shutdownCancel()
					_ = srv.Shutdown(shutdownCtx)
				}()
			}

			if c.Bool("headless") {
				stop := make(chan os.Signal, 1)
				signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
				select {
				case <-stop:
				case <-ctx.Done():
				}
				return nil
			}

			return ui.Run(ctx, app.SelectedVariables)
		},
	}
}

func graphCmd() *cli.Command {
	return &cli.Command{
		Name:  "graph",
		Usage: "dump the debug connection graph of a running `reactorctl run --debug-graph-enabled` as JSON, for piping into jq",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Value: config.Defaults().DebugHTTPAddr, Usage: "debug HTTP address of a running instance"},
		},
		Action: func(c *cli.Context) error {
			resp, err := http.Get("http://" + c.String("addr") + "/debug/graph")
			if err != nil {
				return fmt.Errorf("graph: fetching from %s: %w", c.String("addr"), err)
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("graph: reading response: %w", err)
			}

			var edges []json.RawMessage
			if err := json.Unmarshal(body, &edges); err != nil {
				_, werr := os.Stdout.Write(body)
				return werr
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(edges)
		},
	}
}
