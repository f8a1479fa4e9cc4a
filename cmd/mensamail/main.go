// Command mensamail downloads the weekly cafeteria menu PDF, parses and
// filters the dishes, mails the result to the configured recipients, and can
// optionally keep serving the parsed menu over HTTP and MCP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/mensawerk/mensamail/config"
	"github.com/mensawerk/mensamail/dbopen"
	"github.com/mensawerk/mensamail/fetch"
	"github.com/mensawerk/mensamail/mail"
	"github.com/mensawerk/mensamail/menu"
	"github.com/mensawerk/mensamail/observability"
	"github.com/mensawerk/mensamail/pdftable"
	"github.com/mensawerk/mensamail/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	// Logging.
	var lvl slog.Level
	switch cfg.LogLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	// Signal context.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Optional run log.
	var runlog *observability.RunLogger
	if cfg.RunLogPath != "" {
		db, err := dbopen.Open(cfg.RunLogPath,
			dbopen.WithMkdirAll(),
			dbopen.WithSchema(observability.Schema))
		if err != nil {
			slog.Error("run log db", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		runlog = observability.NewRunLogger(db)
		if err := observability.Cleanup(ctx, db, cfg.RunLogRetention); err != nil {
			slog.Warn("run log cleanup", "error", err)
		}
	}

	store := &web.Store{}

	if err := runOnce(ctx, cfg, store, runlog); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}

	serveHTTP := cfg.Port != ""
	serveMCP := cfg.MCPTransport == "stdio"
	if !serveHTTP && !serveMCP {
		return
	}

	if serveHTTP {
		srv := &http.Server{
			Addr:    ":" + cfg.Port,
			Handler: web.NewRouter(store, cfg.AdminPasswordHash, logger),
		}
		go func() {
			slog.Info("http listening", "port", cfg.Port)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("http server", "error", err)
			}
		}()
		defer func() {
			shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutCancel()
			srv.Shutdown(shutCtx)
		}()

		// Re-fetch periodically so the served menu stays current.
		if interval, err := time.ParseDuration(cfg.RefreshInterval); err == nil && interval > 0 {
			go func() {
				ticker := time.NewTicker(interval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						if err := refresh(ctx, cfg, store, runlog); err != nil {
							slog.Error("refresh", "error", err)
						}
					}
				}
			}()
		}
	}

	if serveMCP {
		mcpSrv := mcp.NewServer(&mcp.Implementation{
			Name:    "mensamail",
			Version: "1.0.0",
		}, nil)
		menu.RegisterMCP(mcpSrv, store.Snapshot)
		go func() {
			if err := mcpSrv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
				slog.Error("mcp server", "error", err)
			}
		}()
	}

	<-ctx.Done()
}

// runOnce executes the full pipeline: download, parse, record, mail. A menu
// document without a usable table degrades to the empty week and a "no
// dishes" mail; download and transport failures are fatal.
func runOnce(ctx context.Context, cfg *config.Config, store *web.Store, runlog *observability.RunLogger) error {
	started := time.Now()

	week, err := buildWeek(ctx, cfg)
	degraded := errors.Is(err, menu.ErrNoMenuTable)
	if err != nil && !degraded {
		logRun(ctx, runlog, started, nil, false, err.Error())
		return err
	}
	if degraded {
		slog.Warn("menu table unavailable, sending empty menu")
	}

	store.Set(week, started)
	detail := ""
	if degraded {
		detail = menu.ErrNoMenuTable.Error()
	}
	logRun(ctx, runlog, started, week, true, detail)

	if cfg.DryRun {
		slog.Info("dry run, skipping mail")
		return nil
	}

	formatter := mail.NewFormatter()
	sender := mail.NewSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword)
	return sender.Send(ctx, cfg.Recipients, formatter.Subject(), formatter.Body(week))
}

// refresh re-runs the fetch/parse half for the serving surfaces, without
// re-sending mail.
func refresh(ctx context.Context, cfg *config.Config, store *web.Store, runlog *observability.RunLogger) error {
	started := time.Now()
	week, err := buildWeek(ctx, cfg)
	if err != nil && !errors.Is(err, menu.ErrNoMenuTable) {
		logRun(ctx, runlog, started, nil, false, err.Error())
		return err
	}
	store.Set(week, started)
	logRun(ctx, runlog, started, week, true, "")
	return nil
}

func buildWeek(ctx context.Context, cfg *config.Config) (menu.DishesByDay, error) {
	data, err := fetch.New().Download(ctx, cfg.PDFURL)
	if err != nil {
		return nil, err
	}
	src, err := pdftable.FromBytes(data)
	if err != nil {
		return nil, err
	}
	builder := menu.New(menu.Config{
		MenuPage:        cfg.MenuPage,
		DayColumns:      cfg.DayColumns,
		FilterWords:     cfg.FilterWords,
		FilterAllergens: cfg.FilterAllergens,
	})
	return builder.Build(src)
}

func logRun(ctx context.Context, runlog *observability.RunLogger, started time.Time, week menu.DishesByDay, success bool, detail string) {
	if runlog == nil {
		return
	}
	perDay := map[string]int{}
	for day, dishes := range week {
		perDay[day] = len(dishes)
	}
	runlog.LogRun(ctx, observability.Run{
		StartedAt: started,
		PerDay:    perDay,
		Success:   success,
		Detail:    detail,
	})
}
