package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/satstack/api"
	"github.com/etnz/satstack/internal/logger"
	"github.com/etnz/satstack/store"
	"github.com/google/subcommands"
	"github.com/robfig/cron/v3"
)

type serveCmd struct {
	addr       string
	db         string
	importFile bool
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the ledger and the reports over HTTP" }
func (*serveCmd) Usage() string {
	return `satstack serve [-addr <host:port>] [-db <path>] [-import]

  Serves the JSON API on the given address, backed by a SQLite database.
  With -import, the database transactions are first replaced by the ledger
  file ones.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", appConfig.Server.Addr, "Listen address")
	f.StringVar(&c.db, "db", appConfig.Database.Path, "SQLite database path")
	f.BoolVar(&c.importFile, "import", false, "Replace the database transactions by the ledger file ones")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log := logger.Get()

	db, err := store.Open(ctx, c.db)
	if err != nil {
		return failure(err)
	}
	defer db.Close()
	log.Infow("connected to database", "path", c.db)

	if c.importFile {
		ledger, err := loadLedger()
		if err != nil {
			return failure(err)
		}
		if err := db.Replace(ctx, ledger); err != nil {
			return failure(err)
		}
		log.Infow("imported ledger", "file", *ledgerFile, "transactions", ledger.Len())
	}

	// quotes are refreshed by the scheduler, they must not come from the
	// daily cache.
	oracle, err := newOracle(&http.Client{Timeout: 10 * time.Second}, 2*time.Minute)
	if err != nil {
		return failure(err)
	}
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(appConfig.Price.Refresh, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := oracle.Refresh(ctx); err != nil {
			log.Warnw("cannot refresh bitcoin price", "error", err)
		}
	}); err != nil {
		return failure(fmt.Errorf("invalid price refresh schedule %q: %w", appConfig.Price.Refresh, err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:         c.addr,
		Handler:      api.NewRouter(db, oracle, appConfig, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Infow("starting server", "addr", c.addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errc:
		return failure(fmt.Errorf("server failed: %w", err))
	case <-quit:
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdown, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdown); err != nil {
		return failure(fmt.Errorf("server forced to shutdown: %w", err))
	}
	log.Info("server exited")
	return subcommands.ExitSuccess
}
