package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Mobin10111010/Planning/internal/advisory"
	"github.com/Mobin10111010/Planning/internal/clock"
	"github.com/Mobin10111010/Planning/internal/config"
	"github.com/Mobin10111010/Planning/internal/httpmw"
	"github.com/Mobin10111010/Planning/internal/reminder"
	"github.com/Mobin10111010/Planning/internal/server"
	"github.com/Mobin10111010/Planning/internal/stats"
	"github.com/Mobin10111010/Planning/internal/storage"
	"github.com/Mobin10111010/Planning/internal/task"
)

const configPath = "planning.yml"

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run() error {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(log)

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	bal := config.BalanceFromEnv()
	clk := clock.Real{}

	kv, err := openStorage(cfg)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer kv.Close()

	ctx := context.Background()
	anchor := cfg.Week.Anchor()

	store := task.NewStore(task.StoreConfig{
		KV:      kv,
		Clock:   clk,
		Balance: bal,
		Anchor:  anchor,
		Logger:  log,
	})
	if err := store.Load(ctx); err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}

	engine := stats.NewEngine(stats.EngineConfig{
		Source:  store,
		Clock:   clk,
		Balance: bal,
		Anchor:  anchor,
	})
	store.OnStructuralChange(engine.Invalidate)

	surface := reminder.NewPanelSurface(bal.ReminderAutoDismissMS, log)
	sched := reminder.NewScheduler(reminder.SchedulerConfig{
		KV:      kv,
		Clock:   clk,
		Titles:  store,
		Surface: surface,
		Logger:  log,
	})
	if err := sched.Init(ctx); err != nil {
		return fmt.Errorf("init reminders: %w", err)
	}

	app := &server.App{
		Store:     store,
		Stats:     engine,
		Reminders: sched,
		Surface:   surface,
		Advisory:  advisory.NewClient(cfg.Advisory.Endpoint, cfg.Advisory.Timeout(), log),
		BootNow:   clk.Now(),
	}

	mux := http.NewServeMux()
	rr := &server.RouteRegistry{}
	server.RegisterAPIRoutes(mux, rr, app)

	handler := httpmw.Chain(mux,
		httpmw.WithRequestID,
		httpmw.WithRecover(log),
		httpmw.WithAccessLog(log),
	)

	srv := &http.Server{Addr: cfg.Listen, Handler: handler}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.Listen, "storage", cfg.Storage.Driver)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Warn("shutdown", "err", err)
	}

	sched.Stop()
	surface.Close()
	store.Flush(shutdownCtx)
	return nil
}

func openStorage(cfg *config.Config) (storage.KV, error) {
	switch cfg.Storage.Driver {
	case "sqlite":
		return storage.NewSQLite(cfg.DataDir)
	case "memory":
		return storage.NewMemory(), nil
	default:
		return storage.NewFile(cfg.DataDir)
	}
}
