// Command metrosim runs the Agent Metro autonomous city simulation.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/talgya/agent-metro/internal/api"
	"github.com/talgya/agent-metro/internal/engine"
	"github.com/talgya/agent-metro/internal/entropy"
	"github.com/talgya/agent-metro/internal/persistence"
	"github.com/talgya/agent-metro/internal/sim"
	"github.com/talgya/agent-metro/internal/tuning"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(),
	}))
	slog.SetDefault(logger)

	slog.Info("Agent Metro — Autonomous City Simulation")

	// ── Configuration ─────────────────────────────────────────────────
	apiPort := envInt("METROSIM_PORT", 8080)
	dbPath := envStr("METROSIM_DB", "data/metro.db")
	adminKey := os.Getenv("METROSIM_ADMIN_KEY")
	if adminKey == "" {
		slog.Warn("METROSIM_ADMIN_KEY not set — admin POST endpoints will be disabled")
	}

	cfg := tuning.Defaults()
	if path := os.Getenv("METROSIM_TUNING"); path != "" {
		var err error
		cfg, err = tuning.Load(path)
		if err != nil {
			slog.Error("failed to load tuning", "path", path, "error", err)
			os.Exit(1)
		}
		slog.Info("tuning loaded", "path", path)
	}

	seed, seeded := envSeed()
	if !seeded {
		client := entropy.NewClient(os.Getenv("RANDOM_ORG_KEY"))
		seed = entropy.Seed(client)
		slog.Info("seed drawn from entropy source", "random_org", client.Enabled())
	}
	slog.Info("simulation seed", "seed", seed)

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll(filepath.Dir(dbPath), 0755)
	db, err := persistence.Open(dbPath, logger)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", dbPath)

	// ── World ─────────────────────────────────────────────────────────
	store := sim.NewStore()
	world := sim.New(store, cfg, logger, seed)

	restored, err := db.LoadSnapshot(store)
	if err != nil {
		slog.Error("failed to load snapshot", "error", err)
		os.Exit(1)
	}
	// Initialize is idempotent: it seeds geography always and re-seeds only
	// the entity pools the snapshot left empty.
	world.Initialize()
	if restored {
		slog.Info("resumed from saved city")
	} else {
		if err := db.SaveSnapshot(store); err != nil {
			slog.Error("initial save failed", "error", err)
		}
		db.SaveMeta("seed", strconv.FormatInt(seed, 10))
	}

	// ── Engine ────────────────────────────────────────────────────────
	snapshot := func() {
		if err := db.SaveSnapshot(store); err != nil {
			slog.Error("snapshot failed", "error", err)
		}
		if err := db.AppendActivity(store.DrainPendingActivity()); err != nil {
			slog.Error("activity log append failed", "error", err)
		}
	}

	eng := engine.New(logger)
	engine.Wire(eng, world, cfg.Scheduler, snapshot)
	eng.Start()

	// ── HTTP API ──────────────────────────────────────────────────────
	apiServer := &api.Server{
		Sim:      world,
		DB:       db,
		Port:     apiPort,
		AdminKey: adminKey,
	}
	apiServer.Start()

	fmt.Printf("\nAgent Metro is alive: %d agents on the streets.\n", len(store.Agents()))
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", apiPort)
	fmt.Println("Running... (Ctrl+C to stop)")

	// ── Shutdown ──────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig)

	eng.Stop()
	snapshot()
	fmt.Println("Simulation stopped. City state saved.")
}

func logLevel() slog.Level {
	if os.Getenv("METROSIM_DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envSeed() (int64, bool) {
	v := os.Getenv("METROSIM_SEED")
	if v == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		slog.Warn("invalid METROSIM_SEED, drawing one instead", "value", v)
		return 0, false
	}
	return n, true
}
