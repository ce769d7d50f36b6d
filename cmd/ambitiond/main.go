// Command ambitiond runs the household simulation as a long-lived service:
// state is advanced through the HTTP API and persisted to SQLite.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/talgya/ambition/internal/api"
	"github.com/talgya/ambition/internal/config"
	"github.com/talgya/ambition/internal/masterdata"
	"github.com/talgya/ambition/internal/persistence"
	"github.com/talgya/ambition/internal/scheduler"
	"github.com/talgya/ambition/internal/sim"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("Ambition — household simulation service")

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	data, err := masterdata.Load(cfg.MasterData)
	if err != nil {
		slog.Error("failed to load master data", "error", err)
		os.Exit(1)
	}
	slog.Info("master data loaded", "path", cfg.MasterData, "actions", len(data.Actions()))

	// ── Save store ────────────────────────────────────────────────────
	var store sim.SnapshotStore
	switch cfg.Save.Backend {
	case "sqlite":
		os.MkdirAll(filepath.Dir(cfg.Save.SQLitePath), 0755)
		db, err := persistence.OpenSQLite(cfg.Save.SQLitePath)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		slog.Info("database opened", "path", cfg.Save.SQLitePath)
		store = db
	default:
		store = persistence.NewFileStore(cfg.Save.FilePath)
		slog.Info("file store opened", "path", cfg.Save.FilePath)
	}

	// ── Load or start a game ──────────────────────────────────────────
	pipeline := sim.NewPipeline(data, store)

	ctx := context.Background()
	if pipeline.HasSaveData() {
		if err := pipeline.LoadGame(ctx); err != nil {
			slog.Error("failed to load save data", "error", err)
			os.Exit(1)
		}
		cal := pipeline.Calendar()
		slog.Info("save data restored",
			"turn", pipeline.CurrentTurn(),
			"year", cal.Year,
			"month", cal.Month,
			"savings", pipeline.Budget().CurrentSavings(),
		)
	} else {
		slog.Info("no save data found, starting new game",
			"player_id", cfg.NewGame.PlayerID,
			"wife_type_id", cfg.NewGame.WifeTypeID,
			"house_id", cfg.NewGame.HouseID,
		)
		if err := pipeline.StartNewGame(cfg.NewGame.PlayerID, cfg.NewGame.WifeTypeID, cfg.NewGame.HouseID); err != nil {
			slog.Error("failed to start new game", "error", err)
			os.Exit(1)
		}
		if err := pipeline.SaveGame(ctx); err != nil {
			slog.Error("initial save failed", "error", err)
		}
	}

	// ── Autosave ──────────────────────────────────────────────────────
	sched := scheduler.New(pipeline)
	if cfg.Save.AutosaveCron != "" {
		if err := sched.RegisterAutosave(cfg.Save.AutosaveCron); err != nil {
			slog.Error("invalid autosave schedule", "spec", cfg.Save.AutosaveCron, "error", err)
			os.Exit(1)
		}
		sched.Start()
		slog.Info("autosave scheduled", "spec", cfg.Save.AutosaveCron)
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	if cfg.API.AdminKey == "" {
		slog.Warn("admin key not set — POST endpoints will be disabled")
	}

	apiServer := &api.Server{
		Pipeline: pipeline,
		Port:     cfg.API.Port,
		AdminKey: cfg.API.AdminKey,
	}
	apiServer.Start()

	fmt.Printf("\n%s, turn %d. API: http://localhost:%d/api/v1/status\n",
		pipeline.HusbandName(), pipeline.CurrentTurn(), cfg.API.Port)
	fmt.Println("Running... (Ctrl+C to stop)")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig)

	sched.Stop()

	slog.Info("final save...")
	if err := pipeline.SaveGame(ctx); err != nil {
		slog.Error("final save failed", "error", err)
	}

	fmt.Println("Service stopped. Game state saved.")
}
