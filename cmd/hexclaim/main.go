// Command hexclaim opens the shared hex canvas in a desktop window.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/talgya/hexclaim/internal/api"
	"github.com/talgya/hexclaim/internal/app"
	"github.com/talgya/hexclaim/internal/board"
	"github.com/talgya/hexclaim/internal/engine"
	"github.com/talgya/hexclaim/internal/persistence"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	dbPath := envOrDefault("HEXCLAIM_DB", "hexclaim.db")
	apiPort := envIntOrDefault("HEXCLAIM_API_PORT", 0)
	winW := envIntOrDefault("HEXCLAIM_WINDOW_W", 1280)
	winH := envIntOrDefault("HEXCLAIM_WINDOW_H", 800)

	// ── Database ──────────────────────────────────────────────────────
	db, err := persistence.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", dbPath)

	// ── Engine ────────────────────────────────────────────────────────
	cfg := engine.DefaultConfig()
	cfg.Columns = envIntOrDefault("HEXCLAIM_COLUMNS", cfg.Columns)
	cfg.Rows = envIntOrDefault("HEXCLAIM_ROWS", cfg.Rows)

	eng := engine.New(db, board.SHA256Hex, cfg)
	defer eng.Close()

	// ── Event fan-out ─────────────────────────────────────────────────
	// Every save lands in the durable event table, and on the watch feed
	// when the API is up.
	var hub *api.Hub
	if apiPort > 0 {
		hub = api.NewHub()
	}
	eng.Events().OnEvent = func(e board.Event) {
		if err := db.AppendEvent(e); err != nil {
			slog.Error("event append failed", "error", err)
		}
		if hub != nil {
			hub.Broadcast(e)
		}
	}

	// ── HTTP API (optional, read-only) ────────────────────────────────
	if apiPort > 0 {
		server := &api.Server{
			Layout: eng.Layout(),
			Cache:  eng.Cache(),
			DB:     db,
			Events: eng.Events(),
			Hub:    hub,
			Port:   apiPort,
		}
		server.Start()
		fmt.Printf("API: http://localhost:%d/api/v1/status\n", apiPort)
	}

	// ── Window ────────────────────────────────────────────────────────
	ebiten.SetWindowSize(winW, winH)
	ebiten.SetWindowTitle("hexclaim")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(app.NewGame(eng)); err != nil {
		slog.Error("window closed with error", "error", err)
		os.Exit(1)
	}

	fmt.Println("Board closed. All claims are on disk.")
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envIntOrDefault(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}
