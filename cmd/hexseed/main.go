// Command hexseed pre-claims organic regions on a board database so a
// fresh canvas does not open empty. With -inspect it prints one cell
// record instead.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hexclaim/internal/engine"
	"github.com/talgya/hexclaim/internal/grid"
	"github.com/talgya/hexclaim/internal/persistence"
	"github.com/talgya/hexclaim/internal/seed"
)

func main() {
	inspect := flag.Int("inspect", -1, "print one cell record and exit")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	dbPath := envOrDefault("HEXSEED_DB", "hexclaim.db")

	boardCfg := engine.DefaultConfig()
	boardCfg.Columns = envIntOrDefault("HEXSEED_COLUMNS", boardCfg.Columns)
	boardCfg.Rows = envIntOrDefault("HEXSEED_ROWS", boardCfg.Rows)

	layout := grid.NewLayout(grid.Spec{
		Columns:    boardCfg.Columns,
		Rows:       boardCfg.Rows,
		CellRadius: boardCfg.CellRadius,
	})

	// ── Database ──────────────────────────────────────────────────────
	db, err := persistence.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if *inspect >= 0 {
		if err := inspectCell(db, layout, *inspect); err != nil {
			slog.Error("inspect failed", "error", err)
			os.Exit(1)
		}
		return
	}

	existing, err := db.CountCells()
	if err != nil {
		slog.Error("failed to count cells", "error", err)
		os.Exit(1)
	}
	slog.Info("database opened", "path", dbPath, "claimed", existing)

	// ── Seeding ───────────────────────────────────────────────────────
	cfg := seed.DefaultConfig()
	cfg.Seed = int64(envIntOrDefault("HEXSEED_SEED", 0))
	cfg.Regions = envIntOrDefault("HEXSEED_REGIONS", cfg.Regions)
	cfg.MaxRegionSize = envIntOrDefault("HEXSEED_MAX_REGION", cfg.MaxRegionSize)

	summary, err := seed.Run(db, layout, cfg)
	if err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}

	if err := db.SaveMeta("seed", strconv.FormatInt(summary.Seed, 10)); err != nil {
		slog.Error("failed to record seed", "error", err)
	}

	total, err := db.CountCells()
	if err != nil {
		slog.Error("failed to count cells", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Seeded %s cells across %d regions (seed %d, %d skipped).\n",
		humanize.Comma(int64(summary.Claimed)), summary.Regions, summary.Seed, summary.Skipped)
	fmt.Printf("Board now holds %s claimed cells at %s.\n",
		humanize.Comma(int64(total)), dbPath)
}

// inspectCell prints one cell's stored state. The owner digest is never
// shown.
func inspectCell(db *persistence.DB, layout *grid.Layout, index int) error {
	center, ok := layout.Center(index)
	if !ok {
		return fmt.Errorf("cell %d is outside the %dx%d board",
			index, layout.Spec.Columns, layout.Spec.Rows)
	}

	rec, err := db.GetCell(index)
	if err != nil {
		return err
	}

	fmt.Printf("cell %d  row %d  col %d  center (%.1f, %.1f)\n",
		index, center.Row, center.Col, center.X, center.Y)
	if !rec.Claimed() {
		fmt.Println("unclaimed")
		return nil
	}
	fmt.Printf("claimed  color %s  label %q\n", rec.Color, rec.Label)
	return nil
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
