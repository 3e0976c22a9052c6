// Package api provides the read-only HTTP API for observing board state.
// All endpoints are GET; the board itself is only mutated through the
// desktop client, never over HTTP.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hexclaim/internal/board"
	"github.com/talgya/hexclaim/internal/grid"
	"github.com/talgya/hexclaim/internal/persistence"
)

// Server serves board state over HTTP.
type Server struct {
	Layout *grid.Layout
	Cache  *board.Cache
	DB     *persistence.DB
	Events *board.EventLog
	Hub    *Hub
	Port   int
}

// routes builds the full handler chain. Split from Start so tests can
// drive it through httptest.
func (s *Server) routes() http.Handler {
	// The bulk endpoint reads every claimed cell; keep scrapers polite.
	cellsLimiter := NewRateLimiter(30, time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/cells", RateLimitMiddleware(cellsLimiter, s.handleCells))
	mux.HandleFunc("/api/v1/cell/", s.handleCellDetail)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/watch", s.handleWatch)

	return corsMiddleware(mux)
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	if s.Hub != nil {
		go s.Hub.Run()
	}

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "watch", s.Hub != nil)

	handler := s.routes()
	go func() {
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS to a comma-separated list of extra origins; localhost
// dev servers are always allowed. The API is read-only, so only GET is
// ever advertised.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	claimed := 0
	if s.DB != nil {
		if n, err := s.DB.CountCells(); err == nil {
			claimed = n
		}
	}

	loaded, pending := 0, 0
	if s.Cache != nil {
		loaded, pending = s.Cache.Stats()
	}

	status := map[string]any{
		"name":          "hexclaim",
		"columns":       s.Layout.Spec.Columns,
		"rows":          s.Layout.Spec.Rows,
		"cells":         s.Layout.Spec.CellCount(),
		"cell_radius":   s.Layout.Spec.CellRadius,
		"claimed":       claimed,
		"claimed_human": humanize.Comma(int64(claimed)),
		"cache_loaded":  loaded,
		"cache_pending": pending,
	}
	if s.DB != nil {
		status["db_size"] = humanize.Bytes(uint64(s.DB.FileSize()))
	}
	if s.Hub != nil {
		status["watchers"] = s.Hub.Count()
	}
	writeJSON(w, status)
}

func (s *Server) handleCells(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "database not available", http.StatusServiceUnavailable)
		return
	}

	cells, err := s.DB.AllCells()
	if err != nil {
		slog.Error("bulk cell query failed", "error", err)
		http.Error(w, "query failed", http.StatusInternalServerError)
		return
	}
	if cells == nil {
		cells = []persistence.CellEntry{}
	}
	writeJSON(w, cells)
}

func (s *Server) handleCellDetail(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(r.URL.Path, "/")
	// /api/v1/cell/:idx → parts[0]="" [1]="api" [2]="v1" [3]="cell" [4]=idx
	if len(parts) < 5 || parts[4] == "" {
		http.Error(w, "missing cell index", http.StatusBadRequest)
		return
	}
	index, err := strconv.Atoi(parts[4])
	if err != nil {
		http.Error(w, "invalid cell index", http.StatusBadRequest)
		return
	}

	center, ok := s.Layout.Center(index)
	if !ok {
		http.Error(w, "cell not found", http.StatusNotFound)
		return
	}

	result := map[string]any{
		"index":   center.Index,
		"row":     center.Row,
		"col":     center.Col,
		"x":       center.X,
		"y":       center.Y,
		"claimed": false,
	}

	if s.DB != nil {
		rec, err := s.DB.GetCell(index)
		if err != nil {
			slog.Error("cell query failed", "error", err, "index", index)
			http.Error(w, "query failed", http.StatusInternalServerError)
			return
		}
		if rec.Claimed() {
			result["claimed"] = true
			result["color"] = rec.Color
			result["label"] = rec.Label
		}
	}
	writeJSON(w, result)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	if s.DB != nil {
		events, err := s.DB.RecentEvents(limit)
		if err != nil {
			slog.Error("event query failed", "error", err)
			http.Error(w, "query failed", http.StatusInternalServerError)
			return
		}
		if events == nil {
			events = []board.Event{}
		}
		writeJSON(w, events)
		return
	}

	// No database: fall back to the in-memory ring.
	events := []board.Event{}
	if s.Events != nil {
		events = s.Events.Recent(limit)
	}
	writeJSON(w, events)
}

func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	if s.Hub == nil {
		http.Error(w, "watch disabled", http.StatusServiceUnavailable)
		return
	}
	s.Hub.ServeWS(w, r)
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
