// Package api provides the HTTP API for the city simulation.
// GET endpoints are public (read-only observation).
// Gameplay POSTs are rate limited; admin POSTs require a bearer token.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/agent-metro/internal/persistence"
	"github.com/talgya/agent-metro/internal/sim"
	"github.com/talgya/agent-metro/internal/world"
)

// Server serves the world state over HTTP.
type Server struct {
	Sim      *sim.Sim
	DB       *persistence.DB // optional; nil disables the durable activity log
	Port     int
	AdminKey string // Bearer token for admin POSTs. Empty = admin disabled.

	startedAt time.Time
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	s.startedAt = time.Now()
	actionLimiter := NewActionLimiter(60, time.Minute)

	mux := http.NewServeMux()

	// Public endpoints. GET only, anyone can watch the city.
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/agents", s.handleAgents)
	mux.HandleFunc("/api/v1/agent/", s.handleAgentDetail)
	mux.HandleFunc("/api/v1/missions", s.handleMissions)
	mux.HandleFunc("/api/v1/crews", s.handleCrews)
	mux.HandleFunc("/api/v1/vehicles", s.handleVehicles)
	mux.HandleFunc("/api/v1/security", s.handleSecurity)
	mux.HandleFunc("/api/v1/dialogue", s.handleDialogue)
	mux.HandleFunc("/api/v1/locations", s.handleLocations)
	mux.HandleFunc("/api/v1/activity", s.handleActivity)
	mux.HandleFunc("/api/v1/leaderboard", s.handleLeaderboard)

	// Websocket snapshot stream for renderers.
	mux.HandleFunc("/api/v1/stream", s.handleStream)

	// Gameplay endpoints (POST, rate limited).
	mux.HandleFunc("/api/v1/heat", withActionLimit(actionLimiter, s.handleHeat))
	mux.HandleFunc("/api/v1/vehicle/enter", withActionLimit(actionLimiter, s.handleVehicleEnter))
	mux.HandleFunc("/api/v1/vehicle/exit", withActionLimit(actionLimiter, s.handleVehicleExit))
	mux.HandleFunc("/api/v1/safehouse", withActionLimit(actionLimiter, s.handleSafeHouse))

	// Admin endpoints (POST, require bearer token).
	mux.HandleFunc("/api/v1/init", s.adminOnly(s.handleInit))
	mux.HandleFunc("/api/v1/reset", s.adminOnly(s.handleReset))
	mux.HandleFunc("/api/v1/crews/recompute", s.adminOnly(s.handleCrewRecompute))

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		handler := corsMiddleware(mux)
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS env var to a comma-separated list of allowed origins.
// Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
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
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return auth == "Bearer "+s.AdminKey
}

func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if s.AdminKey == "" {
			http.Error(w, "admin endpoints disabled (no METROSIM_ADMIN_KEY set)", http.StatusForbidden)
			return
		}
		if !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	store := s.Sim.Store()
	agents := store.Agents()
	missions := store.Missions()

	online, totalCoins := 0, 0
	for _, a := range agents {
		if a.IsOnline {
			online++
		}
		totalCoins += a.Coins
	}
	open, completed := 0, 0
	for _, m := range missions {
		if m.IsCompleted {
			completed++
		} else if m.AssignedTo == "" {
			open++
		}
	}

	writeJSON(w, map[string]any{
		"agents":             len(agents),
		"agents_online":      online,
		"missions_open":      open,
		"missions_completed": completed,
		"crews":              len(store.Crews()),
		"vehicles":           len(store.Vehicles()),
		"security_active":    len(store.Security()),
		"total_coins":        humanize.Comma(int64(totalCoins)),
		"started":            humanize.Time(s.startedAt),
	})
}

func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.Store().Agents())
}

// handleAgentDetail serves GET /api/v1/agent/{id} with the agent, its
// district, and its assigned mission when it has one.
func (s *Server) handleAgentDetail(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/agent/")
	if id == "" {
		http.Error(w, "agent id required", http.StatusBadRequest)
		return
	}
	a, ok := s.Sim.Store().Agent(sim.AgentID(id))
	if !ok {
		http.Error(w, "agent not found", http.StatusNotFound)
		return
	}

	resp := map[string]any{
		"agent":    a,
		"district": world.DistrictAt(a.X, a.Y),
	}
	if a.CurrentMission != "" {
		if m, ok := s.Sim.Store().Mission(a.CurrentMission); ok {
			resp["mission"] = m
		}
	}
	if a.CrewID != "" {
		if c, ok := s.Sim.Store().Crew(a.CrewID); ok {
			resp["crew"] = c
		}
	}
	writeJSON(w, resp)
}

func (s *Server) handleMissions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.Store().Missions())
}

func (s *Server) handleCrews(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.Store().Crews())
}

func (s *Server) handleVehicles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.Store().Vehicles())
}

func (s *Server) handleSecurity(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.Store().Security())
}

func (s *Server) handleDialogue(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.Store().ActiveDialogue(time.Now(), 50))
}

func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.Store().Locations())
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		fmt.Sscanf(v, "%d", &limit)
	}
	if limit < 1 || limit > 500 {
		limit = 20
	}

	// The durable log survives restarts; fall back to the in-memory feed.
	if s.DB != nil {
		if entries, err := s.DB.RecentActivity(limit); err == nil {
			writeJSON(w, entries)
			return
		}
	}
	writeJSON(w, s.Sim.Store().RecentActivity(limit))
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	top := s.Sim.Store().Leaderboard(10)
	type entry struct {
		Rank       int    `json:"rank"`
		Name       string `json:"name"`
		Coins      int    `json:"coins"`
		CoinsText  string `json:"coins_text"`
		Reputation int    `json:"reputation"`
	}
	out := make([]entry, 0, len(top))
	for i, a := range top {
		out = append(out, entry{
			Rank:       i + 1,
			Name:       a.Name,
			Coins:      a.Coins,
			CoinsText:  humanize.Comma(int64(a.Coins)),
			Reputation: a.Reputation,
		})
	}
	writeJSON(w, out)
}

func (s *Server) handleHeat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		AgentID string  `json:"agent_id"`
		Amount  float64 `json:"amount"`
		Reason  string  `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if req.Amount <= 0 {
		http.Error(w, "amount must be positive", http.StatusBadRequest)
		return
	}
	if err := s.Sim.AddHeat(sim.AgentID(req.AgentID), req.Amount, req.Reason); err != nil {
		writeError(w, err)
		return
	}
	slog.Info("heat added", "agent", req.AgentID, "amount", req.Amount, "reason", req.Reason)
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleVehicleEnter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		AgentID   string `json:"agent_id"`
		VehicleID string `json:"vehicle_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := s.Sim.EnterVehicle(sim.AgentID(req.AgentID), sim.VehicleID(req.VehicleID)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleVehicleExit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		AgentID string `json:"agent_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := s.Sim.ExitVehicle(sim.AgentID(req.AgentID)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleSafeHouse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		AgentID string `json:"agent_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := s.Sim.VisitSafeHouse(sim.AgentID(req.AgentID)); err != nil {
		writeError(w, err)
		return
	}
	a, _ := s.Sim.Store().Agent(sim.AgentID(req.AgentID))
	writeJSON(w, map[string]any{"status": "ok", "wanted_level": a.WantedLevel})
}

func (s *Server) handleInit(w http.ResponseWriter, r *http.Request) {
	s.Sim.Initialize()
	writeJSON(w, map[string]string{"status": "initialized"})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.Sim.Reset()
	writeJSON(w, map[string]string{"status": "reset"})
}

func (s *Server) handleCrewRecompute(w http.ResponseWriter, r *http.Request) {
	s.Sim.RecomputeAllCrewStats()
	writeJSON(w, s.Sim.Store().Crews())
}

// writeError maps sim sentinel errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusConflict
	if errors.Is(err, sim.ErrNotFound) {
		status = http.StatusNotFound
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
