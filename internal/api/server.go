// Package api exposes the running game over HTTP.
// GET endpoints are public (read-only observation of the household).
// POST endpoints drive the simulation and require a bearer token.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/talgya/ambition/internal/sim"
)

// Server serves the pipeline state and control endpoints.
type Server struct {
	Pipeline *sim.Pipeline
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.
}

// Handler builds the route table. Split from Start so tests can drive it
// through httptest.
func (s *Server) Handler() http.Handler {
	actionLimiter := NewRateLimiter(60, time.Minute)

	mux := http.NewServeMux()

	// Public endpoints (GET, read-only).
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/household", s.handleHousehold)
	mux.HandleFunc("/api/v1/actions", s.handleActions)

	// Control endpoints (POST, bearer token).
	mux.HandleFunc("/api/v1/action", RateLimitMiddleware(actionLimiter, s.adminOnly(s.handleAction)))
	mux.HandleFunc("/api/v1/meal-rank", s.adminOnly(s.handleMealRank))
	mux.HandleFunc("/api/v1/save", s.adminOnly(s.handleSave))
	mux.HandleFunc("/api/v1/load", s.adminOnly(s.handleLoad))
	mux.HandleFunc("/api/v1/new-game", s.adminOnly(s.handleNewGame))

	return mux
}

// Start begins serving in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	handler := s.Handler()
	go func() {
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if s.Pipeline.Husband() == nil {
		writeJSON(w, map[string]any{"started": false})
		return
	}

	cal := s.Pipeline.Calendar()
	status := map[string]any{
		"started":   true,
		"turn":      s.Pipeline.CurrentTurn(),
		"year":      cal.Year,
		"month":     cal.Month,
		"husband":   s.Pipeline.HusbandName(),
		"savings":   s.Pipeline.Budget().CurrentSavings(),
		"game_over": s.Pipeline.GameOver(),
	}
	if ev := s.Pipeline.CurrentEvent(); ev != nil {
		status["event"] = ev.Name
	}
	writeJSON(w, status)
}

func (s *Server) handleHousehold(w http.ResponseWriter, r *http.Request) {
	h := s.Pipeline.Husband()
	if h == nil {
		http.Error(w, "game not started", http.StatusConflict)
		return
	}
	wife := s.Pipeline.Wife()
	env := s.Pipeline.Environment()
	budget := s.Pipeline.Budget()
	fixed := budget.FixedCost()
	rep := s.Pipeline.Reputation()

	writeJSON(w, map[string]any{
		"husband": map[string]any{
			"id":              h.PlayerID(),
			"name":            s.Pipeline.HusbandName(),
			"age":             h.Age(),
			"health":          h.Health(),
			"mental":          h.Mental(),
			"condition":       h.Condition(),
			"love":            h.Love(),
			"ability":         h.Ability(),
			"team_evaluation": h.TeamEvaluation(),
			"salary":          h.Salary(),
		},
		"wife": map[string]any{
			"health":        wife.Health(),
			"max_health":    wife.MaxHealth(),
			"cooking_level": wife.CookingLevel(),
			"care_level":    wife.CareLevel(),
			"pr_level":      wife.PRLevel(),
			"coach_level":   wife.CoachLevel(),
		},
		"environment": map[string]any{
			"house_id":  env.HouseID(),
			"bed_level": env.BedLevel(),
			"gym_level": env.GymLevel(),
			"meal_rank": env.MealRank(),
		},
		"budget": map[string]any{
			"savings":     budget.CurrentSavings(),
			"rent":        fixed.Rent(),
			"tax":         fixed.Tax(),
			"insurance":   fixed.Insurance(),
			"maintenance": fixed.Maintenance(),
			"food_cost":   fixed.FoodCost(),
			"total_cost":  fixed.TotalCost(),
		},
		"reputation": map[string]any{
			"love":            rep.Love(),
			"team_evaluation": rep.TeamEvaluation(),
			"public_eye":      rep.PublicEye(),
		},
	})
}

func (s *Server) handleActions(w http.ResponseWriter, r *http.Request) {
	type actionEntry struct {
		ID             int    `json:"id"`
		Name           string `json:"name"`
		Category       string `json:"category"`
		SubCategory    string `json:"sub_category,omitempty"`
		CostMoney      int    `json:"cost_money"`
		CostWifeHealth int    `json:"cost_wife_health"`
	}

	actions := s.Pipeline.Data().Actions()
	entries := make([]actionEntry, 0, len(actions))
	for _, a := range actions {
		entries = append(entries, actionEntry{
			ID:             a.ID,
			Name:           a.Name,
			Category:       a.Category().String(),
			SubCategory:    a.SubCategory,
			CostMoney:      a.CostMoney,
			CostWifeHealth: a.CostWifeHealth,
		})
	}
	writeJSON(w, map[string]any{"actions": entries})
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ActionID int `json:"action_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}

	action := s.Pipeline.Data().ActionByID(req.ActionID)
	if action == nil {
		http.Error(w, "unknown action id", http.StatusNotFound)
		return
	}

	ok := s.Pipeline.ExecuteAction(action)
	writeJSON(w, map[string]any{
		"executed":  ok,
		"turn":      s.Pipeline.CurrentTurn(),
		"game_over": s.Pipeline.GameOver(),
		"savings":   s.Pipeline.Budget().CurrentSavings(),
	})
}

func (s *Server) handleMealRank(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rank int `json:"rank"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}
	if s.Pipeline.Husband() == nil {
		http.Error(w, "game not started", http.StatusConflict)
		return
	}

	s.Pipeline.ChangeMealRank(req.Rank)
	writeJSON(w, map[string]any{
		"meal_rank": s.Pipeline.Environment().MealRank(),
		"food_cost": s.Pipeline.Budget().FixedCost().FoodCost(),
	})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if err := s.Pipeline.SaveGame(r.Context()); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, sim.ErrBusy) {
			status = http.StatusConflict
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, map[string]any{"saved": true})
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	if err := s.Pipeline.LoadGame(r.Context()); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, sim.ErrBusy) {
			status = http.StatusConflict
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, map[string]any{"loaded": true, "turn": s.Pipeline.CurrentTurn()})
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerID   int `json:"player_id"`
		WifeTypeID int `json:"wife_type_id"`
		HouseID    int `json:"house_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}

	if err := s.Pipeline.StartNewGame(req.PlayerID, req.WifeTypeID, req.HouseID); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]any{"started": true, "turn": s.Pipeline.CurrentTurn()})
}

func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly requires bearer token auth and restricts the method to POST.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if s.AdminKey == "" {
			http.Error(w, "control endpoints disabled (no admin key set)", http.StatusForbidden)
			return
		}
		if !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
