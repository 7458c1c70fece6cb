package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Scopexx0/CrochetFlow/internal/config"
	"github.com/Scopexx0/CrochetFlow/internal/db"
	"github.com/Scopexx0/CrochetFlow/internal/history"
	"github.com/Scopexx0/CrochetFlow/internal/migrations"
	"github.com/Scopexx0/CrochetFlow/internal/pricing"
	"github.com/Scopexx0/CrochetFlow/internal/rates"
	"github.com/Scopexx0/CrochetFlow/internal/timeline"
)

type server struct {
	sessions *sessionManager
	history  *history.Log
	now      func() time.Time
}

// Category selections used when a form field is left empty. They match the
// estimator form's initial selections.
const (
	defaultDifficulty       = "beginner"
	defaultProjectType      = "accessories"
	defaultStitchComplexity = "basic"
	defaultProjectSize      = "small"
	defaultMarketPosition   = "standard"
	defaultSkillLevel       = "intermediate"
)

func main() {
	cfg := config.Load()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(database); err != nil {
		log.Fatalf("failed to run database migrations: %v", err)
	}

	srv := &server{
		sessions: newSessionManager(cfg.SessionSecret),
		history:  history.New(database),
		now:      time.Now,
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.routes()); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func (s *server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.sessionMiddleware)
	r.Post("/api/pricing", s.handlePricing)
	r.Post("/api/time", s.handleTime)
	r.Get("/api/history", s.handleHistory)
	r.Get("/api/counter", s.handleCounterState)
	r.Post("/api/counter/start", s.handleCounterStart)
	r.Post("/api/counter/stop", s.handleCounterStop)
	r.Post("/api/counter/reset", s.handleCounterReset)
	r.Post("/api/counter/increment", s.handleCounterIncrement)
	r.Post("/api/counter/decrement", s.handleCounterDecrement)
	r.Post("/api/counter/target", s.handleCounterTarget)
	return r
}

func (s *server) handlePricing(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	projectName, req := parsePricingForm(r)
	result, err := pricing.Calculate(req)
	if err != nil {
		var catErr *rates.InvalidCategoryError
		if errors.As(err, &catErr) {
			http.Error(w, catErr.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "failed to calculate pricing", http.StatusInternalServerError)
		return
	}

	if err := s.history.Record(sessionID(r), history.KindPricing, projectName, req, result); err != nil {
		http.Error(w, "failed to save history", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *server) handleTime(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	projectName, req := parseTimeForm(r)
	result, err := timeline.Calculate(req, s.now())
	if err != nil {
		var catErr *rates.InvalidCategoryError
		if errors.As(err, &catErr) {
			http.Error(w, catErr.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "failed to calculate timeline", http.StatusInternalServerError)
		return
	}

	if err := s.history.Record(sessionID(r), history.KindTime, projectName, req, result); err != nil {
		http.Error(w, "failed to save history", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *server) handleHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := s.history.List(sessionID(r))
	if err != nil {
		http.Error(w, "failed to load history", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func (s *server) handleCounterState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.counter(r).Snapshot())
}

func (s *server) handleCounterStart(w http.ResponseWriter, r *http.Request) {
	c := s.counter(r)
	c.Start()
	writeJSON(w, http.StatusOK, c.Snapshot())
}

func (s *server) handleCounterStop(w http.ResponseWriter, r *http.Request) {
	c := s.counter(r)
	c.Stop()
	writeJSON(w, http.StatusOK, c.Snapshot())
}

func (s *server) handleCounterReset(w http.ResponseWriter, r *http.Request) {
	c := s.counter(r)
	c.Reset()
	writeJSON(w, http.StatusOK, c.Snapshot())
}

func (s *server) handleCounterIncrement(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	// The form's tally buttons send 1 or 10; an absent count means a single
	// stitch.
	n := 1
	if raw := strings.TrimSpace(r.FormValue("count")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "count must be a positive integer", http.StatusBadRequest)
			return
		}
		n = parsed
	}

	c := s.counter(r)
	c.Increment(n)
	writeJSON(w, http.StatusOK, c.Snapshot())
}

func (s *server) handleCounterDecrement(w http.ResponseWriter, r *http.Request) {
	c := s.counter(r)
	c.Decrement()
	writeJSON(w, http.StatusOK, c.Snapshot())
}

func (s *server) handleCounterTarget(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	target, err := strconv.Atoi(strings.TrimSpace(r.FormValue("target")))
	if err != nil || target < 0 {
		http.Error(w, "target must be a non-negative integer", http.StatusBadRequest)
		return
	}

	c := s.counter(r)
	c.SetTarget(target)
	writeJSON(w, http.StatusOK, c.Snapshot())
}

func parsePricingForm(r *http.Request) (string, pricing.Request) {
	projectName := strings.TrimSpace(r.FormValue("project_name"))
	return projectName, pricing.Request{
		YarnCost:            parseFloatOrDefault(r.FormValue("yarn_cost"), 0),
		AdditionalMaterials: parseFloatOrDefault(r.FormValue("additional_materials"), 0),
		EstimatedHours:      parseFloatOrDefault(r.FormValue("estimated_hours"), 0),
		HourlyRate:          parseFloatOrDefault(r.FormValue("hourly_rate"), 0),
		DifficultyLevel:     valueOrDefault(r.FormValue("difficulty_level"), defaultDifficulty),
		ProjectType:         valueOrDefault(r.FormValue("project_type"), defaultProjectType),
		StitchComplexity:    valueOrDefault(r.FormValue("stitch_complexity"), defaultStitchComplexity),
		ProjectSize:         valueOrDefault(r.FormValue("project_size"), defaultProjectSize),
		MarketPosition:      valueOrDefault(r.FormValue("market_position"), defaultMarketPosition),
		CustomPattern:       r.FormValue("custom_pattern") == "1",
	}
}

func parseTimeForm(r *http.Request) (string, timeline.Request) {
	projectName := strings.TrimSpace(r.FormValue("project_name"))
	return projectName, timeline.Request{
		ProjectType:       valueOrDefault(r.FormValue("project_type"), defaultProjectType),
		ProjectSize:       valueOrDefault(r.FormValue("project_size"), defaultProjectSize),
		DifficultyLevel:   valueOrDefault(r.FormValue("difficulty_level"), defaultDifficulty),
		StitchComplexity:  valueOrDefault(r.FormValue("stitch_complexity"), defaultStitchComplexity),
		SkillLevel:        valueOrDefault(r.FormValue("skill_level"), defaultSkillLevel),
		EstimatedStitches: parseFloatOrDefault(r.FormValue("estimated_stitches"), 0),
		StitchesPerMinute: parseFloatOrDefault(r.FormValue("stitches_per_minute"), 0),
		HoursPerDay:       parseFloatOrDefault(r.FormValue("hours_per_day"), 0),
		DaysPerWeek:       parseFloatOrDefault(r.FormValue("days_per_week"), 0),
		IncludeBreaks:     r.FormValue("include_breaks") == "1",
		BreakPercentage:   parseFloatOrDefault(r.FormValue("break_percentage"), 0),
	}
}

// parseFloatOrDefault implements the estimator's lenient numeric contract:
// anything that does not parse as a number becomes the default instead of an
// error.
func parseFloatOrDefault(raw string, def float64) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return def
	}
	return value
}

func valueOrDefault(raw, def string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	return raw
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}
