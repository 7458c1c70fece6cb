package main

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/Scopexx0/CrochetFlow/internal/history"
	"github.com/Scopexx0/CrochetFlow/internal/pricing"
)

func TestPricingEndpointCalculatesAndRecords(t *testing.T) {
	h := newTestServer(t)

	form := url.Values{}
	form.Set("project_name", "Festival Cardigan")
	form.Set("yarn_cost", "25")
	form.Set("additional_materials", "5")
	form.Set("estimated_hours", "12")
	form.Set("hourly_rate", "15")
	form.Set("difficulty_level", "intermediate")
	form.Set("project_type", "clothing")
	form.Set("stitch_complexity", "advanced")
	form.Set("project_size", "medium")
	form.Set("market_position", "standard")

	rr := doForm(t, h, http.MethodPost, "/api/pricing", form, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Header().Get("Content-Type"), "application/json") {
		t.Fatalf("expected JSON content type, got %q", rr.Header().Get("Content-Type"))
	}

	var result pricing.Result
	if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if math.Abs(result.SuggestedPrice-803.16) > 1e-9 {
		t.Fatalf("suggestedPrice = %v, want 803.16", result.SuggestedPrice)
	}
	if math.Abs(result.AdjustedHours-33.696) > 1e-9 {
		t.Fatalf("adjustedHours = %v, want 33.696", result.AdjustedHours)
	}

	cookies := rr.Result().Cookies()
	histRR := doForm(t, h, http.MethodGet, "/api/history", nil, cookies)
	if histRR.Code != http.StatusOK {
		t.Fatalf("history request failed: %d", histRR.Code)
	}

	var entries []history.Entry
	if err := json.Unmarshal(histRR.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(entries))
	}
	if entries[0].Kind != history.KindPricing || entries[0].ProjectName != "Festival Cardigan" {
		t.Fatalf("unexpected history entry: %+v", entries[0])
	}
}

func TestPricingEndpointSkipsHistoryWithoutName(t *testing.T) {
	h := newTestServer(t)

	form := url.Values{}
	form.Set("project_name", "   ")
	form.Set("estimated_hours", "3")

	rr := doForm(t, h, http.MethodPost, "/api/pricing", form, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	histRR := doForm(t, h, http.MethodGet, "/api/history", nil, rr.Result().Cookies())
	var entries []history.Entry
	if err := json.Unmarshal(histRR.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty history, got %d entries", len(entries))
	}
}

func TestPricingEndpointRejectsUnknownCategory(t *testing.T) {
	h := newTestServer(t)

	form := url.Values{}
	form.Set("difficulty_level", "legendary")

	rr := doForm(t, h, http.MethodPost, "/api/pricing", form, nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "difficulty") {
		t.Fatalf("expected error to name the table, got %q", rr.Body.String())
	}
}

func TestParsePricingForm_EmptyFieldsUseDefaults(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/pricing", nil)
	req.Form = url.Values{}

	name, parsed := parsePricingForm(req)
	if name != "" {
		t.Fatalf("expected empty project name, got %q", name)
	}
	if parsed.DifficultyLevel != "beginner" || parsed.ProjectType != "accessories" ||
		parsed.StitchComplexity != "basic" || parsed.ProjectSize != "small" ||
		parsed.MarketPosition != "standard" {
		t.Fatalf("unexpected category defaults: %+v", parsed)
	}
	if parsed.YarnCost != 0 || parsed.EstimatedHours != 0 || parsed.CustomPattern {
		t.Fatalf("unexpected numeric defaults: %+v", parsed)
	}
}

func TestParsePricingForm_MalformedNumbersBecomeZero(t *testing.T) {
	form := url.Values{}
	form.Set("yarn_cost", "abc")
	form.Set("estimated_hours", "12")
	form.Set("hourly_rate", "")
	form.Set("custom_pattern", "1")

	req := httptest.NewRequest(http.MethodPost, "/api/pricing", nil)
	req.Form = form

	_, parsed := parsePricingForm(req)
	if parsed.YarnCost != 0 {
		t.Fatalf("yarnCost = %v, want 0 for malformed input", parsed.YarnCost)
	}
	if parsed.EstimatedHours != 12 {
		t.Fatalf("estimatedHours = %v, want 12", parsed.EstimatedHours)
	}
	if parsed.HourlyRate != 0 {
		t.Fatalf("hourlyRate = %v, want 0 for empty input", parsed.HourlyRate)
	}
	if !parsed.CustomPattern {
		t.Fatalf("expected custom pattern flag to be set")
	}
}
