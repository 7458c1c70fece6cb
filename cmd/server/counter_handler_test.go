package main

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/Scopexx0/CrochetFlow/internal/counter"
)

func counterState(t *testing.T, h http.Handler, cookies []*http.Cookie) counter.State {
	t.Helper()

	rr := doForm(t, h, http.MethodGet, "/api/counter", nil, cookies)
	if rr.Code != http.StatusOK {
		t.Fatalf("counter state request failed: %d", rr.Code)
	}

	var state counter.State
	if err := json.Unmarshal(rr.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode counter state: %v", err)
	}
	return state
}

func TestCounterEndpointsAreSessionScoped(t *testing.T) {
	h := newTestServer(t)

	first := doForm(t, h, http.MethodGet, "/api/counter", nil, nil)
	cookies := first.Result().Cookies()

	form := url.Values{}
	form.Set("count", "10")
	rr := doForm(t, h, http.MethodPost, "/api/counter/increment", form, cookies)
	if rr.Code != http.StatusOK {
		t.Fatalf("increment failed: %d", rr.Code)
	}

	if got := counterState(t, h, cookies).CurrentCount; got != 10 {
		t.Fatalf("count = %d, want 10", got)
	}

	// A request without the cookie is a different session with its own counter.
	if got := counterState(t, h, nil).CurrentCount; got != 0 {
		t.Fatalf("fresh session count = %d, want 0", got)
	}
}

func TestCounterLifecycleOverHTTP(t *testing.T) {
	h := newTestServer(t)

	first := doForm(t, h, http.MethodGet, "/api/counter", nil, nil)
	cookies := first.Result().Cookies()

	rr := doForm(t, h, http.MethodPost, "/api/counter/start", nil, cookies)
	var state counter.State
	if err := json.Unmarshal(rr.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode start response: %v", err)
	}
	if !state.IsActive || state.CurrentCount != 0 {
		t.Fatalf("unexpected state after start: %+v", state)
	}

	doForm(t, h, http.MethodPost, "/api/counter/increment", nil, cookies)
	doForm(t, h, http.MethodPost, "/api/counter/increment", nil, cookies)
	doForm(t, h, http.MethodPost, "/api/counter/decrement", nil, cookies)

	targetForm := url.Values{}
	targetForm.Set("target", "250")
	doForm(t, h, http.MethodPost, "/api/counter/target", targetForm, cookies)

	doForm(t, h, http.MethodPost, "/api/counter/stop", nil, cookies)

	state = counterState(t, h, cookies)
	if state.IsActive {
		t.Fatalf("counter still active after stop")
	}
	if state.CurrentCount != 1 || state.TargetCount != 250 {
		t.Fatalf("unexpected state after lifecycle: %+v", state)
	}
}

func TestCounterIncrementValidatesCount(t *testing.T) {
	h := newTestServer(t)

	for _, raw := range []string{"abc", "-3", "0"} {
		form := url.Values{}
		form.Set("count", raw)

		rr := doForm(t, h, http.MethodPost, "/api/counter/increment", form, nil)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("count=%q: expected status 400, got %d", raw, rr.Code)
		}
	}
}

func TestCounterTargetValidation(t *testing.T) {
	h := newTestServer(t)

	rr := doForm(t, h, http.MethodPost, "/api/counter/target", url.Values{}, nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("missing target: expected status 400, got %d", rr.Code)
	}

	form := url.Values{}
	form.Set("target", "-1")
	rr = doForm(t, h, http.MethodPost, "/api/counter/target", form, nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("negative target: expected status 400, got %d", rr.Code)
	}
}
