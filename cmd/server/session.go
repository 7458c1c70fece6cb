package main

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"

	"github.com/Scopexx0/CrochetFlow/internal/counter"
)

const sessionCookieName = "crochetflow_session"

type sessionContextKey struct{}

// sessionManager issues signed anonymous session ids and owns the per-session
// stitch counters. History rows are keyed by the same ids, so no engine state
// is ever shared across sessions.
type sessionManager struct {
	secret []byte

	mu       sync.Mutex
	counters map[string]*counter.Counter
}

func newSessionManager(secret string) *sessionManager {
	return &sessionManager{
		secret:   []byte(secret),
		counters: make(map[string]*counter.Counter),
	}
}

// counterFor returns the session's stitch counter, creating it on first use.
func (m *sessionManager) counterFor(sessionID string) *counter.Counter {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.counters[sessionID]
	if !ok {
		c = counter.New()
		m.counters[sessionID] = c
	}
	return c
}

func (m *sessionManager) newSessionID() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func (m *sessionManager) createSessionValue(sessionID string) string {
	payload := base64.RawURLEncoding.EncodeToString([]byte(sessionID))
	mac := hmac.New(sha256.New, m.secret)
	_, _ = mac.Write([]byte(payload))
	signature := hex.EncodeToString(mac.Sum(nil))
	return payload + "." + signature
}

func (m *sessionManager) verifySessionValue(value string) (string, bool) {
	payload, signature, ok := strings.Cut(value, ".")
	if !ok {
		return "", false
	}

	mac := hmac.New(sha256.New, m.secret)
	_, _ = mac.Write([]byte(payload))
	expected := mac.Sum(nil)

	provided, err := hex.DecodeString(signature)
	if err != nil {
		return "", false
	}
	if !hmac.Equal(provided, expected) {
		return "", false
	}

	decoded, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil || len(decoded) == 0 {
		return "", false
	}

	return string(decoded), true
}

// sessionMiddleware guarantees every request carries a valid session id,
// minting a fresh signed cookie when the request has none.
func (s *server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			id, _ = s.sessions.verifySessionValue(cookie.Value)
		}
		if id == "" {
			id = s.sessions.newSessionID()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookieName,
				Value:    s.sessions.createSessionValue(id),
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), sessionContextKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionID(r *http.Request) string {
	id, _ := r.Context().Value(sessionContextKey{}).(string)
	return id
}

func (s *server) counter(r *http.Request) *counter.Counter {
	return s.sessions.counterFor(sessionID(r))
}
