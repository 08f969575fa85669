package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

func TestRequireSession(t *testing.T) {
	store := NewSessionStore()
	session, err := store.Create(context.Background(), &oauth2.Token{AccessToken: "access"}, "user1", "User One")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	h := &Handlers{sessions: store, log: zerolog.Nop()}

	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s := sessionFrom(r.Context()); s != nil {
			gotUserID = s.UserID
		}
		w.WriteHeader(http.StatusOK)
	})

	t.Run("no session", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/me", nil)
		w := httptest.NewRecorder()

		h.requireSession(next).ServeHTTP(w, r)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decoding error body: %v", err)
		}
		if body["error"] == "" {
			t.Error("error body missing error message")
		}
	})

	t.Run("valid session", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/me", nil)
		r.AddCookie(&http.Cookie{Name: sessionCookieName, Value: session.ID})
		w := httptest.NewRecorder()

		h.requireSession(next).ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
		}
		if gotUserID != "user1" {
			t.Errorf("session user ID = %q, want %q", gotUserID, "user1")
		}
	})
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	writeJSON(w, http.StatusCreated, map[string]int{"n": 3})

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body map[string]int
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["n"] != 3 {
		t.Errorf("body n = %d, want 3", body["n"])
	}
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"x","bogus":true}`))

	var body struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &body); err == nil {
		t.Error("decodeJSON() accepted unknown field, want error")
	}
}

func TestLimitParam(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"default", "", defaultListLimit},
		{"explicit", "limit=10", 10},
		{"too large", "limit=500", maxListLimit},
		{"zero", "limit=0", defaultListLimit},
		{"garbage", "limit=abc", defaultListLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/?"+tt.query, nil)
			if got := limitParam(r); got != tt.want {
				t.Errorf("limitParam() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRangeParam(t *testing.T) {
	t.Run("default is month", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		rng, err := rangeParam(r)
		if err != nil {
			t.Fatalf("rangeParam() error = %v", err)
		}
		if rng != "month" {
			t.Errorf("rangeParam() = %q, want %q", rng, "month")
		}
	})

	t.Run("invalid range", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/?range=decade", nil)
		if _, err := rangeParam(r); err == nil {
			t.Error("rangeParam() accepted invalid range, want error")
		}
	})
}
