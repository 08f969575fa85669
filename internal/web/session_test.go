package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestSessionStoreCreateAndGet(t *testing.T) {
	store := NewSessionStore()
	token := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh"}

	session, err := store.Create(context.Background(), token, "user1", "User One")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if session.ID == "" {
		t.Error("Create() returned empty session ID")
	}
	if session.UserID != "user1" {
		t.Errorf("UserID = %q, want %q", session.UserID, "user1")
	}

	got := store.Get(context.Background(), session.ID)
	if got == nil {
		t.Fatal("Get() returned nil for existing session")
	}
	if got.Token.AccessToken != "access" {
		t.Errorf("AccessToken = %q, want %q", got.Token.AccessToken, "access")
	}
}

func TestSessionStoreGetMissing(t *testing.T) {
	store := NewSessionStore()
	if got := store.Get(context.Background(), "nonexistent"); got != nil {
		t.Errorf("Get() = %v, want nil", got)
	}
}

func TestSessionStoreExpiry(t *testing.T) {
	store := NewSessionStore()
	token := &oauth2.Token{AccessToken: "access"}

	session, err := store.Create(context.Background(), token, "user1", "User One")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Advance the clock past the TTL.
	store.now = func() time.Time { return time.Now().Add(sessionTTL + time.Minute) }

	if got := store.Get(context.Background(), session.ID); got != nil {
		t.Error("Get() returned expired session, want nil")
	}
}

func TestSessionStoreDeleteExpired(t *testing.T) {
	store := NewSessionStore()
	token := &oauth2.Token{AccessToken: "access"}

	base := time.Now()
	store.now = func() time.Time { return base }

	expired, err := store.Create(context.Background(), token, "user1", "User One")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	store.now = func() time.Time { return base.Add(sessionTTL / 2) }
	live, err := store.Create(context.Background(), token, "user2", "User Two")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Past the first session's TTL but within the second's.
	store.now = func() time.Time { return base.Add(sessionTTL + time.Minute) }

	if removed := store.DeleteExpired(context.Background()); removed != 1 {
		t.Errorf("DeleteExpired() = %d, want 1", removed)
	}
	if got := store.Get(context.Background(), expired.ID); got != nil {
		t.Error("expired session still retrievable after cleanup")
	}
	if got := store.Get(context.Background(), live.ID); got == nil {
		t.Error("live session removed by cleanup")
	}
}

func TestSessionStoreDelete(t *testing.T) {
	store := NewSessionStore()
	token := &oauth2.Token{AccessToken: "access"}

	session, err := store.Create(context.Background(), token, "user1", "User One")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	store.Delete(context.Background(), session.ID)
	if got := store.Get(context.Background(), session.ID); got != nil {
		t.Error("Get() returned deleted session, want nil")
	}
}

func TestSessionStoreUpdateToken(t *testing.T) {
	store := NewSessionStore()
	token := &oauth2.Token{AccessToken: "old"}

	session, err := store.Create(context.Background(), token, "user1", "User One")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	store.UpdateToken(context.Background(), session.ID, &oauth2.Token{AccessToken: "new"})

	got := store.Get(context.Background(), session.ID)
	if got == nil {
		t.Fatal("Get() returned nil")
	}
	if got.Token.AccessToken != "new" {
		t.Errorf("AccessToken = %q, want %q", got.Token.AccessToken, "new")
	}
}

func TestGetFromRequest(t *testing.T) {
	store := NewSessionStore()
	token := &oauth2.Token{AccessToken: "access"}

	session, err := store.Create(context.Background(), token, "user1", "User One")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tests := []struct {
		name   string
		cookie string
		want   bool
	}{
		{"valid cookie", session.ID, true},
		{"unknown cookie", "bogus", false},
		{"no cookie", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: sessionCookieName, Value: tt.cookie})
			}

			got := store.GetFromRequest(r)
			if (got != nil) != tt.want {
				t.Errorf("GetFromRequest() session present = %v, want %v", got != nil, tt.want)
			}
		})
	}
}
