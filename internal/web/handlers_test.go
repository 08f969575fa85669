package web

import (
	"context"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

type staticTokenSource struct {
	token *oauth2.Token
}

func (s *staticTokenSource) Token() (*oauth2.Token, error) {
	return s.token, nil
}

// recordingSessionManager counts UpdateToken calls on top of a real store.
type recordingSessionManager struct {
	SessionManager
	updateCalls int
}

func (r *recordingSessionManager) UpdateToken(ctx context.Context, id string, token *oauth2.Token) {
	r.updateCalls++
	r.SessionManager.UpdateToken(ctx, id, token)
}

func TestSessionTokenSourcePersistsRefresh(t *testing.T) {
	store := NewSessionStore()
	session, err := store.Create(context.Background(), &oauth2.Token{AccessToken: "stale"}, "user1", "User One")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	sessions := &recordingSessionManager{SessionManager: store}
	refreshed := &oauth2.Token{
		AccessToken:  "fresh",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(time.Hour),
	}
	src := &sessionTokenSource{
		ctx:      context.Background(),
		base:     &staticTokenSource{token: refreshed},
		sessions: sessions,
		session:  session,
	}

	token, err := src.Token()
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if token.AccessToken != "fresh" {
		t.Errorf("AccessToken = %q, want %q", token.AccessToken, "fresh")
	}
	if sessions.updateCalls != 1 {
		t.Errorf("UpdateToken calls = %d, want 1", sessions.updateCalls)
	}

	stored := store.Get(context.Background(), session.ID)
	if stored == nil {
		t.Fatal("session missing from store")
	}
	if stored.Token.AccessToken != "fresh" {
		t.Errorf("stored AccessToken = %q, want %q", stored.Token.AccessToken, "fresh")
	}

	// Same token again: no second write.
	if _, err := src.Token(); err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if sessions.updateCalls != 1 {
		t.Errorf("UpdateToken calls after unchanged token = %d, want 1", sessions.updateCalls)
	}
}
