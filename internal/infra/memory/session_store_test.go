package memory

import (
	"testing"

	"beverage-quiz-service/internal/app"
	"beverage-quiz-service/internal/domain"
)

func newSession(id, userID string) *app.Session {
	return app.NewSession(app.SessionConfig{
		ID:   id,
		User: domain.Authenticated(userID, ""),
		Feed: app.StaticFeed(nil),
	})
}

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()

	session := newSession("s1", "u1")
	if prev := store.Save(session); prev != nil {
		t.Fatalf("expected no previous session")
	}
	if _, ok := store.Get("s1"); !ok {
		t.Fatalf("expected session present")
	}
	if active, ok := store.ActiveFor("u1"); !ok || active.ID() != "s1" {
		t.Fatalf("expected s1 active for u1")
	}

	store.Delete("s1")
	if _, ok := store.Get("s1"); ok {
		t.Fatalf("expected session removed")
	}
	if _, ok := store.ActiveFor("u1"); ok {
		t.Fatalf("expected no active session after delete")
	}
}

func TestSessionStoreReplacesActiveSession(t *testing.T) {
	store := NewSessionStore()

	first := newSession("s1", "u1")
	store.Save(first)
	store.Save(newSession("s2", "u2"))

	prev := store.Save(newSession("s3", "u1"))
	if prev != first {
		t.Fatalf("expected first session to be returned as replaced")
	}
	if _, ok := store.Get("s1"); ok {
		t.Fatalf("replaced session should be dropped")
	}
	if store.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", store.Len())
	}

	// Deleting a stale id must not clear the user's newer session.
	store.Delete("s1")
	if active, ok := store.ActiveFor("u1"); !ok || active.ID() != "s3" {
		t.Fatalf("expected s3 to stay active")
	}
}

func TestSessionStoreAll(t *testing.T) {
	store := NewSessionStore()
	store.Save(newSession("s1", "u1"))
	store.Save(newSession("s2", "u2"))
	store.Save(newSession("s3", "u1"))

	ids := map[string]bool{}
	for _, session := range store.All() {
		ids[session.ID()] = true
	}
	if len(ids) != 2 || !ids["s2"] || !ids["s3"] {
		t.Fatalf("expected s2 and s3, got %v", ids)
	}
}
