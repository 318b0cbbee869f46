package redis

import (
	"context"
	"errors"
	"testing"

	"beverage-quiz-service/internal/domain"
)

func TestProgressStoreAccumulatesXP(t *testing.T) {
	mr := runMiniredis(t)
	store := NewProgressStore(newClient(mr))
	ctx := context.Background()

	results := []domain.SessionResult{
		{SessionID: "s1", TotalScore: 84, Accuracy: 60},
		{SessionID: "s2", TotalScore: 120.5, Accuracy: 80},
		{SessionID: "s3", TotalScore: 0, Accuracy: 0},
	}
	for _, res := range results {
		if err := store.PersistResults(ctx, "u1", res); err != nil {
			t.Fatalf("persist %s: %v", res.SessionID, err)
		}
	}

	p, err := store.Progress(ctx, "u1")
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if p.XP != 204.5 || p.SessionsCompleted != 3 || p.BestAccuracy != 80 {
		t.Fatalf("unexpected progress %+v", p)
	}
	if p.Level != 2 || p.NextLevelXP != 250 {
		t.Fatalf("expected level 2 towards 250, got %+v", p)
	}
}

func TestProgressStoreCountsSessionOnce(t *testing.T) {
	mr := runMiniredis(t)
	store := NewProgressStore(newClient(mr))
	ctx := context.Background()

	res := domain.SessionResult{SessionID: "s1", TotalScore: 50, Accuracy: 40}
	for i := 0; i < 2; i++ {
		if err := store.PersistResults(ctx, "u1", res); err != nil {
			t.Fatalf("persist: %v", err)
		}
	}
	p, _ := store.Progress(ctx, "u1")
	if p.XP != 50 || p.SessionsCompleted != 1 {
		t.Fatalf("expected the session counted once, got %+v", p)
	}

	if err := store.PersistResults(ctx, "", res); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestProgressStoreLeaderboard(t *testing.T) {
	mr := runMiniredis(t)
	store := NewProgressStore(newClient(mr))
	ctx := context.Background()

	_ = store.PersistResults(ctx, "u1", domain.SessionResult{SessionID: "a", TotalScore: 90})
	_ = store.PersistResults(ctx, "u2", domain.SessionResult{SessionID: "b", TotalScore: 300})
	_ = store.PersistResults(ctx, "u3", domain.SessionResult{SessionID: "c", TotalScore: 40})
	_ = store.PersistResults(ctx, "u1", domain.SessionResult{SessionID: "d", TotalScore: 20})

	board, err := store.Leaderboard(ctx, 2)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(board) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(board))
	}
	if board[0].UserID != "u2" || board[0].Rank != 1 || board[0].Level != 3 {
		t.Fatalf("expected u2 first at level 3, got %+v", board[0])
	}
	if board[1].UserID != "u1" || board[1].XP != 110 {
		t.Fatalf("expected u1 second with 110 xp, got %+v", board[1])
	}

	p, _ := store.Progress(ctx, "nobody")
	if p.Level != 1 || p.XP != 0 {
		t.Fatalf("expected empty progress at level 1, got %+v", p)
	}
}
