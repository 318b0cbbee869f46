package app

import (
	"context"
	"errors"

	"beverage-quiz-service/internal/domain"
)

// CatalogRepository loads catalog items (from cache/backing store). An empty
// category returns the whole catalog.
type CatalogRepository interface {
	ListItems(ctx context.Context, category string) ([]domain.CatalogItem, error)
}

// RemoteQuestions serves questions one at a time from a remote test session.
type RemoteQuestions interface {
	StartSession(ctx context.Context, userID string) (string, error)
	NextQuestion(ctx context.Context, sessionToken string) (domain.Question, error)
}

// AnswerSubmitter receives every recorded answer.
type AnswerSubmitter interface {
	SubmitAnswer(ctx context.Context, userID string, submission domain.AnswerSubmission) error
}

// ResultPersister receives the result of every completed session.
type ResultPersister interface {
	PersistResults(ctx context.Context, userID string, result domain.SessionResult) error
}

// ProgressReader exposes a user's accumulated XP and level.
type ProgressReader interface {
	Progress(ctx context.Context, userID string) (domain.Progress, error)
}

// LeaderboardReader lists the top users by XP.
type LeaderboardReader interface {
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}

// HistoryReader lists a user's completed sessions, newest first.
type HistoryReader interface {
	History(ctx context.Context, userID string, limit int) ([]domain.SessionResult, error)
}

// Submitters fans an answer out to several submitters.
type Submitters []AnswerSubmitter

func (s Submitters) SubmitAnswer(ctx context.Context, userID string, submission domain.AnswerSubmission) error {
	var errs []error
	for _, sub := range s {
		if err := sub.SubmitAnswer(ctx, userID, submission); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Persisters fans a result out to several persisters.
type Persisters []ResultPersister

func (p Persisters) PersistResults(ctx context.Context, userID string, result domain.SessionResult) error {
	var errs []error
	for _, persister := range p {
		if err := persister.PersistResults(ctx, userID, result); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
