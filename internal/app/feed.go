package app

import (
	"context"
	"fmt"

	"beverage-quiz-service/internal/domain"
	"beverage-quiz-service/internal/questiongen"
)

// QuestionFeed supplies a session's questions by index.
type QuestionFeed interface {
	Total() int
	Question(ctx context.Context, index int) (domain.Question, error)
}

// staticFeed holds a question set generated up front.
type staticFeed []domain.Question

func (f staticFeed) Total() int { return len(f) }

func (f staticFeed) Question(_ context.Context, index int) (domain.Question, error) {
	if index < 0 || index >= len(f) {
		return domain.Question{}, fmt.Errorf("question %d out of range", index)
	}
	return f[index], nil
}

// remoteFeed pulls the next question from a remote test session on demand.
type remoteFeed struct {
	remote      RemoteQuestions
	token       string
	total       int
	optionCount int
}

func (f *remoteFeed) Total() int { return f.total }

func (f *remoteFeed) Question(ctx context.Context, index int) (domain.Question, error) {
	q, err := f.remote.NextQuestion(ctx, f.token)
	if err != nil {
		return domain.Question{}, fmt.Errorf("fetch question %d: %w", index+1, err)
	}
	if len(q.Options) == 0 || q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return domain.Question{}, fmt.Errorf("remote question %d is malformed", index+1)
	}
	// Scoring fields are owned by the session, never by the remote side.
	q.ID = index + 1
	q.UserAnswer = nil
	q.IsCorrect = false
	q.TimeSpentSeconds = 0
	q.Score = 0
	return questiongen.LimitOptions(q, f.optionCount), nil
}
