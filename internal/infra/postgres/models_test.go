package postgres

import (
	"testing"
	"time"

	"beverage-quiz-service/internal/domain"
)

func TestAnswersFromResult(t *testing.T) {
	completed := time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)
	picked, timedOut := 2, domain.NoAnswer
	res := domain.SessionResult{
		SessionID:   "s1",
		CompletedAt: completed,
		Questions: []domain.Question{
			{ID: 1, Ref: "wine-barolo", UserAnswer: &picked, IsCorrect: true, TimeSpentSeconds: 4, Score: 28},
			{ID: 2, Ref: "beer-guinness", UserAnswer: &timedOut, TimeSpentSeconds: 30},
			{ID: 3, Ref: "never-shown"},
		},
	}

	rows := answersFromResult("u1", res)
	if len(rows) != 2 {
		t.Fatalf("expected 2 answer rows, got %d", len(rows))
	}
	if rows[0].SelectedIndex != 2 || !rows[0].IsCorrect || rows[0].QuestionRef != "wine-barolo" || rows[0].UserID != "u1" {
		t.Fatalf("unexpected first row %+v", rows[0])
	}
	if rows[1].SelectedIndex != domain.NoAnswer || rows[1].IsCorrect || rows[1].TimeSpent != 30 {
		t.Fatalf("unexpected timeout row %+v", rows[1])
	}
	if !rows[1].RecordedAt.Equal(completed) {
		t.Fatalf("expected rows stamped with completion time")
	}
}

func TestResultModelRoundTrip(t *testing.T) {
	res := domain.SessionResult{
		SessionID:          "s1",
		Mode:               domain.ModeCategory,
		Category:           "Wine",
		TotalQuestions:     12,
		CorrectCount:       9,
		Accuracy:           75,
		TotalTimeSeconds:   140,
		AverageTimeSeconds: 12,
		TotalScore:         310.5,
		CompletedAt:        time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC),
	}
	got := toResultModel("u1", res).toDomain()
	res.UserID = "u1"
	if got.SessionID != res.SessionID || got.UserID != "u1" || got.Mode != res.Mode ||
		got.Accuracy != res.Accuracy || got.TotalScore != res.TotalScore || !got.CompletedAt.Equal(res.CompletedAt) {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestCatalogModelDefaultsIngredients(t *testing.T) {
	row := toCatalogModel(domain.CatalogItem{ID: "wine-1", Name: "Barolo", Category: "Wine"}, time.Now())
	if row.Ingredients == nil {
		t.Fatalf("ingredients must not be nil for a NOT NULL array column")
	}
}
