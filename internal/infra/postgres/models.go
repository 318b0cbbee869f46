package postgres

import (
	"time"

	"github.com/uptrace/bun"

	"beverage-quiz-service/internal/domain"
)

type catalogItemModel struct {
	bun.BaseModel `bun:"table:catalog_items"`

	ID             string    `bun:"id,pk"`
	Name           string    `bun:"name,notnull"`
	Category       string    `bun:"category,notnull"`
	Sweetness      string    `bun:"sweetness,notnull"`
	Color          string    `bun:"color,notnull"`
	Country        string    `bun:"country,notnull"`
	Style          string    `bun:"style,notnull"`
	AlcoholPercent *float64  `bun:"alcohol_percent"`
	Ingredients    []string  `bun:"ingredients,array,notnull"`
	ServingMethod  string    `bun:"serving_method,notnull"`
	Glassware      string    `bun:"glassware,notnull"`
	Description    string    `bun:"description,notnull"`
	UpdatedAt      time.Time `bun:"updated_at,notnull"`
}

type sessionResultModel struct {
	bun.BaseModel `bun:"table:session_results"`

	SessionID      string    `bun:"session_id,pk"`
	UserID         string    `bun:"user_id,notnull"`
	Mode           string    `bun:"mode,notnull"`
	Category       string    `bun:"category,notnull"`
	TotalQuestions int       `bun:"total_questions,notnull"`
	CorrectCount   int       `bun:"correct_count,notnull"`
	Accuracy       int       `bun:"accuracy,notnull"`
	TotalTime      int       `bun:"total_time,notnull"`
	AverageTime    int       `bun:"average_time,notnull"`
	TotalScore     float64   `bun:"total_score,notnull"`
	CompletedAt    time.Time `bun:"completed_at,notnull"`
}

type sessionAnswerModel struct {
	bun.BaseModel `bun:"table:session_answers"`

	SessionID     string    `bun:"session_id,pk"`
	QuestionID    int       `bun:"question_id,pk"`
	UserID        string    `bun:"user_id,notnull"`
	QuestionRef   string    `bun:"question_ref,notnull"`
	SelectedIndex int       `bun:"selected_index,notnull"`
	IsCorrect     bool      `bun:"is_correct,notnull"`
	TimeSpent     int       `bun:"time_spent,notnull"`
	RecordedAt    time.Time `bun:"recorded_at,notnull"`
}

func toCatalogModel(item domain.CatalogItem, now time.Time) catalogItemModel {
	ingredients := item.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}
	return catalogItemModel{
		ID:             item.ID,
		Name:           item.Name,
		Category:       item.Category,
		Sweetness:      item.Sweetness,
		Color:          item.Color,
		Country:        item.Country,
		Style:          item.Style,
		AlcoholPercent: item.AlcoholPercent,
		Ingredients:    ingredients,
		ServingMethod:  item.ServingMethod,
		Glassware:      item.Glassware,
		Description:    item.Description,
		UpdatedAt:      now,
	}
}

func toResultModel(userID string, res domain.SessionResult) sessionResultModel {
	return sessionResultModel{
		SessionID:      res.SessionID,
		UserID:         userID,
		Mode:           string(res.Mode),
		Category:       res.Category,
		TotalQuestions: res.TotalQuestions,
		CorrectCount:   res.CorrectCount,
		Accuracy:       res.Accuracy,
		TotalTime:      res.TotalTimeSeconds,
		AverageTime:    res.AverageTimeSeconds,
		TotalScore:     res.TotalScore,
		CompletedAt:    res.CompletedAt,
	}
}

func (m sessionResultModel) toDomain() domain.SessionResult {
	return domain.SessionResult{
		SessionID:          m.SessionID,
		UserID:             m.UserID,
		Mode:               domain.Mode(m.Mode),
		Category:           m.Category,
		TotalQuestions:     m.TotalQuestions,
		CorrectCount:       m.CorrectCount,
		Accuracy:           m.Accuracy,
		TotalTimeSeconds:   m.TotalTime,
		AverageTimeSeconds: m.AverageTime,
		TotalScore:         m.TotalScore,
		CompletedAt:        m.CompletedAt,
	}
}

func toAnswerModel(userID string, sub domain.AnswerSubmission, now time.Time) sessionAnswerModel {
	return sessionAnswerModel{
		SessionID:     sub.SessionID,
		QuestionID:    sub.QuestionID,
		UserID:        userID,
		QuestionRef:   sub.QuestionRef,
		SelectedIndex: sub.SelectedIndex,
		IsCorrect:     sub.IsCorrect,
		TimeSpent:     sub.TimeSpentSeconds,
		RecordedAt:    now,
	}
}

// answersFromResult rebuilds the answer rows of a completed session, so
// history stays complete even when individual submissions were lost.
func answersFromResult(userID string, res domain.SessionResult) []sessionAnswerModel {
	out := make([]sessionAnswerModel, 0, len(res.Questions))
	for _, q := range res.Questions {
		if !q.Answered() {
			continue
		}
		out = append(out, toAnswerModel(userID, domain.AnswerSubmission{
			SessionID:        res.SessionID,
			QuestionID:       q.ID,
			QuestionRef:      q.Ref,
			SelectedIndex:    *q.UserAnswer,
			IsCorrect:        q.IsCorrect,
			TimeSpentSeconds: q.TimeSpentSeconds,
		}, res.CompletedAt))
	}
	return out
}
