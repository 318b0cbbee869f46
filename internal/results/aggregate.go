// Package results folds a completed question list into session statistics.
package results

import (
	"math"
	"time"

	"beverage-quiz-service/internal/domain"
)

// Aggregate computes the summary of a completed session. The question list is
// copied so the result stays immutable when the caller keeps mutating its slice.
func Aggregate(questions []domain.Question, completedAt time.Time) (domain.SessionResult, error) {
	total := len(questions)
	if total == 0 {
		return domain.SessionResult{}, domain.ErrNoQuestions
	}

	correct := 0
	totalTime := 0
	totalScore := 0.0
	for _, q := range questions {
		if q.IsCorrect {
			correct++
		}
		totalTime += q.TimeSpentSeconds
		totalScore += q.Score
	}

	return domain.SessionResult{
		TotalQuestions:     total,
		CorrectCount:       correct,
		Accuracy:           roundRatio(100*correct, total),
		TotalTimeSeconds:   totalTime,
		AverageTimeSeconds: roundRatio(totalTime, total),
		TotalScore:         totalScore,
		Questions:          domain.CloneQuestions(questions),
		CompletedAt:        completedAt,
	}, nil
}

func roundRatio(num, den int) int {
	return int(math.Round(float64(num) / float64(den)))
}
