package domain

import "time"

// NoAnswer is the selected index recorded when a question times out.
const NoAnswer = -1

// CatalogItem is a beverage from the training catalog.
type CatalogItem struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	Sweetness      string   `json:"sweetness,omitempty"`
	Color          string   `json:"color,omitempty"`
	Country        string   `json:"country,omitempty"`
	Style          string   `json:"style,omitempty"`
	AlcoholPercent *float64 `json:"alcoholPercent,omitempty"`
	Ingredients    []string `json:"ingredients,omitempty"`
	ServingMethod  string   `json:"servingMethod,omitempty"`
	Glassware      string   `json:"glassware,omitempty"`
	Description    string   `json:"description,omitempty"`
}

// Question is a multiple-choice question owned by a single session.
// UserAnswer, IsCorrect, TimeSpentSeconds and Score are written once.
type Question struct {
	ID               int      `json:"id"`
	Ref              string   `json:"ref,omitempty"`
	Prompt           string   `json:"prompt"`
	Options          []string `json:"options"`
	CorrectIndex     int      `json:"correctIndex"`
	Explanation      string   `json:"explanation,omitempty"`
	Category         string   `json:"category,omitempty"`
	UserAnswer       *int     `json:"userAnswer,omitempty"`
	IsCorrect        bool     `json:"isCorrect"`
	TimeSpentSeconds int      `json:"timeSpentSeconds"`
	Score            float64  `json:"score"`
}

// Answered reports whether the scoring fields have been recorded.
// CloneQuestions copies questions without sharing option slices or answers.
func CloneQuestions(questions []Question) []Question {
	out := make([]Question, len(questions))
	for i, q := range questions {
		q.Options = append([]string(nil), q.Options...)
		if q.UserAnswer != nil {
			answer := *q.UserAnswer
			q.UserAnswer = &answer
		}
		out[i] = q
	}
	return out
}

func (q Question) Answered() bool {
	return q.UserAnswer != nil
}

// TimedOut reports whether the question was recorded without a selection.
func (q Question) TimedOut() bool {
	return q.UserAnswer != nil && *q.UserAnswer == NoAnswer
}

// PublicQuestion is the client view of a question; the correct index and
// explanation are only present once the question is answered.
type PublicQuestion struct {
	ID           int      `json:"id"`
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	Category     string   `json:"category,omitempty"`
	UserAnswer   *int     `json:"userAnswer,omitempty"`
	CorrectIndex *int     `json:"correctIndex,omitempty"`
	IsCorrect    bool     `json:"isCorrect"`
	Explanation  string   `json:"explanation,omitempty"`
	Score        float64  `json:"score"`
}

// Public returns the client view of q.
func (q Question) Public() PublicQuestion {
	pq := PublicQuestion{
		ID:       q.ID,
		Prompt:   q.Prompt,
		Options:  append([]string(nil), q.Options...),
		Category: q.Category,
	}
	if q.Answered() {
		answer := *q.UserAnswer
		correct := q.CorrectIndex
		pq.UserAnswer = &answer
		pq.CorrectIndex = &correct
		pq.IsCorrect = q.IsCorrect
		pq.Explanation = q.Explanation
		pq.Score = q.Score
	}
	return pq
}

// AnswerSubmission is sent to the answer collaborator after each recorded answer.
type AnswerSubmission struct {
	SessionID        string `json:"sessionId"`
	QuestionID       int    `json:"questionId"`
	QuestionRef      string `json:"questionRef,omitempty"`
	SelectedIndex    int    `json:"selectedIndex"`
	IsCorrect        bool   `json:"isCorrect"`
	TimeSpentSeconds int    `json:"timeSpent"`
}

// SessionResult summarizes a completed session.
type SessionResult struct {
	SessionID          string     `json:"sessionId,omitempty"`
	UserID             string     `json:"userId,omitempty"`
	Mode               Mode       `json:"mode,omitempty"`
	Category           string     `json:"category,omitempty"`
	TotalQuestions     int        `json:"totalQuestions"`
	CorrectCount       int        `json:"correctCount"`
	Accuracy           int        `json:"accuracy"`
	TotalTimeSeconds   int        `json:"totalTime"`
	AverageTimeSeconds int        `json:"averageTime"`
	TotalScore         float64    `json:"totalScore"`
	Questions          []Question `json:"questions"`
	CompletedAt        time.Time  `json:"completedAt"`
}
