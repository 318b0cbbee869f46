package domain

import "time"

// Phase is the state of a quiz session.
type Phase string

const (
	PhaseLoading        Phase = "loading"
	PhaseAwaitingAnswer Phase = "awaiting_answer"
	PhaseAnswered       Phase = "answered"
	PhaseCompleted      Phase = "completed"
)

// SessionSnapshot is a read-only view of a session at a point in time.
type SessionSnapshot struct {
	SessionID        string          `json:"sessionId"`
	UserID           string          `json:"userId"`
	Mode             Mode            `json:"mode"`
	Category         string          `json:"category,omitempty"`
	Phase            Phase           `json:"phase"`
	CurrentIndex     int             `json:"currentIndex"`
	TotalQuestions   int             `json:"totalQuestions"`
	Score            float64         `json:"score"`
	RemainingSeconds int             `json:"remainingSeconds"`
	TimeLimitSeconds int             `json:"timeLimitSeconds"`
	Question         *PublicQuestion `json:"question,omitempty"`
	StartedAt        time.Time       `json:"startedAt"`
}

// EventType names a session event.
type EventType string

const (
	EventQuestion  EventType = "question"
	EventTick      EventType = "tick"
	EventAnswered  EventType = "answered"
	EventCompleted EventType = "completed"
)

// SessionEvent is pushed to session subscribers on every state change.
type SessionEvent struct {
	Type     EventType       `json:"type"`
	Snapshot SessionSnapshot `json:"snapshot"`
	Result   *SessionResult  `json:"result,omitempty"`
}

// UserContext identifies the user a session is started for. The zero value
// is Unauthenticated.
type UserContext struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName,omitempty"`
}

// Unauthenticated is the identity used when no user could be resolved.
var Unauthenticated = UserContext{}

// Authenticated returns a UserContext for a known user.
func Authenticated(userID, displayName string) UserContext {
	return UserContext{UserID: userID, DisplayName: displayName}
}

// IsAuthenticated reports whether u carries a user id.
func (u UserContext) IsAuthenticated() bool {
	return u.UserID != ""
}
