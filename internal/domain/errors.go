package domain

import "errors"

var (
	// ErrUnauthenticated is returned when no user identity is available.
	ErrUnauthenticated = errors.New("user is not authenticated")
	// ErrEmptyCandidatePool is returned when a category has no catalog items to build questions from.
	ErrEmptyCandidatePool = errors.New("no data for category")
	// ErrUnknownMode indicates the requested quiz mode does not exist.
	ErrUnknownMode = errors.New("unknown quiz mode")
	// ErrCategoryRequired is returned when category mode is started without a category.
	ErrCategoryRequired = errors.New("category is required for this mode")
	// ErrSessionNotFound is returned when a quiz session does not exist or belongs to someone else.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrSessionClosed is returned when a session was superseded or abandoned.
	ErrSessionClosed = errors.New("quiz session closed")
	// ErrSessionCompleted is returned for actions on a completed session.
	ErrSessionCompleted = errors.New("quiz session already completed")
	// ErrInvalidTransition indicates the action is not legal in the current phase.
	ErrInvalidTransition = errors.New("action not allowed in current phase")
	// ErrInvalidOption indicates a selected option index is out of range.
	ErrInvalidOption = errors.New("option index out of range")
	// ErrAlreadyAnswered is returned when a question's scoring fields were already written.
	ErrAlreadyAnswered = errors.New("question already answered")
	// ErrNoQuestions is returned when results are requested for an empty question list.
	ErrNoQuestions = errors.New("no questions")
)
