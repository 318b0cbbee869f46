package app

import (
	"context"
	"sync"
	"time"

	"beverage-quiz-service/internal/domain"
	"beverage-quiz-service/internal/results"
)

// EventSnapshot is the first event every subscriber receives.
const EventSnapshot domain.EventType = "session"

// SessionConfig describes one quiz attempt.
type SessionConfig struct {
	ID       string
	User     domain.UserContext
	Mode     domain.ModeConfig
	Category string
	Feed     QuestionFeed
	// TickInterval is the countdown period; zero disables the autonomous
	// countdown and leaves Tick to the caller.
	TickInterval time.Duration
	Now          func() time.Time

	// Hooks run with the session lock held and must not block.
	OnAnswered  func(domain.AnswerSubmission)
	OnCompleted func(domain.SessionResult)
}

// Session is the state machine of a single quiz attempt:
// Loading -> AwaitingAnswer -> Answered -> (AwaitingAnswer | Completed).
type Session struct {
	cfg       SessionConfig
	startedAt time.Time

	mu          sync.Mutex
	phase       domain.Phase
	questions   []domain.Question
	current     int
	score       float64
	remaining   int
	timerGen    uint64
	stopTimer   func()
	loading     bool
	closed      bool
	result      *domain.SessionResult
	subscribers map[chan domain.SessionEvent]struct{}
}

// NewSession creates a session in the Loading phase. Begin loads the first question.
func NewSession(cfg SessionConfig) *Session {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	total := 0
	if cfg.Feed != nil {
		total = cfg.Feed.Total()
	}
	return &Session{
		cfg:         cfg,
		startedAt:   cfg.Now(),
		phase:       domain.PhaseLoading,
		questions:   make([]domain.Question, total),
		subscribers: make(map[chan domain.SessionEvent]struct{}),
	}
}

// StaticFeed wraps a pre-generated question set.
func StaticFeed(questions []domain.Question) QuestionFeed {
	return staticFeed(questions)
}

func (s *Session) ID() string               { return s.cfg.ID }
func (s *Session) User() domain.UserContext { return s.cfg.User }

// Begin loads the first question and starts its countdown.
func (s *Session) Begin(ctx context.Context) error {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return domain.ErrSessionClosed
	case s.phase != domain.PhaseLoading || s.loading:
		s.mu.Unlock()
		return domain.ErrInvalidTransition
	case len(s.questions) == 0:
		s.mu.Unlock()
		return domain.ErrNoQuestions
	}
	s.loading = true
	s.mu.Unlock()

	q, err := s.cfg.Feed.Question(ctx, 0)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if s.closed {
		return domain.ErrSessionClosed
	}
	if err != nil {
		return err
	}
	s.enterQuestionLocked(0, q)
	return nil
}

// Answer records the user's selection for the current question.
func (s *Session) Answer(index int) (domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkPhaseLocked(domain.PhaseAwaitingAnswer); err != nil {
		return domain.Question{}, err
	}
	if index < 0 || index >= len(s.questions[s.current].Options) {
		return domain.Question{}, domain.ErrInvalidOption
	}
	return s.recordLocked(index)
}

// Tick advances the countdown of the current question by one second. It
// reports whether the countdown is still running afterwards.
func (s *Session) Tick() bool {
	s.mu.Lock()
	gen := s.timerGen
	s.mu.Unlock()
	return s.tick(gen)
}

// Advance moves to the next question, or completes the session after the last one.
func (s *Session) Advance(ctx context.Context) (domain.SessionSnapshot, error) {
	s.mu.Lock()
	if err := s.checkPhaseLocked(domain.PhaseAnswered); err != nil {
		s.mu.Unlock()
		return domain.SessionSnapshot{}, err
	}
	if s.loading {
		s.mu.Unlock()
		return domain.SessionSnapshot{}, domain.ErrInvalidTransition
	}

	next := s.current + 1
	if next >= len(s.questions) {
		err := s.completeLocked()
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, err
	}
	s.loading = true
	s.mu.Unlock()

	q, err := s.cfg.Feed.Question(ctx, next)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if s.closed {
		// A restart superseded this session while the question was in flight.
		return domain.SessionSnapshot{}, domain.ErrSessionClosed
	}
	if err != nil {
		return s.snapshotLocked(), err
	}
	s.enterQuestionLocked(next, q)
	return s.snapshotLocked(), nil
}

// Close stops the countdown and detaches subscribers. Closing is final.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.cancelTimerLocked()
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}

// Closed reports whether the session was closed.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Snapshot returns the current client view.
func (s *Session) Snapshot() domain.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Result returns the session result once the session is completed.
func (s *Session) Result() (domain.SessionResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return domain.SessionResult{}, false
	}
	return *s.result, true
}

// Questions returns a copy of the questions loaded so far.
func (s *Session) Questions() []domain.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	limit := s.current + 1
	if s.phase == domain.PhaseLoading {
		limit = 0
	}
	return domain.CloneQuestions(s.questions[:limit])
}

// Subscribe returns a channel of session events, starting with a snapshot.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *Session) Subscribe() (<-chan domain.SessionEvent, func()) {
	ch := make(chan domain.SessionEvent, 8)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subscribers[ch] = struct{}{}
	ch <- domain.SessionEvent{Type: EventSnapshot, Snapshot: s.snapshotLocked(), Result: s.result}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) checkPhaseLocked(want domain.Phase) error {
	switch {
	case s.closed:
		return domain.ErrSessionClosed
	case s.phase == domain.PhaseCompleted:
		return domain.ErrSessionCompleted
	case s.phase != want:
		return domain.ErrInvalidTransition
	}
	return nil
}

func (s *Session) enterQuestionLocked(index int, q domain.Question) {
	s.questions[index] = q
	s.current = index
	s.remaining = s.cfg.Mode.TimeLimitSeconds
	s.phase = domain.PhaseAwaitingAnswer
	s.startTimerLocked()
	s.publishLocked(domain.EventQuestion, nil)
}

// recordLocked writes the scoring fields of the current question. Answers and
// timeouts both end up here; NoAnswer is never correct.
func (s *Session) recordLocked(selected int) (domain.Question, error) {
	q := &s.questions[s.current]
	if q.Answered() {
		return domain.Question{}, domain.ErrAlreadyAnswered
	}
	s.cancelTimerLocked()

	mode := s.cfg.Mode
	correct := selected != domain.NoAnswer && selected == q.CorrectIndex
	answer := selected
	q.UserAnswer = &answer
	q.IsCorrect = correct
	q.TimeSpentSeconds = mode.Elapsed(s.remaining)
	q.Score = mode.Score(correct, s.remaining)

	s.score += q.Score
	s.phase = domain.PhaseAnswered
	s.publishLocked(domain.EventAnswered, nil)

	if s.cfg.OnAnswered != nil {
		s.cfg.OnAnswered(domain.AnswerSubmission{
			SessionID:        s.cfg.ID,
			QuestionID:       q.ID,
			QuestionRef:      q.Ref,
			SelectedIndex:    selected,
			IsCorrect:        correct,
			TimeSpentSeconds: q.TimeSpentSeconds,
		})
	}
	return *q, nil
}

func (s *Session) completeLocked() error {
	res, err := results.Aggregate(s.questions, s.cfg.Now())
	if err != nil {
		return err
	}
	res.SessionID = s.cfg.ID
	res.UserID = s.cfg.User.UserID
	res.Mode = s.cfg.Mode.Mode
	res.Category = s.cfg.Category

	s.result = &res
	s.phase = domain.PhaseCompleted
	s.publishLocked(domain.EventCompleted, &res)

	if s.cfg.OnCompleted != nil {
		s.cfg.OnCompleted(res)
	}
	return nil
}

// tick handles one countdown second for timer generation gen. Ticks from an
// older generation belong to a question that already left AwaitingAnswer and
// are dropped.
func (s *Session) tick(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || gen != s.timerGen || s.phase != domain.PhaseAwaitingAnswer {
		return false
	}
	if s.remaining > 0 {
		s.remaining--
	}
	if s.remaining == 0 {
		_, _ = s.recordLocked(domain.NoAnswer)
		return false
	}
	s.publishLocked(domain.EventTick, nil)
	return true
}

func (s *Session) startTimerLocked() {
	s.cancelTimerLocked()
	if s.cfg.TickInterval <= 0 {
		return
	}

	gen := s.timerGen
	ticker := time.NewTicker(s.cfg.TickInterval)
	done := make(chan struct{})
	s.stopTimer = func() { close(done) }

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if !s.tick(gen) {
					return
				}
			}
		}
	}()
}

// cancelTimerLocked invalidates the running countdown, if any.
func (s *Session) cancelTimerLocked() {
	s.timerGen++
	if s.stopTimer != nil {
		s.stopTimer()
		s.stopTimer = nil
	}
}

func (s *Session) snapshotLocked() domain.SessionSnapshot {
	snap := domain.SessionSnapshot{
		SessionID:        s.cfg.ID,
		UserID:           s.cfg.User.UserID,
		Mode:             s.cfg.Mode.Mode,
		Category:         s.cfg.Category,
		Phase:            s.phase,
		CurrentIndex:     s.current,
		TotalQuestions:   len(s.questions),
		Score:            s.score,
		RemainingSeconds: s.remaining,
		TimeLimitSeconds: s.cfg.Mode.TimeLimitSeconds,
		StartedAt:        s.startedAt,
	}
	if s.phase != domain.PhaseLoading {
		pq := s.questions[s.current].Public()
		snap.Question = &pq
	}
	return snap
}

func (s *Session) publishLocked(typ domain.EventType, result *domain.SessionResult) {
	ev := domain.SessionEvent{Type: typ, Snapshot: s.snapshotLocked(), Result: result}
	for ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
			// Drop the oldest event so a slow subscriber never blocks the session.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- ev:
			default:
			}
		}
	}
}
