package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"beverage-quiz-service/internal/domain"
	"beverage-quiz-service/internal/questiongen"
)

// SessionRepository abstracts how quiz sessions are stored (in-memory, Redis, etc).
// A user has at most one active session.
type SessionRepository interface {
	// Save stores session as its user's active session and returns the
	// session it replaced, if any.
	Save(session *Session) *Session
	Get(sessionID string) (*Session, bool)
	ActiveFor(userID string) (*Session, bool)
	Delete(sessionID string)
	All() []*Session
}

// QuizService contains the quiz use cases.
type QuizService struct {
	sessions  SessionRepository
	catalog   CatalogRepository
	generator *questiongen.Generator
	remote    RemoteQuestions
	submitter AnswerSubmitter
	persister ResultPersister
	progress  ProgressReader
	board     LeaderboardReader
	history   HistoryReader
	dispatch  *Dispatcher
	log       *zap.Logger
	tick      time.Duration
	now       func() time.Time
	newID     func() string
}

// Option configures a QuizService.
type Option func(*QuizService)

func WithGenerator(g *questiongen.Generator) Option {
	return func(s *QuizService) { s.generator = g }
}

// WithRemoteQuestions enables step-wise remote questions for modes that use them.
func WithRemoteQuestions(r RemoteQuestions) Option {
	return func(s *QuizService) { s.remote = r }
}

func WithAnswerSubmitter(a AnswerSubmitter) Option {
	return func(s *QuizService) { s.submitter = a }
}

func WithResultPersister(p ResultPersister) Option {
	return func(s *QuizService) { s.persister = p }
}

func WithProgressReader(p ProgressReader) Option {
	return func(s *QuizService) { s.progress = p }
}

func WithLeaderboard(b LeaderboardReader) Option {
	return func(s *QuizService) { s.board = b }
}

func WithHistory(h HistoryReader) Option {
	return func(s *QuizService) { s.history = h }
}

func WithDispatcher(d *Dispatcher) Option {
	return func(s *QuizService) { s.dispatch = d }
}

func WithLogger(log *zap.Logger) Option {
	return func(s *QuizService) { s.log = log }
}

// WithTickInterval sets the countdown period; zero leaves ticking to clients.
func WithTickInterval(d time.Duration) Option {
	return func(s *QuizService) { s.tick = d }
}

// WithClock is for deterministic timestamps in tests.
func WithClock(now func() time.Time) Option {
	return func(s *QuizService) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *QuizService) { s.newID = newID }
}

func NewQuizService(store SessionRepository, catalog CatalogRepository, opts ...Option) *QuizService {
	s := &QuizService{
		sessions: store,
		catalog:  catalog,
		tick:     time.Second,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.generator == nil {
		s.generator = questiongen.NewGenerator(nil, nil)
	}
	if s.dispatch == nil {
		s.dispatch = NewDispatcher(s.log, 10*time.Second)
	}
	return s
}

// Modes lists the available quiz modes.
func (s *QuizService) Modes() []domain.ModeConfig {
	return domain.Modes()
}

// Start creates a fresh attempt for user, replacing any previous one.
func (s *QuizService) Start(ctx context.Context, user domain.UserContext, mode domain.Mode, category string) (*Session, error) {
	if !user.IsAuthenticated() {
		return nil, domain.ErrUnauthenticated
	}
	cfg, err := domain.LookupMode(mode)
	if err != nil {
		return nil, err
	}
	category = strings.TrimSpace(category)
	if !cfg.RequiresCategory {
		category = ""
	} else if category == "" {
		return nil, domain.ErrCategoryRequired
	}

	feed, err := s.buildFeed(ctx, user, cfg, category)
	if err != nil {
		return nil, err
	}

	session := NewSession(SessionConfig{
		ID:           s.newID(),
		User:         user,
		Mode:         cfg,
		Category:     category,
		Feed:         feed,
		TickInterval: s.tick,
		Now:          s.now,
		OnAnswered:   s.submitAsync(user.UserID),
		OnCompleted:  s.persistAsync(user.UserID),
	})

	if previous := s.sessions.Save(session); previous != nil {
		previous.Close()
	}
	if err := session.Begin(ctx); err != nil {
		s.sessions.Delete(session.ID())
		session.Close()
		return nil, err
	}

	s.log.Info("session started",
		zap.String("session", session.ID()),
		zap.String("user", user.UserID),
		zap.String("mode", string(cfg.Mode)),
		zap.String("category", category),
		zap.Int("questions", feed.Total()),
	)
	return session, nil
}

// Answer records an answer on the user's session.
func (s *QuizService) Answer(_ context.Context, user domain.UserContext, sessionID string, optionIndex int) (domain.Question, error) {
	session, err := s.owned(user, sessionID)
	if err != nil {
		return domain.Question{}, err
	}
	return session.Answer(optionIndex)
}

// Tick advances the countdown manually, for clients that drive their own clock.
func (s *QuizService) Tick(_ context.Context, user domain.UserContext, sessionID string) (domain.SessionSnapshot, error) {
	session, err := s.owned(user, sessionID)
	if err != nil {
		return domain.SessionSnapshot{}, err
	}
	session.Tick()
	return session.Snapshot(), nil
}

// Advance moves the user's session to its next question or completes it.
func (s *QuizService) Advance(ctx context.Context, user domain.UserContext, sessionID string) (domain.SessionSnapshot, error) {
	session, err := s.owned(user, sessionID)
	if err != nil {
		return domain.SessionSnapshot{}, err
	}
	snap, err := session.Advance(ctx)
	if err == nil && snap.Phase == domain.PhaseCompleted {
		s.log.Info("session completed",
			zap.String("session", sessionID),
			zap.String("user", user.UserID),
			zap.Float64("score", snap.Score),
		)
	}
	return snap, err
}

// Snapshot returns the current state of the user's session.
func (s *QuizService) Snapshot(_ context.Context, user domain.UserContext, sessionID string) (domain.SessionSnapshot, error) {
	session, err := s.owned(user, sessionID)
	if err != nil {
		return domain.SessionSnapshot{}, err
	}
	return session.Snapshot(), nil
}

// Active returns the user's current session, if any.
func (s *QuizService) Active(_ context.Context, user domain.UserContext) (*Session, error) {
	if !user.IsAuthenticated() {
		return nil, domain.ErrUnauthenticated
	}
	session, ok := s.sessions.ActiveFor(user.UserID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// Result returns the summary of a completed session.
func (s *QuizService) Result(_ context.Context, user domain.UserContext, sessionID string) (domain.SessionResult, error) {
	session, err := s.owned(user, sessionID)
	if err != nil {
		return domain.SessionResult{}, err
	}
	res, ok := session.Result()
	if !ok {
		return domain.SessionResult{}, domain.ErrInvalidTransition
	}
	return res, nil
}

// Subscribe returns a channel that receives the session's events.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(_ context.Context, user domain.UserContext, sessionID string) (<-chan domain.SessionEvent, func(), error) {
	session, err := s.owned(user, sessionID)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := session.Subscribe()
	return ch, cancel, nil
}

// Abandon stops the user's session and drops it.
func (s *QuizService) Abandon(_ context.Context, user domain.UserContext, sessionID string) error {
	session, err := s.owned(user, sessionID)
	if err != nil {
		return err
	}
	session.Close()
	s.sessions.Delete(sessionID)
	return nil
}

// Progress returns the user's XP and level.
func (s *QuizService) Progress(ctx context.Context, user domain.UserContext) (domain.Progress, error) {
	if !user.IsAuthenticated() {
		return domain.Progress{}, domain.ErrUnauthenticated
	}
	if s.progress == nil {
		level, next := domain.LevelFor(0)
		return domain.Progress{UserID: user.UserID, Level: level, NextLevelXP: next}, nil
	}
	return s.progress.Progress(ctx, user.UserID)
}

// Leaderboard returns the top users by XP; empty when no reader is configured.
func (s *QuizService) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if s.board == nil {
		return []domain.LeaderboardEntry{}, nil
	}
	return s.board.Leaderboard(ctx, limit)
}

// History lists the user's completed sessions.
func (s *QuizService) History(ctx context.Context, user domain.UserContext, limit int) ([]domain.SessionResult, error) {
	if !user.IsAuthenticated() {
		return nil, domain.ErrUnauthenticated
	}
	if s.history == nil {
		return []domain.SessionResult{}, nil
	}
	return s.history.History(ctx, user.UserID, limit)
}

// Drain waits for in-flight background calls.
func (s *QuizService) Drain() {
	s.dispatch.Wait()
}

// Shutdown closes every live session, stops accepting background calls and
// waits for the ones in flight.
func (s *QuizService) Shutdown() {
	sessions := s.sessions.All()
	for _, session := range sessions {
		session.Close()
	}
	s.dispatch.Close()
	s.dispatch.Wait()
	s.log.Info("quiz service stopped", zap.Int("closed_sessions", len(sessions)))
}

func (s *QuizService) owned(user domain.UserContext, sessionID string) (*Session, error) {
	if !user.IsAuthenticated() {
		return nil, domain.ErrUnauthenticated
	}
	session, ok := s.sessions.Get(sessionID)
	if !ok || session.User().UserID != user.UserID {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (s *QuizService) buildFeed(ctx context.Context, user domain.UserContext, cfg domain.ModeConfig, category string) (QuestionFeed, error) {
	if cfg.Source == domain.SourceRemote && s.remote != nil {
		token, err := s.remote.StartSession(ctx, user.UserID)
		if err == nil {
			return &remoteFeed{
				remote:      s.remote,
				token:       token,
				total:       cfg.QuestionCount,
				optionCount: cfg.OptionCount,
			}, nil
		}
		s.log.Warn("remote session unavailable, generating locally",
			zap.String("user", user.UserID), zap.Error(err))
	}

	items, err := s.catalog.ListItems(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	questions, err := s.generator.GenerateSet(items, cfg.QuestionCount, category, cfg.OptionCount)
	if err != nil {
		return nil, err
	}
	return staticFeed(questions), nil
}

func (s *QuizService) submitAsync(userID string) func(domain.AnswerSubmission) {
	if s.submitter == nil {
		return nil
	}
	return func(sub domain.AnswerSubmission) {
		s.dispatch.Go("submit answer", func(ctx context.Context) error {
			return s.submitter.SubmitAnswer(ctx, userID, sub)
		}, zap.String("session", sub.SessionID), zap.Int("question", sub.QuestionID))
	}
}

func (s *QuizService) persistAsync(userID string) func(domain.SessionResult) {
	if s.persister == nil {
		return nil
	}
	return func(res domain.SessionResult) {
		s.dispatch.Go("persist results", func(ctx context.Context) error {
			return s.persister.PersistResults(ctx, userID, res)
		}, zap.String("session", res.SessionID))
	}
}
