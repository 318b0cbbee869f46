package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"beverage-quiz-service/internal/app"
	"beverage-quiz-service/internal/infra/memory"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Sessions (with their timers and subscribers) stay in the local store; Redis
// carries a liveness marker per session and the user -> session index so other
// instances can see who is mid-quiz.
//
//	SET quiz:session:{id} {userID} EX ttl
//	SET quiz:user:{userID}:session {id} EX ttl
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
	local  *memory.SessionStore
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client: client,
		ttl:    ttl,
		local:  memory.NewSessionStore(),
	}
}

func (s *SessionStore) Save(session *app.Session) *app.Session {
	previous := s.local.Save(session)

	// best-effort liveness markers
	ctx := context.Background()
	userID := session.User().UserID
	pipe := s.client.TxPipeline()
	if previous != nil {
		pipe.Del(ctx, s.key(previous.ID()))
	}
	pipe.Set(ctx, s.key(session.ID()), userID, s.ttl)
	pipe.Set(ctx, s.userKey(userID), session.ID(), s.ttl)
	_, _ = pipe.Exec(ctx)
	return previous
}

func (s *SessionStore) Get(sessionID string) (*app.Session, bool) {
	return s.local.Get(sessionID)
}

func (s *SessionStore) ActiveFor(userID string) (*app.Session, bool) {
	return s.local.ActiveFor(userID)
}

func (s *SessionStore) All() []*app.Session {
	return s.local.All()
}

func (s *SessionStore) Delete(sessionID string) {
	session, ok := s.local.Get(sessionID)
	if !ok {
		return
	}
	s.local.Delete(sessionID)

	ctx := context.Background()
	userID := session.User().UserID
	_ = s.client.Del(ctx, s.key(sessionID)).Err()
	// Only clear the index when it still points at this session.
	if current, err := s.activeSessionID(ctx, userID); err == nil && current == sessionID {
		_ = s.client.Del(ctx, s.userKey(userID)).Err()
	}
}

// activeSessionID reports the session a user is running on any instance.
func (s *SessionStore) activeSessionID(ctx context.Context, userID string) (string, error) {
	id, err := s.client.Get(ctx, s.userKey(userID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	return id, err
}

func (s *SessionStore) key(sessionID string) string {
	return "quiz:session:" + sessionID
}

func (s *SessionStore) userKey(userID string) string {
	return "quiz:user:" + userID + ":session"
}
