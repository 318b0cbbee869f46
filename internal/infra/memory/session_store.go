package memory

import (
	"sync"

	"beverage-quiz-service/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*app.Session
	active   map[string]string // user id -> session id
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*app.Session),
		active:   make(map[string]string),
	}
}

func (s *SessionStore) Save(session *app.Session) *app.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID := session.User().UserID
	var previous *app.Session
	if prevID, ok := s.active[userID]; ok && prevID != session.ID() {
		previous = s.sessions[prevID]
		delete(s.sessions, prevID)
	}
	s.sessions[session.ID()] = session
	s.active[userID] = session.ID()
	return previous
}

func (s *SessionStore) Get(sessionID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	return session, ok
}

func (s *SessionStore) ActiveFor(userID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.active[userID]
	if !ok {
		return nil, false
	}
	session, ok := s.sessions[id]
	return session, ok
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return
	}
	delete(s.sessions, sessionID)
	userID := session.User().UserID
	if s.active[userID] == sessionID {
		delete(s.active, userID)
	}
}

// All lists the held sessions.
func (s *SessionStore) All() []*app.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*app.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		out = append(out, session)
	}
	return out
}

// Len reports how many sessions are held.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
