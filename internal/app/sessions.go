package app

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"callbridge/internal/domain"
)

// SessionStore owns every live call session and is the only place a
// session's status changes. Terminal sessions are not retained: reject
// and end remove the record inside the same critical section as the
// transition, so the busy check always runs against live state only.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.CallSession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*domain.CallSession)}
}

// InitiateMeta carries the optional caller-supplied fields of an
// initiate request.
type InitiateMeta struct {
	CallType      domain.CallType
	CallerName    string
	OrderTracking string
}

// Initiate creates a ringing session between caller and receiver.
// The busy check and the insert happen under one lock so concurrent
// initiations can never double-book a participant.
func (s *SessionStore) Initiate(caller, receiver domain.ParticipantID, meta InitiateMeta) (*domain.CallSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sess := range s.sessions {
		if sess.Status.Terminal() {
			continue
		}
		if sess.Involves(caller) || sess.Involves(receiver) {
			return nil, ErrParticipantBusy
		}
	}

	callType := meta.CallType
	if callType == "" {
		callType = domain.CallTypeVideo
	}
	sess := &domain.CallSession{
		ID:            uuid.NewString(),
		CallerID:      caller,
		ReceiverID:    receiver,
		MediaChannel:  uuid.NewString(),
		CallType:      callType,
		CallerName:    meta.CallerName,
		OrderTracking: meta.OrderTracking,
		Status:        domain.CallRinging,
		CreatedAt:     time.Now(),
	}
	s.sessions[sess.ID] = sess
	log.Info().Str("module", "app.sessions").Str("session", sess.ID).
		Str("caller", string(caller)).Str("receiver", string(receiver)).Msg("initiated")
	return clone(sess), nil
}

// Accept moves a ringing session to accepted. Only the receiver may
// accept, and only while the session is still ringing.
func (s *SessionStore) Accept(id string, actor domain.ParticipantID) (*domain.CallSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if sess.ReceiverID != actor {
		return nil, ErrForbidden
	}
	if sess.Status != domain.CallRinging {
		return nil, ErrInvalidTransition
	}
	now := time.Now()
	sess.Status = domain.CallAccepted
	sess.AcceptedAt = &now
	log.Info().Str("module", "app.sessions").Str("session", id).Msg("accepted")
	return clone(sess), nil
}

// Reject drives the session to rejected and removes it. Same actor
// and state guards as Accept. The returned snapshot lets the caller
// notify the other side after the record is gone.
func (s *SessionStore) Reject(id string, actor domain.ParticipantID) (*domain.CallSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if sess.ReceiverID != actor {
		return nil, ErrForbidden
	}
	if sess.Status != domain.CallRinging {
		return nil, ErrInvalidTransition
	}
	now := time.Now()
	sess.Status = domain.CallRejected
	sess.EndedAt = &now
	delete(s.sessions, id)
	log.Info().Str("module", "app.sessions").Str("session", id).Msg("rejected")
	return clone(sess), nil
}

// End terminates from ringing or accepted, by either participant, and
// removes the record.
func (s *SessionStore) End(id string, actor domain.ParticipantID) (*domain.CallSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !sess.Involves(actor) {
		return nil, ErrForbidden
	}
	if sess.Status.Terminal() {
		return nil, ErrInvalidTransition
	}
	now := time.Now()
	sess.Status = domain.CallEnded
	sess.EndedAt = &now
	delete(s.sessions, id)
	log.Info().Str("module", "app.sessions").Str("session", id).Str("by", string(actor)).Msg("ended")
	return clone(sess), nil
}

// Get returns a snapshot of a live session.
func (s *SessionStore) Get(id string) (*domain.CallSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	return clone(sess), true
}

// FindFor returns snapshots of every non-terminal session referencing
// the participant. The busy invariant keeps this to at most one, but
// cleanup never assumes that.
func (s *SessionStore) FindFor(pid domain.ParticipantID) []*domain.CallSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.CallSession
	for _, sess := range s.sessions {
		if !sess.Status.Terminal() && sess.Involves(pid) {
			out = append(out, clone(sess))
		}
	}
	return out
}

// clone keeps store-owned records from ever leaking to callers.
func clone(sess *domain.CallSession) *domain.CallSession {
	cp := *sess
	return &cp
}
