package service

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/auth"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/domain"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/repository"
)

// Session is one signed-in user. Patient sessions carry a cached copy of their patient.
type Session struct {
	ID       string
	Identity auth.Identity
	Patient  *domain.Patient
}

// SessionRegistry tracks active sessions and keeps their cached patients in step with
// the store: an update refreshes every session bound to that patient, a deletion ends them.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	logger   *zap.Logger
}

// NewSessionRegistry subscribes the registry to store changes.
func NewSessionRegistry(store *repository.PatientStore, logger *zap.Logger) *SessionRegistry {
	r := &SessionRegistry{
		sessions: make(map[string]*Session),
		logger:   logger,
	}
	store.Watch(r.onChange)
	return r
}

// Open registers a session for id, assigning a session id when it has none. Patient
// identities come with their patient record.
func (r *SessionRegistry) Open(id auth.Identity, patient *domain.Patient) auth.Identity {
	if id.SessionID == "" {
		id.SessionID = uuid.New().String()
	}
	s := &Session{ID: id.SessionID, Identity: id}
	if patient != nil {
		p := patient.Clone()
		s.Patient = &p
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	r.logger.Info("Session opened",
		zap.String("session_id", s.ID),
		zap.String("role", string(id.Role)),
		zap.String("patient_id", id.PatientID),
	)
	return id
}

// Get returns a copy of the session, or false when it was closed or invalidated.
func (r *SessionRegistry) Get(sessionID string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return Session{}, false
	}
	out := *s
	if s.Patient != nil {
		p := s.Patient.Clone()
		out.Patient = &p
	}
	return out, true
}

func (r *SessionRegistry) Close(sessionID string) {
	r.mu.Lock()
	delete(r.sessions, sessionID)
	r.mu.Unlock()
}

// Count returns the number of active sessions.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *SessionRegistry) onChange(c repository.Change) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.sessions {
		if s.Identity.PatientID != c.PatientID {
			continue
		}
		switch c.Kind {
		case repository.ChangeUpdated:
			if c.Patient != nil {
				p := c.Patient.Clone()
				s.Patient = &p
			}
		case repository.ChangeDeleted:
			delete(r.sessions, id)
			r.logger.Info("Session ended, patient deleted",
				zap.String("session_id", id),
				zap.String("patient_id", c.PatientID),
			)
		}
	}
}
