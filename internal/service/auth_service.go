package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/auth"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/domain"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/repository"
)

// AuthService turns gate decisions into signed session tokens.
type AuthService struct {
	gate     *auth.Gate
	tokens   *auth.TokenIssuer
	sessions *SessionRegistry
	store    *repository.PatientStore
	logger   *zap.Logger
}

func NewAuthService(gate *auth.Gate, tokens *auth.TokenIssuer, sessions *SessionRegistry, store *repository.PatientStore, logger *zap.Logger) *AuthService {
	return &AuthService{
		gate:     gate,
		tokens:   tokens,
		sessions: sessions,
		store:    store,
		logger:   logger,
	}
}

type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Role      auth.Role       `json:"role"`
	PatientID string          `json:"patientId,omitempty"`
	Patient   *domain.Patient `json:"patient,omitempty"`
}

func (s *AuthService) LoginClinician(username, password string) (*LoginResponse, error) {
	id, err := s.gate.LoginClinician(username, password)
	if err != nil {
		s.logger.Warn("Clinician login rejected")
		return nil, err
	}
	return s.issue(s.sessions.Open(id, nil), nil)
}

func (s *AuthService) LoginPatient(mobileID string) (*LoginResponse, error) {
	id, err := s.gate.LoginPatient(mobileID)
	if err != nil {
		return nil, err
	}
	p, ok := s.store.FindByID(id.PatientID)
	if !ok {
		return nil, auth.ErrUnknownPatient
	}
	return s.issue(s.sessions.Open(id, &p), &p)
}

// Authenticate verifies a bearer token and that its session is still open.
func (s *AuthService) Authenticate(token string) (Session, error) {
	id, err := s.tokens.Parse(token)
	if err != nil {
		return Session{}, err
	}
	sess, ok := s.sessions.Get(id.SessionID)
	if !ok || sess.Identity.Role != id.Role || sess.Identity.PatientID != id.PatientID {
		return Session{}, auth.ErrInvalidToken
	}
	return sess, nil
}

func (s *AuthService) Logout(sessionID string) {
	s.sessions.Close(sessionID)
}

func (s *AuthService) issue(id auth.Identity, p *domain.Patient) (*LoginResponse, error) {
	token, exp, err := s.tokens.Issue(id)
	if err != nil {
		s.sessions.Close(id.SessionID)
		return nil, err
	}
	return &LoginResponse{
		Token:     token,
		ExpiresAt: exp,
		Role:      id.Role,
		PatientID: id.PatientID,
		Patient:   p,
	}, nil
}
