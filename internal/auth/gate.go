package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownPatient     = errors.New("patient not registered")
	ErrInvalidToken       = errors.New("invalid token")
)

type Role string

const (
	RoleClinician Role = "doctor"
	RolePatient   Role = "patient"
)

// Identity is the outcome of a successful login: a role, plus the bound patient for
// patient sessions.
type Identity struct {
	Role      Role   `json:"role"`
	PatientID string `json:"patientId,omitempty"`
	SessionID string `json:"sessionId"`
}

// PatientLookup resolves a mobile id to a registered patient.
type PatientLookup interface {
	FindByID(id string) (domain.Patient, bool)
}

// Gate checks the static clinician credential and patient mobile ids.
type Gate struct {
	username string
	password string
	patients PatientLookup
}

func NewGate(username, password string, patients PatientLookup) *Gate {
	return &Gate{username: username, password: password, patients: patients}
}

func (g *Gate) LoginClinician(username, password string) (Identity, error) {
	userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(username)), []byte(g.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(g.password)) == 1
	if !userOK || !passOK {
		return Identity{}, ErrInvalidCredentials
	}
	return Identity{Role: RoleClinician, SessionID: uuid.NewString()}, nil
}

func (g *Gate) LoginPatient(mobileID string) (Identity, error) {
	mobileID = strings.TrimSpace(mobileID)
	if !domain.ValidMobileID(mobileID) {
		return Identity{}, domain.Invalid("mobile", "must be a 10 digit mobile number")
	}
	if _, ok := g.patients.FindByID(mobileID); !ok {
		return Identity{}, ErrUnknownPatient
	}
	return Identity{Role: RolePatient, PatientID: mobileID, SessionID: uuid.NewString()}, nil
}

type contextKey string

const identityKey contextKey = "identity"

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
