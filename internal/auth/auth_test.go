package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/domain"
)

type lookup map[string]domain.Patient

func (l lookup) FindByID(id string) (domain.Patient, bool) {
	p, ok := l[id]
	return p, ok
}

func TestGate_Clinician(t *testing.T) {
	g := NewGate("doctor", "aiims123", lookup{})

	id, err := g.LoginClinician("doctor", "aiims123")
	require.NoError(t, err)
	assert.Equal(t, RoleClinician, id.Role)
	assert.NotEmpty(t, id.SessionID)

	_, err = g.LoginClinician("doctor", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = g.LoginClinician("nurse", "aiims123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGate_Patient(t *testing.T) {
	g := NewGate("doctor", "aiims123", lookup{"9999999999": {ID: "9999999999"}})

	id, err := g.LoginPatient(" 9999999999 ")
	require.NoError(t, err)
	assert.Equal(t, RolePatient, id.Role)
	assert.Equal(t, "9999999999", id.PatientID)

	_, err = g.LoginPatient("8888888888")
	assert.ErrorIs(t, err, ErrUnknownPatient)
	_, err = g.LoginPatient("12345")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	want := Identity{Role: RolePatient, PatientID: "9999999999", SessionID: "s-1"}

	token, exp, err := issuer.Issue(want)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	got, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTokenIssuer_Rejects(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	token, _, err := issuer.Issue(Identity{Role: RoleClinician, SessionID: "s"})
	require.NoError(t, err)

	_, err = NewTokenIssuer("other", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokenIssuer("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = expired.Parse(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	_, err = issuer.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestContextIdentity(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), Identity{Role: RoleClinician})
	id, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, RoleClinician, id.Role)
}
