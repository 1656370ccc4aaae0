package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/auth"
)

func newAuthService(env *testEnv) *AuthService {
	sessions := NewSessionRegistry(env.store, zap.NewNop())
	gate := auth.NewGate("doctor", "aiims123", env.store)
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	return NewAuthService(gate, tokens, sessions, env.store, zap.NewNop())
}

func TestSessionRegistry_FollowsStore(t *testing.T) {
	env := newTestEnv(t)
	p := env.register(t, testMobile)
	reg := NewSessionRegistry(env.store, zap.NewNop())

	id := reg.Open(auth.Identity{Role: auth.RolePatient, PatientID: testMobile}, &p)
	require.NotEmpty(t, id.SessionID)
	doctor := reg.Open(auth.Identity{Role: auth.RoleClinician}, nil)
	assert.Equal(t, 2, reg.Count())

	_, err := env.logs.Submit(context.Background(), testMobile, logRequest(96, 94))
	require.NoError(t, err)

	sess, ok := reg.Get(id.SessionID)
	require.True(t, ok)
	require.NotNil(t, sess.Patient)
	assert.Len(t, sess.Patient.Logs, 1, "cached patient refreshed on update")

	require.NoError(t, env.patients.Delete(context.Background(), testMobile))
	_, ok = reg.Get(id.SessionID)
	assert.False(t, ok, "session ends with its patient")
	_, ok = reg.Get(doctor.SessionID)
	assert.True(t, ok)

	reg.Close(doctor.SessionID)
	assert.Zero(t, reg.Count())
}

func TestSessionRegistry_GetReturnsCopy(t *testing.T) {
	env := newTestEnv(t)
	p := env.register(t, testMobile)
	reg := NewSessionRegistry(env.store, zap.NewNop())
	id := reg.Open(auth.Identity{Role: auth.RolePatient, PatientID: testMobile}, &p)

	sess, _ := reg.Get(id.SessionID)
	sess.Patient.Name = "changed"
	again, _ := reg.Get(id.SessionID)
	assert.Equal(t, p.Name, again.Patient.Name)
}

func TestAuthService_Login(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, testMobile)
	svc := newAuthService(env)

	_, err := svc.LoginClinician("doctor", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	doc, err := svc.LoginClinician("doctor", "aiims123")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleClinician, doc.Role)
	sess, err := svc.Authenticate(doc.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleClinician, sess.Identity.Role)

	_, err = svc.LoginPatient("1234567890")
	assert.ErrorIs(t, err, auth.ErrUnknownPatient)

	pat, err := svc.LoginPatient(testMobile)
	require.NoError(t, err)
	require.NotNil(t, pat.Patient)
	assert.Equal(t, testMobile, pat.PatientID)
	sess, err = svc.Authenticate(pat.Token)
	require.NoError(t, err)
	assert.Equal(t, testMobile, sess.Identity.PatientID)

	svc.Logout(sess.ID)
	_, err = svc.Authenticate(pat.Token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = svc.Authenticate("not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAuthService_DeletedPatientTokenRejected(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, testMobile)
	svc := newAuthService(env)

	pat, err := svc.LoginPatient(testMobile)
	require.NoError(t, err)
	require.NoError(t, env.patients.Delete(context.Background(), testMobile))

	_, err = svc.Authenticate(pat.Token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
