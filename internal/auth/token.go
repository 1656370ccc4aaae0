package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the identity inside an HS256 token.
type Claims struct {
	jwt.RegisteredClaims
	Role      Role   `json:"role"`
	PatientID string `json:"patient_id,omitempty"`
	SessionID string `json:"session_id"`
}

type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for id and returns it with its expiry.
func (t *TokenIssuer) Issue(id Identity) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.ttl)
	subject := string(id.Role)
	if id.PatientID != "" {
		subject = id.PatientID
	}
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Role:      id.Role,
		PatientID: id.PatientID,
		SessionID: id.SessionID,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, exp, nil
}

// Parse verifies signature and expiry and returns the identity.
func (t *TokenIssuer) Parse(token string) (Identity, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(tok *jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !parsed.Valid {
		return Identity{}, errors.Join(ErrInvalidToken, err)
	}
	if claims.Role != RoleClinician && claims.Role != RolePatient {
		return Identity{}, ErrInvalidToken
	}
	if claims.Role == RolePatient && claims.PatientID == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{Role: claims.Role, PatientID: claims.PatientID, SessionID: claims.SessionID}, nil
}
