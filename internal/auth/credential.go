// Package auth issues time-scoped media credentials. The media plane
// itself is out of scope here: a credential is an opaque blob the
// client hands to the media infrastructure.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"callbridge/internal/domain"
)

// CredentialIssuer generates a time-scoped credential binding a
// participant to a media routing channel.
type CredentialIssuer interface {
	Issue(channel string, pid domain.ParticipantID) (string, error)
}

type Claims struct {
	jwt.RegisteredClaims

	Channel     string `json:"channel"`
	Participant string `json:"participant"`
}

// Manager is the HS256 JWT implementation of CredentialIssuer.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("media token secret is required")
	}
	return &Manager{secret: []byte(secret), ttl: ttl}, nil
}

func (m *Manager) Issue(channel string, pid domain.ParticipantID) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(pid),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Channel:     channel,
		Participant: string(pid),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify parses and validates a credential. The server never consumes
// its own credentials; this exists for the media collaborator's side
// of the contract and for tests.
func (m *Manager) Verify(token string) (Claims, error) {
	var claims Claims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if _, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}); err != nil {
		return Claims{}, err
	}
	return claims, nil
}
