package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenKind discriminates the two token classes. A refresh token must never
// pass a check expecting an access token, and the reverse.
type TokenKind string

const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
)

var (
	ErrInvalidToken      = errors.New("auth: invalid token")
	ErrTokenExpired      = errors.New("auth: token expired")
	ErrTokenKindMismatch = errors.New("auth: token kind mismatch")
)

// Claims is the payload baked into every issued token.
type Claims struct {
	Kind TokenKind `json:"type"`
	jwt.RegisteredClaims
}

// TokenService issues and validates the two token kinds, each signed with its
// own secret and carrying its own default lifetime.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// Issue signs a token of the given kind for subject. ttl overrides the kind's
// default lifetime when non-zero; a negative ttl yields an already-expired
// token.
func (s *TokenService) Issue(subject string, kind TokenKind, ttl time.Duration) (string, *Claims, error) {
	if ttl == 0 {
		ttl = s.ttlFor(kind)
	}

	now := time.Now()
	claims := &Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretFor(kind))
	if err != nil {
		return "", nil, fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, claims, nil
}

// Decode validates the signature and expiry against the given kind's secret
// and enforces the type discriminator.
func (s *TokenService) Decode(tokenString string, kind TokenKind) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secretFor(kind), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Kind != kind {
		return nil, ErrTokenKindMismatch
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *TokenService) AccessTTL() time.Duration  { return s.accessTTL }
func (s *TokenService) RefreshTTL() time.Duration { return s.refreshTTL }

func (s *TokenService) secretFor(kind TokenKind) []byte {
	if kind == TokenRefresh {
		return s.refreshSecret
	}
	return s.accessSecret
}

func (s *TokenService) ttlFor(kind TokenKind) time.Duration {
	if kind == TokenRefresh {
		return s.refreshTTL
	}
	return s.accessTTL
}
