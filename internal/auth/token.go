package auth

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// fallbackSecret keeps the service bootable when AUTH_SECRET is unset.
// main logs a warning whenever this path is taken; never deploy with it.
const fallbackSecret = "YouR26593seCRet90292kEy"

const defaultTokenTTL = 24 * time.Hour

// ErrInvalidToken is returned for any token that is malformed, expired or
// carries a bad signature.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the verified identity embedded in a session token.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UnverifiedClaims carries identity read from a token without signature
// verification. It is only suitable for informational use such as
// notification routing; nothing that makes an authorization decision may
// accept this type: re-run Verify and use Claims instead.
type UnverifiedClaims struct {
	Username string
	Email    string
}

// Config holds the auth settings read at startup.
type Config struct {
	Secret   string
	TokenTTL time.Duration
}

// ConfigFromEnv reads auth config from environment variables.
func ConfigFromEnv() Config {
	ttl := defaultTokenTTL
	if v := os.Getenv("AUTH_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			ttl = d
		}
	}
	return Config{Secret: os.Getenv("AUTH_SECRET"), TokenTTL: ttl}
}

// TokenService issues and verifies HS256 session tokens with a process-wide
// secret. The secret is fixed at construction and read-only afterwards.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(cfg Config) *TokenService {
	secret := cfg.Secret
	if secret == "" {
		secret = fallbackSecret
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue signs a session token over the given identity. Tokens carry
// issued-at and expiry claims and are never persisted.
func (s *TokenService) Issue(username, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Username: username,
		Email:    email,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks signature and expiry and returns the embedded claims.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// DecodeUnverified extracts identity without checking the signature. The
// result is deliberately a distinct type so it cannot be passed where an
// authenticated identity is expected.
func (s *TokenService) DecodeUnverified(tokenString string) (UnverifiedClaims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return UnverifiedClaims{}, ErrInvalidToken
	}
	return UnverifiedClaims{Username: claims.Username, Email: claims.Email}, nil
}
