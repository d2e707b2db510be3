// Package auth resolves request credentials into caller identities.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kailas-cloud/satvach/internal/domain"
)

// RoleAdmin is the role claim that grants moderation access.
const RoleAdmin = "admin"

// DefaultLeeway is the clock skew tolerated when checking token times.
const DefaultLeeway = 30 * time.Second

// ErrExpiredToken is returned for a well-formed token past its expiry.
var ErrExpiredToken = errors.New("token has expired")

// Identity is a resolved caller.
type Identity struct {
	ID    string
	Admin bool
}

// Anonymous is the identity of a caller without credentials.
var Anonymous = Identity{}

// IsAnonymous reports whether no credential was presented.
func (i Identity) IsAnonymous() bool { return i.ID == "" }

// Claims are the JWT claims accepted from bearer tokens.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// Config holds credential material.
type Config struct {
	APIKeys           []string
	AdminKeys         []string
	JWTSecret         string
	JWTPreviousSecret string
	Issuer            string
	Leeway            time.Duration
}

// Authenticator checks static API keys first, then HS256 JWTs. Tokens are
// signed with the current secret and accepted under the current or previous one.
type Authenticator struct {
	apiKeys        [][]byte
	adminKeys      [][]byte
	currentSecret  []byte
	previousSecret []byte
	issuer         string
	leeway         time.Duration
}

// New creates an Authenticator. Empty keys are ignored.
func New(cfg Config) *Authenticator {
	a := &Authenticator{
		apiKeys:   nonEmpty(cfg.APIKeys),
		adminKeys: nonEmpty(cfg.AdminKeys),
		issuer:    cfg.Issuer,
		leeway:    cfg.Leeway,
	}
	if cfg.JWTSecret != "" {
		a.currentSecret = []byte(cfg.JWTSecret)
	}
	if cfg.JWTPreviousSecret != "" {
		a.previousSecret = []byte(cfg.JWTPreviousSecret)
	}
	if a.leeway <= 0 {
		a.leeway = DefaultLeeway
	}
	return a
}

// Enabled reports whether any credential is configured.
func (a *Authenticator) Enabled() bool {
	return len(a.apiKeys) > 0 || len(a.adminKeys) > 0 || a.currentSecret != nil
}

// Authenticate resolves a bearer credential. Failures wrap domain.ErrUnauthorized.
func (a *Authenticator) Authenticate(credential string) (Identity, error) {
	if credential == "" {
		return Identity{}, fmt.Errorf("empty credential: %w", domain.ErrUnauthorized)
	}

	if matchKey(a.adminKeys, credential) {
		return Identity{ID: keyID(credential), Admin: true}, nil
	}
	if matchKey(a.apiKeys, credential) {
		return Identity{ID: keyID(credential)}, nil
	}

	if a.currentSecret == nil || strings.Count(credential, ".") != 2 {
		return Identity{}, fmt.Errorf("unknown api key: %w", domain.ErrUnauthorized)
	}

	claims, err := a.validateToken(credential)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	return Identity{ID: claims.Subject, Admin: claims.Role == RoleAdmin}, nil
}

func (a *Authenticator) validateToken(token string) (*Claims, error) {
	claims, err := a.parse(token, a.currentSecret)
	if err != nil && a.previousSecret != nil && !errors.Is(err, jwt.ErrTokenExpired) {
		claims, err = a.parse(token, a.previousSecret)
	}
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if claims.Subject == "" {
		return nil, errors.New("invalid token: missing subject")
	}
	return claims, nil
}

func (a *Authenticator) parse(token string, secret []byte) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithLeeway(a.leeway),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	return claims, nil
}

func nonEmpty(keys []string) [][]byte {
	out := make([][]byte, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			out = append(out, []byte(k))
		}
	}
	return out
}

func matchKey(keys [][]byte, credential string) bool {
	c := []byte(credential)
	found := false
	for _, k := range keys {
		if subtle.ConstantTimeCompare(k, c) == 1 {
			found = true
		}
	}
	return found
}

// keyID derives a stable, non-secret identifier for an API key holder.
func keyID(key string) string {
	sum := sha256.Sum256([]byte(key))
	return "key:" + hex.EncodeToString(sum[:6])
}
