// Package admin guards the site dashboard: bcrypt-checked credentials and an
// HS256 session cookie.
package admin

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// CookieName holds the signed session token.
const CookieName = "admin_token"

// TokenTTL is how long a login lasts.
const TokenTTL = 24 * time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNotConfigured      = errors.New("admin access not configured")
)

// HashPassword returns the bcrypt hash stored in admin.password_hash.
func HashPassword(pw string) (string, error) {
	if pw == "" {
		return "", errors.New("empty password")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(b), nil
}

// Auth checks admin credentials and issues session tokens.
type Auth struct {
	username string
	hash     []byte
	secret   []byte
	now      func() time.Time
}

// NewAuth returns an Auth. Without a password hash or secret every login
// fails with ErrNotConfigured.
func NewAuth(username, passwordHash, secret string) *Auth {
	return &Auth{
		username: username,
		hash:     []byte(passwordHash),
		secret:   []byte(secret),
		now:      time.Now,
	}
}

// Enabled reports whether logins can succeed.
func (a *Auth) Enabled() bool { return len(a.hash) > 0 && len(a.secret) > 0 }

// Login verifies the credentials and returns a signed token.
func (a *Auth) Login(username, password string) (string, error) {
	if !a.Enabled() {
		return "", ErrNotConfigured
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := bcrypt.CompareHashAndPassword(a.hash, []byte(password)) == nil
	if !userOK || !passOK {
		return "", ErrInvalidCredentials
	}
	now := a.now()
	claims := jwt.RegisteredClaims{
		Subject:   a.username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return tok, nil
}

// Verify parses tok and returns its subject.
func (a *Auth) Verify(tok string) (string, error) {
	if !a.Enabled() {
		return "", ErrNotConfigured
	}
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(tok, &claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.now))
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject != a.username {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
