// Package session carries the credentials attached to every store call.
//
// The store accepts either a browser-style session cookie or a Bearer
// token. Tokens are JWTs issued by the store; the client never holds the
// signing secret, so it only inspects the expiry claim (ParseUnverified)
// to refuse running with a token the store would reject anyway.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired means the session token's expiry claim is in the past.
	ErrTokenExpired = errors.New("session token expired")

	// ErrMalformedToken means the session token is not a parseable JWT.
	ErrMalformedToken = errors.New("malformed session token")
)

// Credentials applies session authentication to an outgoing request.
type Credentials interface {
	Apply(req *http.Request)
}

// Token authenticates with an Authorization: Bearer header.
type Token struct {
	Value string
}

// Apply sets the Authorization header.
func (t Token) Apply(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+t.Value)
}

// ExpiresAt returns the token's expiry claim without verifying the
// signature. Tokens with no expiry claim return the zero time and no
// error.
func (t Token) ExpiresAt() (time.Time, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(t.Value, &claims); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, nil
	}
	return claims.ExpiresAt.Time, nil
}

// Check returns ErrTokenExpired when the token carries an expiry claim in
// the past, and ErrMalformedToken when it cannot be parsed at all.
func (t Token) Check(now time.Time) error {
	exp, err := t.ExpiresAt()
	if err != nil {
		return err
	}
	if !exp.IsZero() && exp.Before(now) {
		return ErrTokenExpired
	}
	return nil
}

// Cookie authenticates with the store's session cookie.
type Cookie struct {
	Name  string
	Value string
}

// Apply attaches the session cookie.
func (c Cookie) Apply(req *http.Request) {
	req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
}

// Anonymous sends no credentials. Only useful against test doubles.
type Anonymous struct{}

// Apply is a no-op.
func (Anonymous) Apply(*http.Request) {}
