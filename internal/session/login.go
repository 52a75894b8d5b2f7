// Package session holds the per-connection login state.
package session

// Login is the authentication state of one connection. It starts
// unauthenticated and flips once a credential check succeeds; there is no
// logout or expiry. A Login belongs to a single connection and must not be
// shared between them.
type Login struct {
	email         string
	authenticated bool
}

// New returns an unauthenticated login state.
func New() *Login { return &Login{} }

// Authenticate marks the connection as authenticated for email. Call it only
// after a successful credential check.
func (l *Login) Authenticate(email string) {
	l.email = email
	l.authenticated = true
}

// IsAuthenticated reports whether Authenticate has been called.
func (l *Login) IsAuthenticated() bool { return l.authenticated }

// Email returns the authenticated identity, or "" before authentication.
func (l *Login) Email() string { return l.email }
