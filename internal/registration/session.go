package registration

import (
	"context"
	"sync"
)

// SessionStatus mirrors the identity service's view of the visitor.
type SessionStatus string

const (
	StatusUnauthenticated SessionStatus = "unauthenticated"
	StatusAuthenticating  SessionStatus = "authenticating"
	StatusAuthenticated   SessionStatus = "authenticated"
)

// Session reports the current visitor's authentication status.
type Session interface {
	Status(ctx context.Context) SessionStatus
}

// StaticSession is a Session with a fixed status.
type StaticSession SessionStatus

// Status implements Session.
func (s StaticSession) Status(context.Context) SessionStatus { return SessionStatus(s) }

// Gate turns session status observations into a redirect. It fires once
// each time the status moves into StatusAuthenticated; repeated
// authenticated observations do not fire again.
type Gate struct {
	mu     sync.Mutex
	target string
	last   SessionStatus
}

// NewGate returns a Gate that redirects to target.
func NewGate(target string) *Gate {
	return &Gate{target: target}
}

// ResumeGate returns a Gate that has already observed last. It carries the
// gate across requests when the previous status is kept in a cookie.
func ResumeGate(target string, last SessionStatus) *Gate {
	return &Gate{target: target, last: last}
}

// Last returns the most recently observed status.
func (g *Gate) Last() SessionStatus {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last
}

// Observe records status and returns the redirect target when it should fire.
func (g *Gate) Observe(status SessionStatus) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	prev := g.last
	g.last = status
	if status == StatusAuthenticated && prev != StatusAuthenticated {
		return g.target, true
	}
	return "", false
}
