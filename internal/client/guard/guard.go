// Package guard decides whether a protected command may run, driving the
// session store (restore, verify) as a side effect of being asked.
package guard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/knowledgekeeper/internal/client/session"
	"github.com/dmitrijs2005/knowledgekeeper/internal/common"
	"github.com/dmitrijs2005/knowledgekeeper/internal/logging"
)

type Outcome int

const (
	// Render lets the protected command run.
	Render Outcome = iota
	// Placeholder means authentication is still settling.
	Placeholder
	// Redirect sends the user to the public entry point.
	Redirect
)

func (o Outcome) String() string {
	switch o {
	case Render:
		return "render"
	case Placeholder:
		return "placeholder"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

type Decision struct {
	Outcome    Outcome
	RedirectTo string
}

// ErrPending is returned by Protect while the session is loading.
var ErrPending = errors.New("authentication in progress")

// RedirectError is returned by Protect when the session is not
// authenticated.
type RedirectError struct {
	To     string
	Reason string
}

func (e *RedirectError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("not logged in (%s): run %q first", e.Reason, e.To)
	}
	return fmt.Sprintf("not logged in: run %q first", e.To)
}

func (e *RedirectError) Is(target error) bool {
	return target == common.ErrNotAuthenticated
}

// Session is what the guard needs from the session store.
type Session interface {
	Snapshot() session.Session
	Initialize(ctx context.Context) error
	Verify(ctx context.Context) error
}

type Guard struct {
	store      Session
	log        logging.Logger
	entryPoint string
	revalidate bool

	mu sync.Mutex
	// revalidated remembers the restored token already checked this process.
	revalidated string
}

type Option func(*Guard)

// WithRevalidation makes the guard confirm a restored token with the server
// once per process before letting protected commands run.
func WithRevalidation(on bool) Option {
	return func(g *Guard) { g.revalidate = on }
}

func WithEntryPoint(name string) Option {
	return func(g *Guard) { g.entryPoint = name }
}

func New(store Session, log logging.Logger, opts ...Option) *Guard {
	g := &Guard{store: store, log: log, entryPoint: common.PublicEntryPoint}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Evaluate maps the current session onto a decision without side effects.
func (g *Guard) Evaluate() Decision {
	return g.decide(g.store.Snapshot())
}

func (g *Guard) decide(s session.Session) Decision {
	switch {
	case s.IsLoading:
		return Decision{Outcome: Placeholder}
	case s.IsAuthenticated:
		return Decision{Outcome: Render}
	default:
		return Decision{Outcome: Redirect, RedirectTo: g.entryPoint}
	}
}

// Activate runs the guard's side effects and returns the settled decision.
// An unauthenticated, idle session is restored from storage; a token that
// is present but unconfirmed is verified. Duplicate verifications for the
// same token collapse into one request inside the store.
func (g *Guard) Activate(ctx context.Context) Decision {
	s := g.store.Snapshot()

	if !s.IsAuthenticated && !s.IsLoading {
		if err := g.store.Initialize(ctx); err != nil {
			g.log.Warn(ctx, "failed to restore session", "error", err)
		}
		s = g.store.Snapshot()
	}

	if g.needsVerify(s) {
		if err := g.store.Verify(ctx); err != nil {
			g.log.Debug(ctx, "verification did not confirm session", "error", err)
		}
		s = g.store.Snapshot()
	}

	return g.decide(s)
}

func (g *Guard) needsVerify(s session.Session) bool {
	switch {
	case s.Token == "":
		return false
	case s.State == session.Verifying:
		// Joining the running verification yields its outcome.
		return true
	case s.IsLoading:
		return false
	case !s.IsAuthenticated:
		return true
	case !g.revalidate || !s.Restored:
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.revalidated == s.Token {
		return false
	}
	g.revalidated = s.Token
	return true
}

// Protect runs view only when the session is authenticated.
func (g *Guard) Protect(ctx context.Context, view func(ctx context.Context) error) error {
	d := g.Activate(ctx)
	switch d.Outcome {
	case Render:
		return view(ctx)
	case Placeholder:
		return ErrPending
	default:
		return &RedirectError{To: d.RedirectTo, Reason: g.store.Snapshot().Error}
	}
}
