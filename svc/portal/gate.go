package portal

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/storefront/pkg/logger"
)

// State is the caller's authentication state for the resolved tenant.
type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Action is what the gate does with a request.
type Action int

const (
	Pass Action = iota
	Redirect
)

// Decision is the gate outcome. Location is set only for Redirect.
type Decision struct {
	Action   Action
	Location string
}

// Decide is the gate's transition table:
//
//	unauthenticated + protected path -> redirect to entry
//	authenticated   + entry path     -> redirect to landing
//	anything else                    -> pass
//
// Paths outside the prefix always pass. Applying Decide to the location of a
// redirect always passes, so the gate never loops.
func (c Config) Decide(state State, requestPath string) Decision {
	p := cleanPath(requestPath)
	if !within(cleanPath(c.Prefix), p) {
		return Decision{Action: Pass}
	}

	entry := cleanPath(c.EntryPath)
	public := p == entry || p == cleanPath(c.CallbackPath)

	switch {
	case state == Unauthenticated && !public:
		return Decision{Action: Redirect, Location: entry}
	case state == Authenticated && p == entry:
		return Decision{Action: Redirect, Location: cleanPath(c.LandingPath)}
	default:
		return Decision{Action: Pass}
	}
}

// Authenticator reports the session of a portal request. Any error means the
// caller is unauthenticated.
type Authenticator interface {
	Authenticate(r *http.Request) (*Session, error)
}

// AuthenticatorFunc adapts a function to Authenticator.
type AuthenticatorFunc func(r *http.Request) (*Session, error)

func (f AuthenticatorFunc) Authenticate(r *http.Request) (*Session, error) { return f(r) }

type gateConfig struct {
	logger *slog.Logger
}

// GateOption configures Gate.
type GateOption func(*gateConfig)

// WithLogger sets the logger for authentication failures.
func WithLogger(log *slog.Logger) GateOption {
	return func(c *gateConfig) {
		if log != nil {
			c.logger = log
		}
	}
}

// Gate protects portal routes of the resolved tenant. It must run after the
// tenant middleware. Redirects use 307 so the method and body survive.
func Gate(cfg Config, auth Authenticator, opts ...GateOption) (func(http.Handler) http.Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if auth == nil {
		return nil, ErrNoAuthenticator
	}

	gc := &gateConfig{logger: logger.Discard()}
	for _, opt := range opts {
		opt(gc)
	}
	prefix := cleanPath(cfg.Prefix)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !within(prefix, cleanPath(r.URL.Path)) {
				next.ServeHTTP(w, r)
				return
			}

			state := Unauthenticated
			session, err := auth.Authenticate(r)
			if err == nil && session != nil {
				state = Authenticated
				r = r.WithContext(WithSession(r.Context(), session))
			} else if err != nil {
				gc.logger.DebugContext(r.Context(), "portal session rejected",
					logger.Component("portal"),
					logger.Error(err),
				)
			}

			d := cfg.Decide(state, r.URL.Path)
			if d.Action == Redirect {
				http.Redirect(w, r, d.Location, http.StatusTemporaryRedirect)
				return
			}
			next.ServeHTTP(w, r)
		})
	}, nil
}
