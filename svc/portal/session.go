package portal

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/storefront/pkg/jwt"
	"github.com/dmitrymomot/storefront/svc/tenant"
)

// Session is an authenticated portal caller.
type Session struct {
	UserID    string
	Email     string
	Role      string
	WebsiteID uuid.UUID
	ExpiresAt time.Time
}

type sessionKey struct{}

// WithSession stores the portal session in the context.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session set by Gate.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}

// AccessClaims are the claims of the auth provider's access token.
type AccessClaims struct {
	jwt.StandardClaims
	Email       string `json:"email,omitempty"`
	Role        string `json:"role,omitempty"`
	AppMetadata struct {
		WebsiteID string `json:"website_id,omitempty"`
	} `json:"app_metadata"`
}

// TokenAuthenticator verifies the auth provider's HS256 access token and
// binds it to the tenant resolved for the request.
type TokenAuthenticator struct {
	tokens  *jwt.Service
	extract jwt.Extractor
}

// NewTokenAuthenticator reads the token from cfg.CookieName, then from the
// Authorization header.
func NewTokenAuthenticator(cfg Config, opts ...jwt.Option) (*TokenAuthenticator, error) {
	if cfg.JWTAudience != "" {
		opts = append([]jwt.Option{jwt.WithAudience(cfg.JWTAudience)}, opts...)
	}
	tokens, err := jwt.New(cfg.JWTSecret, opts...)
	if err != nil {
		return nil, err
	}
	return &TokenAuthenticator{
		tokens:  tokens,
		extract: jwt.FirstOf(jwt.FromCookie(cfg.CookieName), jwt.FromBearer),
	}, nil
}

func (a *TokenAuthenticator) Authenticate(r *http.Request) (*Session, error) {
	websiteID, ok := tenant.IDFromContext(r.Context())
	if !ok {
		return nil, ErrNoTenant
	}

	raw, err := a.extract(r)
	if err != nil {
		return nil, ErrNoSession
	}

	var claims AccessClaims
	if err := a.tokens.Parse(raw, &claims); err != nil {
		return nil, err
	}

	if claims.AppMetadata.WebsiteID == "" {
		return nil, ErrMissingWebsite
	}
	claimed, err := uuid.Parse(claims.AppMetadata.WebsiteID)
	if err != nil || claimed != websiteID {
		return nil, ErrTenantMismatch
	}

	s := &Session{
		UserID:    claims.Subject,
		Email:     claims.Email,
		Role:      claims.Role,
		WebsiteID: claimed,
	}
	if claims.ExpiresAt > 0 {
		s.ExpiresAt = time.Unix(claims.ExpiresAt, 0)
	}
	return s, nil
}
