package tenant

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

// DomainStatus declares which routing key is authoritative for a tenant.
// It is informational and not enforced during resolution.
type DomainStatus string

const (
	DomainStatusSubdomain DomainStatus = "subdomain"
	DomainStatusCustom    DomainStatus = "custom"
)

// Tenant is a resolved website snapshot with the owning client's business
// type joined in. Snapshots are shared between requests through the cache
// and must not be modified once returned by the Resolver.
type Tenant struct {
	ID           uuid.UUID       `json:"id"`
	ClientID     uuid.UUID       `json:"client_id"`
	Subdomain    string          `json:"subdomain,omitempty"`
	CustomDomain string          `json:"custom_domain,omitempty"`
	DomainStatus DomainStatus    `json:"domain_status,omitempty"`
	Theme        string          `json:"theme,omitempty"`
	Config       json.RawMessage `json:"config,omitempty"`
	IsActive     bool            `json:"is_active"`
	BusinessType string          `json:"business_type,omitempty"`
}

// Clone returns a deep copy, so the config blob does not alias the source.
func (t *Tenant) Clone() *Tenant {
	if t == nil {
		return nil
	}
	c := *t
	if t.Config != nil {
		c.Config = bytes.Clone(t.Config)
	}
	return &c
}

// Mode is the way a request was mapped to a tenant.
type Mode string

const (
	ModePreview      Mode = "preview"
	ModeSubdomain    Mode = "subdomain"
	ModeCustomDomain Mode = "custom_domain"
)

// Route is the classifier output. Key holds the subdomain label or custom
// domain; ID is set only in preview mode.
type Route struct {
	Mode Mode
	Key  string
	ID   uuid.UUID
}

// Store is the read-only backing store.
type Store interface {
	// FindByRoutingKey returns the website whose subdomain (ModeSubdomain) or
	// custom domain (ModeCustomDomain) equals key, active or not.
	// Returns ErrTenantNotFound when no row matches.
	FindByRoutingKey(ctx context.Context, mode Mode, key string) (*Tenant, error)

	// FindByID returns the website with the given id.
	// Returns ErrTenantNotFound when no row matches.
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)

	// BusinessType returns the classification of the owning client, or an
	// empty string when the client row is missing.
	BusinessType(ctx context.Context, clientID uuid.UUID) (string, error)
}
