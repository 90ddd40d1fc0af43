package tenant

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/storefront/pkg/pg"
)

// Querier is the subset of pgxpool.Pool used by PGStore.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGStore reads websites and clients from PostgreSQL.
type PGStore struct {
	db Querier
}

// NewPGStore creates a PGStore.
func NewPGStore(db Querier) *PGStore {
	return &PGStore{db: db}
}

const websiteColumns = `id, client_id, COALESCE(subdomain, ''), COALESCE(custom_domain, ''),
	domain_status, theme, config, is_active`

const (
	queryBySubdomain    = `SELECT ` + websiteColumns + ` FROM websites WHERE subdomain = $1 LIMIT 1`
	queryByCustomDomain = `SELECT ` + websiteColumns + ` FROM websites WHERE custom_domain = $1 LIMIT 1`
	queryByID           = `SELECT ` + websiteColumns + ` FROM websites WHERE id = $1`
	queryBusinessType   = `SELECT COALESCE(business_type, '') FROM clients WHERE id = $1`
)

func (s *PGStore) FindByRoutingKey(ctx context.Context, mode Mode, key string) (*Tenant, error) {
	var query string
	switch mode {
	case ModeSubdomain:
		query = queryBySubdomain
	case ModeCustomDomain:
		query = queryByCustomDomain
	default:
		return nil, fmt.Errorf("tenant: unsupported lookup mode %q", mode)
	}
	return s.scanWebsite(s.db.QueryRow(ctx, query, key))
}

func (s *PGStore) FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error) {
	return s.scanWebsite(s.db.QueryRow(ctx, queryByID, id))
}

func (s *PGStore) BusinessType(ctx context.Context, clientID uuid.UUID) (string, error) {
	var bt string
	if err := s.db.QueryRow(ctx, queryBusinessType, clientID).Scan(&bt); err != nil {
		if pg.IsNotFoundError(err) {
			return "", nil
		}
		return "", err
	}
	return bt, nil
}

func (s *PGStore) scanWebsite(row pgx.Row) (*Tenant, error) {
	var (
		t      Tenant
		status string
		config []byte
	)
	err := row.Scan(&t.ID, &t.ClientID, &t.Subdomain, &t.CustomDomain, &status, &t.Theme, &config, &t.IsActive)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	t.DomainStatus = DomainStatus(status)
	if config != nil {
		t.Config = json.RawMessage(config)
	}
	return &t, nil
}
