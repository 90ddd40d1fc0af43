package tenant

import "errors"

var (
	// ErrNoRoute is returned when no routing key can be derived from the host.
	ErrNoRoute = errors.New("tenant: no route for host")

	// ErrReservedSubdomain is returned for platform labels such as "admin".
	ErrReservedSubdomain = errors.New("tenant: reserved subdomain")

	// ErrInvalidIdentifier is returned when a preview id is not a UUID.
	ErrInvalidIdentifier = errors.New("tenant: invalid identifier")

	// ErrTenantNotFound is returned when no website matches the route.
	ErrTenantNotFound = errors.New("tenant: not found")

	// ErrTenantInactive is returned when the matching website is disabled.
	ErrTenantInactive = errors.New("tenant: inactive")

	// ErrStoreUnavailable wraps backing store failures.
	ErrStoreUnavailable = errors.New("tenant: store unavailable")

	// ErrNoTenantInContext is returned when no tenant is found in context.
	ErrNoTenantInContext = errors.New("tenant: no tenant in context")
)

// Reason maps a resolution error to a short label for logs and metrics.
// Clients never see it; every failure produces the same not-found response.
func Reason(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNoRoute):
		return "no_route"
	case errors.Is(err, ErrReservedSubdomain):
		return "reserved_subdomain"
	case errors.Is(err, ErrInvalidIdentifier):
		return "invalid_identifier"
	case errors.Is(err, ErrTenantNotFound):
		return "not_found"
	case errors.Is(err, ErrTenantInactive):
		return "inactive"
	case errors.Is(err, ErrStoreUnavailable):
		return "store_unavailable"
	default:
		return "internal"
	}
}
