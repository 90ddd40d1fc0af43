package portal

import "errors"

var (
	ErrInvalidConfig   = errors.New("portal: invalid config")
	ErrNoSession       = errors.New("portal: no session")
	ErrNoTenant        = errors.New("portal: request has no resolved tenant")
	ErrTenantMismatch  = errors.New("portal: session belongs to another website")
	ErrMissingWebsite  = errors.New("portal: token has no website claim")
	ErrNoAuthenticator = errors.New("portal: authenticator is required")
)
