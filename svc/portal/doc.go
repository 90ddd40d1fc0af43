// Package portal gates the tenant customer portal.
//
// The gate runs after tenant resolution and only looks at paths under the
// portal prefix. Unauthenticated callers on protected paths are sent to the
// public entry page; authenticated callers landing on the entry page are
// sent on to the portal landing page. Everything else passes through.
//
// TokenAuthenticator accepts the hosted auth provider's HS256 access token
// from the sb-access-token cookie or a bearer header, and only for the
// website named in its app_metadata.
package portal
