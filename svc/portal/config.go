package portal

import (
	"fmt"
	"path"
	"strings"
)

type Config struct {
	Prefix       string `env:"PORTAL_PREFIX" envDefault:"/portal"`
	EntryPath    string `env:"PORTAL_ENTRY_PATH" envDefault:"/portal"`
	CallbackPath string `env:"PORTAL_CALLBACK_PATH" envDefault:"/portal/auth/callback"`
	LandingPath  string `env:"PORTAL_LANDING_PATH" envDefault:"/portal/dashboard"`

	JWTSecret   string `env:"AUTH_JWT_SECRET,required"`
	JWTAudience string `env:"AUTH_JWT_AUDIENCE" envDefault:"authenticated"`
	CookieName  string `env:"AUTH_COOKIE_NAME" envDefault:"sb-access-token"`
}

// DefaultConfig returns the routing defaults without a signing secret.
func DefaultConfig() Config {
	return Config{
		Prefix:       "/portal",
		EntryPath:    "/portal",
		CallbackPath: "/portal/auth/callback",
		LandingPath:  "/portal/dashboard",
		JWTAudience:  "authenticated",
		CookieName:   "sb-access-token",
	}
}

// Validate checks that the paths form a gate that cannot redirect in a loop.
func (c Config) Validate() error {
	prefix := cleanPath(c.Prefix)
	for name, p := range map[string]string{"entry": c.EntryPath, "callback": c.CallbackPath, "landing": c.LandingPath} {
		if !within(prefix, cleanPath(p)) {
			return fmt.Errorf("%w: %s path %q is outside prefix %q", ErrInvalidConfig, name, p, c.Prefix)
		}
	}
	landing := cleanPath(c.LandingPath)
	if landing == cleanPath(c.EntryPath) || landing == cleanPath(c.CallbackPath) {
		return fmt.Errorf("%w: landing path %q must be protected", ErrInvalidConfig, c.LandingPath)
	}
	return nil
}

func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

func within(prefix, p string) bool {
	if prefix == "/" {
		return true
	}
	return p == prefix || strings.HasPrefix(p, prefix+"/")
}
