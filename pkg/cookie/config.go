package cookie

import "strings"

// Config holds cookie manager settings.
// Secret accepts a comma separated list; the first entry signs, every entry
// verifies, which allows rotating keys without invalidating live cookies.
type Config struct {
	Secret string `env:"COOKIE_SECRET,required"`
	Domain string `env:"COOKIE_DOMAIN"`
	Secure bool   `env:"COOKIE_SECURE" envDefault:"false"`
	MaxAge int    `env:"COOKIE_MAX_AGE" envDefault:"0"`
}

func (c Config) secrets() []string {
	parts := strings.Split(c.Secret, ",")
	secrets := make([]string, 0, len(parts))
	for _, s := range parts {
		if s = strings.TrimSpace(s); s != "" {
			secrets = append(secrets, s)
		}
	}
	return secrets
}

// NewFromConfig creates a Manager from cfg. Extra options are applied last.
func NewFromConfig(cfg Config, opts ...Option) (*Manager, error) {
	configOpts := make([]Option, 0, 3+len(opts))
	if cfg.Domain != "" {
		configOpts = append(configOpts, WithDomain(cfg.Domain))
	}
	if cfg.Secure {
		configOpts = append(configOpts, WithSecure(true))
	}
	if cfg.MaxAge != 0 {
		configOpts = append(configOpts, WithMaxAge(cfg.MaxAge))
	}
	return New(cfg.secrets(), append(configOpts, opts...)...)
}
