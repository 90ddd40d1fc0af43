package tenant

import (
	"errors"
	"strings"
	"time"
)

// Cache drivers accepted by TENANT_CACHE_DRIVER.
const (
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
	CacheDriverNone   = "none"
)

var ErrUnknownCacheDriver = errors.New("tenant: unknown cache driver")

type Config struct {
	BaseDomain           string        `env:"PLATFORM_BASE_DOMAIN,required"`
	ReservedSubdomains   []string      `env:"RESERVED_SUBDOMAINS" envSeparator:"," envDefault:"admin"`
	DevFallbackSubdomain string        `env:"DEV_FALLBACK_SUBDOMAIN"`
	CacheTTL             time.Duration `env:"TENANT_CACHE_TTL" envDefault:"60s"`
	CacheSize            int           `env:"TENANT_CACHE_SIZE" envDefault:"10000"`
	CacheDriver          string        `env:"TENANT_CACHE_DRIVER" envDefault:"memory"`
	NotFoundPath         string        `env:"TENANT_NOT_FOUND_PATH" envDefault:"/404"`
}

// NewClassifierFromConfig builds the Classifier described by cfg.
func NewClassifierFromConfig(cfg Config) (*Classifier, error) {
	return NewClassifier(cfg.BaseDomain,
		WithReservedSubdomains(cfg.ReservedSubdomains...),
		WithDevFallback(cfg.DevFallbackSubdomain),
	)
}

// Driver returns the normalised cache driver or ErrUnknownCacheDriver.
func (c Config) Driver() (string, error) {
	switch d := strings.ToLower(strings.TrimSpace(c.CacheDriver)); d {
	case "", CacheDriverMemory:
		return CacheDriverMemory, nil
	case CacheDriverRedis, CacheDriverNone:
		return d, nil
	default:
		return "", errors.Join(ErrUnknownCacheDriver, errors.New(c.CacheDriver))
	}
}
