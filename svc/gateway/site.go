package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrymomot/storefront/pkg/environment"
	"github.com/dmitrymomot/storefront/svc/tenant"
)

// SitePath is where the built-in site handler is mounted.
const SitePath = "/api/site"

// Site is the public view of the resolved tenant.
type Site struct {
	WebsiteID    string          `json:"website_id"`
	Theme        string          `json:"theme,omitempty"`
	Config       json.RawMessage `json:"config,omitempty"`
	BusinessType string          `json:"business_type,omitempty"`

	// Route is included in development only.
	Route *SiteRoute `json:"route,omitempty"`
}

// SiteRoute describes how the request was mapped to the site.
type SiteRoute struct {
	Mode string `json:"mode"`
	Key  string `json:"key"`
}

// SiteHandler serves the propagated tenant fields as JSON. It is used when
// no upstream renderer is configured, and by client code that only needs
// the theme and config.
func SiteHandler(p *tenant.Propagator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := p.ReadFields(r)
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "site not found"})
			return
		}

		cfg, err := tenant.DecodeConfig(f.Config)
		if err != nil || (len(cfg) > 0 && !json.Valid(cfg)) {
			cfg = nil
		}
		site := Site{
			WebsiteID:    f.WebsiteID,
			Theme:        f.Theme,
			Config:       cfg,
			BusinessType: f.BusinessType,
		}
		if route, ok := tenant.RouteFromContext(r.Context()); ok && environment.IsDevelopment(r.Context()) {
			site.Route = &SiteRoute{Mode: string(route.Mode), Key: route.Key}
		}
		writeJSON(w, http.StatusOK, site)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
