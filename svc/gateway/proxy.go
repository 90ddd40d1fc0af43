package gateway

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/dmitrymomot/storefront/pkg/logger"
)

var ErrInvalidUpstream = errors.New("gateway: invalid upstream url")

// NewProxy forwards requests, including the propagated tenant headers, to
// the page renderer at upstream. The original Host header is kept so the
// renderer sees the same host the visitor used.
func NewProxy(upstream string, log *slog.Logger) (http.Handler, error) {
	target, err := url.Parse(upstream)
	if err != nil || target.Scheme == "" || target.Host == "" {
		return nil, errors.Join(ErrInvalidUpstream, err)
	}
	if log == nil {
		log = logger.Discard()
	}

	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
			pr.Out.Host = pr.In.Host
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.ErrorContext(r.Context(), "upstream request failed",
				logger.Component("gateway"),
				slog.String("upstream", target.Host),
				logger.Error(err),
			)
			w.WriteHeader(http.StatusBadGateway)
		},
	}, nil
}
