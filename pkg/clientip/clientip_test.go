package clientip_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/storefront/pkg/clientip"
)

func newRequest(headers map[string]string, remoteAddr string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	req.RemoteAddr = remoteAddr
	return req
}

func TestGetIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{
			name:       "remote addr with port",
			remoteAddr: "192.0.2.10:5123",
			want:       "192.0.2.10",
		},
		{
			name:       "remote addr without port",
			remoteAddr: "192.0.2.10",
			want:       "192.0.2.10",
		},
		{
			name:       "ipv6 remote addr",
			remoteAddr: "[2001:db8::1]:443",
			want:       "2001:db8::1",
		},
		{
			name:       "cloudflare wins over forwarded",
			headers:    map[string]string{"CF-Connecting-IP": "203.0.113.5", "X-Forwarded-For": "198.51.100.1"},
			remoteAddr: "10.0.0.1:80",
			want:       "203.0.113.5",
		},
		{
			name:       "first valid forwarded entry",
			headers:    map[string]string{"X-Forwarded-For": "garbage, 198.51.100.7, 10.0.0.2"},
			remoteAddr: "10.0.0.1:80",
			want:       "198.51.100.7",
		},
		{
			name:       "invalid header falls through",
			headers:    map[string]string{"CF-Connecting-IP": "not-an-ip", "X-Real-IP": "198.51.100.9"},
			remoteAddr: "10.0.0.1:80",
			want:       "198.51.100.9",
		},
		{
			name:       "mapped ipv4 is unmapped",
			headers:    map[string]string{"X-Real-IP": "::ffff:198.51.100.9"},
			remoteAddr: "10.0.0.1:80",
			want:       "198.51.100.9",
		},
		{
			name:       "zone is dropped",
			remoteAddr: "[fe80::1%eth0]:80",
			want:       "fe80::1",
		},
		{
			name:       "nothing usable",
			headers:    map[string]string{"X-Forwarded-For": "unknown"},
			remoteAddr: "pipe",
			want:       "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, clientip.GetIP(newRequest(tt.headers, tt.remoteAddr)))
		})
	}
}

func TestFromRequest_CustomHeaders(t *testing.T) {
	t.Parallel()

	req := newRequest(map[string]string{
		"CF-Connecting-IP": "203.0.113.5",
		"Fly-Client-IP":    "198.51.100.3",
	}, "10.0.0.1:80")

	assert.Equal(t, "198.51.100.3", clientip.FromRequest(req, "Fly-Client-IP"))
	assert.Equal(t, "10.0.0.1", clientip.FromRequest(req))
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	var got string
	handler := clientip.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = clientip.FromContext(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), newRequest(map[string]string{"X-Real-IP": "198.51.100.9"}, "10.0.0.1:80"))
	assert.Equal(t, "198.51.100.9", got)
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	extract := clientip.LoggerExtractor()

	attr, ok := extract(clientip.WithContext(context.Background(), "198.51.100.9"))
	require.True(t, ok)
	assert.Equal(t, "client_ip", attr.Key)

	_, ok = extract(context.Background())
	assert.False(t, ok)
}
