package jwt

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	HeaderType      = "JWT"
	HeaderAlgorithm = "HS256"
)

// Header is the JOSE header of a token.
type Header struct {
	Type      string `json:"typ,omitempty"`
	Algorithm string `json:"alg"`
}

// Service signs and verifies HS256 tokens.
type Service struct {
	signingKey []byte
	now        func() time.Time
	audience   string
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the time source used for temporal claim checks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithAudience requires parsed StandardClaims to contain aud.
func WithAudience(aud string) Option {
	return func(s *Service) { s.audience = aud }
}

// New creates a Service for the given HMAC key.
func New(signingKey string, opts ...Option) (*Service, error) {
	if signingKey == "" {
		return nil, ErrMissingSigningKey
	}
	s := &Service{signingKey: []byte(signingKey), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Generate signs claims into a compact token.
func (s *Service) Generate(claims any) (string, error) {
	if claims == nil {
		return "", ErrMissingClaims
	}

	headerJSON, err := json.Marshal(Header{Type: HeaderType, Algorithm: HeaderAlgorithm})
	if err != nil {
		return "", fmt.Errorf("failed to marshal header: %w", err)
	}
	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("failed to marshal claims: %w", err)
	}

	payload := encode(headerJSON) + "." + encode(claimsJSON)
	return payload + "." + encode(s.sign(payload)), nil
}

// Parse verifies the token signature and algorithm, decodes its claims into
// claims and, when claims implements Validator, checks them against the
// service clock.
func (s *Service) Parse(token string, claims any) error {
	if claims == nil {
		return ErrMissingClaims
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return ErrInvalidToken
	}

	headerJSON, err := decode(parts[0])
	if err != nil {
		return errors.Join(ErrInvalidToken, err)
	}
	var header Header
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return errors.Join(ErrInvalidToken, err)
	}
	if header.Algorithm != HeaderAlgorithm {
		return ErrUnexpectedSigningMethod
	}

	sig, err := decode(parts[2])
	if err != nil {
		return errors.Join(ErrInvalidToken, err)
	}
	if !hmac.Equal(sig, s.sign(parts[0]+"."+parts[1])) {
		return ErrInvalidSignature
	}

	claimsJSON, err := decode(parts[1])
	if err != nil {
		return errors.Join(ErrInvalidToken, err)
	}
	if err := json.Unmarshal(claimsJSON, claims); err != nil {
		return errors.Join(ErrInvalidToken, err)
	}

	if v, ok := claims.(Validator); ok {
		if err := v.ValidAt(s.now()); err != nil {
			return err
		}
	}

	if s.audience != "" {
		if sc, ok := claims.(interface{ Standard() StandardClaims }); ok && !sc.Standard().Audience.Contains(s.audience) {
			return ErrInvalidAudience
		}
	}

	return nil
}

// Standard lets embedding claim types expose their registered claims.
func (c StandardClaims) Standard() StandardClaims { return c }

func (s *Service) sign(payload string) []byte {
	h := hmac.New(sha256.New, s.signingKey)
	h.Write([]byte(payload))
	return h.Sum(nil)
}

func encode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func decode(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}
