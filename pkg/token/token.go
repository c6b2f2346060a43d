// Package token decodes access-token claims locally, without contacting the issuer.
//
// The signature is never verified here: the backend verifies every token it
// receives, the client only needs the expiry and a few descriptive claims.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/go-viper/mapstructure/v2"
)

var ErrEmpty = errors.New("empty token")

var signatureAlgorithms = []jose.SignatureAlgorithm{
	jose.HS256, jose.HS384, jose.HS512,
	jose.RS256, jose.RS384, jose.RS512,
	jose.PS256, jose.PS384, jose.PS512,
	jose.ES256, jose.ES384, jose.ES512,
	jose.EdDSA,
}

// Claims holds the decoded, unverified claims of an access token.
type Claims struct {
	Subject     string
	Role        string
	Authorities []string
	Expiry      time.Time // zero when the token carries no exp claim
	IssuedAt    time.Time
}

// customClaims are the marketplace-specific claims next to the registered ones.
type customClaims struct {
	Role        string `mapstructure:"role"`
	Authorities []any  `mapstructure:"authorities"`
}

// Parse decodes the claims of a compact JWS without verifying its signature.
func Parse(raw string) (Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Claims{}, ErrEmpty
	}

	tok, err := jwt.ParseSigned(raw, signatureAlgorithms)
	if err != nil {
		return Claims{}, fmt.Errorf("parsing token: %w", err)
	}

	var std jwt.Claims
	var all map[string]any
	if err := tok.UnsafeClaimsWithoutVerification(&std, &all); err != nil {
		return Claims{}, fmt.Errorf("decoding claims: %w", err)
	}

	var custom customClaims
	if err := mapstructure.Decode(all, &custom); err != nil {
		return Claims{}, fmt.Errorf("decoding custom claims: %w", err)
	}

	claims := Claims{
		Subject:     std.Subject,
		Role:        custom.Role,
		Authorities: authorities(custom.Authorities),
	}
	if std.Expiry != nil {
		claims.Expiry = std.Expiry.Time()
	}
	if std.IssuedAt != nil {
		claims.IssuedAt = std.IssuedAt.Time()
	}
	if claims.Role == "" && len(claims.Authorities) > 0 {
		claims.Role = strings.TrimPrefix(claims.Authorities[0], "ROLE_")
	}

	return claims, nil
}

// Expired reports whether the token must not be sent at now. Tokens that do
// not decode or carry no exp claim are expired. The leeway is taken off the
// expiry so a token is not sent moments before it lapses.
func Expired(raw string, now time.Time, leeway time.Duration) bool {
	claims, err := Parse(raw)
	if err != nil {
		return true
	}

	return claims.ExpiredAt(now, leeway)
}

func (c Claims) ExpiredAt(now time.Time, leeway time.Duration) bool {
	if c.Expiry.IsZero() {
		return true
	}

	return !now.Before(c.Expiry.Add(-leeway))
}

// ExpiresWithin reports whether the token lapses within d of now.
func (c Claims) ExpiresWithin(now time.Time, d time.Duration) bool {
	return c.ExpiredAt(now.Add(d), 0)
}

// authorities accepts both plain string lists and the {"authority": "..."}
// objects some issuers emit.
func authorities(in []any) []string {
	out := make([]string, 0, len(in))
	for _, a := range in {
		switch v := a.(type) {
		case string:
			out = append(out, v)
		case map[string]any:
			if s, ok := v["authority"].(string); ok {
				out = append(out, s)
			}
		}
	}

	return out
}
