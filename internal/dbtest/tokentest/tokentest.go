// Package tokentest mints signed access tokens for tests.
package tokentest

import (
	"testing"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/google/uuid"
)

const signingKey = "0123456789abcdef0123456789abcdef" // NOSONAR

// New returns an HS256 token for subject that expires at exp. Every token
// carries a fresh jti, so two tokens are never equal. Extra claims are merged
// into the payload. A zero exp omits the claim.
func New(tb testing.TB, subject string, exp time.Time, extra map[string]any) string {
	tb.Helper()

	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.HS256, Key: []byte(signingKey)}, nil)
	if err != nil {
		tb.Fatalf("creating signer: %v", err)
	}

	std := jwt.Claims{
		ID:       uuid.NewString(),
		Subject:  subject,
		IssuedAt: jwt.NewNumericDate(time.Now()),
	}
	if !exp.IsZero() {
		std.Expiry = jwt.NewNumericDate(exp)
	}

	builder := jwt.Signed(signer).Claims(std)
	if len(extra) > 0 {
		builder = builder.Claims(extra)
	}

	raw, err := builder.Serialize()
	if err != nil {
		tb.Fatalf("serializing token: %v", err)
	}

	return raw
}

// Valid returns a token that expires in an hour.
func Valid(tb testing.TB, subject string) string {
	tb.Helper()
	return New(tb, subject, time.Now().Add(time.Hour), nil)
}

// Expired returns a token that expired a minute ago.
func Expired(tb testing.TB, subject string) string {
	tb.Helper()
	return New(tb, subject, time.Now().Add(-time.Minute), nil)
}
