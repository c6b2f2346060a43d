package tokentest_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mshando/marketplace-client/internal/dbtest/tokentest"
	"github.com/mshando/marketplace-client/pkg/token"
)

func TestNew(t *testing.T) {
	t.Run("tokens minted in the same second differ", func(t *testing.T) {
		exp := time.Now().Add(time.Hour)

		assert.NotEqual(t, tokentest.New(t, "amani", exp, nil), tokentest.New(t, "amani", exp, nil))
		assert.NotEqual(t, tokentest.Valid(t, "amani"), tokentest.Valid(t, "amani"))
	})

	t.Run("carries the requested claims", func(t *testing.T) {
		exp := time.Now().Add(time.Hour).Truncate(time.Second)

		claims, err := token.Parse(tokentest.New(t, "amani", exp, map[string]any{"role": "TASKER"}))
		require.NoError(t, err)

		assert.Equal(t, "amani", claims.Subject)
		assert.Equal(t, "TASKER", claims.Role)
		assert.True(t, claims.Expiry.Equal(exp))
	})
}
