package state

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coverledger/internal/ledger/models"
	dErrors "coverledger/pkg/domain-errors"
)

func TestInMemoryState(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds administrator with zeroed accumulators", func(t *testing.T) {
		store := NewInMemory("admin")

		st, err := store.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, "admin", st.Administrator)
		assert.Zero(t, st.PremiumsCollected)
		assert.Zero(t, st.ClaimsPaid)
	})

	t.Run("execute applies mutation", func(t *testing.T) {
		store := NewInMemory("admin")

		updated, err := store.Execute(ctx,
			func(st *models.LedgerState) error { return nil },
			func(st *models.LedgerState) { st.PremiumsCollected += 50 },
		)
		require.NoError(t, err)
		assert.Equal(t, uint64(50), updated.PremiumsCollected)

		st, err := store.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(50), st.PremiumsCollected)
	})

	t.Run("validate failure leaves state untouched", func(t *testing.T) {
		store := NewInMemory("admin")

		_, err := store.Execute(ctx,
			func(st *models.LedgerState) error {
				return dErrors.New(dErrors.CodeNotAuthorized, "caller is not the administrator")
			},
			func(st *models.LedgerState) { st.Administrator = "mallory" },
		)
		require.Error(t, err)

		st, err := store.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, "admin", st.Administrator)
	})

	t.Run("get returns a copy", func(t *testing.T) {
		store := NewInMemory("admin")

		st, err := store.Get(ctx)
		require.NoError(t, err)
		st.ClaimsPaid = 999

		again, err := store.Get(ctx)
		require.NoError(t, err)
		assert.Zero(t, again.ClaimsPaid)
	})
}
