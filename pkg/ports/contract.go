package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/backstack/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.StateAt(1,
			domain.Route("home", domain.Params{"name": "Alex"}),
			domain.Route("profile", nil),
		)

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, 1, loaded.CurrentIndex())
		require.Len(t, loaded.Routes, 2)
		assert.Equal(t, "home", loaded.Routes[0].Key)
		assert.Equal(t, "Alex", loaded.Routes[0].Params["name"])
	})

	t.Run("Loaded State Is Isolated", func(t *testing.T) {
		state := domain.StateAt(0, domain.Route("home", domain.Params{"name": "Alex"}))
		require.NoError(t, store.Save(ctx, sessionID, state))

		state.Routes[0].Key = "mutated"

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "home", loaded.Routes[0].Key)
	})

	t.Run("Empty State", func(t *testing.T) {
		id := sessionID + "-empty"
		require.NoError(t, store.Save(ctx, id, domain.NewState()))
		defer func() { _ = store.Delete(ctx, id) }()

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 0, loaded.Len())
		assert.Nil(t, loaded.Index)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewState())
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewState())
		_ = store.Save(ctx, id2, domain.NewState())

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
