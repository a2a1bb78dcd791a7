package sandbox

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoices/internal/sample"
	"invoices/pkg/models"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()

	bolt, err := OpenBoltStore(filepath.Join(t.TempDir(), "invoices.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = bolt.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"bolt":   bolt,
	}
}

func withID(id string) *models.Invoice {
	inv := sample.Invoice(sample.Options{})
	inv.ID = id
	return &inv
}

func TestStoreKeepsInsertionOrder(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for _, id := range []string{"c", "a", "b"} {
				require.NoError(t, store.Create(withID(id)))
			}

			// Updating must not move the record.
			updated := withID("c")
			updated.Comments = models.Ptr("edited")
			require.NoError(t, store.Update(updated))

			invoices, err := store.List()
			require.NoError(t, err)
			require.Len(t, invoices, 3)
			assert.Equal(t, "c", invoices[0].ID)
			assert.Equal(t, "edited", invoices[0].CommentText())
			assert.Equal(t, "a", invoices[1].ID)
			assert.Equal(t, "b", invoices[2].ID)
		})
	}
}

func TestStoreNotFound(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get("missing")
			assert.ErrorIs(t, err, ErrNotFound)

			assert.ErrorIs(t, store.Update(withID("missing")), ErrNotFound)

			_, err = store.Delete("missing")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreDeleteReturnsRecord(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Create(withID("x")))
			assert.ErrorIs(t, store.Create(withID("x")), ErrExists)

			deleted, err := store.Delete("x")
			require.NoError(t, err)
			assert.Equal(t, "x", deleted.ID)
			assert.Equal(t, "sampleSeller2", deleted.SellerName())

			invoices, err := store.List()
			require.NoError(t, err)
			assert.Empty(t, invoices)
		})
	}
}

func TestMemoryStoreDoesNotAlias(t *testing.T) {
	store := NewMemoryStore()
	inv := withID("x")
	require.NoError(t, store.Create(inv))

	inv.Seller.Name = "changed"
	got, err := store.Get("x")
	require.NoError(t, err)
	assert.Equal(t, "sampleSeller2", got.SellerName())
}

func TestBoltStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoices.db")

	store, err := OpenBoltStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Create(withID("kept")))
	require.NoError(t, store.Close())

	reopened, err := OpenBoltStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get("kept")
	require.NoError(t, err)
	assert.Len(t, got.Entries, 3)
}
