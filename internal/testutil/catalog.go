// Package testutil wires a catalog for tests in other packages.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/shelf/internal/notify"
	"github.com/roach88/shelf/internal/resource"
	"github.com/roach88/shelf/internal/store"
)

// Catalog is a Router over a fresh file-backed store.
type Catalog struct {
	Router *resource.Router
	Store  *store.Store
	Bus    *notify.Bus
}

// NewCatalog opens a store in t's temp dir and builds a Router over it with
// the default routing table. The store is closed when the test ends.
func NewCatalog(t *testing.T, opts ...resource.Option) *Catalog {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	bus := notify.NewBus()
	return &Catalog{
		Router: resource.NewRouter(resource.DefaultTable(), s, bus, opts...),
		Store:  s,
		Bus:    bus,
	}
}
