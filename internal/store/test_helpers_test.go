package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/shelf/internal/catalog"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestFields returns a fully-populated valid payload.
func createTestFields(name string, price, quantity int64) catalog.Fields {
	return catalog.Fields{
		Name:          catalog.Ref(name),
		Price:         catalog.Ref(price),
		Quantity:      catalog.Ref(quantity),
		Supplier:      catalog.Ref(catalog.Supplier1),
		SupplierPhone: catalog.Ref(int64(5551234)),
	}
}

// mustInsert inserts f and fails the test on error.
func mustInsert(t *testing.T, s *Store, f catalog.Fields) int64 {
	t.Helper()
	id, err := s.Insert(context.Background(), f)
	if err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}
	return id
}
