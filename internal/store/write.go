package store

import (
	"context"
	"fmt"

	"github.com/roach88/shelf/internal/catalog"
	"github.com/roach88/shelf/internal/filter"
	"github.com/roach88/shelf/internal/querysql"
)

// Insert writes a new row and returns its id.
// Only present fields are written; the rest take their column default.
// Constraint violations (e.g., NOT NULL) are returned as errors.
func (s *Store) Insert(ctx context.Context, f catalog.Fields) (int64, error) {
	stmt, err := querysql.Insert(f.Assignments())
	if err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}

	result, err := s.db.ExecContext(ctx, stmt.SQL, stmt.Params...)
	if err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert product: last insert id: %w", err)
	}
	return id, nil
}

// Update applies the present fields of f to every row matching where and
// returns the number of rows affected.
func (s *Store) Update(ctx context.Context, where filter.Predicate, f catalog.Fields) (int64, error) {
	stmt, err := querysql.Update(f.Assignments(), where)
	if err != nil {
		return 0, fmt.Errorf("update products: %w", err)
	}

	result, err := s.db.ExecContext(ctx, stmt.SQL, stmt.Params...)
	if err != nil {
		return 0, fmt.Errorf("update products: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update products: rows affected: %w", err)
	}
	return n, nil
}

// Delete removes every row matching where and returns the number removed.
func (s *Store) Delete(ctx context.Context, where filter.Predicate) (int64, error) {
	stmt, err := querysql.Delete(where)
	if err != nil {
		return 0, fmt.Errorf("delete products: %w", err)
	}

	result, err := s.db.ExecContext(ctx, stmt.SQL, stmt.Params...)
	if err != nil {
		return 0, fmt.Errorf("delete products: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete products: rows affected: %w", err)
	}
	return n, nil
}
