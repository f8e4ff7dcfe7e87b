package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/shelf/internal/catalog"
	"github.com/roach88/shelf/internal/filter"
	"github.com/roach88/shelf/internal/querysql"
)

// Query selects rows from the product table.
//
// Columns is the projection (empty = every column). Where filters rows
// (nil = every row). Order sorts them (empty = insertion order).
type Query struct {
	Columns []catalog.Column
	Where   filter.Predicate
	Order   []filter.Order
}

// Query runs q against the read-only handle and returns a lazy cursor over
// the matching rows. Callers must Close the cursor (All closes it).
func (s *Store) Query(ctx context.Context, q Query) (*Cursor, error) {
	stmt, err := querysql.Select(q.Columns, q.Where, q.Order)
	if err != nil {
		return nil, err
	}

	db, err := s.readable()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, stmt.SQL, stmt.Params...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}

	columns := q.Columns
	if len(columns) == 0 {
		columns = catalog.Columns
	}
	cur := &Cursor{rows: rows, columns: columns}
	if db != s.db {
		return cur, nil
	}

	// The read handle is the single writer connection. Drain the rows so
	// an open cursor does not hold it against later reads and writes.
	products, err := cur.All()
	if err != nil {
		return nil, err
	}
	return &Cursor{columns: columns, buffered: products}, nil
}

// Get returns the product with the given id.
// Returns sql.ErrNoRows if not found.
func (s *Store) Get(ctx context.Context, id int64) (catalog.Product, error) {
	cur, err := s.Query(ctx, Query{Where: filter.ID(id)})
	if err != nil {
		return catalog.Product{}, err
	}
	defer cur.Close()

	if !cur.Next() {
		if err := cur.Err(); err != nil {
			return catalog.Product{}, err
		}
		return catalog.Product{}, sql.ErrNoRows
	}
	return cur.Product(), nil
}

// Count returns the number of rows in the product table.
func (s *Store) Count(ctx context.Context) (int64, error) {
	db, err := s.readable()
	if err != nil {
		return 0, err
	}

	var n int64
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+catalog.Table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// Cursor is a lazy, finite, forward-only sequence of products.
// It cannot be restarted; run the query again to re-read.
//
// Cursors over in-memory stores are materialized when the query runs.
type Cursor struct {
	rows     *sql.Rows
	buffered []catalog.Product
	columns  []catalog.Column
	current  catalog.Product
	err      error
	closed   bool
}

// Columns returns the projection the cursor was created with.
func (c *Cursor) Columns() []catalog.Column {
	return c.columns
}

// Next advances to the next row. It returns false when the rows are
// exhausted or an error occurred; the cursor is closed in both cases.
func (c *Cursor) Next() bool {
	if c.closed || c.err != nil {
		return false
	}

	if c.rows == nil {
		if len(c.buffered) == 0 {
			c.Close()
			return false
		}
		c.current, c.buffered = c.buffered[0], c.buffered[1:]
		return true
	}

	if !c.rows.Next() {
		if err := c.rows.Err(); err != nil {
			c.err = fmt.Errorf("iterate products: %w", err)
		}
		c.Close()
		return false
	}

	var p catalog.Product
	if err := c.rows.Scan(scanTargets(&p, c.columns)...); err != nil {
		c.err = fmt.Errorf("scan product: %w", err)
		c.Close()
		return false
	}
	c.current = p
	return true
}

// Product returns the row at the cursor position.
// Columns outside the projection are zero.
func (c *Cursor) Product() catalog.Product {
	return c.current
}

// Err returns the error, if any, that stopped iteration.
func (c *Cursor) Err() error {
	return c.err
}

// Close releases the underlying rows. Safe to call more than once.
func (c *Cursor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.buffered = nil
	if c.rows == nil {
		return nil
	}
	return c.rows.Close()
}

// All drains the cursor into a slice and closes it.
// Returns an empty slice (not nil) if there are no rows.
func (c *Cursor) All() ([]catalog.Product, error) {
	defer c.Close()

	products := []catalog.Product{}
	for c.Next() {
		products = append(products, c.Product())
	}
	if err := c.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

// scanTargets maps each projected column to the matching Product field.
func scanTargets(p *catalog.Product, columns []catalog.Column) []any {
	targets := make([]any, len(columns))
	for i, col := range columns {
		switch col {
		case catalog.ColumnID:
			targets[i] = &p.ID
		case catalog.ColumnName:
			targets[i] = &p.Name
		case catalog.ColumnPrice:
			targets[i] = &p.Price
		case catalog.ColumnQuantity:
			targets[i] = &p.Quantity
		case catalog.ColumnSupplier:
			targets[i] = &p.Supplier
		case catalog.ColumnSupplierPhone:
			targets[i] = &p.SupplierPhone
		default:
			var discard any
			targets[i] = &discard
		}
	}
	return targets
}
