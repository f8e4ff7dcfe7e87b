package resource

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/roach88/shelf/internal/catalog"
	"github.com/roach88/shelf/internal/filter"
	"github.com/roach88/shelf/internal/metrics"
	"github.com/roach88/shelf/internal/notify"
	"github.com/roach88/shelf/internal/store"
)

// Router operation names, used in errors, logs and metrics.
const (
	OpQuery  = "query"
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
	OpType   = "type"
)

// Storage is the record store the Router drives. *store.Store implements it.
type Storage interface {
	Query(ctx context.Context, q store.Query) (*store.Cursor, error)
	Insert(ctx context.Context, f catalog.Fields) (int64, error)
	Update(ctx context.Context, where filter.Predicate, f catalog.Fields) (int64, error)
	Delete(ctx context.Context, where filter.Predicate) (int64, error)
}

// Request describes a read: the projection, a row filter and an ordering.
// Zero values mean every column, every row and insertion order.
type Request struct {
	Columns []catalog.Column
	Where   filter.Predicate
	Order   []filter.Order
}

// Router is the catalog's single entry point for reads and writes.
type Router struct {
	table   *Table
	store   Storage
	bus     *notify.Bus
	log     zerolog.Logger
	metrics *metrics.Metrics
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Router) {
		r.log = log.With().Str("component", "router").Logger()
	}
}

// WithMetrics records every operation in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Router) {
		r.metrics = m
	}
}

// NewRouter returns a Router over s that resolves identifiers with table
// and publishes changes on bus.
func NewRouter(table *Table, s Storage, bus *notify.Bus, opts ...Option) *Router {
	r := &Router{
		table: table,
		store: s,
		bus:   bus,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Table returns the routing table.
func (r *Router) Table() *Table {
	return r.table
}

// Query returns a cursor over the rows uri selects. For an item identifier
// the request's filter is replaced by the item's id.
func (r *Router) Query(ctx context.Context, uri string, req Request) (*store.Cursor, error) {
	start := time.Now()

	target, err := r.resolve(OpQuery, uri, start)
	if err != nil {
		return nil, err
	}

	where := req.Where
	if item, ok := target.(Item); ok {
		where = filter.ID(item.ID)
	}
	if err := filter.Validate(where, req.Order); err != nil {
		r.metrics.Observe(OpQuery, metrics.OutcomeInvalid, start)
		return nil, fmt.Errorf("query %s: %w", uri, err)
	}

	cur, err := r.store.Query(ctx, store.Query{Columns: req.Columns, Where: where, Order: req.Order})
	if err != nil {
		r.metrics.Observe(OpQuery, metrics.OutcomeStorageFailure, start)
		return nil, fmt.Errorf("query %s: %w", uri, err)
	}

	r.log.Debug().Str("op", OpQuery).Str("uri", uri).Msg("query")
	r.metrics.Observe(OpQuery, metrics.OutcomeOK, start)
	return cur, nil
}

// Insert validates f and adds it as a new product, returning the new
// product's identifier. Only the collection accepts inserts.
//
// If the store rejects the write, Insert logs the failure and returns an
// empty identifier with a nil error.
func (r *Router) Insert(ctx context.Context, uri string, f catalog.Fields) (string, error) {
	start := time.Now()

	target, err := r.resolve(OpInsert, uri, start)
	if err != nil {
		return "", err
	}
	if _, ok := target.(Collection); !ok {
		r.metrics.Observe(OpInsert, metrics.OutcomeUnsupported, start)
		return "", &Error{Code: ErrCodeUnsupported, Op: OpInsert, URI: uri, Message: "insertion not supported"}
	}

	if err := catalog.ValidateInsert(f); err != nil {
		r.metrics.Observe(OpInsert, metrics.OutcomeInvalid, start)
		return "", err
	}

	id, err := r.store.Insert(ctx, f)
	if err != nil {
		r.storageFailure(OpInsert, uri, err, start)
		return "", nil
	}

	r.log.Debug().Str("op", OpInsert).Str("uri", uri).Int64("id", id).Msg("inserted product")
	r.metrics.Observe(OpInsert, metrics.OutcomeOK, start)
	r.publish(r.table.CollectionURI())
	return r.table.ItemURI(id), nil
}

// Update applies the present fields of f to the rows uri and where select
// and returns how many rows changed. For an item identifier where is
// replaced by the item's id. An empty f changes nothing and never reaches
// the store.
//
// If the store rejects the write, Update logs the failure and returns 0
// with a nil error.
func (r *Router) Update(ctx context.Context, uri string, f catalog.Fields, where filter.Predicate) (int64, error) {
	start := time.Now()

	target, err := r.resolve(OpUpdate, uri, start)
	if err != nil {
		return 0, err
	}
	if item, ok := target.(Item); ok {
		where = filter.ID(item.ID)
	}

	if err := catalog.ValidateUpdate(f); err != nil {
		r.metrics.Observe(OpUpdate, metrics.OutcomeInvalid, start)
		return 0, err
	}
	if f.Empty() {
		r.metrics.Observe(OpUpdate, metrics.OutcomeOK, start)
		return 0, nil
	}
	if err := filter.Validate(where, nil); err != nil {
		r.metrics.Observe(OpUpdate, metrics.OutcomeInvalid, start)
		return 0, fmt.Errorf("update %s: %w", uri, err)
	}

	n, err := r.store.Update(ctx, where, f)
	if err != nil {
		r.storageFailure(OpUpdate, uri, err, start)
		return 0, nil
	}

	r.log.Debug().Str("op", OpUpdate).Str("uri", uri).Int64("rows", n).Msg("updated products")
	r.metrics.Observe(OpUpdate, metrics.OutcomeOK, start)
	if n > 0 {
		r.publish(r.table.URI(target))
	}
	return n, nil
}

// Delete removes the rows uri and where select and returns how many were
// removed. For an item identifier where is replaced by the item's id.
//
// If the store rejects the write, Delete logs the failure and returns 0
// with a nil error.
func (r *Router) Delete(ctx context.Context, uri string, where filter.Predicate) (int64, error) {
	start := time.Now()

	target, err := r.resolve(OpDelete, uri, start)
	if err != nil {
		return 0, err
	}
	if item, ok := target.(Item); ok {
		where = filter.ID(item.ID)
	}
	if err := filter.Validate(where, nil); err != nil {
		r.metrics.Observe(OpDelete, metrics.OutcomeInvalid, start)
		return 0, fmt.Errorf("delete %s: %w", uri, err)
	}

	n, err := r.store.Delete(ctx, where)
	if err != nil {
		r.storageFailure(OpDelete, uri, err, start)
		return 0, nil
	}

	r.log.Debug().Str("op", OpDelete).Str("uri", uri).Int64("rows", n).Msg("deleted products")
	r.metrics.Observe(OpDelete, metrics.OutcomeOK, start)
	if n > 0 {
		r.publish(r.table.URI(target))
	}
	return n, nil
}

// Type returns the MIME type of the data uri identifies.
func (r *Router) Type(uri string) (string, error) {
	target, err := r.table.Parse(uri)
	if err != nil {
		return "", withOp(err, OpType)
	}
	if target.Kind() == KindItem {
		return r.table.ItemType(), nil
	}
	return r.table.CollectionType(), nil
}

// Kind reports whether uri names the collection or a single item.
func (r *Router) Kind(uri string) (Kind, error) {
	target, err := r.table.Parse(uri)
	if err != nil {
		return "", withOp(err, OpType)
	}
	return target.Kind(), nil
}

// Subscribe registers fn for changes to uri. A collection subscriber is
// also signalled when any of its items changes. uri must be routable.
func (r *Router) Subscribe(uri string, fn notify.Handler) (*notify.Subscription, error) {
	target, err := r.table.Parse(uri)
	if err != nil {
		return nil, err
	}
	return r.bus.Subscribe(r.table.URI(target), fn), nil
}

func (r *Router) resolve(op, uri string, start time.Time) (Target, error) {
	target, err := r.table.Parse(uri)
	if err != nil {
		r.metrics.Observe(op, metrics.OutcomeUnrecognized, start)
		r.log.Debug().Str("op", op).Str("uri", uri).Msg("unrecognized identifier")
		return nil, withOp(err, op)
	}
	return target, nil
}

func (r *Router) storageFailure(op, uri string, err error, start time.Time) {
	r.log.Error().Err(err).Str("op", op).Str("uri", uri).Msg("storage failure")
	r.metrics.Observe(op, metrics.OutcomeStorageFailure, start)
}

func (r *Router) publish(uri string) {
	if r.bus == nil {
		return
	}
	r.bus.Notify(uri)
	r.metrics.Notified()
}
