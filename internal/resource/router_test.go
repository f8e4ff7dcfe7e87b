package resource

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shelf/internal/catalog"
	"github.com/roach88/shelf/internal/filter"
	"github.com/roach88/shelf/internal/metrics"
	"github.com/roach88/shelf/internal/notify"
	"github.com/roach88/shelf/internal/store"
)

var (
	collectionURI = base + "/products"
	staffURI      = base + "/staff"
)

// countingStorage records how many calls reach the store.
type countingStorage struct {
	Storage
	calls int
}

func (c *countingStorage) Query(ctx context.Context, q store.Query) (*store.Cursor, error) {
	c.calls++
	return c.Storage.Query(ctx, q)
}

func (c *countingStorage) Insert(ctx context.Context, f catalog.Fields) (int64, error) {
	c.calls++
	return c.Storage.Insert(ctx, f)
}

func (c *countingStorage) Update(ctx context.Context, where filter.Predicate, f catalog.Fields) (int64, error) {
	c.calls++
	return c.Storage.Update(ctx, where, f)
}

func (c *countingStorage) Delete(ctx context.Context, where filter.Predicate) (int64, error) {
	c.calls++
	return c.Storage.Delete(ctx, where)
}

type fixture struct {
	router  *Router
	store   *store.Store
	storage *countingStorage
	bus     *notify.Bus
	metrics *metrics.Metrics
	logs    *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	f := &fixture{
		store:   s,
		storage: &countingStorage{Storage: s},
		bus:     notify.NewBus(),
		metrics: metrics.New(prometheus.NewRegistry()),
		logs:    &bytes.Buffer{},
	}
	f.router = NewRouter(DefaultTable(), f.storage, f.bus,
		WithLogger(zerolog.New(f.logs)),
		WithMetrics(f.metrics),
	)
	return f
}

func (f *fixture) count(t *testing.T) int64 {
	t.Helper()
	n, err := f.store.Count(context.Background())
	require.NoError(t, err)
	return n
}

func (f *fixture) outcome(op, outcome string) float64 {
	return testutil.ToFloat64(f.metrics.Operations.WithLabelValues(op, outcome))
}

func hobbit() catalog.Fields {
	return catalog.Fields{
		Name:          catalog.Ref("The Hobbit"),
		Price:         catalog.Ref(int64(999)),
		Quantity:      catalog.Ref(int64(7)),
		Supplier:      catalog.Ref(catalog.Supplier3),
		SupplierPhone: catalog.Ref(int64(5555555555)),
	}
}

func queryAll(t *testing.T, r *Router, uri string, req Request) []catalog.Product {
	t.Helper()
	cur, err := r.Query(context.Background(), uri, req)
	require.NoError(t, err)
	products, err := cur.All()
	require.NoError(t, err)
	return products
}

func TestRouter_InsertAndQueryRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	uri, err := f.router.Insert(ctx, collectionURI, hobbit())
	require.NoError(t, err)
	assert.Equal(t, collectionURI+"/1", uri)

	products := queryAll(t, f.router, uri, Request{})
	require.Len(t, products, 1)
	assert.Equal(t, catalog.Product{
		ID:            1,
		Name:          "The Hobbit",
		Price:         999,
		Quantity:      7,
		Supplier:      catalog.Supplier3,
		SupplierPhone: 5555555555,
	}, products[0])

	assert.Equal(t, 1.0, f.outcome(OpInsert, metrics.OutcomeOK))
}

func TestRouter_InsertDefaults(t *testing.T) {
	f := newFixture(t)

	fields := hobbit()
	fields.Price = nil
	fields.Quantity = nil
	uri, err := f.router.Insert(context.Background(), collectionURI, fields)
	require.NoError(t, err)

	products := queryAll(t, f.router, uri, Request{})
	require.Len(t, products, 1)
	assert.Zero(t, products[0].Price)
	assert.Zero(t, products[0].Quantity)
}

func TestRouter_InsertValidationLeavesStoreUntouched(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*catalog.Fields)
		field  catalog.Column
	}{
		{"missing name", func(f *catalog.Fields) { f.Name = nil }, catalog.ColumnName},
		{"negative price", func(f *catalog.Fields) { f.Price = catalog.Ref(int64(-1)) }, catalog.ColumnPrice},
		{"negative quantity", func(f *catalog.Fields) { f.Quantity = catalog.Ref(int64(-3)) }, catalog.ColumnQuantity},
		{"missing supplier", func(f *catalog.Fields) { f.Supplier = nil }, catalog.ColumnSupplier},
		{"unknown supplier", func(f *catalog.Fields) { f.Supplier = catalog.Ref(catalog.Supplier(42)) }, catalog.ColumnSupplier},
		{"missing phone", func(f *catalog.Fields) { f.SupplierPhone = nil }, catalog.ColumnSupplierPhone},
		{"zero phone", func(f *catalog.Fields) { f.SupplierPhone = catalog.Ref(int64(0)) }, catalog.ColumnSupplierPhone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			sub, ch := f.bus.SubscribeChan(collectionURI)
			defer sub.Close()

			fields := hobbit()
			tt.mutate(&fields)
			uri, err := f.router.Insert(context.Background(), collectionURI, fields)

			require.Error(t, err)
			var ve *catalog.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Empty(t, uri)
			assert.Zero(t, f.storage.calls)
			assert.Zero(t, f.count(t))
			assert.Len(t, ch, 0, "no notification on rejected insert")
		})
	}
}

func TestRouter_InsertOnItemUnsupported(t *testing.T) {
	f := newFixture(t)

	_, err := f.router.Insert(context.Background(), collectionURI+"/5", hobbit())
	require.Error(t, err)
	assert.True(t, IsUnsupported(err))
	assert.Contains(t, err.Error(), "insertion not supported")
	assert.Zero(t, f.storage.calls)
	assert.Equal(t, 1.0, f.outcome(OpInsert, metrics.OutcomeUnsupported))
}

func TestRouter_UnrecognizedIdentifier(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.router.Query(ctx, staffURI, Request{})
	assert.True(t, IsUnrecognized(err))

	_, err = f.router.Insert(ctx, staffURI, hobbit())
	assert.True(t, IsUnrecognized(err))

	_, err = f.router.Update(ctx, staffURI, hobbit(), nil)
	assert.True(t, IsUnrecognized(err))

	_, err = f.router.Delete(ctx, staffURI, nil)
	assert.True(t, IsUnrecognized(err))

	_, err = f.router.Type(staffURI)
	assert.True(t, IsUnrecognized(err))

	_, err = f.router.Kind(staffURI)
	assert.True(t, IsUnrecognized(err))

	_, err = f.router.Subscribe(staffURI, func(string) {})
	assert.True(t, IsUnrecognized(err))

	assert.Zero(t, f.storage.calls)
	assert.Equal(t, 1.0, f.outcome(OpDelete, metrics.OutcomeUnrecognized))
}

func TestRouter_QueryItemIgnoresFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	uri, err := f.router.Insert(ctx, collectionURI, hobbit())
	require.NoError(t, err)

	products := queryAll(t, f.router, uri, Request{
		Where: filter.Equals{Column: catalog.ColumnName, Value: "Something else"},
	})
	require.Len(t, products, 1)
	assert.Equal(t, "The Hobbit", products[0].Name)
}

func TestRouter_QueryCollection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, name := range []string{"Beloved", "Atonement", "Carrie"} {
		fields := hobbit()
		fields.Name = catalog.Ref(name)
		_, err := f.router.Insert(ctx, collectionURI, fields)
		require.NoError(t, err)
	}

	products := queryAll(t, f.router, collectionURI, Request{
		Columns: []catalog.Column{catalog.ColumnID, catalog.ColumnName},
		Order:   []filter.Order{filter.Asc(catalog.ColumnName)},
	})
	require.Len(t, products, 3)
	assert.Equal(t, "Atonement", products[0].Name)
	assert.Equal(t, int64(2), products[0].ID)
	assert.Zero(t, products[0].Price)

	_, err := f.router.Query(ctx, collectionURI, Request{Order: []filter.Order{filter.Asc("bogus")}})
	assert.Error(t, err)
}

func TestRouter_QueryMissingItemIsEmpty(t *testing.T) {
	f := newFixture(t)
	products := queryAll(t, f.router, collectionURI+"/99", Request{})
	assert.Empty(t, products)
}

func TestRouter_UpdateItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	uri, err := f.router.Insert(ctx, collectionURI, hobbit())
	require.NoError(t, err)
	other, err := f.router.Insert(ctx, collectionURI, hobbit())
	require.NoError(t, err)

	var itemSignals, collectionSignals []string
	f.bus.Subscribe(uri, func(u string) { itemSignals = append(itemSignals, u) })
	f.bus.Subscribe(collectionURI, func(u string) { collectionSignals = append(collectionSignals, u) })

	n, err := f.router.Update(ctx, uri, catalog.Fields{Quantity: catalog.Ref(int64(3))},
		filter.Equals{Column: catalog.ColumnName, Value: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, []string{uri}, itemSignals)
	assert.Equal(t, []string{uri}, collectionSignals, "ancestor collection is signalled")

	updated := queryAll(t, f.router, uri, Request{})
	require.Len(t, updated, 1)
	assert.Equal(t, int64(3), updated[0].Quantity)
	assert.Equal(t, "The Hobbit", updated[0].Name)

	untouched := queryAll(t, f.router, other, Request{})
	require.Len(t, untouched, 1)
	assert.Equal(t, int64(7), untouched[0].Quantity)
}

func TestRouter_UpdateCollectionWithFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, q := range []int64{0, 0, 4} {
		fields := hobbit()
		fields.Quantity = catalog.Ref(q)
		_, err := f.router.Insert(ctx, collectionURI, fields)
		require.NoError(t, err)
	}

	signals := 0
	f.bus.Subscribe(collectionURI, func(string) { signals++ })

	n, err := f.router.Update(ctx, collectionURI, catalog.Fields{Price: catalog.Ref(int64(1))},
		filter.Equals{Column: catalog.ColumnQuantity, Value: 0})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, 1, signals)
}

func TestRouter_UpdateEmptyFieldsSkipsStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	uri, err := f.router.Insert(ctx, collectionURI, hobbit())
	require.NoError(t, err)
	calls := f.storage.calls

	signals := 0
	f.bus.Subscribe(collectionURI, func(string) { signals++ })

	n, err := f.router.Update(ctx, uri, catalog.Fields{}, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, calls, f.storage.calls)
	assert.Zero(t, signals)
}

func TestRouter_UpdateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	uri, err := f.router.Insert(ctx, collectionURI, hobbit())
	require.NoError(t, err)
	calls := f.storage.calls

	_, err = f.router.Update(ctx, uri, catalog.Fields{Supplier: catalog.Ref(catalog.Supplier(42))}, nil)
	assert.True(t, catalog.IsValidationError(err))

	_, err = f.router.Update(ctx, uri, catalog.Fields{SupplierPhone: catalog.Ref(int64(-5))}, nil)
	assert.True(t, catalog.IsValidationError(err))

	assert.Equal(t, calls, f.storage.calls)
}

func TestRouter_UpdateNoMatchDoesNotNotify(t *testing.T) {
	f := newFixture(t)
	signals := 0
	f.bus.Subscribe(collectionURI, func(string) { signals++ })

	n, err := f.router.Update(context.Background(), collectionURI+"/404", catalog.Fields{Price: catalog.Ref(int64(5))}, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, signals)
}

func TestRouter_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.router.Insert(ctx, collectionURI, hobbit())
	require.NoError(t, err)
	_, err = f.router.Insert(ctx, collectionURI, hobbit())
	require.NoError(t, err)

	signals := 0
	f.bus.Subscribe(collectionURI, func(string) { signals++ })

	n, err := f.router.Delete(ctx, collectionURI+"/404", nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, signals)

	n, err = f.router.Delete(ctx, first, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 1, signals)
	assert.Empty(t, queryAll(t, f.router, first, Request{}))

	n, err = f.router.Delete(ctx, collectionURI, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 2, signals)
	assert.Zero(t, f.count(t))
}

func TestRouter_StorageFailureIsSoft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	signals := 0
	f.bus.Subscribe(collectionURI, func(string) { signals++ })

	require.NoError(t, f.store.Close())

	uri, err := f.router.Insert(ctx, collectionURI, hobbit())
	assert.NoError(t, err)
	assert.Empty(t, uri)

	n, err := f.router.Update(ctx, collectionURI+"/1", catalog.Fields{Price: catalog.Ref(int64(1))}, nil)
	assert.NoError(t, err)
	assert.Zero(t, n)

	n, err = f.router.Delete(ctx, collectionURI, nil)
	assert.NoError(t, err)
	assert.Zero(t, n)

	assert.Zero(t, signals)
	assert.Equal(t, 1.0, f.outcome(OpInsert, metrics.OutcomeStorageFailure))
	assert.Equal(t, 1.0, f.outcome(OpUpdate, metrics.OutcomeStorageFailure))
	assert.Equal(t, 1.0, f.outcome(OpDelete, metrics.OutcomeStorageFailure))
	assert.Contains(t, f.logs.String(), `"level":"error"`)
	assert.Contains(t, f.logs.String(), "storage failure")

	_, err = f.router.Query(ctx, collectionURI, Request{})
	assert.Error(t, err, "reads surface storage errors")
}

func TestRouter_InsertNotifiesCollection(t *testing.T) {
	f := newFixture(t)

	var got []string
	_, err := f.router.Subscribe(collectionURI, func(u string) { got = append(got, u) })
	require.NoError(t, err)

	_, err = f.router.Insert(context.Background(), collectionURI+"/", hobbit())
	require.NoError(t, err)
	assert.Equal(t, []string{collectionURI}, got)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Notifications))
}

func TestRouter_TypeAndKind(t *testing.T) {
	f := newFixture(t)

	typ, err := f.router.Type(collectionURI)
	require.NoError(t, err)
	assert.Equal(t, "vnd.android.cursor.dir/com.example.android.bookstoreinventory_part1/products", typ)

	typ, err = f.router.Type(collectionURI + "/42")
	require.NoError(t, err)
	assert.Equal(t, "vnd.android.cursor.item/com.example.android.bookstoreinventory_part1/products", typ)

	kind, err := f.router.Kind(collectionURI)
	require.NoError(t, err)
	assert.Equal(t, KindCollection, kind)

	kind, err = f.router.Kind(collectionURI + "/42")
	require.NoError(t, err)
	assert.Equal(t, KindItem, kind)
}

func TestRouter_WithoutOptions(t *testing.T) {
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	r := NewRouter(DefaultTable(), s, notify.NewBus())
	uri, err := r.Insert(context.Background(), collectionURI, hobbit())
	require.NoError(t, err)
	assert.Equal(t, collectionURI+"/1", uri)
}

func TestRouter_UpdateEachRowWhileIterating(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		_, err := f.router.Insert(context.Background(), collectionURI, hobbit())
		require.NoError(t, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cur, err := f.router.Query(ctx, collectionURI, Request{Columns: []catalog.Column{catalog.ColumnID}})
	require.NoError(t, err)
	defer cur.Close()

	visited := 0
	for cur.Next() {
		item := f.router.Table().ItemURI(cur.Product().ID)

		nested := queryAll(t, f.router, item, Request{})
		require.Len(t, nested, 1)

		n, err := f.router.Update(ctx, item, catalog.Fields{Quantity: catalog.Ref(int64(0))}, nil)
		require.NoError(t, err)
		require.Equal(t, int64(1), n, "row %s must be updated while the cursor is open", item)
		visited++
	}
	require.NoError(t, cur.Err())
	require.NoError(t, ctx.Err())
	assert.Equal(t, 3, visited)

	empty := queryAll(t, f.router, collectionURI, Request{
		Where: filter.Compare{Column: catalog.ColumnQuantity, Op: filter.OpGt, Value: 0},
	})
	assert.Empty(t, empty)
}

func TestRouter_InsertKeepsNameVerbatim(t *testing.T) {
	f := newFixture(t)
	fields := hobbit()
	fields.Name = catalog.Ref("Cafe\u0301 Society")

	uri, err := f.router.Insert(context.Background(), collectionURI, fields)
	require.NoError(t, err)

	got := queryAll(t, f.router, uri, Request{})
	require.Len(t, got, 1)
	assert.Equal(t, *fields.Name, got[0].Name)
}

func TestRouter_InvalidFilterValueIsNotStorageFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.router.Insert(ctx, collectionURI, hobbit())
	require.NoError(t, err)
	calls := f.storage.calls

	bad := filter.Equals{Column: catalog.ColumnPrice, Value: 3.5}

	_, err = f.router.Update(ctx, collectionURI, catalog.Fields{Price: catalog.Ref(int64(1))}, bad)
	assert.ErrorContains(t, err, "unsupported value type float64")

	_, err = f.router.Delete(ctx, collectionURI, bad)
	assert.ErrorContains(t, err, "unsupported value type float64")

	_, err = f.router.Query(ctx, collectionURI, Request{Where: (*filter.Compare)(nil)})
	assert.Error(t, err)

	assert.Equal(t, calls, f.storage.calls)
	assert.Equal(t, 1.0, f.outcome(OpUpdate, metrics.OutcomeInvalid))
	assert.Equal(t, 1.0, f.outcome(OpDelete, metrics.OutcomeInvalid))
	assert.Equal(t, 1.0, f.outcome(OpQuery, metrics.OutcomeInvalid))
	assert.Zero(t, f.outcome(OpUpdate, metrics.OutcomeStorageFailure))
	assert.NotContains(t, f.logs.String(), "storage failure")
}
