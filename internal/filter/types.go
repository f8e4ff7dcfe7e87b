package filter

import "github.com/roach88/shelf/internal/catalog"

// Predicate represents a row filter.
//
// Predicate types:
//   - Equals: column = value
//   - Compare: column <op> value
//   - And: all predicates must hold
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// Equals matches rows whose column equals Value.
//
// Value must be an int, int64, string or catalog.Supplier.
//
//	Equals{Column: catalog.ColumnSupplier, Value: catalog.Supplier3}
//
// Translates to SQL:
//
//	supplier_name = ?
type Equals struct {
	Column catalog.Column
	Value  any
}

func (Equals) predicateNode() {}

// Op is a comparison operator for Compare.
type Op string

const (
	OpEq  Op = "="
	OpNe  Op = "!="
	OpLt  Op = "<"
	OpLte Op = "<="
	OpGt  Op = ">"
	OpGte Op = ">="
)

// Valid reports whether o is a known operator.
func (o Op) Valid() bool {
	switch o {
	case OpEq, OpNe, OpLt, OpLte, OpGt, OpGte:
		return true
	}
	return false
}

// Compare matches rows where `Column Op Value` holds.
//
//	Compare{Column: catalog.ColumnQuantity, Op: OpLt, Value: 5}
//
// Translates to SQL:
//
//	product_quantity < ?
type Compare struct {
	Column catalog.Column
	Op     Op
	Value  any
}

func (Compare) predicateNode() {}

// And represents a conjunction. An empty And matches every row.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// ID returns the predicate selecting the row with the given id.
func ID(id int64) Predicate {
	return Equals{Column: catalog.ColumnID, Value: id}
}

// All combines predicates with And, dropping nils.
// Returns nil when nothing remains and the single predicate when one remains.
func All(preds ...Predicate) Predicate {
	kept := make([]Predicate, 0, len(preds))
	for _, p := range preds {
		if p != nil {
			kept = append(kept, p)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	default:
		return And{Predicates: kept}
	}
}

// Order is one sort key. The zero Desc value sorts ascending.
type Order struct {
	Column catalog.Column
	Desc   bool
}

// Asc returns an ascending sort key.
func Asc(c catalog.Column) Order { return Order{Column: c} }

// Desc returns a descending sort key.
func Desc(c catalog.Column) Order { return Order{Column: c, Desc: true} }
