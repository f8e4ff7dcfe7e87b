package catalog

// Fields is a partial product record. A nil pointer means the column is
// absent; on insert an absent price, quantity or phone falls back to the
// column default, on update it is left untouched.
type Fields struct {
	Name          *string   `json:"name,omitempty" yaml:"name,omitempty"`
	Price         *int64    `json:"price,omitempty" yaml:"price,omitempty"`
	Quantity      *int64    `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	Supplier      *Supplier `json:"supplier,omitempty" yaml:"supplier,omitempty"`
	SupplierPhone *int64    `json:"supplier_phone,omitempty" yaml:"supplier_phone,omitempty"`
}

// Ref returns a pointer to v.
func Ref[T any](v T) *T {
	return &v
}

// Empty reports whether no field is present.
func (f Fields) Empty() bool {
	return f.Len() == 0
}

// Len returns the number of present fields.
func (f Fields) Len() int {
	n := 0
	if f.Name != nil {
		n++
	}
	if f.Price != nil {
		n++
	}
	if f.Quantity != nil {
		n++
	}
	if f.Supplier != nil {
		n++
	}
	if f.SupplierPhone != nil {
		n++
	}
	return n
}

// Assignment is a single column/value pair of a partial record.
type Assignment struct {
	Column Column
	Value  any
}

// Assignments returns the present fields in schema order.
// Values are passed through as given.
func (f Fields) Assignments() []Assignment {
	out := make([]Assignment, 0, f.Len())
	if f.Name != nil {
		out = append(out, Assignment{ColumnName, *f.Name})
	}
	if f.Price != nil {
		out = append(out, Assignment{ColumnPrice, *f.Price})
	}
	if f.Quantity != nil {
		out = append(out, Assignment{ColumnQuantity, *f.Quantity})
	}
	if f.Supplier != nil {
		out = append(out, Assignment{ColumnSupplier, int64(*f.Supplier)})
	}
	if f.SupplierPhone != nil {
		out = append(out, Assignment{ColumnSupplierPhone, *f.SupplierPhone})
	}
	return out
}
