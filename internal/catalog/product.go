package catalog

// Table is the name of the single product table.
const Table = "product_inventory"

// Column names a column of the product table.
type Column string

const (
	ColumnID            Column = "_id"
	ColumnName          Column = "product_name"
	ColumnPrice         Column = "product_price"
	ColumnQuantity      Column = "product_quantity"
	ColumnSupplier      Column = "supplier_name"
	ColumnSupplierPhone Column = "supplier_phone_number"
)

// Columns lists every column in schema order.
var Columns = []Column{
	ColumnID,
	ColumnName,
	ColumnPrice,
	ColumnQuantity,
	ColumnSupplier,
	ColumnSupplierPhone,
}

// Valid reports whether c is a column of the product table.
func (c Column) Valid() bool {
	for _, col := range Columns {
		if c == col {
			return true
		}
	}
	return false
}

// ParseColumn resolves a column by its SQL name or its short alias
// ("id", "name", "price", "quantity", "supplier", "phone").
func ParseColumn(s string) (Column, bool) {
	switch s {
	case "id":
		return ColumnID, true
	case "name":
		return ColumnName, true
	case "price":
		return ColumnPrice, true
	case "quantity", "qty":
		return ColumnQuantity, true
	case "supplier":
		return ColumnSupplier, true
	case "phone", "supplier_phone":
		return ColumnSupplierPhone, true
	}
	c := Column(s)
	return c, c.Valid()
}

// Product is one row of the product table.
// Fields not selected by a query projection are left at their zero value.
type Product struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Price         int64    `json:"price"`
	Quantity      int64    `json:"quantity"`
	Supplier      Supplier `json:"supplier"`
	SupplierPhone int64    `json:"supplier_phone"`
}

// Fields returns p as a fully-populated partial record, without the ID.
func (p Product) Fields() Fields {
	return Fields{
		Name:          Ref(p.Name),
		Price:         Ref(p.Price),
		Quantity:      Ref(p.Quantity),
		Supplier:      Ref(p.Supplier),
		SupplierPhone: Ref(p.SupplierPhone),
	}
}
