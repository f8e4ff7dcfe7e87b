package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// Supplier is the closed set of supplier codes.
type Supplier int

const (
	SupplierUnknown Supplier = 0
	Supplier1       Supplier = 1
	Supplier2       Supplier = 2
	Supplier3       Supplier = 3
	Supplier4       Supplier = 4
	Supplier5       Supplier = 5
)

// Suppliers lists every valid supplier code in ascending order.
var Suppliers = []Supplier{
	SupplierUnknown,
	Supplier1,
	Supplier2,
	Supplier3,
	Supplier4,
	Supplier5,
}

// Valid reports whether s is one of the six supplier codes.
func (s Supplier) Valid() bool {
	return s >= SupplierUnknown && s <= Supplier5
}

// String renders the supplier's display label.
func (s Supplier) String() string {
	switch {
	case s == SupplierUnknown:
		return "Unknown"
	case s.Valid():
		return fmt.Sprintf("Supplier %d", int(s))
	default:
		return fmt.Sprintf("Supplier(%d)", int(s))
	}
}

// ParseSupplier accepts an integer code ("3") or a display label
// ("Supplier 3", "unknown"). The result is not range-checked; callers
// validate through ValidateInsert or ValidateUpdate.
func ParseSupplier(s string) (Supplier, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return Supplier(n), nil
	}

	lower := strings.ToLower(s)
	if lower == "unknown" {
		return SupplierUnknown, nil
	}
	if rest, ok := strings.CutPrefix(lower, "supplier"); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(rest)); err == nil {
			return Supplier(n), nil
		}
	}

	return 0, fmt.Errorf("invalid supplier %q", s)
}
