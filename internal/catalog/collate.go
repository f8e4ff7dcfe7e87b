package catalog

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// NameCollation is the SQLite collation applied when sorting by name.
const NameCollation = "shelf_name"

// NewNameCollator returns a comparison function that orders names by the
// Unicode collation algorithm, so canonically equivalent spellings compare
// equal and case does not dominate the order.
//
// The returned function is not safe for concurrent use.
func NewNameCollator() func(a, b string) int {
	c := collate.New(language.Und)
	return c.CompareString
}
