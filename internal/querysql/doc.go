// Package querysql compiles filter predicates and partial records to
// parameterized SQLite statements against the product table.
//
// CRITICAL: values are always bound as ? parameters. Column names are
// interpolated only after they have been checked against catalog.Columns.
package querysql
