// Package filter defines the row-selection and ordering vocabulary accepted
// by the store and the resource router.
//
// Predicate is a sealed interface: only types in this package implement it,
// which keeps the set of filters closed and lets backends switch on it
// exhaustively. The vocabulary is deliberately small. It covers the access
// patterns of the catalog (list all, one by id, update or delete by a
// column filter) and nothing more.
//
// A nil Predicate selects every row.
package filter
