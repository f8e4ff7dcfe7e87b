// Package catalog defines the product record stored by shelf.
//
// A Product is the single entity of the inventory catalog. Fields is the
// partial form of a Product used for inserts and updates: every column is an
// optional pointer, so absence is a type-level distinction rather than a
// missing map key.
//
// # Invariants
//
//   - Every stored row satisfies ValidateInsert.
//   - ID is assigned by the store on insert and never mutated.
//   - Supplier is a closed enumeration (SupplierUnknown, Supplier1..Supplier5).
//
// Validation is fail-fast: the first violated rule is reported as a
// *ValidationError and no later rule is evaluated.
package catalog
