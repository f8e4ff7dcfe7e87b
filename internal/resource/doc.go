// Package resource routes catalog identifiers to record store operations.
//
// An identifier names either the whole product collection
//
//	content://com.example.android.bookstoreinventory_part1/products
//
// or one product by id
//
//	content://com.example.android.bookstoreinventory_part1/products/42
//
// A Table parses identifiers into a Target. A Router validates payloads,
// runs the store operation the Target selects and, after any change,
// publishes the identifier on the notification bus.
//
// Storage failures on mutating calls are soft: the Router logs them and
// returns a zero result with a nil error. Unrecognized identifiers,
// unsupported operations and validation failures are returned as errors.
package resource
