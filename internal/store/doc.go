// Package store provides the SQLite-backed record store for the product
// catalog.
//
// The store owns the physical schema (a single product_inventory table) and
// executes raw reads and writes compiled by package querysql. It performs
// no validation; callers go through package resource, which validates
// payloads before they reach the store.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// # Handles
//
// Writes go through a single-connection writable handle opened by Open.
// Reads go through a read-only handle (mode=ro) opened lazily on the first
// query. Its pool is not capped, so an open Cursor never blocks another
// read, and WAL keeps it from blocking writes. In-memory databases share
// the writable handle; their cursors are drained when the query runs so
// the single connection is released immediately.
//
// # Schema Version
//
// PRAGMA user_version records the schema version. A fresh file is stamped
// with version 1. A file stamped with a newer version is refused with
// ErrNewerSchema rather than read with the wrong layout.
package store
