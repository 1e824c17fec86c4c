// Package sqlite provides the SQLite implementation of driven.KVStore.
// It uses the pure Go modernc.org/sqlite driver (no CGO) through sqlx.
//
// The store owns a single connection to simple_storage.sqlite in the
// profile directory. The file holds one table per storage table name,
// each with schema (key TEXT PRIMARY KEY, value TEXT), and is compatible
// with files written by earlier versions of the storage layer.
package sqlite
