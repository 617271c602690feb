// Package storage owns the client's local SQLite database: opening it,
// migrating it and exposing a small key/value repository on top.
package storage
