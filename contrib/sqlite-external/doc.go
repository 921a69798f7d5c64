// Package sqliteexternal provides the optional CGO SQLite driver.
//
// To use the CGO driver (github.com/mattn/go-sqlite3), build with:
//
//	CGO_ENABLED=1 go build -tags cgo_sqlite ./cmd/seqconvert
//
// By default the journal uses the pure Go modernc.org/sqlite driver; see
// github.com/FocuswithJustin/seqconvert/core/sqlite.
package sqliteexternal
