package store

import (
	"database/sql"

	"github.com/mattn/go-sqlite3"

	"github.com/roach88/shelf/internal/catalog"
)

// driverName is the go-sqlite3 driver with the catalog collations
// registered on every new connection.
const driverName = "sqlite3_shelf"

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterCollation(catalog.NameCollation, catalog.NewNameCollator())
		},
	})
}
