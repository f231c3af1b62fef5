package nativesql

import (
	// Database drivers register themselves with database/sql.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// driverName maps a friendly name to the registered driver name.
func driverName(name string) (string, bool) {
	switch name {
	case "sqlite", "sqlite3":
		return "sqlite", true
	case "mysql":
		return "mysql", true
	case "postgres", "postgresql", "pg":
		return "postgres", true
	}
	return "", false
}
