// Package testsupport holds helpers shared by package tests.
package testsupport

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// NewNamedSQLiteMemoryDB opens an in-memory database private to name, so
// parallel tests do not see each other's rows. The database lives until its
// last connection closes.
func NewNamedSQLiteMemoryDB(name string) (*sql.DB, error) {
	name = strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(name)
	return sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
}
