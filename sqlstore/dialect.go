package sqlstore

import (
	"embed"
	"fmt"
	"strconv"
	"strings"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Dialect captures the differences between the supported SQL engines.
type Dialect struct {
	// Name is the configuration name ("postgres" or "sqlite").
	Name string

	// Driver is the database/sql driver name registered by the imported driver.
	Driver string

	schemaFile string
	numbered   bool
}

var (
	// Postgres talks to PostgreSQL through pgx's database/sql driver.
	Postgres = Dialect{Name: "postgres", Driver: "pgx", schemaFile: "schema/postgres.sql", numbered: true}

	// SQLite uses the pure Go modernc.org/sqlite driver.
	SQLite = Dialect{Name: "sqlite", Driver: "sqlite", schemaFile: "schema/sqlite.sql"}
)

// DialectFor resolves a configured driver name. "pgx" and "postgresql" are
// accepted as aliases for postgres.
func DialectFor(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported sql driver %q", name)
	}
}

// placeholder returns the bind marker for the n-th (1-based) argument.
func (d Dialect) placeholder(n int) string {
	if d.numbered {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// placeholders returns a comma separated list of count markers starting at from.
func (d Dialect) placeholders(from, count int) string {
	marks := make([]string, count)
	for i := range marks {
		marks[i] = d.placeholder(from + i)
	}
	return strings.Join(marks, ", ")
}

// statements returns the DDL statements for the dialect.
func (d Dialect) statements() ([]string, error) {
	data, err := schemaFS.ReadFile(d.schemaFile)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	var stmts []string
	for _, stmt := range strings.Split(string(data), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		stmts = append(stmts, strings.TrimSpace(stmt))
	}
	return stmts, nil
}
