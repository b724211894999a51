// Package database opens the run history store and creates its schema.
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/microsoft/go-mssqldb"
	_ "github.com/sijms/go-ora/v2"
	_ "modernc.org/sqlite"

	"github.com/whhaicheng/news-scraper/internal/domain/config"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// DB is a history database handle together with its dialect.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Open connects to the history database and creates missing tables.
// For the sqlite driver the DSN is a file path.
func Open(ctx context.Context, driver, dsn string) (*DB, error) {
	d, err := LookupDialect(driver)
	if err != nil {
		return nil, err
	}
	if d.Name == config.DriverSQLite {
		return InitializeSQLite(ctx, dsn)
	}

	db, err := sql.Open(d.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.Name, err)
	}
	return bootstrap(ctx, db, d)
}

// bootstrap verifies the connection and applies the dialect schema.
// db is closed on failure.
func bootstrap(ctx context.Context, db *sql.DB, d Dialect) (*DB, error) {
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", d.Name, err)
	}

	stmts, err := schemaStatements(d.Name)
	if err != nil {
		db.Close()
		return nil, err
	}
	for i, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("execute schema statement %d: %w", i+1, err)
		}
	}

	slog.Debug("History database ready", "driver", d.Name, "statements", len(stmts))
	return &DB{DB: db, Dialect: d}, nil
}

// schemaStatements reads the schema of a dialect. Statements are
// separated by a line holding a single '/'.
func schemaStatements(name string) ([]string, error) {
	raw, err := schemaFS.ReadFile("schema/" + name + ".sql")
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return splitStatements(string(raw)), nil
}

func splitStatements(script string) []string {
	var stmts []string
	var cur strings.Builder
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			stmts = append(stmts, s)
		}
		cur.Reset()
	}
	for _, line := range strings.Split(script, "\n") {
		if strings.TrimSpace(line) == "/" {
			flush()
			continue
		}
		cur.WriteString(line)
		cur.WriteByte('\n')
	}
	flush()
	return stmts
}
