package database

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/whhaicheng/news-scraper/internal/domain/config"
)

var (
	// ErrUnsupportedDriver is returned for an unknown history driver.
	ErrUnsupportedDriver = errors.New("unsupported database driver")
)

// Dialect captures the SQL differences between supported databases.
type Dialect struct {
	// Name is the configuration name, e.g. "postgres".
	Name string
	// DriverName is the database/sql driver registered for the dialect.
	DriverName string

	placeholder func(n int) string
	paging      func(limit, offset int) string
}

var dialects = map[string]Dialect{
	config.DriverSQLite: {
		Name:        config.DriverSQLite,
		DriverName:  "sqlite",
		placeholder: questionMark,
		paging:      limitOffset,
	},
	config.DriverMySQL: {
		Name:        config.DriverMySQL,
		DriverName:  "mysql",
		placeholder: questionMark,
		paging:      limitOffset,
	},
	config.DriverPostgres: {
		Name:        config.DriverPostgres,
		DriverName:  "postgres",
		placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
		paging:      limitOffset,
	},
	config.DriverSQLServer: {
		Name:        config.DriverSQLServer,
		DriverName:  "sqlserver",
		placeholder: func(n int) string { return "@p" + strconv.Itoa(n) },
		paging:      offsetFetch,
	},
	config.DriverOracle: {
		Name:        config.DriverOracle,
		DriverName:  "oracle",
		placeholder: func(n int) string { return ":" + strconv.Itoa(n) },
		paging:      offsetFetch,
	},
}

// LookupDialect returns the dialect for a configured driver name.
func LookupDialect(name string) (Dialect, error) {
	d, ok := dialects[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Dialect{}, fmt.Errorf("%w: %q", ErrUnsupportedDriver, name)
	}
	return d, nil
}

// Rebind rewrites '?' placeholders into the dialect's bind syntax.
// Question marks inside single-quoted literals are left alone.
func (d Dialect) Rebind(query string) string {
	if d.placeholder == nil || d.DriverName == "sqlite" || d.DriverName == "mysql" {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	quoted := false
	for _, r := range query {
		switch {
		case r == '\'':
			quoted = !quoted
			b.WriteRune(r)
		case r == '?' && !quoted:
			n++
			b.WriteString(d.placeholder(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Paginate returns the clause limiting a result set. It must follow an
// ORDER BY. A limit of zero means no limit.
func (d Dialect) Paginate(limit, offset int) string {
	if limit <= 0 && offset <= 0 {
		return ""
	}
	return d.paging(limit, offset)
}

func questionMark(int) string { return "?" }

func limitOffset(limit, offset int) string {
	var parts []string
	if limit > 0 {
		parts = append(parts, "LIMIT "+strconv.Itoa(limit))
	} else if offset > 0 {
		// Neither MySQL nor SQLite accept OFFSET without LIMIT.
		parts = append(parts, "LIMIT 2147483647")
	}
	if offset > 0 {
		parts = append(parts, "OFFSET "+strconv.Itoa(offset))
	}
	return " " + strings.Join(parts, " ")
}

func offsetFetch(limit, offset int) string {
	clause := " OFFSET " + strconv.Itoa(offset) + " ROWS"
	if limit > 0 {
		clause += " FETCH NEXT " + strconv.Itoa(limit) + " ROWS ONLY"
	}
	return clause
}
