package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialect_Rebind(t *testing.T) {
	query := "SELECT id FROM run_sessions WHERE id = ? AND phase <> '?' AND work_count > ?"

	tests := []struct {
		driver string
		want   string
	}{
		{"sqlite", query},
		{"mysql", query},
		{"postgres", "SELECT id FROM run_sessions WHERE id = $1 AND phase <> '?' AND work_count > $2"},
		{"sqlserver", "SELECT id FROM run_sessions WHERE id = @p1 AND phase <> '?' AND work_count > @p2"},
		{"oracle", "SELECT id FROM run_sessions WHERE id = :1 AND phase <> '?' AND work_count > :2"},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			d, err := LookupDialect(tt.driver)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Rebind(query))
		})
	}
}

func TestDialect_Paginate(t *testing.T) {
	tests := []struct {
		driver        string
		limit, offset int
		want          string
	}{
		{"sqlite", 0, 0, ""},
		{"sqlite", 10, 0, " LIMIT 10"},
		{"mysql", 10, 5, " LIMIT 10 OFFSET 5"},
		{"mysql", 0, 5, " LIMIT 2147483647 OFFSET 5"},
		{"postgres", 3, 0, " LIMIT 3"},
		{"sqlserver", 10, 0, " OFFSET 0 ROWS FETCH NEXT 10 ROWS ONLY"},
		{"oracle", 0, 2, " OFFSET 2 ROWS"},
	}

	for _, tt := range tests {
		t.Run(tt.driver+"/"+tt.want, func(t *testing.T) {
			d, err := LookupDialect(tt.driver)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Paginate(tt.limit, tt.offset))
		})
	}
}

func TestLookupDialect(t *testing.T) {
	d, err := LookupDialect(" Postgres ")
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.DriverName)

	_, err = LookupDialect("db2")
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestSchemaStatements(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"sqlite", 3},
		// mysql declares its index inline
		{"mysql", 2},
		{"postgres", 3},
		{"sqlserver", 3},
		{"oracle", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts, err := schemaStatements(tt.name)
			require.NoError(t, err)
			assert.Len(t, stmts, tt.want)
			for _, s := range stmts {
				assert.NotContains(t, s, "\n/\n")
				assert.Contains(t, s, "run_")
			}
		})
	}
}

func TestSplitStatements(t *testing.T) {
	script := "CREATE TABLE a (x INT)\n/\n\n/\nBEGIN\n  NULL;\nEND;\n  /  \nSELECT 1"
	assert.Equal(t, []string{
		"CREATE TABLE a (x INT)",
		"BEGIN\n  NULL;\nEND;",
		"SELECT 1",
	}, splitStatements(script))
}
