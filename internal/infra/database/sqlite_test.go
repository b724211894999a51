package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

// Test 1: 测试数据库初始化成功
func TestInitializeSQLite(t *testing.T) {
	// Arrange
	dbPath := filepath.Join(t.TempDir(), "nested", "history.db")

	// Act
	db, err := InitializeSQLite(context.Background(), dbPath)

	// Assert
	if err != nil {
		t.Fatalf("InitializeSQLite failed: %v", err)
	}
	defer db.Close()

	if db.Dialect.Name != "sqlite" {
		t.Errorf("Expected sqlite dialect, got %q", db.Dialect.Name)
	}

	for _, table := range []string{"run_sessions", "run_log_entries"} {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		if err != nil {
			t.Fatalf("Failed to check table %s: %v", table, err)
		}
		if count != 1 {
			t.Errorf("Table %s not found", table)
		}
	}
}

// Test 2: 测试 WAL 模式启用
func TestInitializeSQLite_WALMode(t *testing.T) {
	db, err := InitializeSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("InitializeSQLite failed: %v", err)
	}
	defer db.Close()

	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("Failed to query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("Expected journal_mode='wal', got '%s'", journalMode)
	}
}

// Test 3: 测试外键约束启用
func TestInitializeSQLite_ForeignKeyEnabled(t *testing.T) {
	db, err := InitializeSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("InitializeSQLite failed: %v", err)
	}
	defer db.Close()

	var foreignKeys int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys); err != nil {
		t.Fatalf("Failed to query foreign_keys: %v", err)
	}
	if foreignKeys != 1 {
		t.Errorf("Expected foreign_keys=1, got %d", foreignKeys)
	}

	_, err = db.Exec("INSERT INTO run_log_entries (run_id, seq, logged_at, message) VALUES ('missing', 1, 'x', 'y')")
	if err == nil {
		t.Error("Expected foreign key violation for unknown run")
	}
}

// Test 4: 测试重复初始化（Schema 幂等）
func TestOpen_Idempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 2; i++ {
		db, err := Open(context.Background(), "sqlite", dbPath)
		if err != nil {
			t.Fatalf("Open #%d failed: %v", i+1, err)
		}
		db.Close()
	}
}

// Test 5: 测试不支持的驱动
func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "mongodb", "mongodb://localhost")
	if !errors.Is(err, ErrUnsupportedDriver) {
		t.Errorf("Expected ErrUnsupportedDriver, got %v", err)
	}
}
