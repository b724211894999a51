package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
)

// InitializeSQLite 初始化 SQLite 历史库
// ctx: 上下文（支持取消）
// dbPath: 数据库文件路径（如 "./data/news-scraper.db"）
// 返回: 单连接池的数据库对象或错误
func InitializeSQLite(ctx context.Context, dbPath string) (*DB, error) {
	// 1. 创建目录
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// 2. 连接数据库（启用 WAL 和外键）
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// 3. 配置单连接池
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	d, err := LookupDialect("sqlite")
	if err != nil {
		db.Close()
		return nil, err
	}
	return bootstrap(ctx, db, d)
}
