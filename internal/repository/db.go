package repository

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"lifepulse/internal/config"
)

// OpenPostgres 创建 PostgreSQL 数据库连接
func OpenPostgres(cfg *config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}
