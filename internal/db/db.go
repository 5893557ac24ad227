package db

import (
	"database/sql"
	"fmt"

	"gridstore-be/internal/config"
	"gridstore-be/internal/logger"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// InitDB opens the Postgres pool from the loaded config and verifies the
// connection with a ping. Startup aborts when the database is unreachable.
func InitDB(cfg *config.Config) *sql.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	pool, err := sql.Open("postgres", dsn)
	if err != nil {
		logger.L().Fatal("failed to open database", zap.Error(err))
	}

	if err = pool.Ping(); err != nil {
		logger.L().Fatal("database unreachable", zap.Error(err))
	}

	logger.L().Info("database connection established", zap.String("host", cfg.DBHost), zap.String("name", cfg.DBName))
	return pool
}
