package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rajivgeraev/skillsphere-api/internal/config"
)

const (
	connectTimeout = 10 * time.Second
	queryTimeout   = 5 * time.Second
)

// Pool пул соединений, используемый репозиторием снапшотов
var Pool *pgxpool.Pool

// InitDB открывает пул соединений по DATABASE_URL
func InitDB(parent context.Context, cfg config.DatabaseConfig) error {
	if !cfg.Enabled() {
		return fmt.Errorf("DATABASE_URL не задан")
	}

	ctx, cancel := context.WithTimeout(parent, connectTimeout)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return fmt.Errorf("ошибка при разборе URL базы данных: %w", err)
	}

	// Снапшоты пишет одна горутина
	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = 1
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("ошибка при создании пула соединений: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("ошибка при проверке соединения: %w", err)
	}

	Pool = pool
	log.Printf("✅ База снапшотов подключена (max conns: %d)", cfg.MaxConns)
	return nil
}

// CloseDB закрывает пул
func CloseDB() {
	if Pool != nil {
		Pool.Close()
		Pool = nil
	}
}

// GetContext возвращает контекст с таймаутом для одного запроса
func GetContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), queryTimeout)
}
