package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"restaurant-menu/config"
)

var Pool *pgxpool.Pool

func Init(ctx context.Context, cfg config.DBConfig) error {
	if cfg.URL == "" {
		return fmt.Errorf("DATABASE_URL is empty")
	}
	var err error
	Pool, err = pgxpool.New(ctx, cfg.URL)
	if err != nil {
		return err
	}
	return Pool.Ping(ctx)
}

func Close() {
	if Pool != nil {
		Pool.Close()
	}
}
