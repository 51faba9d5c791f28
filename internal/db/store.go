package db

import (
	"context"

	"todo-api/internal/config"
	"todo-api/pkg/task"
)

// OpenStore builds the task store selected by cfg.DatabaseDriver. The
// returned func releases the underlying connections.
func OpenStore(ctx context.Context, cfg *config.Config) (task.Store, func(), error) {
	if cfg.DatabaseDriver == config.DriverSQLite {
		gdb, err := OpenSQLite(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return task.NewGormStore(gdb), func() { _ = CloseGorm(gdb) }, nil
	}

	pool, err := Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return task.NewPgStore(pool), pool.Close, nil
}
