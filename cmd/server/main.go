package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"go.uber.org/zap"

	"todo-api/internal/api"
	"todo-api/internal/config"
	"todo-api/internal/db"
	"todo-api/internal/health"
	"todo-api/internal/logging"
	"todo-api/pkg/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	ctx := context.Background()

	tasks, closeStore, err := db.OpenStore(ctx, cfg)
	if err != nil {
		zap.S().Fatalf("open %s store: %v", cfg.DatabaseDriver, err)
	}

	if err := tasks.EnsureTable(ctx); err != nil {
		zap.S().Fatalf("ensure tasks table: %v", err)
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.New(task.NewService(tasks), logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	probes := &http.Server{
		Addr:              cfg.HealthAddr,
		Handler:           health.NewHandler(tasks),
		ReadHeaderTimeout: 5 * time.Second,
	}

	for _, srv := range []*http.Server{server, probes} {
		go func(srv *http.Server) {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				zap.S().Fatalf("listen %s: %v", srv.Addr, err)
			}
		}(srv)
	}
	zap.S().Infof("todo-api listening on %s (%s store), probes on %s", cfg.Addr(), cfg.DatabaseDriver, cfg.HealthAddr)

	// Drain HTTP first, then release the database; one operation keeps the order.
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"todo-api": func(ctx context.Context) error {
				zap.S().Info("graceful shutdown initiated")
				errAPI := server.Shutdown(ctx)
				errProbes := probes.Shutdown(ctx)
				closeStore()
				return errors.Join(errAPI, errProbes)
			},
		},
	)

	exitCode := <-wait
	zap.S().Infof("exited with code %d", exitCode)
	logger.Sync()
	os.Exit(exitCode)
}
