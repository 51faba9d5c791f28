// Package health serves liveness and readiness probes for orchestrators.
package health

import (
	"context"
	"time"

	"github.com/heptiolabs/healthcheck"
)

// Pinger is satisfied by every task store.
type Pinger interface {
	Ping(ctx context.Context) error
}

const pingTimeout = 2 * time.Second

// NewHandler returns a handler serving /live and /ready. Readiness follows
// the database; liveness only guards against goroutine leaks.
func NewHandler(db Pinger) healthcheck.Handler {
	h := healthcheck.NewHandler()
	h.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(10000))
	h.AddReadinessCheck("database", DatabaseCheck(db))
	return h
}

// DatabaseCheck pings db with a bounded timeout.
func DatabaseCheck(db Pinger) healthcheck.Check {
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		defer cancel()
		return db.Ping(ctx)
	}
}
