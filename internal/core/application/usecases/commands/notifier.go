package commands

import (
	"context"
	"log/slog"
	"time"

	"transferflow/internal/pkg/errs"
)

// notificationTimeout bounds a single best-effort notification attempt.
const notificationTimeout = 5 * time.Second

// notifyAsync delivers a finance/audit notification outside the request
// path. Notifications run only after the core transaction has committed
// and are fire-and-forget: a failure is logged as a warning and never
// reaches the caller, so it cannot affect committed core state or extend
// the transaction's blocking window.
func notifyAsync(logger *slog.Logger, hook string, publish func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notificationTimeout)
		defer cancel()

		if err := publish(ctx); err != nil {
			logger.WarnContext(ctx, "Best-effort notification failed",
				"error", errs.NewExternalHookFailureError(hook, err))
		}
	}()
}
