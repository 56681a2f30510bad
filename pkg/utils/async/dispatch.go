package async

import (
	"context"
	"runtime/debug"

	"github.com/m-mizutani/ctxlog"
)

// Dispatch runs a handler on a fresh background context with panic
// recovery. Report handlers use it to refresh a stale issue snapshot after
// responding from cache, so the HTTP request context's cancellation does
// not abort the refresh mid-flight.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	bgCtx := detach(ctx)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ctxlog.From(bgCtx).Error("Panic in async handler",
					"recover", r,
					"stack", string(debug.Stack()),
				)
			}
		}()

		if err := handler(bgCtx); err != nil {
			ctxlog.From(bgCtx).Error("Error in async handler",
				"error", err,
			)
		}
	}()
}

// detach builds a background context carrying over the request logger.
func detach(ctx context.Context) context.Context {
	bgCtx := context.Background()
	if logger := ctxlog.From(ctx); logger != nil {
		bgCtx = ctxlog.With(bgCtx, logger)
	}
	return bgCtx
}
