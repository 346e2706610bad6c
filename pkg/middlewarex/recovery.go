package middlewarex

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"gp_planner/pkg/errcodes"
	"gp_planner/pkg/httpx/reply"
	"gp_planner/pkg/logx"
)

// Recovery turns a handler panic into a 500 error response.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler { //nolint:errorlint,err113
					panic(rec)
				}

				logger(ctx).Error(
					"panic in handler",
					slog.Any(logx.FieldError, rec),
					slog.String(logx.FieldStack, string(debug.Stack())),
				)

				reply.Coded(ctx, w, http.StatusInternalServerError, errcodes.InternalServerError, "internal error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
