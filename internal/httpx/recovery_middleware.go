package httpx

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Recovery turns a handler panic into a 500 response. It must sit inside
// AccessLog so the wrapped writer can tell whether headers already went out.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				err := recover()
				if err == nil {
					return
				}
				if err == http.ErrAbortHandler {
					panic(err)
				}
				logger.Error("panic recovered",
					"request_id", RequestIDFrom(r),
					"error", err,
					"stack", string(debug.Stack()),
				)

				if rw, ok := w.(*responseWriter); ok && rw.wroteHeader() {
					return
				}
				JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred", nil)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
