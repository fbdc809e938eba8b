package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// NewRecoveryMiddleware はpanic発生時にプロセスクラッシュを防ぎ、
// 500の失敗エンベロープを返すミドルウェアを生成する。
func NewRecoveryMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					slog.Error("panic recovered",
						slog.Any("panic", rec),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
						slog.String("stack", string(debug.Stack())),
					)
					writeEnvelope(w, http.StatusInternalServerError, Envelope{
						Status:  StatusFailed,
						Message: "内部エラーが発生しました。",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
