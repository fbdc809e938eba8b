package middleware

import (
	"net/http"
	"time"
)

// HTTPRecorder はHTTPレスポンスのメトリクス記録に必要なインターフェース。
// metrics.Collectorの部分集合として定義する。
type HTTPRecorder interface {
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
}

// NewMetricsMiddleware はレスポンスのステータスコードとレイテンシを記録するミドルウェアを返す。
func NewMetricsMiddleware(recorder HTTPRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rec, r)

			recorder.RecordHTTPStatus(rec.statusCode)
			recorder.RecordRequestLatency(time.Since(start))
		})
	}
}
