// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する。
type Collector struct {
	httpStatus     *prometheus.CounterVec
	requestLatency prometheus.Histogram
	authzDecision  *prometheus.CounterVec
	authFailure    *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trackdeck_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "trackdeck_request_latency_seconds",
			Help:    "リクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		authzDecision: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trackdeck_authz_decision_total",
			Help: "所有権判定の結果別の合計数",
		}, []string{"decision"}),
		authFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trackdeck_auth_failure_total",
			Help: "資格情報検証失敗の種別別の合計数",
		}, []string{"reason"}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.requestLatency,
		c.authzDecision,
		c.authFailure,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエストのレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// RecordAuthzDecision は所有権判定の結果を記録する。
func (c *Collector) RecordAuthzDecision(allowed bool) {
	decision := "deny"
	if allowed {
		decision = "allow"
	}
	c.authzDecision.WithLabelValues(decision).Inc()
}

// RecordAuthFailure は資格情報検証の失敗を記録する。
// reasonにはエラーコード（MISSING_CREDENTIAL等）を渡す。
func (c *Collector) RecordAuthFailure(reason string) {
	c.authFailure.WithLabelValues(reason).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
