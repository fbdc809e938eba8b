package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// subjectRecorder は認証ミドルウェアが確定したsubjectをロギングミドルウェアへ
// 引き渡すための入れ物。コンテキスト値は内側のハンドラーから外側へ伝播しない
// ため、外側で確保したポインタに内側が書き込む。
type subjectRecorder struct {
	subject string
}

var subjectRecorderKey = contextKey("subject_recorder")

// recordSubject はコンテキスト内のsubjectRecorderにsubjectを書き込む。
// ロギングミドルウェアの外で呼ばれた場合は何もしない。
func recordSubject(ctx context.Context, subject string) {
	if rec, ok := ctx.Value(subjectRecorderKey).(*subjectRecorder); ok {
		rec.subject = subject
	}
}

// statusRecorder はhttp.ResponseWriterをラップし、ステータスコードを記録する。
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

// WriteHeader はステータスコードを記録してから委譲する。
func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

// Write はデータを書き込む。WriteHeaderが未呼び出しの場合は200を記録する。
func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}

// NewLoggingMiddleware はリクエストのJSON構造化ログを出力するミドルウェアを返す。
// ログにはrequest_id、method、path、status、duration_ms、subject（認証済みの場合）を含む。
func NewLoggingMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := uuid.New().String()

			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}
			subjectRec := &subjectRecorder{}
			r = r.WithContext(context.WithValue(r.Context(), subjectRecorderKey, subjectRec))

			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			durationMs := float64(duration.Nanoseconds()) / float64(time.Millisecond)

			attrs := []slog.Attr{
				slog.String("request_id", requestID),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.statusCode),
				slog.Float64("duration_ms", durationMs),
			}

			// 認証ミドルウェアがsubjectを確定させていた場合は追加
			if subjectRec.subject != "" {
				attrs = append(attrs, slog.String("subject", subjectRec.subject))
			}

			// slogのログレベルをステータスコードに応じて変更
			level := slog.LevelInfo
			if rec.statusCode >= 500 {
				level = slog.LevelError
			} else if rec.statusCode >= 400 {
				level = slog.LevelWarn
			}

			args := make([]any, len(attrs))
			for i, attr := range attrs {
				args[i] = attr
			}

			logger.Log(r.Context(), level, "http_request", args...)
		})
	}
}
