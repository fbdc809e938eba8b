package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup はJSON構造化ログ出力のslog.Loggerを生成して返す。
// writerが指定された場合はそのwriterに出力する。
func Setup(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}

// SetupDefault はJSON構造化ログ出力をグローバルロガーとして設定する。
// ログレベルは環境変数LOG_LEVELから読み込む（未設定時はINFO）。
// 本番ではos.Stdoutを渡すことを想定している。
func SetupDefault(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	logger := Setup(w, ParseLevel(os.Getenv("LOG_LEVEL")))
	slog.SetDefault(logger)
}

// ParseLevel はログレベル文字列をslog.Levelに変換する。
// 未知の値と空文字列はINFOにフォールバックする。
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
