// Package logger は log/slog による構造化ログの初期化を提供します。
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvKeyLogLevel はログレベルを指定する環境変数名です（debug, info, warn, error）。
const EnvKeyLogLevel = "LOG_LEVEL"

// Init は service 属性付きの JSON ロガーを作成し、slog のデフォルトに設定します。
func Init(service string, level slog.Level) *slog.Logger {
	return initWith(os.Stdout, service, level)
}

// InitFromEnv は LOG_LEVEL 環境変数からレベルを決めて Init を呼びます。
func InitFromEnv(service string) *slog.Logger {
	return Init(service, ParseLevel(os.Getenv(EnvKeyLogLevel)))
}

// ParseLevel はログレベル文字列を slog.Level に変換します。未知の値は Info です。
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func initWith(w io.Writer, service string, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	l := slog.New(handler).With(slog.String("service", service))
	slog.SetDefault(l)
	return l
}
