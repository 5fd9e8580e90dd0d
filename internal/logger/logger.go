package logger

import (
	"log/slog"
	"os"
)

// New は環境に応じたslogロガーを返す。
// prodはJSON/Info、それ以外はテキスト/Debug。
func New(env string) *slog.Logger {
	if env == "prod" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}
