package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New 创建 zerolog 结构化日志器；pretty 模式供本地开发使用。
func New(level string, pretty bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var out io.Writer = os.Stdout
	if pretty {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Str("service", "filescope").
		Logger()
}
