package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Log is the global logger instance. Everything goes to stderr so stdout
// carries only the JSON result.
var Log zerolog.Logger

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	Log = New(os.Stderr, zerolog.InfoLevel)
}

// New creates a console logger writing to out
func New(out io.Writer, level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// SetVerbose switches the global logger to debug level
func SetVerbose(verbose bool) {
	if verbose {
		Log = Log.Level(zerolog.DebugLevel)
		return
	}
	Log = Log.Level(zerolog.InfoLevel)
}

// SetLevel sets the log level by name, falling back to info
func SetLevel(levelStr string) {
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil || levelStr == "" {
		Log.Warn().Str("level", levelStr).Msg("invalid log level, defaulting to info")
		level = zerolog.InfoLevel
	}
	Log = Log.Level(level)
}
