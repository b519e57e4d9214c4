package overlay

import (
	"log/slog"
	"os"
)

// guiLogLevel controls the log level shared by every default logger in the
// module. Default is LevelInfo, which suppresses Debug messages.
var guiLogLevel = new(slog.LevelVar)

// guiLogger is the default Context logger.
var guiLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: guiLogLevel}))

// SetVerbose enables or disables debug logging.
// Call this from main() after parsing flags.
func SetVerbose(v bool) {
	if v {
		guiLogLevel.Set(slog.LevelDebug)
	} else {
		guiLogLevel.Set(slog.LevelInfo)
	}
}

func guiVerbose() bool {
	return guiLogLevel.Level() <= slog.LevelDebug
}
