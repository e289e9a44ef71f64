package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/viper"
)

var logger *slog.Logger

// initLogging builds the command logger from the verbose setting and makes
// it the slog default so library code logging through slog.Default
// follows the same level.
func initLogging() {
	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}
