package logger

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InitLogger - Initialize the global zap logger.
// Logs go to stderr, or to logPath when set, so they never mix with the
// output of the commands being run.
func InitLogger(debug bool, logPath string) error {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	outputs := []string{"stderr"}
	if logPath != "" {
		outputs = []string{logPath}
	}
	cfg.OutputPaths = outputs
	cfg.ErrorOutputPaths = outputs

	l, err := cfg.Build()
	if err != nil {
		return errors.Wrap(err, "failed to build logger")
	}

	zap.ReplaceGlobals(l)
	return nil
}

// Sync - Flush buffered log entries
func Sync() {
	_ = zap.L().Sync()
}
