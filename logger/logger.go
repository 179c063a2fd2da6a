package logger

import (
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Log is a no-op logger until Init is called
	Log      = zap.NewNop()
	onceInit sync.Once
)

func Init(level string, meta ...zap.Field) error {
	var initErr error
	onceInit.Do(func() {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			initErr = errors.Wrapf(err, "bad log level %q", level)
			return
		}
		instance, err := configure(lvl).Build(zap.AddCaller())
		if err != nil {
			initErr = errors.Wrap(err, "cannot build logger")
			return
		}
		Log = instance.With(meta...)
	})
	return initErr
}

func configure(level zapcore.Level) zap.Config {
	encoder := zap.NewProductionEncoderConfig()
	encoder.TimeKey = "timestamp"
	encoder.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder.EncodeLevel = zapcore.CapitalLevelEncoder
	encoder.EncodeCaller = zapcore.ShortCallerEncoder
	encoder.EncodeDuration = zapcore.SecondsDurationEncoder
	return zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         "console",
		EncoderConfig:    encoder,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
}
