package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogUsableBeforeInit(t *testing.T) {
	assert.NotNil(t, Log)
	assert.NotPanics(t, func() { Log.Info("nothing to see") })
}

func TestConfigure(t *testing.T) {
	cfg := configure(-1)
	assert.Equal(t, "console", cfg.Encoding)
	assert.Equal(t, "timestamp", cfg.EncoderConfig.TimeKey)
	assert.Equal(t, []string{"stdout"}, cfg.OutputPaths)
}
