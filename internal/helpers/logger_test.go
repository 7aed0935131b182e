package helpers_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/isometry/ask-relay/internal/helpers"
	"github.com/stretchr/testify/assert"
)

func TestVerbosityLevel(t *testing.T) {
	testCases := []struct {
		Name      string
		Verbosity int
		Expected  slog.Level
	}{
		{Name: "default", Verbosity: 0, Expected: slog.LevelWarn},
		{Name: "info", Verbosity: 1, Expected: slog.LevelInfo},
		{Name: "debug", Verbosity: 2, Expected: slog.LevelDebug},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Expected, helpers.VerbosityLevel(tc.Verbosity))
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := helpers.NewLogger(&buf, 1, false)

	logger.Debug("hidden")
	logger.Info("shown", slog.String("component", "runtime"))

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"component":"runtime"`)
}
