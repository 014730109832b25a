package archivelog

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureOutput redirects logger output to a buffer for testing.
func captureOutput() (*bytes.Buffer, func()) {
	buf := new(bytes.Buffer)

	mu.Lock()
	originalOutput := output
	originalColor := useColor
	output = buf
	useColor = false
	mu.Unlock()

	reconfigure()

	cleanup := func() {
		mu.Lock()
		output = originalOutput
		useColor = originalColor
		mu.Unlock()
		reconfigure()
	}

	return buf, cleanup
}

func TestLevelFiltering(t *testing.T) {
	t.Run("DebugLevelShowsAllMessages", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("DEBUG")
		Debug("debug message")
		Info("info message")
		Warn("warn message")
		Error("error message")

		got := buf.String()
		assert.Contains(t, got, "DEBUG")
		assert.Contains(t, got, "debug message")
		assert.Contains(t, got, "info message")
		assert.Contains(t, got, "warn message")
		assert.Contains(t, got, "error message")
	})

	t.Run("WarnLevelFiltersDebugAndInfo", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("WARN")
		Debug("debug message")
		Info("info message")
		Warn("warn message")
		Error("error message")

		got := buf.String()
		assert.NotContains(t, got, "debug message")
		assert.NotContains(t, got, "info message")
		assert.Contains(t, got, "warn message")
		assert.Contains(t, got, "error message")
	})
}

func TestSetFormat_SwitchesToJSON(t *testing.T) {
	buf, cleanup := captureOutput()
	defer cleanup()

	SetLevel("INFO")
	SetFormat("json")
	Info("hello", "ordinal", 3)

	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"ordinal":3`)

	SetFormat("text")
}

func TestSetLevel_IgnoresUnknownValue(t *testing.T) {
	SetLevel("INFO")
	SetLevel("NOT-A-LEVEL")
	assert.Equal(t, LevelInfo, Level(currentLevel.Load()))
}

func TestInfoCtx_InjectsContextFields(t *testing.T) {
	buf, cleanup := captureOutput()
	defer cleanup()

	SetLevel("INFO")
	SetFormat("json")
	defer SetFormat("text")

	lc := NewLogContext("/tmp/shaders.pak").WithOperation("read")
	ctx := WithContext(context.Background(), lc)

	InfoCtx(ctx, "entry read")

	got := buf.String()
	assert.Contains(t, got, `"operation":"read"`)
}

func TestDuration_ReturnsMillisecondsSinceStart(t *testing.T) {
	lc := NewLogContext("op")
	assert.GreaterOrEqual(t, lc.DurationMs(), float64(0))
}
