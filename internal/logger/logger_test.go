package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	Init(level, "json")
	var buf bytes.Buffer
	SetOutput(&buf)
	return &buf
}

func TestInfo(t *testing.T) {
	buf := capture(t, "info")

	Info("test message", "member_id", 7)

	output := buf.String()
	assert.Contains(t, output, "test message")
	assert.Contains(t, output, `"member_id":7`)
	assert.Contains(t, output, `"level":"info"`)
}

func TestError(t *testing.T) {
	buf := capture(t, "info")

	Error("test error")

	assert.Contains(t, buf.String(), "test error")
	assert.Contains(t, buf.String(), `"level":"error"`)
}

func TestDebug_FilteredByLevel(t *testing.T) {
	buf := capture(t, "info")
	Debug("hidden")
	assert.Empty(t, buf.String())

	buf = capture(t, "debug")
	Debugf("shown %d", 1)
	assert.Contains(t, buf.String(), "shown 1")
}

func TestInfof(t *testing.T) {
	buf := capture(t, "info")

	Infof("test %s", "message")

	assert.Contains(t, buf.String(), "test message")
}

func TestErrorf(t *testing.T) {
	buf := capture(t, "info")

	Errorf("test %s", "error")

	assert.Contains(t, buf.String(), "test error")
}

func TestInit_UnknownLevelFallsBackToInfo(t *testing.T) {
	buf := capture(t, "loud")

	Debug("hidden")
	Info("visible")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "visible")
}

func TestWithError(t *testing.T) {
	buf := capture(t, "info")

	WithError(assert.AnError).Info("test with error")

	output := buf.String()
	assert.Contains(t, output, "test with error")
	assert.Contains(t, output, assert.AnError.Error())
}

func TestWithFields(t *testing.T) {
	buf := capture(t, "info")

	WithFields(map[string]interface{}{
		"key1": "value1",
		"key2": 123,
	}).Info("test with fields")

	output := buf.String()
	assert.Contains(t, output, "test with fields")
	assert.Contains(t, output, "value1")
	assert.Contains(t, output, `"key2":123`)
}
