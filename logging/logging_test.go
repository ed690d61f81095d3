package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleAndFileLogging(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	SetConsoleOutput(&buf)
	defer SetConsoleOutput(os.Stdout)

	logPath := filepath.Join(t.TempDir(), "handcompare.log")
	require.NoError(t, SetupLogger(logPath))

	Warn("%s is missing columns", "a.csv")
	Success("saved %s", "a.png")
	DebugLog("debug only")
	LogPairCompared("mine.png", "s1.png", false, "decode failed")
	CloseLogger()

	out := buf.String()
	assert.Contains(t, out, "Warning: a.csv is missing columns")
	assert.Contains(t, out, "saved a.png")
	assert.NotContains(t, out, "debug only")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "WARNING: a.csv is missing columns")
	assert.Contains(t, string(data), "debug only")
	assert.Contains(t, string(data), "FAILED: mine.png vs s1.png - Error: decode failed")
}

func TestDebugLogWithoutSetupIsSilent(t *testing.T) {
	assert.NotPanics(t, func() {
		DebugLog("nothing")
		LogWarning("nothing")
		LogError("nothing")
	})
}
