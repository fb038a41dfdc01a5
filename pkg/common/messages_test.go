// Package common provides tests for message and logging functionality
package common

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
)

// captureLog redirects logrus output to a buffer for the duration of a test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	level := log.GetLevel()
	log.SetOutput(&buf)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetLevel(level)
		VerboseMode = false
	})
	return &buf
}

func TestSetVerboseMode(t *testing.T) {
	captureLog(t)

	// Test enabling verbose mode
	SetVerboseMode(true)
	if !VerboseMode {
		t.Error("SetVerboseMode(true) should enable verbose mode")
	}
	if log.GetLevel() != log.DebugLevel {
		t.Errorf("log level = %v, want %v", log.GetLevel(), log.DebugLevel)
	}

	// Test disabling verbose mode
	SetVerboseMode(false)
	if VerboseMode {
		t.Error("SetVerboseMode(false) should disable verbose mode")
	}
	if log.GetLevel() != log.InfoLevel {
		t.Errorf("log level = %v, want %v", log.GetLevel(), log.InfoLevel)
	}
}

func TestLogDebug_VerboseEnabled(t *testing.T) {
	buf := captureLog(t)
	SetVerboseMode(true)

	LogDebug("Test debug message with value: %d", 42)

	output := buf.String()
	if !strings.Contains(output, "Test debug message with value: 42") {
		t.Errorf("LogDebug output should contain formatted message, got: %q", output)
	}
}

func TestLogDebug_VerboseDisabled(t *testing.T) {
	buf := captureLog(t)
	SetVerboseMode(false)

	LogDebug("This should not appear", 42)

	if buf.String() != "" {
		t.Errorf("LogDebug should be silent when verbose mode is disabled, got: %q", buf.String())
	}
}

func TestLogLevels(t *testing.T) {
	testCases := []struct {
		name  string
		logFn func(string, ...interface{})
		level string
	}{
		{"info", LogInfo, "level=info"},
		{"warn", LogWarn, "level=warning"},
		{"error", LogError, "level=error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf := captureLog(t)
			tc.logFn("Test %s message with value: %d", tc.name, 7)

			output := buf.String()
			want := fmt.Sprintf("Test %s message with value: 7", tc.name)
			if !strings.Contains(output, want) {
				t.Errorf("output should contain %q, got: %q", want, output)
			}
			if !strings.Contains(output, tc.level) {
				t.Errorf("output should contain %q, got: %q", tc.level, output)
			}
		})
	}
}

// Test logging with no format arguments
func TestLogFunctions_NoArgs(t *testing.T) {
	buf := captureLog(t)

	LogInfo("Simple message without formatting 100%")

	expected := "Simple message without formatting 100%"
	if !strings.Contains(buf.String(), expected) {
		t.Errorf("LogInfo without args should contain %q, got: %q", expected, buf.String())
	}
}

func TestConfigureLogging(t *testing.T) {
	captureLog(t)

	if err := ConfigureLogging("debug", ""); err != nil {
		t.Fatalf("ConfigureLogging() failed: %v", err)
	}
	if !VerboseMode {
		t.Error("debug level should enable verbose mode")
	}

	if err := ConfigureLogging("loud", ""); err == nil {
		t.Error("ConfigureLogging() should reject an unknown level")
	} else if !strings.Contains(err.Error(), ErrInvalidLogLevel) {
		t.Errorf("error %q should contain %q", err.Error(), ErrInvalidLogLevel)
	}
}

func TestConfigureLogging_File(t *testing.T) {
	captureLog(t)

	path := filepath.Join(t.TempDir(), "vcdplayer.log")
	if err := ConfigureLogging("info", path); err != nil {
		t.Fatalf("ConfigureLogging() failed: %v", err)
	}
	LogWarn("written to file")
	log.SetOutput(os.Stderr)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Errorf("log file should contain message, got: %q", string(data))
	}
}

func TestFormatError(t *testing.T) {
	originalError := fmt.Errorf("original error")

	formattedError := FormatError("Base error message", originalError)

	expectedMessage := "Base error message: original error"
	if formattedError.Error() != expectedMessage {
		t.Errorf("FormatError() = %q, want %q", formattedError.Error(), expectedMessage)
	}
	if !strings.Contains(FormatError(ErrFailedToReadSector, 17).Error(), "17") {
		t.Error("FormatError() should format non-error details")
	}
}

func TestFormatErrorString(t *testing.T) {
	err := FormatErrorString(ErrFailedToParseItem, "unknown kind %q", "X")
	want := `failed to parse play item: unknown kind "X"`
	if err.Error() != want {
		t.Errorf("FormatErrorString() = %q, want %q", err.Error(), want)
	}
}

func TestErrorConstants(t *testing.T) {
	errorConstants := map[string]string{
		"ErrFailedToOpenImage":        ErrFailedToOpenImage,
		"ErrFailedToReadSector":       ErrFailedToReadSector,
		"ErrFailedToLoadCatalog":      ErrFailedToLoadCatalog,
		"ErrFailedToParseCatalog":     ErrFailedToParseCatalog,
		"ErrFailedToLoadConfig":       ErrFailedToLoadConfig,
		"ErrFailedToParseItem":        ErrFailedToParseItem,
		"ErrFailedToStartPlayback":    ErrFailedToStartPlayback,
		"ErrFailedToCreateOutputFile": ErrFailedToCreateOutputFile,
		"ErrFailedToWriteStream":      ErrFailedToWriteStream,
	}

	for name, value := range errorConstants {
		if len(value) < 10 {
			t.Errorf("Error constant %s seems too short: %q", name, value)
		}
	}
}
