package output

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
)

// captureOutput captures stdout during test execution
func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func TestSuccess(t *testing.T) {
	output := captureOutput(func() {
		Success("Test message")
	})

	if !strings.Contains(output, "✓") {
		t.Error("Success output should contain the check marker")
	}
	if !strings.Contains(output, "Test message") {
		t.Error("Success output should contain the message")
	}
}

func TestError(t *testing.T) {
	output := captureOutput(func() {
		Error("Error message")
	})

	if !strings.Contains(output, "✗") {
		t.Error("Error output should contain the cross marker")
	}
	if !strings.Contains(output, "Error message") {
		t.Error("Error output should contain the message")
	}
}

func TestStep(t *testing.T) {
	output := captureOutput(func() {
		Step("Step message")
	})

	if !strings.Contains(output, "   ") {
		t.Error("Step output should contain indentation")
	}
	if !strings.Contains(output, "Step message") {
		t.Error("Step output should contain the message")
	}
}

func TestVerbose(t *testing.T) {
	// Verbose mode off (default)
	output := captureOutput(func() {
		Verbose("Debug message")
	})

	if output != "" {
		t.Error("Verbose output should be empty when verbose mode is off")
	}

	SetVerbose(true)
	output = captureOutput(func() {
		Verbose("Debug message")
	})

	if !strings.Contains(output, "Debug message") {
		t.Error("Verbose output should contain the message when enabled")
	}

	SetVerbose(false)
}
