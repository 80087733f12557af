package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "info", "text")

	Debug("hidden")
	Info("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message logged at info level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("info message missing: %q", out)
	}
}

func TestTraceAliasesDebug(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "trace", "text")

	Debug("trace-visible")

	if !strings.Contains(buf.String(), "trace-visible") {
		t.Errorf("trace level should enable debug output: %q", buf.String())
	}
}

func TestTextFormatLine(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "info", "text")

	Info("served", "path", "/f/a/b/c", "bytes", 4)

	if !strings.Contains(buf.String(), "[INFO] served path=/f/a/b/c bytes=4") {
		t.Errorf("unexpected text output: %q", buf.String())
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "info", "json")

	Info("structured", "key", "value")

	out := buf.String()
	if !strings.Contains(out, `"msg":"structured"`) || !strings.Contains(out, `"key":"value"`) {
		t.Errorf("unexpected json output: %q", out)
	}
}

func TestInvalidLevelIgnored(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "info", "text")

	SetLevel("verbose")

	Info("still-info")
	if !strings.Contains(buf.String(), "still-info") {
		t.Errorf("invalid level should not change configuration: %q", buf.String())
	}
}
