package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stdout)
	defer SetLevel(GetLevel())

	logger := New("test")

	SetLevel(Notice)
	logger.Info("hidden message")
	logger.Notice("visible message")

	out := buf.String()
	if strings.Contains(out, "hidden message") {
		t.Errorf("info message logged at notice level: %q", out)
	}
	if !strings.Contains(out, "visible message") || !strings.Contains(out, "[test]") {
		t.Errorf("notice message missing or unnamed: %q", out)
	}

	buf.Reset()
	SetLevel(Debug)
	logger.Debugf("value=%d", 42)
	if !strings.Contains(buf.String(), "value=42") {
		t.Errorf("debug message missing at debug level: %q", buf.String())
	}
}
