package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestConfigureLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	Configure("debug", "json", &buf)
	defer Configure("info", "text", &bytes.Buffer{})

	if Log.GetLevel() != logrus.DebugLevel {
		t.Errorf("level = %v, want debug", Log.GetLevel())
	}

	For("test").Debug("hello")
	out := buf.String()
	if !strings.Contains(out, `"component":"test"`) {
		t.Errorf("expected JSON component field, got %q", out)
	}
}

func TestConfigureBadLevelFallsBackToInfo(t *testing.T) {
	Configure("chatty", "", &bytes.Buffer{})
	if Log.GetLevel() != logrus.InfoLevel {
		t.Errorf("level = %v, want info", Log.GetLevel())
	}
}
