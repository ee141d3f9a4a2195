package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestZeroLogger_Info(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("development", buf)

	log.Info("callback handled", Field{Key: "provider", Value: "github"})

	output := buf.String()

	if !strings.Contains(output, "callback handled") {
		t.Errorf("expected message in log, got: %s", output)
	}
	if !strings.Contains(output, `"provider":"github"`) {
		t.Errorf("expected field provider=github, got: %s", output)
	}
	if !strings.Contains(output, `"level":"info"`) {
		t.Errorf("expected level=info, got: %s", output)
	}
}

func TestZeroLogger_ErrField(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("development", buf)

	log.Error("exchange failed", Err(errors.New("token endpoint returned 500")))

	output := buf.String()

	if !strings.Contains(output, `"err":"token endpoint returned 500"`) {
		t.Errorf("expected error field, got: %s", output)
	}
	if !strings.Contains(output, `"level":"error"`) {
		t.Errorf("expected error level, got: %s", output)
	}
}

func TestZeroLogger_DebugShownInDev(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("development", buf)

	log.Debug("state issued")

	if !strings.Contains(buf.String(), "state issued") {
		t.Errorf("expected debug log in development, got: %s", buf.String())
	}
}

func TestZeroLogger_DebugHiddenInProduction(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("production", buf)

	log.Debug("state issued")

	if buf.String() != "" {
		t.Errorf("expected no debug output in production, got: %s", buf.String())
	}
}

func TestZeroLogger_Warn(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("development", buf)

	log.Warn("callback with unknown state", Field{Key: "flow_id", Value: int64(7)})

	output := buf.String()

	if !strings.Contains(output, `"level":"warn"`) {
		t.Errorf("expected warn level, got: %s", output)
	}
	if !strings.Contains(output, `"flow_id":7`) {
		t.Errorf("expected field flow_id=7, got: %s", output)
	}
}
