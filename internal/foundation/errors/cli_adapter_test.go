package errors

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, 0},
		{"validation", ValidationError("bad flag").Build(), 2},
		{"content", ContentError("dangling anchor").Build(), 2},
		{"config", ConfigError("bad port").Build(), 7},
		{"render", RenderError("template").Build(), 11},
		{"filesystem", FileSystemError("write failed").Build(), 11},
		{"runtime", RuntimeError("listener").Build(), 12},
		{"internal", InternalError("bug").Build(), 10},
		{"unclassified", errors.New("plain"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.expected {
				t.Errorf("ExitCodeFor() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, slog.Default())
	if got := quiet.FormatError(InternalError("nil map").Build()); !strings.Contains(got, "use -v") {
		t.Errorf("internal errors should be hidden without -v, got %q", got)
	}
	if got := quiet.FormatError(ContentError("dangling anchor").Build()); !strings.Contains(got, "dangling anchor") {
		t.Errorf("content errors should be shown, got %q", got)
	}

	verbose := NewCLIErrorAdapter(true, slog.Default())
	if got := verbose.FormatError(InternalError("nil map").Build()); !strings.Contains(got, "nil map") {
		t.Errorf("verbose mode should show internal errors, got %q", got)
	}
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var out, logs bytes.Buffer
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logs, nil)))
	adapter.out = &out
	code := -1
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(ContentError("dangling anchor").WithContext("target", "esl-phonics").Build())

	if code != 2 {
		t.Errorf("expected exit code 2, got %d", code)
	}
	if !strings.Contains(out.String(), "dangling anchor") {
		t.Errorf("expected message on output, got %q", out.String())
	}
	if !strings.Contains(logs.String(), "target=esl-phonics") {
		t.Errorf("expected context in logs, got %q", logs.String())
	}
}
