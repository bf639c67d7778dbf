package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryContent, "duplicate section id").
			WithSeverity(SeverityFatal).
			WithContext("section", "learn").
			Build()

		if err.Category() != CategoryContent {
			t.Errorf("expected category %s, got %s", CategoryContent, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "duplicate section id" {
			t.Errorf("unexpected message %q", err.Message())
		}
		section, ok := err.Context().Get("section")
		if !ok || section != "learn" {
			t.Errorf("expected context section=learn, got %v", section)
		}
	})

	t.Run("Content errors are fatal and need user action", func(t *testing.T) {
		err := ContentError("dangling anchor").Build()
		if !HasCategory(err, CategoryContent) {
			t.Error("expected content category")
		}
		if err.CanRetry() {
			t.Error("content errors must not be retryable")
		}
		if !err.IsFatal() {
			t.Error("content errors must be fatal")
		}
	})

	t.Run("Classification survives wrapping", func(t *testing.T) {
		inner := ConfigError("bad port").Build()
		wrapped := fmt.Errorf("load: %w", inner)
		if GetCategory(wrapped) != CategoryConfig {
			t.Errorf("expected config category through wrap, got %s", GetCategory(wrapped))
		}
		if GetCategory(errors.New("plain")) != CategoryInternal {
			t.Error("unclassified errors default to internal")
		}
	})
}

func TestErrorBuilder(t *testing.T) {
	original := errors.New("open manifest.yaml: no such file")
	err := WrapError(original, CategoryFileSystem, "manifest unreadable").
		Warning().
		WithContext("path", "manifest.yaml").
		Build()

	if !errors.Is(err, original) {
		t.Error("expected error to wrap original error")
	}
	if err.Severity() != SeverityWarning {
		t.Errorf("expected warning severity, got %s", err.Severity())
	}
	want := "[filesystem:warning] manifest unreadable: open manifest.yaml: no such file"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWithContextDoesNotMutate(t *testing.T) {
	base := RenderError("template failed").Build()
	derived := base.WithContext("template", "page")

	if _, ok := base.Context().Get("template"); ok {
		t.Error("WithContext mutated the receiver")
	}
	if v, _ := derived.Context().Get("template"); v != "page" {
		t.Errorf("expected derived context, got %v", v)
	}
	if !errors.Is(derived, base) {
		t.Error("errors with same category and message should match")
	}
}
