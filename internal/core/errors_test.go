package core

import (
	"errors"
	"testing"
)

func TestErrorMessageIncludesTableAndColumn(t *testing.T) {
	err := UnsupportedType("users", "status", "geometry types are not supported")

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if e.Kind != KindUnsupportedType {
		t.Fatalf("expected KindUnsupportedType, got %s", e.Kind)
	}
	want := `unsupported_type: table "users" column "status": geometry types are not supported`
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := InvalidSchema("", "parse failed", cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected errors.Is to find the wrapped cause")
	}
}
