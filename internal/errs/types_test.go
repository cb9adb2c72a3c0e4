package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestStoreErrorMessageAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := New("create", CodeUnavailable, cause)

	if err.Error() != "create: connection refused" {
		t.Fatalf("Error() = %q", err.Error())
	}
	if err.Message != "connection refused" {
		t.Fatalf("Message = %q", err.Message)
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause is not reachable through Unwrap")
	}
}

func TestStoreErrorIs(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", New("list", CodeUnavailable, errors.New("down")))

	if !errors.Is(err, &StoreError{}) {
		t.Fatal("expected match on any StoreError")
	}
	if !errors.Is(err, &StoreError{Code: CodeUnavailable}) {
		t.Fatal("expected match on same code")
	}
	if errors.Is(err, &StoreError{Code: CodeConstraint}) {
		t.Fatal("unexpected match on different code")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(errors.New("plain")); got != CodeUnknown {
		t.Fatalf("CodeOf(plain) = %s", got)
	}
	if got := CodeOf(New("x", CodeCanceled, nil)); got != CodeCanceled {
		t.Fatalf("CodeOf(store) = %s", got)
	}
}

func TestWithOpCopies(t *testing.T) {
	base := New("", CodeUnavailable, errors.New("down"))
	tagged := base.WithOp("delete")

	if base.Op != "" {
		t.Fatal("WithOp mutated the receiver")
	}
	if tagged.Error() != "delete: down" {
		t.Fatalf("Error() = %q", tagged.Error())
	}
}
