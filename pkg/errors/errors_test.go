package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestAppErrorMessage(t *testing.T) {
	err := NotFound("table tbl1 not found")
	if err.Error() != "table tbl1 not found" {
		t.Errorf("message = %s", err.Error())
	}

	cause := stderrors.New("connection reset")
	wrapped := Storage(cause)
	if wrapped.Error() != "storage execution failed: connection reset" {
		t.Errorf("message = %s", wrapped.Error())
	}
}

func TestIsKind(t *testing.T) {
	err := FieldNotFound("unknown field ids: fldZ")
	if !IsKind(err, KindFieldNotFound) {
		t.Error("expected field_not_found kind")
	}
	if IsKind(err, KindNotFound) {
		t.Error("kinds must not cross-match")
	}
	if IsKind(stderrors.New("plain"), KindNotFound) {
		t.Error("plain errors carry no kind")
	}
}

func TestIsKindThroughWrapping(t *testing.T) {
	inner := NotFound("view viw1 not found")
	wrapped := fmt.Errorf("list records: %w", inner)
	if !IsKind(wrapped, KindNotFound) {
		t.Error("kind should survive fmt.Errorf wrapping")
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := stderrors.New("boom")
	err := Storage(cause)
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should reach the wrapped cause")
	}
}
