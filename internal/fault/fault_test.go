package fault

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestNewAndIs(t *testing.T) {
	err := New(NotFound, "specification %q not found", "SPEC-01")
	if err.Error() != `specification "SPEC-01" not found` {
		t.Errorf("message = %q", err.Error())
	}
	if !Is(err, NotFound) {
		t.Error("Is should match the kind")
	}
	if Is(err, ParseError) {
		t.Error("Is must not match other kinds")
	}
	if Is(errors.New("plain"), NotFound) {
		t.Error("plain errors carry no kind")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fs.ErrNotExist
	err := Wrap(NotFound, cause, "IDS file not found: %s", "a.ids")

	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("wrapped cause should survive errors.Is")
	}
	if err.Error() != "IDS file not found: a.ids" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestIsSeesThroughWrapping(t *testing.T) {
	inner := New(InvalidVersion, "invalid IFC version: IFC9")
	outer := fmt.Errorf("adding specification: %w", inner)

	if !Is(outer, InvalidVersion) {
		t.Error("Is should unwrap fmt-wrapped faults")
	}
	kind, ok := KindOf(outer)
	if !ok || kind != InvalidVersion {
		t.Errorf("KindOf = %v, %v", kind, ok)
	}
	if _, ok := KindOf(errors.New("plain")); ok {
		t.Error("KindOf must reject plain errors")
	}
}

func TestKindStrings(t *testing.T) {
	kinds := map[Kind]string{
		NotFound:             "not_found",
		ParseError:           "parse_error",
		InvalidArgument:      "invalid_argument",
		InvalidVersion:       "invalid_version",
		MissingRequiredField: "missing_required_field",
		ConstraintViolation:  "constraint_violation",
		IndexOutOfRange:      "index_out_of_range",
		ExternalToolFailure:  "external_tool_failure",
	}
	for k, want := range kinds {
		if got := k.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", k, got, want)
		}
	}
	if got := Kind(99).String(); got != "unknown" {
		t.Errorf("unknown kind = %q", got)
	}
}
