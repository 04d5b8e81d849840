package validation

import (
	"strings"
	"testing"
)

type scriptPayload struct {
	ScriptText string `json:"script_text" validate:"required,min=1,max=5000"`
}

func TestValidScript(t *testing.T) {
	v := New()
	if err := v.Struct(scriptPayload{ScriptText: "Hello world"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEmptyScriptRejected(t *testing.T) {
	v := New()
	err := v.Struct(scriptPayload{})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	msg := Describe(err)
	if !strings.Contains(msg, "script_text is required") {
		t.Fatalf("message = %q, want json field name in message", msg)
	}
}

func TestOverlongScriptRejected(t *testing.T) {
	v := New()
	err := v.Struct(scriptPayload{ScriptText: strings.Repeat("a", 5001)})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	msg := Describe(err)
	if !strings.Contains(msg, "script_text must be at most 5000 characters") {
		t.Fatalf("message = %q", msg)
	}
}

func TestMaxLengthScriptAccepted(t *testing.T) {
	v := New()
	if err := v.Struct(scriptPayload{ScriptText: strings.Repeat("a", 5000)}); err != nil {
		t.Fatalf("5000 characters must pass: %v", err)
	}
}
