package tool

import "testing"

func TestValidationResult(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		res := ValidResult()
		if !res.Valid() {
			t.Error("ValidResult().Valid() = false, want true")
		}
		if res.Reason() != "" {
			t.Errorf("ValidResult().Reason() = %q, want empty", res.Reason())
		}
	})

	t.Run("invalid", func(t *testing.T) {
		res := InvalidResult("bad call")
		if res.Valid() {
			t.Error("InvalidResult().Valid() = true, want false")
		}
		if res.Reason() != "bad call" {
			t.Errorf("Reason() = %q, want %q", res.Reason(), "bad call")
		}
	})

	t.Run("tool not found reason", func(t *testing.T) {
		res := ToolNotFound("ghost")
		if res.Valid() {
			t.Error("ToolNotFound().Valid() = true, want false")
		}
		if got, want := res.Reason(), "Tool not found: ghost"; got != want {
			t.Errorf("Reason() = %q, want %q", got, want)
		}
	})

	t.Run("missing parameter reason", func(t *testing.T) {
		res := MissingParameter("query")
		if res.Valid() {
			t.Error("MissingParameter().Valid() = true, want false")
		}
		if got, want := res.Reason(), "Missing required parameter: query"; got != want {
			t.Errorf("Reason() = %q, want %q", got, want)
		}
	})
}
