package tool

import "fmt"

// ValidationResult is the outcome of checking a proposed tool call
// against the cached schema. Either the call is valid, or it is invalid
// with a stable, matchable reason string.
type ValidationResult struct {
	valid  bool
	reason string
}

// ValidResult returns a passing validation result.
func ValidResult() ValidationResult {
	return ValidationResult{valid: true}
}

// InvalidResult returns a failing validation result with the given reason.
func InvalidResult(reason string) ValidationResult {
	return ValidationResult{reason: reason}
}

// ToolNotFound returns the canonical failure for an unknown tool name.
func ToolNotFound(name string) ValidationResult {
	return InvalidResult(fmt.Sprintf("Tool not found: %s", name))
}

// MissingParameter returns the canonical failure for a missing required
// parameter.
func MissingParameter(param string) ValidationResult {
	return InvalidResult(fmt.Sprintf("Missing required parameter: %s", param))
}

// Valid reports whether the call passed validation.
func (v ValidationResult) Valid() bool {
	return v.valid
}

// Reason returns the failure reason, or the empty string for a valid
// result.
func (v ValidationResult) Reason() string {
	return v.reason
}
