// Package tool provides the domain types for the two-tier tool cache:
// full tool records as enumerated by a protocol server, and the
// token-minimal metadata projection sent to a model context.
package tool

// Record is the full tool definition as received from the tool-listing
// collaborator. The input schema is kept verbatim for validation and
// execution use.
type Record struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	InputSchema Schema `json:"inputSchema,omitzero"`
}

// Metadata derives the lightweight projection from the record.
// An absent description projects to the empty string.
func (r Record) Metadata() Metadata {
	return Metadata{
		Name:        r.Name,
		Description: r.Description,
	}
}
