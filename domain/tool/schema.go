package tool

import "encoding/json"

// Schema wraps a JSON Schema document. The document is treated as
// opaque except for the top-level "required" list, which the call
// validator inspects.
type Schema struct {
	raw json.RawMessage
}

// NewSchema creates a schema from raw JSON.
func NewSchema(raw json.RawMessage) Schema {
	return Schema{raw: raw}
}

// EmptySchema returns a schema that accepts any input.
func EmptySchema() Schema {
	return Schema{raw: json.RawMessage(`{}`)}
}

// ObjectSchema returns a schema for an object with the given properties.
func ObjectSchema(properties map[string]json.RawMessage, required []string) Schema {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	raw, _ := json.Marshal(schema)
	return Schema{raw: raw}
}

// Raw returns the underlying JSON schema.
func (s Schema) Raw() json.RawMessage {
	return s.raw
}

// IsEmpty returns true if the schema is empty or nil.
func (s Schema) IsEmpty() bool {
	return len(s.raw) == 0 || string(s.raw) == "{}" || string(s.raw) == "null"
}

// RequiredParams returns the top-level "required" parameter names in
// document order. An absent, null, or malformed "required" field is
// treated as an empty list.
func (s Schema) RequiredParams() []string {
	if s.IsEmpty() {
		return nil
	}
	var doc struct {
		Required []string `json:"required"`
	}
	if err := json.Unmarshal(s.raw, &doc); err != nil {
		return nil
	}
	return doc.Required
}

// Properties returns the top-level "properties" map, or nil when the
// schema has none.
func (s Schema) Properties() map[string]json.RawMessage {
	if s.IsEmpty() {
		return nil
	}
	var doc struct {
		Properties map[string]json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal(s.raw, &doc); err != nil {
		return nil
	}
	return doc.Properties
}

// IsZero reports whether the schema holds no document at all. It lets
// encoding/json omit absent schemas via the omitzero tag.
func (s Schema) IsZero() bool {
	return s.raw == nil
}

// MarshalJSON implements json.Marshaler.
func (s Schema) MarshalJSON() ([]byte, error) {
	if s.raw == nil {
		return []byte("null"), nil
	}
	return s.raw, nil
}

// UnmarshalJSON implements json.Unmarshaler. The input is copied, as
// the decoder may reuse its buffer after this returns.
func (s *Schema) UnmarshalJSON(data []byte) error {
	s.raw = append(json.RawMessage(nil), data...)
	return nil
}
