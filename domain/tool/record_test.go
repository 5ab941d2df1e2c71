package tool

import (
	"encoding/json"
	"testing"
)

func TestRecord_Metadata(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		want   Metadata
	}{
		{
			name: "name and description",
			record: Record{
				Name:        "search",
				Description: "Search the web",
				InputSchema: ObjectSchema(nil, []string{"query"}),
			},
			want: Metadata{Name: "search", Description: "Search the web"},
		},
		{
			name:   "absent description defaults to empty",
			record: Record{Name: "calc"},
			want:   Metadata{Name: "calc", Description: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.record.Metadata()
			if got != tt.want {
				t.Errorf("Metadata() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRecord_JSONRoundTrip(t *testing.T) {
	raw := []byte(`{"name":"search","description":"Search the web","inputSchema":{"type":"object","required":["query"]}}`)

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if rec.Name != "search" {
		t.Errorf("Name = %q, want %q", rec.Name, "search")
	}
	if got := rec.InputSchema.RequiredParams(); len(got) != 1 || got[0] != "query" {
		t.Errorf("RequiredParams() = %v, want [query]", got)
	}

	out, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("Unmarshal(marshaled) error = %v", err)
	}
	if _, ok := doc["inputSchema"]; !ok {
		t.Error("marshaled record missing inputSchema")
	}
}

func TestRecord_MarshalOmitsAbsentSchema(t *testing.T) {
	out, err := json.Marshal(Record{Name: "calc"})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if _, ok := doc["inputSchema"]; ok {
		t.Errorf("marshaled record contains inputSchema for schema-less tool: %s", out)
	}
}
