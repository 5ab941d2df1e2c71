package tool

// Metadata is the token-minimal projection of a tool: name and
// description only. It must never carry schema data, so that listing
// all tools to a model context stays cheap regardless of schema size.
type Metadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
