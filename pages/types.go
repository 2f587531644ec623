package pages

// Page is a generated page persisted under its normalized path.
type Page struct {
	// Path is the primary key. Always begins with "/".
	Path string `json:"path"`

	// HTMLContent is the latest generated version of the document.
	HTMLContent string `json:"html_content"`

	// PromptHistory records every instruction ever applied to this page,
	// oldest first. Append-only: never reordered, never deduplicated.
	PromptHistory []string `json:"prompt_history"`

	// CreatedAt is fixed at the first save, UpdatedAt refreshed on every
	// subsequent save. Both are ISO-8601 UTC.
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// LastPrompt returns the most recent instruction, or "" for an empty history.
func (p *Page) LastPrompt() string {
	if len(p.PromptHistory) == 0 {
		return ""
	}
	return p.PromptHistory[len(p.PromptHistory)-1]
}
