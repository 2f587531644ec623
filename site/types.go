package site

import "context"

// Generation modes accepted by the API.
const (
	ModeCreate  = "create"
	ModeRebuild = "rebuild"
)

// GenerateRequest is the body of POST /api/generate. Transient: never
// persisted as such, only the prompt ends up in the page's history.
type GenerateRequest struct {
	Path   string `json:"path"`
	Prompt string `json:"prompt"`
	Mode   string `json:"mode"`
}

// TextStream is a finite sequence of generated text fragments whose
// in-order concatenation is the complete document.
type TextStream interface {
	Next() bool
	Text() string
	Err() error
	Close() error
}

// Generator produces page documents. Implemented by pagegen.Client; the
// currentHTML argument carries the existing document for rebuilds and is
// empty for create-mode generation.
type Generator interface {
	GenerateStream(ctx context.Context, prompt, currentHTML string) TextStream
}
