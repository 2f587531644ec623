package site

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/hazyhaar/fromblank/pagegen"
	"github.com/hazyhaar/fromblank/shield"
)

// handleGenerate drives the generate→stream→persist pipeline. Fragments are
// relayed to the caller as the backend emits them and buffered in parallel;
// the store write happens once the backend signals completion. The save is
// driven by stream completion, not by client delivery: a caller that
// disconnects mid-stream does not cancel the backend exchange, and the
// finished document is persisted anyway. Backend failures surface as errors
// and nothing is saved.
func (s *Service) handleGenerate(w http.ResponseWriter, r *http.Request) {
	logger := shield.GetLogger(r.Context())

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}
	switch req.Mode {
	case "":
		req.Mode = ModeCreate
	case ModeCreate, ModeRebuild:
	default:
		writeError(w, http.StatusBadRequest, "mode must be \"create\" or \"rebuild\"")
		return
	}

	path := normalizePath(strings.TrimSpace(req.Path))

	currentHTML := ""
	if req.Mode == ModeRebuild {
		page, err := s.store.Get(r.Context(), path)
		if err != nil {
			logger.Error("page lookup failed", "path", path, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if page != nil {
			currentHTML = page.HTMLContent
		}
		// No page yet: the rebuild proceeds as a create.
	}

	// Detached from the request context: client cancellation must not
	// abort the backend exchange or the persist step.
	ctx := context.WithoutCancel(r.Context())

	stream := s.gen.GenerateStream(ctx, req.Prompt, currentHTML)
	defer stream.Close()

	if !stream.Next() {
		logger.Error("generation failed", "path", path, "mode", req.Mode, "error", stream.Err())
		writeError(w, http.StatusBadGateway, "generation failed")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	rc := http.NewResponseController(w)

	var buf strings.Builder
	clientGone := false
	relay := func(frag string) {
		buf.WriteString(frag)
		if clientGone {
			return
		}
		if _, err := io.WriteString(w, frag); err != nil {
			clientGone = true
			logger.Debug("client went away, draining backend", "path", path)
			return
		}
		rc.Flush()
	}

	relay(stream.Text())
	for stream.Next() {
		relay(stream.Text())
	}
	if err := stream.Err(); err != nil {
		// Aborted exchange: history must not record a partial document.
		logger.Error("generation stream failed", "path", path, "error", err)
		return
	}

	full := buf.String()
	if !pagegen.LooksLikeDocument(full) {
		logger.Warn("generated output does not look like a complete HTML document",
			"path", path, "bytes", len(full))
	}

	page, err := s.store.Save(ctx, path, full, req.Prompt)
	if err != nil {
		logger.Error("page save failed", "path", path, "error", err)
		return
	}
	logger.Info("page saved",
		"path", path, "mode", req.Mode, "bytes", len(full), "prompts", len(page.PromptHistory))
}
