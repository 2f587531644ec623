package site

import (
	stdhtml "html"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// promptPolicy strips any markup from stored prompts before they are seeded
// back into the overlay textarea. Contextual escaping is the template's
// job; this removes tags a hostile prompt might carry.
var promptPolicy = bluemonday.StrictPolicy()

type overlayData struct {
	Path       string
	LastPrompt string
	APISecret  string
}

// Rendered via html/template so every interpolation gets its
// context-appropriate escaping: Path and LastPrompt as HTML text, Path and
// APISecret as JS string values inside the script.
var overlayTmpl = template.Must(template.New("overlay").Parse(`{{if .APISecret}}<script>window.__API_SECRET__ = {{.APISecret}};</script>
{{end}}<div id="build-overlay">
  <div class="overlay-card">
    <div class="overlay-path">{{.Path}}</div>
    <form id="rebuild-form">
      <textarea id="rebuild-prompt" placeholder="Describe what to change...">{{.LastPrompt}}</textarea>
      <div class="overlay-actions">
        <button type="button" class="btn-cancel" onclick="cancelOverlay()">Cancel</button>
        <button type="submit" class="btn-build" id="rebuild-btn">Build</button>
      </div>
      <div class="overlay-error" id="rebuild-error"></div>
      <div class="overlay-building" id="rebuild-building">
        <div class="spinner-small"></div>
        <span>Building...</span>
      </div>
    </form>
  </div>
</div>
<link rel="stylesheet" href="/static/shell.css">
<script>
function cancelOverlay() {
    window.location.href = window.location.pathname;
}

document.getElementById('rebuild-form').addEventListener('submit', async (e) => {
    e.preventDefault();
    const prompt = document.getElementById('rebuild-prompt').value.trim();
    if (!prompt) return;

    const btn = document.getElementById('rebuild-btn');
    const building = document.getElementById('rebuild-building');
    const errorEl = document.getElementById('rebuild-error');

    btn.disabled = true;
    building.style.display = 'flex';
    errorEl.style.display = 'none';

    try {
        const headers = { 'Content-Type': 'application/json' };
        if (window.__API_SECRET__) {
            headers['Authorization'] = 'Bearer ' + window.__API_SECRET__;
        }
        const response = await fetch('/api/generate', {
            method: 'POST',
            headers: headers,
            body: JSON.stringify({ path: {{.Path}}, prompt: prompt, mode: 'rebuild' })
        });
        if (!response.ok) {
            throw new Error('Generation failed: ' + response.statusText);
        }

        const reader = response.body.getReader();
        const decoder = new TextDecoder();
        let html = '';
        while (true) {
            const { done, value } = await reader.read();
            if (done) break;
            html += decoder.decode(value, { stream: true });
        }
        html += decoder.decode();

        document.open();
        document.write(html);
        document.close();
        window.history.replaceState({}, '', window.location.pathname);
    } catch (err) {
        errorEl.textContent = err.message;
        errorEl.style.display = 'block';
        btn.disabled = false;
        building.style.display = 'none';
    }
});

document.addEventListener('keydown', (e) => {
    if (e.key === 'Escape') cancelOverlay();
});
</script>
`))

// buildOverlay renders the build-overlay fragment for path, seeding the
// textarea with the page's most recent prompt.
func (s *Service) buildOverlay(path, lastPrompt string) string {
	var b strings.Builder
	err := overlayTmpl.Execute(&b, overlayData{
		Path:       path,
		LastPrompt: sanitizePrompt(lastPrompt),
		APISecret:  s.cfg.APISecret,
	})
	if err != nil {
		// Static template over string fields; execution cannot fail.
		s.logger.Error("overlay render failed", "error", err)
	}
	return b.String()
}

// sanitizePrompt strips markup, then undoes the sanitizer's entity escaping
// so the template does not double-escape plain text.
func sanitizePrompt(p string) string {
	return stdhtml.UnescapeString(promptPolicy.Sanitize(p))
}

// injectOverlay places the overlay fragment immediately before the last
// closing body tag, matched case-insensitively. Documents without one get
// the fragment appended at the end.
func injectOverlay(doc, overlay string) string {
	if i := lastBodyClose(doc); i >= 0 {
		return doc[:i] + overlay + doc[i:]
	}
	return doc + overlay
}

func lastBodyClose(doc string) int {
	const tag = "</body>"
	for i := len(doc) - len(tag); i >= 0; i-- {
		if strings.EqualFold(doc[i:i+len(tag)], tag) {
			return i
		}
	}
	return -1
}
