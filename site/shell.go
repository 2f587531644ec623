package site

import (
	"embed"
	"html/template"
	"net/http"
	"strings"
)

//go:embed static
var staticFS embed.FS

var secretTmpl = template.Must(template.New("secret").Parse(
	`<script>window.__API_SECRET__ = {{.}};</script>`))

// serveShell serves the blank shell: the document shown for every path with
// no stored page, doubling as the first-time build interface. When an API
// secret is configured it is injected before </head> so the shell's own
// generate call can authenticate.
func (s *Service) serveShell(w http.ResponseWriter) {
	data, err := staticFS.ReadFile("static/shell.html")
	if err != nil {
		s.logger.Error("shell template missing", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	html := string(data)

	if s.cfg.APISecret != "" {
		var b strings.Builder
		if err := secretTmpl.Execute(&b, s.cfg.APISecret); err != nil {
			// Static template over a string value; execution cannot fail.
			s.logger.Error("secret render failed", "error", err)
		}
		html = strings.Replace(html, "</head>", b.String()+"</head>", 1)
	}

	serveHTML(w, html)
}
