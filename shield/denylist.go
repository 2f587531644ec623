package shield

import (
	"path"
	"strings"
)

// Well-known paths that scanners probe. Matched case-insensitively against
// the normalized request path.
var blockedPaths = map[string]struct{}{
	"/robots.txt": {}, "/sitemap.xml": {}, "/config.json": {},
	"/package.json": {}, "/composer.json": {}, "/.env": {},
	"/.git/config": {}, "/wp-login.php": {}, "/wp-admin": {},
	"/admin": {}, "/administrator": {}, "/.well-known": {},
	"/favicon.ico": {}, "/sse": {}, "/mcp": {}, "/mcp-sse": {},
	"/graphql": {}, "/api": {}, "/api/": {}, "/.git": {}, "/.svn": {},
	"/.ds_store": {}, "/xmlrpc.php": {}, "/wp-cron.php": {},
	"/server-status": {}, "/server-info": {},
}

// File extensions that are never valid page paths. Scanners probe these
// looking for leaked configuration and backups.
var blockedExtensions = map[string]struct{}{
	".txt": {}, ".xml": {}, ".json": {}, ".env": {}, ".yml": {},
	".yaml": {}, ".php": {}, ".asp": {}, ".aspx": {}, ".jsp": {},
	".cgi": {}, ".pl": {}, ".bak": {}, ".old": {}, ".orig": {},
	".swp": {}, ".sql": {}, ".db": {}, ".log": {}, ".ini": {},
	".cfg": {}, ".conf": {}, ".toml": {}, ".htaccess": {},
	".htpasswd": {}, ".git": {}, ".svn": {}, ".ds_store": {}, ".ico": {},
}

// Probe reports whether p matches the scanner denylist, either as a
// well-known probe path or by file extension. Callers still serve pages
// that exist at the exact path: the denylist only decides the fate of
// absent pages, so a blocked probe is indistinguishable from a genuinely
// missing page.
func Probe(p string) bool {
	lower := strings.ToLower(p)
	if _, ok := blockedPaths[lower]; ok {
		return true
	}
	if ext := path.Ext(lower); ext != "" {
		if _, ok := blockedExtensions[ext]; ok {
			return true
		}
	}
	return false
}
