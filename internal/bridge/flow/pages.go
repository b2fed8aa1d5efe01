package flow

import (
	"net/url"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Terminal page patterns, matched against the origin-relative path. Each page
// matches as a prefix, so localized and nested variants count too.
var (
	pendingPatterns  = []string{"/pending-offer*", "/pending-offer*/**"}
	canceledPatterns = []string{"/canceled-offer*", "/canceled-offer*/**"}
)

// Pages answers URL questions relative to one web origin.
type Pages struct {
	origin string
}

// NewPages builds a matcher for origin. A trailing slash is ignored.
func NewPages(origin string) Pages {
	return Pages{origin: strings.TrimRight(origin, "/")}
}

// Origin returns the web origin without trailing slash.
func (p Pages) Origin() string { return p.origin }

// Inside reports whether raw is served from the web origin.
func (p Pages) Inside(raw string) bool {
	if !strings.HasPrefix(raw, p.origin) {
		return false
	}
	rest := raw[len(p.origin):]
	return rest == "" || strings.ContainsAny(rest[:1], "/?#")
}

// IsRoot reports whether raw is the bare origin.
func (p Pages) IsRoot(raw string) bool {
	return p.Inside(raw) && strings.Trim(p.relPath(raw), "/") == ""
}

// IsPending reports whether raw is the pending-offer page.
func (p Pages) IsPending(raw string) bool {
	return p.matchAny(pendingPatterns, raw)
}

// IsCanceled reports whether raw is the canceled-offer page.
func (p Pages) IsCanceled(raw string) bool {
	return p.matchAny(canceledPatterns, raw)
}

// IsTerminal reports whether raw is a pending or canceled page.
func (p Pages) IsTerminal(raw string) bool {
	return p.IsPending(raw) || p.IsCanceled(raw)
}

// IsLogin reports whether raw is the login page.
func (p Pages) IsLogin(raw string) bool {
	return strings.HasPrefix(raw, p.origin+PathLogin)
}

// SamePage reports whether a and b are the same page of the origin. Query
// strings, fragments and a trailing slash are ignored.
func (p Pages) SamePage(a, b string) bool {
	if !p.Inside(a) || !p.Inside(b) {
		return false
	}
	return strings.TrimRight(p.relPath(a), "/") == strings.TrimRight(p.relPath(b), "/")
}

// Absolute joins a path suffix onto the origin.
func (p Pages) Absolute(suffix string) string {
	if suffix == "" {
		return p.origin
	}
	if !strings.HasPrefix(suffix, "/") {
		suffix = "/" + suffix
	}
	return p.origin + suffix
}

func (p Pages) matchAny(patterns []string, raw string) bool {
	if !p.Inside(raw) {
		return false
	}
	path := p.relPath(raw)
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

func (p Pages) relPath(raw string) string {
	rest := raw[len(p.origin):]
	if u, err := url.Parse(rest); err == nil {
		rest = u.Path
	} else if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}
	if rest == "" {
		return "/"
	}
	return rest
}
