package engine

import (
	"regexp"
	"strings"

	"github.com/reachforge/prospector/pagetext"
)

var reNoscript = regexp.MustCompile(`<noscript[^>]*>[^<]*(enable|activate|turn on|requires?)\s+javascript`)

// LooksLikeShell uses heuristics to decide whether fetched HTML is a
// JavaScript shell with no server-rendered content, in which case only
// the render fallback will see the real page.
func LooksLikeShell(rawHTML string, minTextLen int) bool {
	bodyText := pagetext.VisibleText(rawHTML)

	// 1. Very little visible text in <body>: likely an SPA shell.
	if len(bodyText) < minTextLen {
		return true
	}

	lower := strings.ToLower(rawHTML)

	// 2. Empty SPA root containers.
	if strings.Contains(lower, `<div id="root"></div>`) ||
		strings.Contains(lower, `<div id="app"></div>`) ||
		strings.Contains(lower, `<div id="__next"></div>`) {
		return true
	}

	// 3. <noscript> with a JS-required warning.
	if reNoscript.MatchString(lower) {
		return true
	}

	// 4. Many <script> tags plus little body text: JS-heavy page.
	if strings.Count(lower, "<script") > 10 && len(bodyText) < minTextLen*3 {
		return true
	}

	return false
}
