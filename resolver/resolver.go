// Package resolver discovers individual profile-page URLs on a
// directory/listing page, the first hop of a two-hop crawl. Directories
// interleave real profile links with browse, pagination and category
// links; the URL-shape rules here keep only the former.
package resolver

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/reachforge/prospector/pagetext"
)

// numericID matches the numeric identifier segment that the supported
// directories put at the end of every profile path.
var numericID = regexp.MustCompile(`^[0-9]{4,}$`)

// browseSegments are path segments that mark category/browse/pagination
// pages, never individual profiles.
var browseSegments = map[string]struct{}{
	"browse": {}, "category": {}, "categories": {}, "page": {},
	"search": {}, "results": {}, "login": {}, "signup": {},
	"about": {}, "contact": {}, "blog": {}, "articles": {},
}

// ResolveProfiles extracts profile-page URLs from a listing page.
//
// Relative hrefs are resolved against the listing URL; duplicates are
// dropped; first-seen document order is preserved so page-top relevance
// carries through; the result is capped at maxProfiles. An empty result
// is a normal outcome -- the caller extracts from the listing directly.
func ResolveProfiles(listingURL, rawHTML string, maxProfiles int) []string {
	base, err := url.Parse(listingURL)
	if err != nil {
		return nil
	}

	var profiles []string
	for _, link := range pagetext.Links(rawHTML, listingURL) {
		if maxProfiles > 0 && len(profiles) >= maxProfiles {
			break
		}
		u, err := url.Parse(link.Href)
		if err != nil {
			continue
		}
		if isProfileURL(u, base) {
			profiles = append(profiles, link.Href)
		}
	}
	return profiles
}

// isProfileURL applies the source-specific URL-shape rules.
func isProfileURL(u, base *url.URL) bool {
	// Profiles live on the listing's own site.
	if !strings.EqualFold(u.Hostname(), base.Hostname()) {
		return false
	}
	// Query strings mark filtered/browse views, not profiles.
	if u.RawQuery != "" || u.Fragment != "" {
		return false
	}
	// The listing page itself is not a profile.
	if u.Path == base.Path || u.Path == "" || u.Path == "/" {
		return false
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	hasID := false
	for _, seg := range segments {
		if _, banned := browseSegments[strings.ToLower(seg)]; banned {
			return false
		}
		if numericID.MatchString(seg) {
			hasID = true
		}
	}
	return hasID
}
