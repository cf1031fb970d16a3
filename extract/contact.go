package extract

import (
	"regexp"
	"strings"
)

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phoneRe = regexp.MustCompile(`\(?\d{3}\)?[\s.\-]?\d{3}[\s.\-]?\d{4}`)
)

// contactWindow is the number of characters scanned on each side of a
// matched name for that person's email and phone. Keeping the window
// small is what keeps contact attribution local to the right person on
// multi-person pages.
const contactWindow = 250

// contactNear returns the first person-attributable email and the first
// valid phone number within the window around [start,end) in text.
func contactNear(text string, start, end int) (email, phone string) {
	lo := start - contactWindow
	if lo < 0 {
		lo = 0
	}
	hi := end + contactWindow
	if hi > len(text) {
		hi = len(text)
	}
	window := text[lo:hi]

	for _, m := range emailRe.FindAllString(window, -1) {
		if !isGenericLocalPart(m) && !isAssetEmail(m) {
			email = strings.ToLower(m)
			break
		}
	}
	for _, m := range phoneRe.FindAllString(window, -1) {
		if validPhone(m) {
			phone = strings.TrimSpace(m)
			break
		}
	}
	return email, phone
}

// pageContacts scans the whole page for organization-level contact
// channels. Generic local parts are acceptable here; the result is
// attributed to the organization, never to a person record.
func pageContacts(text string) (email, phone string) {
	for _, m := range emailRe.FindAllString(text, -1) {
		if !isAssetEmail(m) {
			email = strings.ToLower(m)
			break
		}
	}
	for _, m := range phoneRe.FindAllString(text, -1) {
		if validPhone(m) {
			phone = strings.TrimSpace(m)
			break
		}
	}
	return email, phone
}

// validPhone requires a ten-digit NANP shape with both the area code and
// the exchange in 200-999. This rejects zip+4 codes, years and other
// numeric runs the phone regex over-matches.
func validPhone(raw string) bool {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) == 11 && d[0] == '1' {
		d = d[1:]
	}
	if len(d) != 10 {
		return false
	}
	// Area code and exchange must each start with 2-9.
	return d[0] >= '2' && d[3] >= '2'
}

// isAssetEmail filters the file-name matches the email regex picks up
// out of srcset and script contents (logo@2x.png and friends).
func isAssetEmail(email string) bool {
	lower := strings.ToLower(email)
	for _, ext := range []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".css", ".js"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return strings.Contains(lower, "example.com") || strings.Contains(lower, "sentry.io")
}
