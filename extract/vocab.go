package extract

import "strings"

// credentials is the fixed vocabulary of professional suffixes recognised
// after a comma-separated name ("Jane Doe, LCSW"). Ordering does not
// matter; the alternation is sorted longest-first when compiled.
var credentials = []string{
	"PhD", "PsyD", "EdD", "MD", "DO", "MSW", "LCSW", "LICSW", "LMSW",
	"LMFT", "LPC", "LPCC", "LCPC", "LMHC", "NCC", "CADC", "CASAC",
	"CEDS", "RN", "BSN", "NP", "PA-C", "MEd", "MA", "MS", "MBA",
	"CAP", "CRC", "ATR", "BCBA", "IECA", "CEP",
}

// honorifics recognised before a name. The honorific itself becomes the
// title when no better role text is found nearby.
var honorifics = []string{"Dr", "Mr", "Ms", "Mrs", "Prof"}

// genericLocalParts are email local parts that identify a mailbox, not a
// person. Acceptable as organization-level contact only.
var genericLocalParts = map[string]struct{}{
	"info": {}, "contact": {}, "hello": {}, "admin": {}, "office": {},
	"sales": {}, "support": {}, "help": {}, "team": {}, "mail": {},
	"admissions": {}, "intake": {}, "frontdesk": {}, "reception": {},
	"webmaster": {}, "noreply": {}, "no-reply": {}, "billing": {},
	"careers": {}, "jobs": {}, "press": {}, "media": {}, "marketing": {},
}

// defaultRoleVocabulary is used by the generic source strategy when no
// category configuration is supplied.
var defaultRoleVocabulary = []string{
	"admissions director", "clinical director", "program director",
	"executive director", "medical director", "intake coordinator",
	"admissions coordinator", "educational consultant", "therapist",
	"psychologist", "psychiatrist", "counselor", "coordinator",
	"director", "consultant", "clinician",
}

// isGenericLocalPart reports whether an email address starts with a
// generic, non-person local part.
func isGenericLocalPart(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return true
	}
	local := strings.ToLower(email[:at])
	if _, ok := genericLocalParts[local]; ok {
		return true
	}
	// "info-us", "contact.form" and the like.
	for generic := range genericLocalParts {
		if strings.HasPrefix(local, generic+".") || strings.HasPrefix(local, generic+"-") {
			return true
		}
	}
	return false
}
