package validate

// The deny lists below are the engine's primary false-positive defence.
// They are package-level tables built once at init and never mutated.

// genericTokens are words that appear capitalised in navigation, marketing
// copy and institutional text, and regularly get mis-captured as name
// tokens. Any candidate containing one of these is rejected outright.
var genericTokens = newSet(
	// institutional
	"educational", "services", "service", "center", "centers", "treatment",
	"therapy", "wellness", "health", "healthcare", "recovery", "admissions",
	"program", "programs", "academy", "school", "schools", "institute",
	"hospital", "clinic", "facility", "foundation", "association",
	// web UI / marketing
	"contact", "learn", "more", "about", "home", "team", "staff", "menu",
	"search", "click", "read", "view", "page", "login", "signup", "email",
	"phone", "call", "today", "now", "here", "info", "online", "website",
	"privacy", "policy", "terms", "copyright", "rights", "reserved",
	// stop words
	"the", "and", "for", "with", "our", "your", "all", "new", "get", "how",
	"why", "what", "who", "this", "that", "from", "into",
)

// deniedLeading are adjectives and qualifiers that precede nouns in prose
// ("Licensed Therapist", "Certified Counselor") and superficially fit the
// capitalised first-name slot.
var deniedLeading = newSet(
	"licensed", "certified", "clinical", "registered", "board",
	"experienced", "dedicated", "compassionate", "professional",
	"senior", "lead", "chief", "primary", "trusted", "caring",
	"national", "american", "independent", "private", "virtual",
)

// roleWords are job-title nouns. A candidate whose last token is a role
// word is a "Title Role" pair mis-parsed as first/last name.
var roleWords = newSet(
	"therapist", "therapists", "coordinator", "director", "counselor",
	"counselors", "psychologist", "psychiatrist", "consultant",
	"administrator", "manager", "specialist", "clinician", "advisor",
	"assistant", "physician", "nurse", "practitioner", "worker",
	"admissions", "intake", "outreach", "staff", "team",
)

// famousNames catches quoted testimonials and endorsement blurbs. Exact
// match against the full normalised name.
var famousNames = newSet(
	"tony robbins", "oprah winfrey", "brene brown", "mel robbins",
	"taylor swift", "michael jordan", "tom brady", "serena williams",
	"albert einstein", "abraham lincoln", "dalai lama", "michelle obama",
	"barack obama", "bill gates", "steve jobs", "elon musk",
	"jordan peterson", "gabor mate", "carl jung", "sigmund freud",
)

// jobTitlePhrases are two- and three-token title phrases that pass the
// structural name shape. Exact match against the full normalised name.
var jobTitlePhrases = newSet(
	"case manager", "office manager", "front desk", "social worker",
	"admissions director", "admissions coordinator", "clinical director",
	"program director", "executive director", "medical director",
	"intake coordinator", "outreach coordinator", "clinical supervisor",
	"admissions team", "care team", "support staff", "crisis line",
	"family therapist", "group therapist", "art therapist",
	"school counselor", "guidance counselor", "academic advisor",
)

func newSet(words ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}
