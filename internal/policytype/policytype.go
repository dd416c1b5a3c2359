// Package policytype defines the closed PolicyType taxonomy and its
// per-type standard paths and validation keywords, as described in
// spec §3 and §4.10.
package policytype

// Type is a closed tagged variant, not a class hierarchy, per the
// "sum types over inheritance" design note.
type Type string

const (
	Privacy        Type = "privacy"
	Terms          Type = "terms"
	Cookies        Type = "cookies"
	Security       Type = "security"
	GDPR           Type = "gdpr"
	CCPA           Type = "ccpa"
	AI             Type = "ai"
	AcceptableUse  Type = "acceptable_use"
)

// All lists every PolicyType in a stable, declaration order.
func All() []Type {
	return []Type{Privacy, Terms, Cookies, Security, GDPR, CCPA, AI, AcceptableUse}
}

// Info holds the static catalog entry for one PolicyType: its display
// name, candidate standard URL paths, and validation keyword set.
type Info struct {
	Type         Type
	DisplayName  string
	StandardPaths []string
	Keywords     []string
}

// catalog is immutable once built; never mutated at runtime (§4.10).
var catalog = map[Type]Info{
	Privacy: {
		Type:        Privacy,
		DisplayName: "Privacy Policy",
		StandardPaths: []string{
			"/privacy", "/privacy-policy", "/privacy-notice", "/privacy-statement",
			"/legal/privacy", "/policies/privacy", "/about/privacy",
			"/datenschutz", "/datenschutzerklaerung", "/politique-de-confidentialite",
			"/privacidad", "/privacy.html",
		},
		Keywords: []string{
			"personal data", "personal information", "data controller", "data processor",
			"collect", "process", "third party", "cookies", "gdpr", "ccpa",
		},
	},
	Terms: {
		Type:        Terms,
		DisplayName: "Terms of Service",
		StandardPaths: []string{
			"/terms", "/terms-of-service", "/terms-of-use", "/tos",
			"/legal/terms", "/legal/termsofuse", "/conditions-generales",
		},
		Keywords: []string{
			"terms of service", "terms of use", "agreement", "governing law",
			"limitation of liability", "disclaimer", "arbitration",
		},
	},
	Cookies: {
		Type:        Cookies,
		DisplayName: "Cookie Policy",
		StandardPaths: []string{
			"/cookies", "/cookie-policy", "/legal/cookies", "/cookie-notice",
		},
		Keywords: []string{"cookie", "tracking technologies", "web beacon", "local storage"},
	},
	Security: {
		Type:        Security,
		DisplayName: "Security Policy",
		StandardPaths: []string{
			"/security", "/security-policy", "/legal/security", "/.well-known/security.txt",
		},
		Keywords: []string{"vulnerability", "responsible disclosure", "security policy", "bug bounty"},
	},
	GDPR: {
		Type:        GDPR,
		DisplayName: "GDPR Notice",
		StandardPaths: []string{
			"/gdpr", "/legal/gdpr", "/gdpr-compliance", "/dsgvo",
		},
		Keywords: []string{"gdpr", "data subject rights", "lawful basis", "article 6", "article 13"},
	},
	CCPA: {
		Type:        CCPA,
		DisplayName: "CCPA Notice",
		StandardPaths: []string{
			"/ccpa", "/legal/ccpa", "/do-not-sell", "/california-privacy-rights",
		},
		Keywords: []string{"ccpa", "do not sell", "california consumer", "opt-out"},
	},
	AI: {
		Type:        AI,
		DisplayName: "AI Policy",
		StandardPaths: []string{
			"/ai-policy", "/legal/ai", "/responsible-ai", "/ai-use-policy",
		},
		Keywords: []string{"artificial intelligence", "machine learning", "automated decision", "ai model"},
	},
	AcceptableUse: {
		Type:        AcceptableUse,
		DisplayName: "Acceptable Use Policy",
		StandardPaths: []string{
			"/aup", "/acceptable-use", "/legal/acceptable-use", "/usage-policy",
		},
		Keywords: []string{"acceptable use", "prohibited conduct", "misuse", "abuse policy"},
	},
}

// Lookup returns the catalog entry for t, and whether it exists.
func Lookup(t Type) (Info, bool) {
	info, ok := catalog[t]
	return info, ok
}

// Default is the PolicyType a PolicyCandidate assumes when none is given.
const Default = Privacy
