// Package config holds the single immutable Config object: user
// agents, timeouts, standard paths, URL patterns, footer vocabulary,
// the PolicyType catalog, SpecialDomains, and validation thresholds
// (spec §4.10). Exposed as a *Config; never mutated at runtime, the way
// stormfinder's runner.Options is built once by ParseOptions and
// handed down by pointer to read-only consumers.
package config

import (
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/codebooo/policyscout/internal/perr"
	"github.com/codebooo/policyscout/internal/policytype"
)

// Config is the shared, read-only configuration surface for the whole
// discovery pipeline.
type Config struct {
	UserAgent        string
	GooglebotUA      string
	RequestTimeout   time.Duration
	OrchestratorCap  time.Duration
	MinContentLength int

	StandardPaths []string
	FooterLinkVocabulary []string
	RequiredKeywords     []string

	SpecialDomains map[string]map[policytype.Type]string

	// MetaFamilyHosts are served the Googlebot UA instead of the
	// configured browser UA because they actively reject browser
	// requests but still serve crawlers (spec §4.3 common contract).
	MetaFamilyHosts map[string]struct{}
}

// Default builds the baseline configuration. Callers may clone and
// override individual fields (e.g. from a YAML file) before use.
func Default() *Config {
	c := &Config{
		UserAgent:        "Mozilla/5.0 (compatible; PolicyScoutBot/1.0; +https://policyscout.example/bot)",
		GooglebotUA:      "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
		RequestTimeout:   10 * time.Second,
		OrchestratorCap:  15 * time.Second,
		MinContentLength: 500,

		StandardPaths: []string{
			"/privacy", "/privacy-policy", "/privacy-notice", "/privacy-statement",
			"/legal/privacy", "/policies/privacy", "/terms", "/terms-of-service",
			"/legal/terms", "/cookies", "/cookie-policy", "/legal", "/legal-notices",
			"/gdpr", "/ccpa",
		},

		FooterLinkVocabulary: []string{
			"privacy policy", "privacy notice", "privacy statement", "terms of service",
			"terms of use", "cookie policy", "legal", "datenschutz", "datenschutzerklärung",
			"politique de confidentialité", "privacidad", "privacy",
		},

		RequiredKeywords: []string{
			"personal data", "personal information", "data controller", "third party",
			"gdpr", "ccpa", "cookies", "retention", "lawful basis", "data subject",
		},

		MetaFamilyHosts: map[string]struct{}{
			"facebook.com":  {},
			"instagram.com": {},
			"whatsapp.com":  {},
			"threads.net":   {},
			"oculus.com":    {},
			"meta.com":      {},
		},
	}
	c.SpecialDomains = specialDomains()
	return c
}

// specialDomains is the static mapping overriding discovery for
// high-value hosts that actively resist crawling (spec §3 SpecialDomains).
func specialDomains() map[string]map[policytype.Type]string {
	return map[string]map[policytype.Type]string{
		"netflix.com": {
			policytype.Privacy: "https://help.netflix.com/legal/privacy",
			policytype.Terms:   "https://help.netflix.com/legal/termsofuse",
		},
		"facebook.com": {
			policytype.Privacy: "https://www.facebook.com/privacy/policy/",
			policytype.Terms:   "https://www.facebook.com/terms.php",
		},
		"instagram.com": {
			policytype.Privacy: "https://help.instagram.com/519522125107875",
		},
		"whatsapp.com": {
			policytype.Privacy: "https://www.whatsapp.com/legal/privacy-policy",
			policytype.Terms:   "https://www.whatsapp.com/legal/terms-of-service",
		},
		"threads.net": {
			policytype.Privacy: "https://help.instagram.com/519522125107875",
		},
		"meta.com": {
			policytype.Privacy: "https://www.meta.com/legal/privacy-policy/",
		},
		"steampowered.com": {
			policytype.Privacy: "https://store.steampowered.com/privacy_agreement/",
			policytype.Terms:   "https://store.steampowered.com/subscriber_agreement/",
		},
		"spotify.com": {
			policytype.Privacy: "https://www.spotify.com/us/legal/privacy-policy/",
			policytype.Terms:   "https://www.spotify.com/us/legal/end-user-agreement/",
		},
		"google.com": {
			policytype.Privacy: "https://policies.google.com/privacy",
			policytype.Terms:   "https://policies.google.com/terms",
		},
		"youtube.com": {
			policytype.Privacy: "https://policies.google.com/privacy",
		},
		"microsoft.com": {
			policytype.Privacy: "https://privacy.microsoft.com/en-us/privacystatement",
		},
		"apple.com": {
			policytype.Privacy: "https://www.apple.com/legal/privacy/en-ww/",
		},
		"amazon.com": {
			policytype.Privacy: "https://www.amazon.com/gp/help/customer/display.html?nodeId=468496",
		},
		"x.com": {
			policytype.Privacy: "https://x.com/en/privacy",
		},
		"twitter.com": {
			policytype.Privacy: "https://twitter.com/en/privacy",
		},
		"linkedin.com": {
			policytype.Privacy: "https://www.linkedin.com/legal/privacy-policy",
		},
		"tiktok.com": {
			policytype.Privacy: "https://www.tiktok.com/legal/page/us/privacy-policy/en",
		},
		"paypal.com": {
			policytype.Privacy: "https://www.paypal.com/us/legalhub/privacy-full",
		},
	}
}

// overridesFile is the on-disk shape of a user-supplied special-domain
// overrides file: domain -> policy type name -> URL.
type overridesFile struct {
	SpecialDomains map[string]map[string]string `yaml:"special_domains"`
}

// LoadOverrides reads path (a YAML file) and merges any special-domain
// overrides it declares into c.SpecialDomains, so operators can extend
// the built-in high-value-host list without a rebuild. A missing file
// is not an error.
func (c *Config) LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return &perr.ConfigError{Path: path, Err: err}
	}

	var parsed overridesFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return &perr.ConfigError{Path: path, Err: err}
	}

	for domain, byTypeName := range parsed.SpecialDomains {
		overrides, ok := c.SpecialDomains[domain]
		if !ok {
			overrides = make(map[policytype.Type]string)
			c.SpecialDomains[domain] = overrides
		}
		for typeName, url := range byTypeName {
			overrides[policytype.Type(typeName)] = url
		}
	}
	return nil
}

// StandardPathRegex compiles a single pattern matching any of the
// standard-path substrings, used by strategies that need a quick
// path-qualification test without iterating the full list.
func (c *Config) StandardPathRegex() *regexp.Regexp {
	pattern := ""
	for i, p := range c.StandardPaths {
		if i > 0 {
			pattern += "|"
		}
		pattern += regexp.QuoteMeta(p)
	}
	return regexp.MustCompile("(?i)(" + pattern + ")")
}
