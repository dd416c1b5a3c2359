// Package validator implements ContentValidator: quick-rejecting
// obviously-wrong pages, then scoring the rest on multilingual term
// density, high-confidence keyword/bigram hits, topic coverage, and
// positive/negative indicator regexes, finally blending in Carl's
// neural opinion on borderline scores (spec §4.5).
package validator

import (
	"context"
	"io"
	"regexp"
	"strings"

	"github.com/codebooo/policyscout/internal/candidate"
	"github.com/codebooo/policyscout/internal/config"
	"github.com/codebooo/policyscout/internal/httpx"
	"github.com/codebooo/policyscout/internal/logging"
	"github.com/codebooo/policyscout/internal/multilingual"
	"github.com/codebooo/policyscout/internal/neural"
	"github.com/codebooo/policyscout/internal/perr"
)

// quickRejectNegativeMarkers are strong signals the page is a social
// profile, a news article, or a company-directory listing rather than
// a policy document.
var quickRejectNegativeMarkers = []string{
	"min read", "published ", "connections on linkedin", "followers",
	"posts about this", "like this post", "comment on this",
}

// companyDirectoryTriple: all three must be present for a quick
// reject, since any single one of these words appears on real policy
// pages too.
var companyDirectoryTriple = []string{"company size", "industry", "headquarters"}

// highConfidenceKeywords are single terms that, empirically, show up
// overwhelmingly in real privacy/terms/legal documents and rarely
// anywhere else.
var highConfidenceKeywords = []string{
	"personal data", "personal information", "data controller", "data processor",
	"data subject", "lawful basis", "legitimate interest", "third party",
	"third parties", "data retention", "retention period", "right to access",
	"right to erasure", "right to be forgotten", "right to object",
	"data protection officer", "supervisory authority", "consent withdrawal",
	"opt out", "opt-out", "do not sell", "do not share", "sensitive personal information",
	"data breach", "cross-border transfer", "standard contractual clauses",
	"anonymized data", "pseudonymized data", "cookies and similar technologies",
	"tracking technologies", "children's privacy", "parental consent",
	"california consumer privacy act", "general data protection regulation",
	"data minimization", "purpose limitation", "data subject rights",
	"information we collect", "how we use your information",
	"how we share your information", "your choices", "your rights",
	"contact our privacy team", "privacy shield",
}

// highConfidenceBigrams catch two-word phrases that standalone
// keywords miss.
var highConfidenceBigrams = []string{
	"personal data", "legitimate interest", "data subject", "third party",
	"lawful basis", "data controller", "data processor", "opt out",
	"data retention", "privacy policy", "terms of service", "cookie policy",
	"data protection", "data breach", "data minimization", "purpose limitation",
	"sensitive data", "parental consent", "children's privacy", "do not sell",
	"data transfer", "supervisory authority", "right to", "data subject's rights",
	"privacy shield",
}

// topicsByLanguage is a small per-language set of required-topic
// markers; English carries the fullest set since it is always
// searched regardless of detected language.
var topicsByLanguage = map[string][]string{
	"en": {
		"information we collect", "how we use", "how we share", "cookies",
		"your rights", "data retention", "security", "children", "changes to this policy",
		"contact us", "third party", "international transfer", "legal basis",
		"opt out", "data controller",
	},
	"de": {
		"welche daten wir erheben", "wie wir daten verwenden", "cookies",
		"ihre rechte", "speicherdauer", "sicherheit", "kinder", "änderungen",
		"kontakt", "dritte", "rechtsgrundlage",
	},
	"fr": {
		"données que nous collectons", "comment nous utilisons", "cookies",
		"vos droits", "conservation des données", "sécurité", "enfants",
		"modifications", "nous contacter", "tiers",
	},
	"es": {
		"datos que recopilamos", "cómo utilizamos", "cookies", "sus derechos",
		"retención de datos", "seguridad", "niños", "cambios", "contáctenos",
	},
	"it": {
		"dati che raccogliamo", "come utilizziamo", "cookie", "i tuoi diritti",
		"conservazione dei dati", "sicurezza", "minori", "modifiche", "contattaci",
	},
	"pt": {
		"dados que coletamos", "como usamos", "cookies", "seus direitos",
		"retenção de dados", "segurança", "crianças", "alterações", "contate-nos",
	},
	"nl": {
		"gegevens die we verzamelen", "hoe we gegevens gebruiken", "cookies",
		"uw rechten", "bewaartermijn", "beveiliging", "kinderen", "wijzigingen",
	},
	"sv": {"personuppgifter", "cookies", "dina rättigheter", "säkerhet", "barn"},
	"da": {"personoplysninger", "cookies", "dine rettigheder", "sikkerhed", "børn"},
	"no": {"personopplysninger", "informasjonskapsler", "dine rettigheter", "sikkerhet"},
	"fi": {"henkilötiedot", "evästeet", "oikeutesi", "turvallisuus"},
	"pl": {"dane osobowe", "pliki cookie", "twoje prawa", "bezpieczeństwo"},
	"ru": {"персональные данные", "файлы cookie", "ваши права", "безопасность"},
	"zh": {"个人信息", "我们如何使用", "您的权利", "安全", "联系我们"},
}

// positiveIndicators raise confidence that a page is a maintained,
// substantive policy document.
var positiveIndicators = compileAll([]string{
	`last updated`, `effective date`, `this policy was last revised`,
	`art\.\s*\d+\s*gdpr`, `article\s*\d+\s*of\s*the\s*gdpr`,
	`do not sell`, `do not share my personal information`,
	`right to (access|erasure|rectification|object|portability)`,
	`data protection officer`, `supervisory authority`, `lawful basis`,
	`we may update this`, `version \d+\.\d+`, `in compliance with`,
	`pursuant to`, `california consumer privacy act`, `general data protection regulation`,
	`opt.?out`, `withdraw (your )?consent`, `cookie settings`, `table of contents`,
	`questions (about|regarding) this policy`, `data protection authority`,
	`we take your privacy seriously`, `this privacy policy applies to`,
})

// negativeIndicators share the quickReject family but run against the
// full scored body rather than short-circuiting it.
var negativeIndicators = compileAll([]string{
	`\d+\s*min read`, `published\s+\d+\s*(hours?|days?|minutes?)\s*ago`,
	`company size`, `headquarters`, `industry:`, `followers`, `connections`,
	`add to cart`, `shopping cart`, `checkout now`, `sign in to continue`,
	`log in to view`, `page not found`, `404`, `access denied`,
	`enable javascript`, `under construction`, `subscribe to our newsletter`,
	`follow us on`, `share this article`,
})

func compileAll(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(`(?i)` + p)
	}
	return out
}

// Metrics holds everything ContentValidator computes over a lowercased
// body (spec §4.5).
type Metrics struct {
	Chars             int
	Words             int
	MultilingualCount int
	MultilingualTerms []string
	HighConfKeywords  int
	Bigrams           int
	Topics            int
	Positive          int
	Negative          int
	Confidence        int
	Valid             bool
}

// Validator fetches and scores candidate content.
type Validator struct {
	client  *httpx.Client
	cfg     *config.Config
	catalog *multilingual.Catalog
	scorer  *neural.Scorer
}

// New builds a Validator. scorer may be nil, in which case validation
// falls back to the heuristic score alone.
func New(client *httpx.Client, cfg *config.Config, scorer *neural.Scorer) *Validator {
	return &Validator{client: client, cfg: cfg, catalog: multilingual.Default, scorer: scorer}
}

// fetchBody performs the rate-limited GET and returns the raw body, or
// a perr.ValidationInconclusive for fetch failures and non-2xx status.
func (v *Validator) fetchBody(ctx context.Context, rawURL string) (string, error) {
	resp, err := v.client.Get(ctx, rawURL)
	if err != nil {
		return "", &perr.ValidationInconclusive{URL: rawURL, Reason: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &perr.ValidationInconclusive{URL: rawURL, Reason: "non-2xx status"}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 5<<20))
	if err != nil {
		return "", &perr.ValidationInconclusive{URL: rawURL, Reason: err.Error()}
	}
	return string(body), nil
}

// quickReject returns true and a reason iff body fails one of the
// cheap, decisive checks before any scoring is attempted (spec §4.5).
func (v *Validator) quickReject(lower string) (bool, string) {
	if len(lower) < 200 {
		return true, "body too short"
	}
	for _, marker := range quickRejectNegativeMarkers {
		if strings.Contains(lower, marker) {
			return true, "negative marker: " + marker
		}
	}
	directoryHits := 0
	for _, term := range companyDirectoryTriple {
		if strings.Contains(lower, term) {
			directoryHits++
		}
	}
	if directoryHits == len(companyDirectoryTriple) {
		return true, "company-directory listing"
	}
	if hits, _ := v.catalog.TermHits(lower); hits == 0 {
		return true, "no multilingual privacy terms"
	}
	return false, ""
}

// Analyze runs ContentValidator's quickReject and scoring pass over
// body, returning the full metric breakdown (spec §4.5).
func (v *Validator) Analyze(body string) Metrics {
	lower := strings.ToLower(body)

	if rejected, _ := v.quickReject(lower); rejected {
		return Metrics{Chars: len(lower), Valid: false}
	}

	m := Metrics{
		Chars: len(lower),
		Words: len(strings.Fields(lower)),
	}
	m.MultilingualCount, m.MultilingualTerms = v.catalog.TermHits(lower)
	m.HighConfKeywords = countContains(lower, highConfidenceKeywords)
	m.Bigrams = countContains(lower, highConfidenceBigrams)
	m.Topics = countTopics(lower)
	m.Positive = countMatches(lower, positiveIndicators)
	m.Negative = countMatches(lower, negativeIndicators)

	m.Confidence = confidenceFor(m)
	m.Valid = isValid(m)
	return m
}

func countContains(lower string, terms []string) int {
	count := 0
	for _, t := range terms {
		if strings.Contains(lower, t) {
			count++
		}
	}
	return count
}

func countMatches(lower string, patterns []*regexp.Regexp) int {
	count := 0
	for _, p := range patterns {
		if p.MatchString(lower) {
			count++
		}
	}
	return count
}

// countTopics sums required-topic hits across every known language;
// English is always included regardless of detected language, per
// spec §4.5.
func countTopics(lower string) int {
	total := 0
	for _, topics := range topicsByLanguage {
		for _, topic := range topics {
			if strings.Contains(lower, topic) {
				total++
			}
		}
	}
	return total
}

// confidenceFor implements spec §4.5's additive formula.
func confidenceFor(m Metrics) int {
	score := 40
	switch {
	case m.Chars >= 10000:
		score += 10 + 10 + 5
	case m.Chars >= 5000:
		score += 10 + 10
	case m.Chars >= 2000:
		score += 10
	case m.Chars < 500:
		score -= 30
	}
	if m.MultilingualCount >= 20 {
		score += 10 + 5
	} else if m.MultilingualCount >= 10 {
		score += 10
	}
	keywordScore := 2*m.HighConfKeywords + 5*m.Bigrams
	if keywordScore > 30 {
		keywordScore = 30
	}
	score += keywordScore
	if m.Topics >= 10 {
		score += 10 + 10
	} else if m.Topics >= 5 {
		score += 10
	}
	score += 3*m.Positive - 5*m.Negative

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// isValid implements spec §4.5's validity predicate.
func isValid(m Metrics) bool {
	return m.Chars >= 500 &&
		(m.MultilingualCount >= 3 || m.HighConfKeywords >= 5) &&
		(m.Topics >= 2 || m.Bigrams >= 3) &&
		m.Negative <= m.Positive+2 &&
		m.Confidence >= 40
}

// shouldDeepSearch reports whether an invalid page is still promising
// enough to try alternates instead of just penalizing it (spec §4.2
// Phase 3: body > 500 chars, quick-reject did not trigger).
func (v *Validator) shouldDeepSearch(body string) bool {
	lower := strings.ToLower(body)
	if len(lower) <= 500 {
		return false
	}
	rejected, _ := v.quickReject(lower)
	return !rejected
}

// Outcome is everything the orchestrator needs to run Phase 3's
// valid/penalize/alternate-retry decision without re-fetching or
// re-scoring (spec §4.2 Phase 3).
type Outcome struct {
	// Candidate is c with its confidence adjusted per the "Valid"
	// formula and, when valid and still borderline, Carl's blend. It
	// is only meaningful when Valid is true; callers in the invalid
	// branches compute their own adjustment from the original candidate.
	Candidate        candidate.PolicyCandidate
	Valid            bool
	ShouldDeepSearch bool
	Inconclusive     bool
	ValidatorScore   int
}

// Inspect fetches and scores c, returning enough detail for the
// orchestrator to decide whether to keep it, penalize it, or move on
// to the next candidate of the same type.
func (v *Validator) Inspect(ctx context.Context, c candidate.PolicyCandidate) Outcome {
	body, err := v.fetchBody(ctx, c.URL)
	if err != nil {
		logging.LogValidator("%s: %v", c.URL, err)
		return Outcome{Candidate: c, Inconclusive: true}
	}

	m := v.Analyze(body)
	if !m.Valid {
		return Outcome{
			Candidate:        c,
			Valid:            false,
			ShouldDeepSearch: v.shouldDeepSearch(body),
			ValidatorScore:   m.Confidence,
		}
	}

	bonus := m.Confidence / 10
	if bonus > 10 {
		bonus = 10
	}
	adjusted := c
	adjusted.Confidence += bonus
	if adjusted.Confidence > 98 {
		adjusted.Confidence = 98
	}
	adjusted = v.NeuralBlend(adjusted, body)
	return Outcome{Candidate: adjusted, Valid: true, ValidatorScore: m.Confidence}
}

// NeuralBlend runs Carl's opinion into c's confidence when it sits in
// the borderline zone, using body for feature extraction.
func (v *Validator) NeuralBlend(c candidate.PolicyCandidate, body string) candidate.PolicyCandidate {
	if v.scorer == nil || !isBorderline(c.Confidence) {
		return c
	}
	text := strings.ToLower(body)
	features := buildFeatures(c, text)
	score := v.scorer.Predict(features)
	c.NeuralScore = &score
	logging.LogNeural("carl scored %s at %.3f", c.URL, score)
	c.Confidence = blend(c.Confidence, int(score*100))
	c.Clamp()
	return c
}

// blend averages two confidence scores, weighting the existing score
// slightly higher since it already reflects the discovery method.
func blend(existing, scored int) int {
	return (existing*3 + scored*2) / 5
}

// isBorderline reports whether confidence sits in the zone where
// Carl's neural opinion is worth the extra computation.
func isBorderline(confidence int) bool {
	return confidence >= 30 && confidence <= 70
}

// Feedback fetches rawURL fresh and runs Carl's single-example `train`
// call against it: correct means target=1.0, anything else means
// target=0.0. This is the core-side half of the feedback label the
// dashboard collects (spec §3 TrainingExample.feedback_label; the
// dashboard itself is an external collaborator, see spec §6).
func (v *Validator) Feedback(ctx context.Context, rawURL, domain, label string, recorder neural.ExampleRecorder, saver neural.ModelSaver) error {
	if v.scorer == nil {
		return nil
	}
	body, err := v.fetchBody(ctx, rawURL)
	if err != nil {
		return err
	}
	target := 0.0
	if label == "correct" {
		target = 1.0
	}
	c := candidate.PolicyCandidate{URL: rawURL, Source: candidate.SourceManual, Confidence: 50}
	features := buildFeatures(c, strings.ToLower(body))
	return v.scorer.Train(features, target, domain, rawURL, recorder, saver)
}

// buildFeatures packs a fixed-size feature vector from the candidate
// and its fetched text, matching neural.InputSize.
func buildFeatures(c candidate.PolicyCandidate, text string) [neural.InputSize]float64 {
	var f [neural.InputSize]float64
	f[0] = normalize(float64(len(text)), 50000)
	f[1] = normalize(float64(c.Confidence), 100)
	f[2] = float64(c.Source.Priority()) / 10
	f[3] = boolFeature(strings.Contains(c.URL, "privacy"))
	f[4] = boolFeature(strings.Contains(c.URL, "terms"))
	f[5] = boolFeature(strings.Contains(c.URL, "legal"))
	f[6] = boolFeature(strings.Contains(c.URL, "cookie"))
	f[7] = boolFeature(strings.Contains(text, "gdpr"))
	f[8] = boolFeature(strings.Contains(text, "ccpa"))
	f[9] = boolFeature(strings.Contains(text, "data controller"))
	f[10] = boolFeature(strings.Contains(text, "third party") || strings.Contains(text, "third-party"))
	f[11] = boolFeature(strings.Contains(text, "cookies"))
	f[12] = boolFeature(strings.Contains(text, "opt-out") || strings.Contains(text, "opt out"))
	f[13] = boolFeature(strings.Contains(text, "retention"))
	f[14] = boolFeature(c.Context == candidate.ContextFooter)
	f[15] = boolFeature(c.Context == candidate.ContextLegal)
	f[16] = boolFeature(c.Context == candidate.ContextNav)
	f[17] = normalize(float64(len(c.LinkText)), 80)
	f[18] = boolFeature(strings.Contains(strings.ToLower(c.LinkText), "privacy"))
	f[19] = boolFeature(c.Source == candidate.SourceSearchFallback)
	f[20] = boolFeature(c.Source == candidate.SourceDeepScan)
	f[21] = boolFeature(strings.Contains(text, "effective date") || strings.Contains(text, "last updated"))
	f[22] = boolFeature(strings.Contains(text, "we collect"))
	f[23] = boolFeature(strings.Contains(text, "contact us") && strings.Contains(text, "privacy"))
	return f
}

func boolFeature(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}

func normalize(v, max float64) float64 {
	if v > max {
		v = max
	}
	return v / max
}
