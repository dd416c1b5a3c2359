// Package identifier resolves a company name or raw domain string into
// the DomainIdentity the rest of the pipeline operates on (spec §4.1):
// normalization, alias lookup, TLD guessing, and DNS existence checks.
package identifier

import (
	"context"
	"fmt"
	"net"
	"regexp"
	"strings"

	"github.com/miekg/dns"
	"github.com/projectdiscovery/retryabledns"

	"github.com/codebooo/policyscout/internal/candidate"
	"github.com/codebooo/policyscout/internal/logging"
	"github.com/codebooo/policyscout/internal/perr"
)

var domainLikeRe = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?(\.[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?)+$`)

// guessTLDs are appended, in order, after the input itself as further
// domain candidates.
var guessTLDs = []string{".com", ".io", ".co", ".net", ".org", ".ai"}

// Resolver turns free-form input into a verified DomainIdentity.
type Resolver struct {
	aliases    map[string]string
	dnsClient  *retryabledns.Client
}

// New builds a Resolver with the embedded alias table and a retryable
// DNS client configured for a single resolution attempt per record
// type (the core owns its own retry policy, per spec §7).
func New() (*Resolver, error) {
	client, err := retryabledns.New([]string{"8.8.8.8:53", "1.1.1.1:53"}, 1)
	if err != nil {
		return nil, fmt.Errorf("build dns client: %w", err)
	}
	return &Resolver{aliases: aliasTable(), dnsClient: client}, nil
}

// Identify resolves input to a DomainIdentity, performing an alias
// lookup, TLD guessing, and DNS verification in that order.
func (r *Resolver) Identify(ctx context.Context, input string) (candidate.DomainIdentity, error) {
	clean := normalize(input)
	if clean == "" {
		return candidate.DomainIdentity{}, &perr.ResolutionError{Input: input, Reason: "empty after normalization"}
	}

	if alias, ok := r.aliases[clean]; ok {
		logging.LogIdentifier("resolved alias %q -> %s", clean, alias)
		clean = alias
	}

	candidates := candidatesFor(clean)
	for _, attempt := range candidates {
		if r.exists(ctx, attempt) {
			return buildIdentity(input, attempt), nil
		}
	}

	return candidate.DomainIdentity{}, &perr.ResolutionError{
		Input:  input,
		Reason: fmt.Sprintf("no DNS record found for any of %v", candidates),
	}
}

// candidatesFor returns clean itself (if it already looks like a full
// domain) followed by TLD-guessed variants.
func candidatesFor(clean string) []string {
	var out []string
	if domainLikeRe.MatchString(clean) && strings.Contains(clean, ".") {
		out = append(out, clean)
	}
	base := strings.ReplaceAll(clean, " ", "")
	for _, tld := range guessTLDs {
		out = append(out, base+tld)
	}
	return dedupeStrings(out)
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// exists checks A/AAAA records via retryabledns first (fast path, no
// NXDOMAIN/no-record distinction needed), falling back to an explicit
// miekg/dns query when that's inconclusive, so a true NXDOMAIN is never
// confused with a transient resolver hiccup.
func (r *Resolver) exists(ctx context.Context, domain string) bool {
	resp, err := r.dnsClient.Resolve(domain)
	if err == nil && resp != nil && (len(resp.A) > 0 || len(resp.AAAA) > 0) {
		return true
	}
	return r.verifyViaMiekg(ctx, domain)
}

func (r *Resolver) verifyViaMiekg(ctx context.Context, domain string) bool {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(domain), dns.TypeA)
	client := new(dns.Client)

	for _, server := range []string{"8.8.8.8:53", "1.1.1.1:53"} {
		resp, _, err := client.ExchangeContext(ctx, m, server)
		if err != nil {
			continue
		}
		if resp.Rcode == dns.RcodeNameError {
			return false // authoritative NXDOMAIN
		}
		if len(resp.Answer) > 0 {
			return true
		}
	}
	// last resort: stdlib resolver, in case both explicit servers were
	// unreachable from this network.
	_, err := net.DefaultResolver.LookupHost(ctx, domain)
	return err == nil
}

func normalize(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	if idx := strings.IndexAny(s, "/?#"); idx >= 0 {
		s = s[:idx]
	}
	return s
}

func buildIdentity(original, resolved string) candidate.DomainIdentity {
	parts := strings.Split(resolved, ".")
	tld := parts[len(parts)-1]
	root := resolved
	subdomain := ""
	if len(parts) > 2 {
		root = strings.Join(parts[len(parts)-2:], ".")
		subdomain = strings.Join(parts[:len(parts)-2], ".")
	}
	return candidate.DomainIdentity{
		OriginalInput: original,
		CleanDomain:   resolved,
		Subdomain:     subdomain,
		RootDomain:    root,
		TLD:           tld,
		IsValid:       true,
	}
}

// aliasTable maps common company names to their primary domain, for
// inputs that are a name rather than a URL or bare domain.
func aliasTable() map[string]string {
	return map[string]string{
		"google":       "google.com",
		"alphabet":     "abc.xyz",
		"meta":         "meta.com",
		"facebook":     "facebook.com",
		"microsoft":    "microsoft.com",
		"apple":        "apple.com",
		"amazon":       "amazon.com",
		"netflix":      "netflix.com",
		"spotify":      "spotify.com",
		"twitter":      "x.com",
		"x":            "x.com",
		"tiktok":       "tiktok.com",
		"linkedin":     "linkedin.com",
		"paypal":       "paypal.com",
		"uber":         "uber.com",
		"airbnb":       "airbnb.com",
		"salesforce":   "salesforce.com",
		"adobe":        "adobe.com",
		"oracle":       "oracle.com",
		"ibm":          "ibm.com",
		"sap":          "sap.com",
		"shopify":      "shopify.com",
		"stripe":       "stripe.com",
		"slack":        "slack.com",
		"zoom":         "zoom.us",
		"dropbox":      "dropbox.com",
		"github":       "github.com",
		"gitlab":       "gitlab.com",
		"atlassian":    "atlassian.com",
		"valve":        "valvesoftware.com",
		"steam":        "steampowered.com",
		"epic games":   "epicgames.com",
		"openai":       "openai.com",
		"anthropic":    "anthropic.com",
		"nvidia":       "nvidia.com",
		"intel":        "intel.com",
		"samsung":      "samsung.com",
		"sony":         "sony.com",
		"disney":       "disney.com",
		"walmart":      "walmart.com",
		"target":       "target.com",
		"costco":       "costco.com",
		"visa":         "visa.com",
		"mastercard":   "mastercard.com",
		"coinbase":     "coinbase.com",
		"binance":      "binance.com",
		"reddit":       "reddit.com",
		"pinterest":    "pinterest.com",
		"snapchat":     "snap.com",
		"snap":         "snap.com",
		"whatsapp":     "whatsapp.com",
		"instagram":    "instagram.com",
		"threads":      "threads.net",
		"airtable":     "airtable.com",
		"notion":       "notion.so",
		"figma":        "figma.com",
		"canva":        "canva.com",
		"twilio":       "twilio.com",
		"square":       "squareup.com",
		"block":        "block.xyz",
		"doordash":     "doordash.com",
		"instacart":    "instacart.com",
		"lyft":         "lyft.com",
		"pepsico":      "pepsico.com",
		"coca cola":    "coca-colacompany.com",
		"nike":         "nike.com",
		"adidas":       "adidas.com",
	}
}
