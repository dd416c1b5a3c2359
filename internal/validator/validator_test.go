package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codebooo/policyscout/internal/candidate"
	"github.com/codebooo/policyscout/internal/config"
	"github.com/codebooo/policyscout/internal/httpx"
	"github.com/codebooo/policyscout/internal/policytype"
)

const realisticPolicyBody = `Privacy Policy

Last updated: January 2026. This privacy policy applies to all services.

Information we collect: we collect personal data and personal information when
you use our services, including how we use your information and how we share
your information with third parties. We act as the data controller for this
personal data, and in some cases a data processor acts on our behalf.

Legal basis: we process personal data under a lawful basis including
legitimate interest, consent, and compliance with the general data protection
regulation and the california consumer privacy act. Data subject rights
include the right to access, the right to erasure, and the right to object.
You can opt out or do not sell your personal information by contacting our
privacy team.

Data retention: we apply a data retention schedule and delete data after the
retention period ends. We also honor data minimization and purpose limitation
principles, and we notify our supervisory authority and data protection
officer of any data breach.

Cookies: we use cookies and similar technologies and tracking technologies.
You can manage cookie settings at any time.

Children's privacy: parental consent is required for children under 16.

Contact us: questions about this policy should be sent to our data protection
officer. This is version 2.1 of the policy.`

func newValidator(t *testing.T) *Validator {
	t.Helper()
	cfg := config.Default()
	client := httpx.New(cfg)
	return New(client, cfg, nil)
}

func TestAnalyzeScoresRealisticPolicyBodyAsValid(t *testing.T) {
	v := newValidator(t)
	m := v.Analyze(realisticPolicyBody)

	assert.True(t, m.Valid)
	assert.GreaterOrEqual(t, m.Confidence, 40)
	assert.GreaterOrEqual(t, m.HighConfKeywords, 5)
	assert.GreaterOrEqual(t, m.MultilingualCount, 1)
}

func TestAnalyzeRejectsShortBody(t *testing.T) {
	v := newValidator(t)
	m := v.Analyze("too short")

	assert.False(t, m.Valid)
}

func TestAnalyzeQuickRejectsOnNegativeMarkers(t *testing.T) {
	v := newValidator(t)
	body := strings.Repeat("padding ", 100) + " 5 min read. Published 3 hours ago."
	m := v.Analyze(body)

	assert.False(t, m.Valid)
}

func TestAnalyzeQuickRejectsCompanyDirectoryListing(t *testing.T) {
	v := newValidator(t)
	body := strings.Repeat("padding ", 100) + " Company size: 51-200. Industry: Software. Headquarters: Remote."
	m := v.Analyze(body)

	assert.False(t, m.Valid)
}

func TestInspectBoostsConfidenceOnValidBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(realisticPolicyBody))
	}))
	defer server.Close()

	cfg := config.Default()
	client := httpx.New(cfg)
	v := New(client, cfg, nil)

	c := candidate.PolicyCandidate{URL: server.URL, Type: policytype.Privacy, Confidence: 50}
	outcome := v.Inspect(t.Context(), c)

	require.True(t, outcome.Valid)
	assert.Greater(t, outcome.Candidate.Confidence, 50)
	assert.LessOrEqual(t, outcome.Candidate.Confidence, 98)
}

func TestInspectPenalizesNonPromisingInvalidBody(t *testing.T) {
	body := strings.Repeat("x", 300) + " unrelated filler content with no policy vocabulary at all."
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	cfg := config.Default()
	client := httpx.New(cfg)
	v := New(client, cfg, nil)

	c := candidate.PolicyCandidate{URL: server.URL, Type: policytype.Privacy, Confidence: 80}
	outcome := v.Inspect(t.Context(), c)

	require.False(t, outcome.Valid)
	require.False(t, outcome.ShouldDeepSearch)
}

func TestInspectFlagsShouldDeepSearchForPromisingButInvalidBody(t *testing.T) {
	// Long enough and carries one multilingual term (so quickReject
	// passes) but too thin on keywords/bigrams/topics to be valid.
	body := strings.Repeat("padding text here. ", 60) + " privacy policy overview page."
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	cfg := config.Default()
	client := httpx.New(cfg)
	v := New(client, cfg, nil)

	c := candidate.PolicyCandidate{URL: server.URL, Type: policytype.Privacy, Confidence: 80}
	outcome := v.Inspect(t.Context(), c)

	require.False(t, outcome.Valid)
	assert.True(t, outcome.ShouldDeepSearch)
}

func TestInspectReturnsInconclusiveOnFetchFailure(t *testing.T) {
	cfg := config.Default()
	client := httpx.New(cfg)
	v := New(client, cfg, nil)

	c := candidate.PolicyCandidate{URL: "http://127.0.0.1:1", Type: policytype.Privacy, Confidence: 50}
	outcome := v.Inspect(t.Context(), c)

	assert.True(t, outcome.Inconclusive)
}
