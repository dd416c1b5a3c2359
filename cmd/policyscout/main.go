// Command policyscout discovers and ranks a company's policy documents
// across the web, the way stormfinder discovers a company's
// subdomains: resolve the target, fan discovery strategies out
// concurrently, merge and validate what they find.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/projectdiscovery/gologger"

	"github.com/codebooo/policyscout/internal/cache"
	"github.com/codebooo/policyscout/internal/candidate"
	"github.com/codebooo/policyscout/internal/config"
	"github.com/codebooo/policyscout/internal/deepscan"
	"github.com/codebooo/policyscout/internal/domainvalidator"
	"github.com/codebooo/policyscout/internal/httpx"
	"github.com/codebooo/policyscout/internal/identifier"
	"github.com/codebooo/policyscout/internal/multilingual"
	"github.com/codebooo/policyscout/internal/neural"
	"github.com/codebooo/policyscout/internal/orchestrator"
	"github.com/codebooo/policyscout/internal/persistence"
	"github.com/codebooo/policyscout/internal/strategy"
	"github.com/codebooo/policyscout/internal/strategy/directfetch"
	"github.com/codebooo/policyscout/internal/strategy/homepage"
	"github.com/codebooo/policyscout/internal/strategy/linkheader"
	"github.com/codebooo/policyscout/internal/strategy/searchfallback"
	"github.com/codebooo/policyscout/internal/strategy/sitemap"
	"github.com/codebooo/policyscout/internal/strategy/standardpath"
	"github.com/codebooo/policyscout/internal/strategy/urlscan"
	"github.com/codebooo/policyscout/internal/strategy/wayback"
	"github.com/codebooo/policyscout/internal/validator"
	"github.com/codebooo/policyscout/internal/watch"
)

func main() {
	options := ParseOptions()

	modelStore := persistence.NewFileModelStore(options.ModelPath)
	trainingStore := persistence.NewFileTrainingExampleStore(options.TrainingPath)

	if options.TrainModel {
		runTraining(modelStore, trainingStore)
		return
	}

	if options.FeedbackURL != "" {
		runFeedback(options, modelStore, trainingStore)
		return
	}

	domains, err := gatherDomains(options)
	if err != nil {
		gologger.Fatal().Msgf("could not gather input domains: %s", err)
	}
	if len(domains) == 0 {
		gologger.Fatal().Msg("no domains provided, use -d or -list")
	}

	orch, client, err := buildOrchestrator(options, modelStore)
	if err != nil {
		gologger.Fatal().Msgf("could not build orchestrator: %s", err)
	}

	if options.Watch {
		runWatch(options, orch, client, domains)
		return
	}

	out, closeOut := openOutput(options)
	defer closeOut()

	for _, domain := range domains {
		ctx, cancel := context.WithTimeout(context.Background(), options.OrchestratorCap()+5*time.Second)
		result := orch.Discover(ctx, domain)
		cancel()
		writeResult(out, options, result)
	}
}

// runWatch keeps re-discovering domains until interrupted, logging (and
// optionally posting to a webhook) every detected policy change.
func runWatch(options *Options, orch *orchestrator.Orchestrator, client *httpx.Client, domains []string) {
	w := watch.New(orch, client, watch.Config{
		CheckInterval: time.Duration(options.WatchInterval) * time.Minute,
		WebhookURL:    options.WatchWebhook,
	})

	go func() {
		for alert := range w.Alerts() {
			gologger.Info().Msgf("policy change: %s/%s %s -> %s", alert.Domain, alert.Type, alert.ChangeKind, alert.NewURL)
		}
	}()

	gologger.Info().Msgf("watching %d domain(s) every %d minute(s)", len(domains), options.WatchInterval)
	w.Run(context.Background(), domains)
}

func buildOrchestrator(options *Options, modelStore *persistence.FileModelStore) (*orchestrator.Orchestrator, *httpx.Client, error) {
	cfg := config.Default()
	cfg.RequestTimeout = options.RequestTimeout()
	cfg.OrchestratorCap = options.OrchestratorCap()
	if err := cfg.LoadOverrides(defaultConfigLocation); err != nil {
		gologger.Warning().Msgf("could not load special-domain overrides: %s", err)
	}

	client := httpx.New(cfg)
	catalog := multilingual.Default
	domainVal := domainvalidator.Default

	resolver, err := identifier.New()
	if err != nil {
		return nil, nil, fmt.Errorf("build resolver: %w", err)
	}

	registry := strategy.NewRegistry(
		standardpath.New(client, cfg),
		homepage.New(client, catalog),
		linkheader.New(client, catalog),
		directfetch.New(client, catalog),
		sitemap.New(client, catalog),
		searchfallback.New(client, catalog),
		wayback.New(client, catalog),
		urlscan.New(client, catalog),
	)

	model, err := modelStore.Load()
	if err != nil {
		gologger.Warning().Msgf("could not load carl model, starting fresh: %s", err)
	}
	scorer := neural.NewScorer(model)

	v := validator.New(client, cfg, scorer)
	scanner := deepscan.New(client, catalog)

	var c *cache.Cache
	if options.EnableCache {
		c = cache.New(options.CacheDir, time.Duration(options.CacheTTL)*time.Hour)
	}

	orch := orchestrator.New(cfg, resolver, registry, v, scanner, domainVal, c)
	if options.Mode == "sequential" {
		orch = orch.WithMode(orchestrator.ModeSequential)
	}
	return orch, client, nil
}

func runTraining(modelStore *persistence.FileModelStore, trainingStore *persistence.FileTrainingExampleStore) {
	examples, err := trainingStore.LoadAll()
	if err != nil {
		gologger.Fatal().Msgf("could not load training examples: %s", err)
	}
	if len(examples) == 0 {
		gologger.Info().Msg("no training examples accumulated yet")
		return
	}

	model, err := modelStore.Load()
	if err != nil {
		gologger.Warning().Msgf("could not load existing model, starting fresh: %s", err)
	}
	scorer := neural.NewScorer(model)
	scorer.Retrain(examples)

	if err := modelStore.Save(scorer.Snapshot()); err != nil {
		gologger.Fatal().Msgf("could not save trained model: %s", err)
	}
	stats := scorer.Stats()
	gologger.Info().Msgf("carl retrained on %d examples, generation=%d accuracy=%.2f", len(examples), stats.Generation, stats.Accuracy)
}

// runFeedback records one human-labeled training example against
// -feedback-url and retrains Carl's weights on it immediately (spec's
// single-example `train(features, target, domain, url)` call).
func runFeedback(options *Options, modelStore *persistence.FileModelStore, trainingStore *persistence.FileTrainingExampleStore) {
	if options.FeedbackLabel != "correct" && options.FeedbackLabel != "incorrect" {
		gologger.Fatal().Msg("-feedback-label must be 'correct' or 'incorrect'")
	}

	cfg := config.Default()
	client := httpx.New(cfg)

	model, err := modelStore.Load()
	if err != nil {
		gologger.Warning().Msgf("could not load carl model, starting fresh: %s", err)
	}
	scorer := neural.NewScorer(model)
	v := validator.New(client, cfg, scorer)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout+5*time.Second)
	defer cancel()

	if err := v.Feedback(ctx, options.FeedbackURL, options.FeedbackDomain, options.FeedbackLabel, trainingStore, modelStore); err != nil {
		gologger.Fatal().Msgf("could not record feedback: %s", err)
	}
	stats := scorer.Stats()
	gologger.Info().Msgf("carl trained on feedback for %s, generation=%d training_count=%d", options.FeedbackURL, stats.Generation, stats.TrainingCount)
}

func gatherDomains(options *Options) ([]string, error) {
	domains := append([]string{}, options.Domain...)
	if options.DomainsFile != "" {
		f, err := os.Open(options.DomainsFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := scanner.Text()
			if line != "" {
				domains = append(domains, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}
	return domains, nil
}

func openOutput(options *Options) (*os.File, func()) {
	if options.OutputFile == "" {
		return os.Stdout, func() {}
	}
	f, err := os.Create(options.OutputFile)
	if err != nil {
		gologger.Fatal().Msgf("could not create output file: %s", err)
	}
	return f, func() { f.Close() }
}

func writeResult(out *os.File, options *Options, result candidate.DiscoveryResult) {
	if options.JSON {
		data, err := json.Marshal(result)
		if err != nil {
			gologger.Error().Msgf("could not marshal result for %s: %s", result.Domain, err)
			return
		}
		fmt.Fprintln(out, string(data))
		return
	}

	if !result.Success {
		fmt.Fprintf(out, "%s: no policies found (%s)\n", result.Domain, result.Error)
		return
	}
	for _, p := range result.Policies {
		fmt.Fprintf(out, "%s\t%s\t%d\t%s\n", result.Domain, p.Type, p.Confidence, p.URL)
	}
}
