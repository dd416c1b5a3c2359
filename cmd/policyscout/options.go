package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/projectdiscovery/fdmax"
	"github.com/projectdiscovery/goflags"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/formatter"
	"github.com/projectdiscovery/gologger/levels"
	envutil "github.com/projectdiscovery/utils/env"
	folderutil "github.com/projectdiscovery/utils/folder"
)

var (
	configDir             = folderutil.AppConfigDirOrDefault(".", "policyscout")
	defaultConfigLocation = envutil.GetEnvOrDefault("POLICYSCOUT_CONFIG", filepath.Join(configDir, "config.yaml"))
)

// Options is the full command-line surface for a policyscout run.
type Options struct {
	Domain      goflags.StringSlice
	DomainsFile string

	OutputFile string
	JSON       bool

	Mode       string // "parallel" or "sequential"
	Timeout    int    // per-request timeout, seconds
	MaxTime    int    // per-domain orchestrator cap, seconds

	EnableCache bool
	CacheDir    string
	CacheTTL    int

	ModelPath    string
	TrainingPath string
	TrainModel   bool

	FeedbackURL    string
	FeedbackDomain string
	FeedbackLabel  string

	Watch            bool
	WatchInterval    int // minutes
	WatchWebhook     string

	Verbose            bool
	Silent             bool
	NoColor            bool
	Version            bool
	DisableUpdateCheck bool
}

// ParseOptions parses CLI flags the way stormfinder's runner.ParseOptions
// does: one goflags.FlagSet, grouped by concern, merged with a YAML
// config file if present.
func ParseOptions() *Options {
	options := &Options{}

	flagSet := goflags.NewFlagSet()
	flagSet.SetDescription(`policyscout discovers and ranks a company's policy documents:
privacy, terms, cookies, security, gdpr, ccpa, ai, and acceptable use.`)

	flagSet.CreateGroup("input", "Target Specification",
		flagSet.StringSliceVarP(&options.Domain, "domain", "d", nil, "company name or domain to resolve and scan", goflags.NormalizedStringSliceOptions),
		flagSet.StringVarP(&options.DomainsFile, "list", "dL", "", "file containing one domain or company name per line"),
	)

	flagSet.CreateGroup("output", "Output Formats",
		flagSet.StringVarP(&options.OutputFile, "output", "o", "", "save results to file"),
		flagSet.BoolVarP(&options.JSON, "json", "oJ", false, "structured JSON Lines output"),
	)

	flagSet.CreateGroup("execution", "Execution Control",
		flagSet.StringVarP(&options.Mode, "mode", "m", "parallel", "strategy fan-out mode: parallel or sequential"),
		flagSet.IntVar(&options.Timeout, "timeout", 10, "per-request timeout in seconds"),
		flagSet.IntVar(&options.MaxTime, "max-time", 15, "maximum time in seconds to spend on a single domain"),
	)

	flagSet.CreateGroup("cache", "Result Caching",
		flagSet.BoolVar(&options.EnableCache, "cache", true, "cache validated results on disk"),
		flagSet.StringVar(&options.CacheDir, "cache-dir", "", "cache directory (defaults to ~/.policyscout/cache)"),
		flagSet.IntVar(&options.CacheTTL, "cache-ttl", 24, "cache time-to-live in hours"),
	)

	flagSet.CreateGroup("neural", "Carl (Neural Scorer)",
		flagSet.StringVar(&options.ModelPath, "model", filepath.Join(configDir, "carl_model.json"), "path to Carl's persisted model"),
		flagSet.StringVar(&options.TrainingPath, "training-data", filepath.Join(configDir, "training_examples.jsonl"), "path to accumulated training examples"),
		flagSet.BoolVar(&options.TrainModel, "train", false, "retrain Carl on the accumulated training examples and exit"),
		flagSet.StringVar(&options.FeedbackURL, "feedback-url", "", "record a single human-labeled training example for this URL and exit"),
		flagSet.StringVar(&options.FeedbackDomain, "feedback-domain", "", "domain the -feedback-url candidate was discovered for"),
		flagSet.StringVar(&options.FeedbackLabel, "feedback-label", "", "correct|incorrect: whether -feedback-url is a genuine policy page"),
	)

	flagSet.CreateGroup("watch", "Continuous Monitoring",
		flagSet.BoolVar(&options.Watch, "watch", false, "keep re-discovering the given domains and alert on policy changes"),
		flagSet.IntVar(&options.WatchInterval, "watch-interval", 30, "minutes between re-checks in watch mode"),
		flagSet.StringVar(&options.WatchWebhook, "watch-webhook", "", "POST a JSON alert to this URL on every detected change"),
	)

	flagSet.CreateGroup("debug", "Display & Debugging",
		flagSet.BoolVar(&options.Silent, "silent", false, "minimal output"),
		flagSet.BoolVar(&options.Verbose, "v", false, "verbose progress output"),
		flagSet.BoolVarP(&options.NoColor, "no-color", "nc", false, "disable colorized output"),
		flagSet.BoolVar(&options.Version, "version", false, "show version and exit"),
		flagSet.BoolVarP(&options.DisableUpdateCheck, "disable-update-check", "duc", false, "disable automatic update checks"),
	)

	if err := flagSet.Parse(); err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}

	if err := flagSet.MergeConfigFile(defaultConfigLocation); err != nil {
		gologger.Debug().Msgf("no merged config at %s: %s", defaultConfigLocation, err)
	}

	options.configureOutput()

	if err := fdmax.Max(); err != nil {
		gologger.Warning().Msgf("could not raise file descriptor limit: %s", err)
	}

	if options.Version {
		gologger.Info().Msgf("%s %s", ToolName, version)
		os.Exit(0)
	}

	if !options.Silent {
		showBanner()
	}

	return options
}

func (options *Options) configureOutput() {
	if options.Verbose {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelVerbose)
	}
	if options.Silent {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelSilent)
	}
	if options.NoColor {
		gologger.DefaultLogger.SetFormatter(formatter.NewCLI(true))
	}
}

// RequestTimeout returns Timeout as a time.Duration.
func (options *Options) RequestTimeout() time.Duration {
	return time.Duration(options.Timeout) * time.Second
}

// OrchestratorCap returns MaxTime as a time.Duration.
func (options *Options) OrchestratorCap() time.Duration {
	return time.Duration(options.MaxTime) * time.Second
}
