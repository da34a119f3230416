package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"jobsweep/internal/config"
	"jobsweep/internal/domain"
	"jobsweep/internal/export"
	"jobsweep/internal/scrape/linkedin"
	"jobsweep/internal/scrape/util"
	"jobsweep/internal/store"
)

var errNoResults = errors.New("no job postings collected")

func main() {
	switch err := run(context.Background(), os.Args[1:]); {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
		os.Exit(2)
	case errors.Is(err, errNoResults):
		slog.Warn("no job postings collected")
		os.Exit(2)
	default:
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

type options struct {
	company    string // positional: single-company mode
	lists      string
	companies  string
	keywords   string
	location   string
	experience string
	maxResults int
	delaySecs  float64
	output     string
	format     string
	skipDesc   bool
	statePath  string
	configPath string
	verbose    bool

	explicit map[string]bool // flags the user actually passed
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("jobsweep", flag.ContinueOnError)
	fs.StringVar(&o.lists, "list", "", "comma-separated company list names (startups, insurance, tech, all)")
	fs.StringVar(&o.companies, "companies", "", "comma-separated explicit company names; overrides -list")
	fs.StringVar(&o.keywords, "keywords", "", "keywords to search for within each company (batch mode)")
	fs.StringVar(&o.location, "location", "", "location filter")
	fs.StringVar(&o.experience, "experience", "", "experience-level filter code (f_E)")
	fs.IntVar(&o.maxResults, "max-results", 0, "maximum number of postings to fetch per search")
	fs.Float64Var(&o.delaySecs, "delay", -1, "delay between requests in seconds")
	fs.StringVar(&o.output, "output", "", "output file path")
	fs.StringVar(&o.format, "format", "", "output format: csv or json")
	fs.BoolVar(&o.skipDesc, "skip-description", false, "skip fetching detail pages")
	fs.StringVar(&o.statePath, "state", "", "optional sqlite db path for cross-run de-duplication")
	fs.StringVar(&o.configPath, "config", "", "config file path (created with defaults when missing)")
	fs.BoolVar(&o.verbose, "v", false, "enable debug logging")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: jobsweep [flags] [company]\n\n")
		fmt.Fprintf(fs.Output(), "Scrape public job postings for a company, or for configured company lists.\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return o, err
	}

	o.company = strings.TrimSpace(fs.Arg(0))
	o.explicit = map[string]bool{}
	fs.Visit(func(f *flag.Flag) { o.explicit[f.Name] = true })
	return o, nil
}

// applyDefaults fills flag values the user left unset from the config file.
func applyDefaults(o *options, cfg config.Config) {
	if !o.explicit["location"] {
		o.location = cfg.Defaults.Location
	}
	if !o.explicit["delay"] || o.delaySecs < 0 {
		o.delaySecs = cfg.Defaults.DelaySeconds
	}
	if o.maxResults < 1 {
		o.maxResults = cfg.Defaults.MaxResults
	}
	if o.output == "" {
		o.output = cfg.Defaults.Output
	}
	if o.format == "" {
		o.format = cfg.Defaults.Format
	}
}

func run(ctx context.Context, args []string) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}

	logger := newLogger(o.verbose)
	slog.SetDefault(logger)

	cfg := config.Default()
	if o.configPath != "" {
		if cfg, err = config.EnsureUserConfig(o.configPath); err != nil {
			return err
		}
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	applyDefaults(&o, cfg)

	format, err := export.ParseFormat(o.format)
	if err != nil {
		return err
	}
	if o.company == "" && o.lists == "" && o.companies == "" {
		return errors.New("a company argument or -list/-companies is required")
	}

	pacer := util.NewPacer(time.Duration(o.delaySecs * float64(time.Second)))
	scraper := linkedin.New(linkedin.Config{
		BaseURL:        cfg.Search.BaseURL,
		UserAgent:      cfg.HTTP.UserAgent,
		AcceptLanguage: cfg.HTTP.AcceptLanguage,
		Timeout:        time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second,
	}, pacer, logger)

	var db *store.DB
	if o.statePath != "" {
		if db, err = store.Open(o.statePath); err != nil {
			return fmt.Errorf("open state db: %w", err)
		}
		defer db.Close()
		if err := db.Migrate(ctx); err != nil {
			return err
		}
	}

	startedAt := time.Now()

	jobs, query, err := collect(ctx, o, cfg, scraper, logger)
	if err != nil {
		return err
	}

	if db != nil {
		if jobs, err = db.FilterNew(ctx, jobs); err != nil {
			return err
		}
	}
	if len(jobs) == 0 {
		return errNoResults
	}

	w := export.Writer{Path: o.output, Format: format, Log: logger}
	if err := w.Append(jobs); err != nil {
		return err
	}

	if db != nil {
		if _, rerr := db.RecordRun(ctx, startedAt, query, len(jobs)); rerr != nil {
			logger.Warn("record run failed", "error", rerr)
		}
	}

	logger.Info("scrape completed", "records", len(jobs), "output", o.output)
	return nil
}

// collect runs either the single-company search (the name is the keyword
// query) or the batch over resolved company ids. Batch failures for one
// company are logged and skipped.
func collect(ctx context.Context, o options, cfg config.Config, scraper *linkedin.Scraper, logger *slog.Logger) ([]domain.JobPosting, string, error) {
	withDesc := !o.skipDesc

	if o.company != "" {
		p := linkedin.SearchParams{
			Keywords:   o.company,
			Location:   o.location,
			Experience: o.experience,
		}
		jobs, err := scraper.Collect(ctx, p, o.maxResults, withDesc)
		if err != nil {
			return nil, "", fmt.Errorf("scrape %q: %w", o.company, err)
		}
		return jobs, "company=" + o.company, nil
	}

	companies, err := cfg.ResolveCompanies(splitList(o.lists), splitList(o.companies))
	if err != nil {
		return nil, "", err
	}
	if len(companies) == 0 {
		return nil, "", errors.New("no companies selected")
	}
	logger.Info("fetching companies", "companies", strings.Join(companies, ", "))

	var all []domain.JobPosting
	seen := map[string]bool{}
	for _, name := range companies {
		id, err := scraper.ResolveCompanyID(ctx, name)
		if err != nil {
			logger.Warn("unable to resolve company id", "company", name, "error", err)
			continue
		}

		p := linkedin.SearchParams{
			Keywords:   o.keywords,
			Location:   o.location,
			CompanyID:  id,
			Experience: o.experience,
		}
		jobs, err := scraper.Collect(ctx, p, o.maxResults, withDesc)
		if err != nil {
			logger.Warn("scrape failed for company", "company", name, "error", err)
			continue
		}

		for _, j := range jobs {
			if j.ID != "" && seen[j.ID] {
				continue
			}
			if j.ID != "" {
				seen[j.ID] = true
			}
			if j.Company == "" {
				j.Company = name
			}
			all = append(all, j)
		}
		logger.Info("company done", "company", name, "total", len(all))
	}

	query := fmt.Sprintf("lists=%s companies=%s keywords=%s", o.lists, o.companies, o.keywords)
	return all, query, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
