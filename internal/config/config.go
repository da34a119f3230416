package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

type HTTP struct {
	UserAgent      string `yaml:"user_agent" env:"USER_AGENT"`
	AcceptLanguage string `yaml:"accept_language" env:"ACCEPT_LANGUAGE"`
	TimeoutSeconds int    `yaml:"timeout_seconds" env:"TIMEOUT_SECONDS"`
}

type Search struct {
	// BaseURL is the guest endpoint root; overridable so tests can point the
	// scraper at a local server.
	BaseURL string `yaml:"base_url" env:"BASE_URL"`
}

type Defaults struct {
	Location     string  `yaml:"location"`
	MaxResults   int     `yaml:"max_results"`
	DelaySeconds float64 `yaml:"delay_seconds"`
	Output       string  `yaml:"output"`
	Format       string  `yaml:"format"`
}

type Config struct {
	HTTP     HTTP     `yaml:"http" envPrefix:"HTTP_"`
	Search   Search   `yaml:"search" envPrefix:"SEARCH_"`
	Defaults Defaults `yaml:"defaults"`

	// CompanyLists are the named batches selectable with -list. The special
	// name "all" is the union of every list and is not stored here.
	CompanyLists map[string][]string `yaml:"company_lists"`
}

func Default() Config {
	var cfg Config
	cfg.HTTP.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"
	cfg.HTTP.AcceptLanguage = "en-US,en;q=0.9"
	cfg.HTTP.TimeoutSeconds = 30
	cfg.Search.BaseURL = "https://www.linkedin.com/jobs-guest"
	cfg.Defaults.Location = "Worldwide"
	cfg.Defaults.MaxResults = 50
	cfg.Defaults.DelaySeconds = 2.0
	cfg.Defaults.Output = "linkedin_jobs.csv"
	cfg.Defaults.Format = "csv"
	cfg.CompanyLists = map[string][]string{
		"startups": {
			"Lovable", "Hugging Face", "OpenAI", "Replit",
			"Anthropic", "Scale AI", "Glean", "Perplexity",
		},
		"insurance": {
			"Chubb", "AIG", "The Hartford", "Farmers", "Progressive",
			"Nationwide", "Allstate", "Geico", "State Farm", "Zurich",
		},
		"tech": {
			"Meta", "Amazon", "Alphabet", "Microsoft", "Netflix",
			"Nvidia", "Stripe", "Apple", "Shopify", "Walmart",
		},
	}
	return cfg
}

func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	var errs []string
	if cfg.Search.BaseURL == "" {
		errs = append(errs, "search.base_url is required")
	}
	if cfg.HTTP.TimeoutSeconds <= 0 {
		errs = append(errs, "http.timeout_seconds must be >= 1")
	}
	if cfg.Defaults.DelaySeconds < 0 {
		errs = append(errs, "defaults.delay_seconds must be >= 0")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n- %s", joinLines(errs))
	}
	return nil
}

// ResolveCompanies expands the selected list names into a sorted, de-duplicated
// set of company names. Explicit overrides win over any selected list.
func (c Config) ResolveCompanies(lists []string, overrides []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, name)
	}

	if len(overrides) > 0 {
		for _, name := range overrides {
			add(name)
		}
		sort.Strings(out)
		return out, nil
	}

	for _, list := range lists {
		if list == "all" {
			for _, names := range c.CompanyLists {
				for _, name := range names {
					add(name)
				}
			}
			continue
		}
		names, ok := c.CompanyLists[list]
		if !ok {
			return nil, fmt.Errorf("unknown company list %q", list)
		}
		for _, name := range names {
			add(name)
		}
	}
	sort.Strings(out)
	return out, nil
}
