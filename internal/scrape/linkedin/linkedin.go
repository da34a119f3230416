package linkedin

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"jobsweep/internal/domain"
	"jobsweep/internal/scrape/util"

	"github.com/PuerkitoBio/goquery"
)

const (
	searchPath    = "/jobs/api/seeMoreJobPostings/search"
	typeaheadPath = "/api/typeaheadHits"
)

type Config struct {
	BaseURL        string // guest endpoint root, e.g. https://www.linkedin.com/jobs-guest
	UserAgent      string
	AcceptLanguage string
	Timeout        time.Duration
}

// SearchParams are the query inputs for one search. CompanyID (f_C) narrows
// the search to a single company; Experience (f_E) is the site's
// experience-level code.
type SearchParams struct {
	Keywords   string
	Location   string
	CompanyID  string
	Experience string
	Start      int
}

type Scraper struct {
	cfg   Config
	hc    *http.Client
	pacer *util.Pacer
	log   *slog.Logger
}

func New(cfg Config, pacer *util.Pacer, log *slog.Logger) *Scraper {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if pacer == nil {
		pacer = util.NewPacer(0)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Scraper{
		cfg:   cfg,
		hc:    &http.Client{Timeout: cfg.Timeout},
		pacer: pacer,
		log:   log,
	}
}

// Collect runs one search to completion: paginated card scraping capped at
// maxResults, then detail-page hydration unless withDescriptions is false.
// Hydration failures are logged and skipped; the record keeps its card fields.
func (s *Scraper) Collect(ctx context.Context, p SearchParams, maxResults int, withDescriptions bool) ([]domain.JobPosting, error) {
	jobs, err := s.Search(ctx, p, maxResults)
	if err != nil {
		return nil, err
	}
	if !withDescriptions {
		return jobs, nil
	}
	for i := range jobs {
		if err := s.Hydrate(ctx, &jobs[i]); err != nil {
			s.log.Warn("description fetch failed", "url", jobs[i].URL, "error", err)
		}
	}
	return jobs, nil
}

// Search pages through the search results until maxResults postings are
// collected or the endpoint runs out of cards. A failure on the first page is
// a whole-run failure; later pages log a warning and return what we have.
func (s *Scraper) Search(ctx context.Context, p SearchParams, maxResults int) ([]domain.JobPosting, error) {
	if maxResults < 1 {
		maxResults = 1
	}

	var out []domain.JobPosting
	seen := map[string]bool{}
	start := p.Start

	for len(out) < maxResults {
		p.Start = start
		doc, err := s.fetchSearchPage(ctx, p)
		if err != nil {
			if len(out) == 0 {
				return nil, err
			}
			s.log.Warn("search page failed, stopping early", "start", start, "error", err)
			break
		}
		if doc == nil {
			s.log.Debug("no more search results", "start", start)
			break
		}

		cards := parseCards(doc)
		if len(cards) == 0 {
			s.log.Debug("no job cards on page", "start", start)
			break
		}

		added := 0
		for _, c := range cards {
			if c.ID != "" && seen[c.ID] {
				continue
			}
			if c.ID != "" {
				seen[c.ID] = true
			}
			out = append(out, c)
			added++
			if len(out) >= maxResults {
				break
			}
		}
		if added == 0 {
			// the endpoint repeated cards we already have; advancing start
			// would paginate forever
			s.log.Debug("page contributed no new postings", "start", start)
			break
		}

		s.log.Info("collected job summaries", "count", len(out), "max", maxResults)
		start += len(cards)
	}

	return out, nil
}

// fetchSearchPage returns (nil, nil) when the endpoint signals the end of
// results (404 or an empty body).
func (s *Scraper) fetchSearchPage(ctx context.Context, p SearchParams) (*goquery.Document, error) {
	u := s.searchURL(p)
	s.log.Debug("fetching search results", "url", u)

	res, err := s.get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("search get: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("parse search html: %w", err)
	}
	if util.CleanText(doc.Text()) == "" && doc.Find("a").Length() == 0 {
		return nil, nil
	}
	return doc, nil
}

func (s *Scraper) searchURL(p SearchParams) string {
	q := url.Values{}
	q.Set("keywords", p.Keywords)
	q.Set("start", strconv.Itoa(p.Start))
	q.Set("refresh", "true")
	if p.Location != "" {
		q.Set("location", p.Location)
	}
	if p.CompanyID != "" {
		q.Set("f_C", p.CompanyID)
	}
	if p.Experience != "" {
		q.Set("f_E", p.Experience)
	}
	return s.cfg.BaseURL + searchPath + "?" + q.Encode()
}

// ResolveCompanyID looks a company name up on the guest typeahead endpoint
// and returns the id of the first hit, for use as the f_C search filter.
func (s *Scraper) ResolveCompanyID(ctx context.Context, name string) (string, error) {
	q := url.Values{}
	q.Set("typeaheadType", "COMPANY")
	q.Set("query", name)
	u := s.cfg.BaseURL + typeaheadPath + "?" + q.Encode()

	res, err := s.get(ctx, u)
	if err != nil {
		return "", fmt.Errorf("typeahead get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("typeahead status %d", res.StatusCode)
	}

	// the id comes back as a bare number in some responses, a string in others
	var hits []map[string]any
	if err := json.NewDecoder(res.Body).Decode(&hits); err != nil {
		return "", fmt.Errorf("typeahead decode: %w", err)
	}
	if len(hits) == 0 {
		return "", fmt.Errorf("no typeahead hits for %q", name)
	}
	switch id := hits[0]["id"].(type) {
	case string:
		return id, nil
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("typeahead hit for %q has no id", name)
	}
}

func (s *Scraper) get(ctx context.Context, rawURL string) (*http.Response, error) {
	if err := s.pacer.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)
	if s.cfg.AcceptLanguage != "" {
		req.Header.Set("Accept-Language", s.cfg.AcceptLanguage)
	}
	return s.hc.Do(req)
}

// parseCards extracts partially-populated postings from a results page, in
// document order. Cards without a posting link are skipped; everything else
// is best-effort and defaults to "".
func parseCards(doc *goquery.Document) []domain.JobPosting {
	cards := doc.Find("li.jobs-search-results__list-item")
	if cards.Length() == 0 {
		// some responses come back as bare <li> items without the class
		cards = doc.Find("li").FilterFunction(func(_ int, li *goquery.Selection) bool {
			return li.Find("a.base-card__full-link").Length() > 0
		})
	}

	var out []domain.JobPosting
	cards.Each(func(_ int, li *goquery.Selection) {
		link := li.Find("a.base-card__full-link").First()
		href := strings.TrimSpace(link.AttrOr("href", ""))
		if href == "" {
			return
		}
		postingURL := util.StripQuery(href)

		id := urnTail(li.AttrOr("data-entity-urn", ""))
		if id == "" {
			id = urnTail(li.Find("[data-entity-urn]").First().AttrOr("data-entity-urn", ""))
		}
		if id == "" {
			id = util.JobIDFromURL(postingURL)
		}

		title := util.CleanText(li.Find("h3.base-search-card__title").First().Text())
		if title == "" {
			title = util.CleanText(link.Find("span.sr-only").Text())
		}

		timeEl := li.Find("time").First()
		date := strings.TrimSpace(timeEl.AttrOr("datetime", ""))
		if date == "" {
			date = util.CleanText(timeEl.Text())
		}

		out = append(out, domain.JobPosting{
			ID:       id,
			Title:    title,
			Company:  util.CleanText(li.Find("h4.base-search-card__subtitle").First().Text()),
			Location: util.CleanText(li.Find("span.job-search-card__location").First().Text()),
			URL:      postingURL,
			Date:     date,
		})
	})
	return out
}

func urnTail(urn string) string {
	urn = strings.TrimSpace(urn)
	if urn == "" {
		return ""
	}
	parts := strings.Split(urn, ":")
	return parts[len(parts)-1]
}
