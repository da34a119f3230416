package linkedin

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"jobsweep/internal/domain"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Hydrate fetches the posting's detail page and fills in Description. The
// posting is left unchanged when the page is missing or has no description
// block.
func (s *Scraper) Hydrate(ctx context.Context, j *domain.JobPosting) error {
	if j.URL == "" {
		s.log.Debug("posting has no URL, skipping description fetch", "id", j.ID)
		return nil
	}
	s.log.Debug("fetching job description", "url", j.URL)

	res, err := s.get(ctx, j.URL)
	if err != nil {
		return fmt.Errorf("detail get: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		s.log.Warn("job page not found", "url", j.URL)
		return nil
	}
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("detail status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return fmt.Errorf("parse detail html: %w", err)
	}

	if sel := doc.Find("div.show-more-less-html__markup").First(); sel.Length() > 0 {
		if text := blockText(sel); text != "" {
			j.Description = text
		}
	}
	return nil
}

// blockText flattens the selection to plain text, inserting newlines at block
// boundaries so list items and paragraphs stay readable.
func blockText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		flattenText(n, &b)
	}

	lines := strings.Split(b.String(), "\n")
	var out []string
	for _, line := range lines {
		line = strings.TrimSpace(strings.Join(strings.Fields(line), " "))
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func flattenText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}
	if n.Type == html.ElementNode {
		switch n.Data {
		case "br", "p", "li", "div", "ul", "ol", "h1", "h2", "h3", "h4":
			b.WriteString("\n")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		flattenText(c, b)
	}
}
