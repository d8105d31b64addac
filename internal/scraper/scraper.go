package scraper

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/khanhduong/wikiquiz/internal/apperr"
	"github.com/rs/zerolog/log"
)

// Article is what Fetch extracts from one Wikipedia page.
type Article struct {
	Title    string
	RawHTML  string
	Text     string
	Sections []string
}

// Options tunes the scraper. SkipHeadings is the denylist of
// boilerplate section headings that never count as article content;
// it is policy, not contract, so callers may override it.
type Options struct {
	Timeout      time.Duration
	UserAgent    string
	SkipHeadings []string
}

// Selectors for noisy page furniture removed before text extraction,
// taken from what actually appears on Wikipedia article pages.
var noiseSelectors = []string{
	"table",
	"div.navbox",
	"div.infobox",
	"div.reflist",
	"span.mw-editsection",
	"sup.reference",
	"div.thumb",
	"div.gallery",
	"div.mw-jump-link",
	"div.hatnote",
	"div.mw-indicators",
	"div.ambox",
	"div.dablink",
}

func defaultSkipHeadings() []string {
	return []string{
		"References",
		"See also",
		"External links",
		"Further reading",
		"Notes",
		"Bibliography",
		"Sources",
	}
}

// Wikipedia serves 403 to clients without a browser-ish User-Agent.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

const minTextLen = 100

type Scraper struct {
	client       *http.Client
	userAgent    string
	skipHeadings map[string]bool
}

func New(opts Options) *Scraper {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	headings := opts.SkipHeadings
	if headings == nil {
		headings = defaultSkipHeadings()
	}
	skip := make(map[string]bool, len(headings))
	for _, h := range headings {
		skip[strings.ToLower(h)] = true
	}
	return &Scraper{
		client:       &http.Client{Timeout: timeout},
		userAgent:    ua,
		skipHeadings: skip,
	}
}

// Fetch downloads the page and extracts its title, content section
// headings and readable body text. It never writes anywhere; the
// caller owns persistence.
func (s *Scraper) Fetch(ctx context.Context, url string) (*Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindFetch, err, "building request for %s", url)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindFetch, err, "GET %s failed", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperr.New(apperr.KindFetch, "GET %s returned status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindFetch, err, "reading response from %s", url)
	}
	html := string(body)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindExtraction, err, "parsing HTML from %s", url)
	}

	article := &Article{
		RawHTML:  html,
		Title:    extractTitle(doc),
		Sections: s.extractSections(doc),
	}
	article.Text = extractText(doc)

	if len(strings.TrimSpace(article.Text)) < minTextLen {
		return nil, apperr.New(apperr.KindExtraction,
			"extracted text too short (%d chars) for %s", len(article.Text), url)
	}

	log.Debug().Str("url", url).Str("title", article.Title).
		Int("sections", len(article.Sections)).Int("textLen", len(article.Text)).
		Msg("Article scraped")
	return article, nil
}

func extractTitle(doc *goquery.Document) string {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	// Wikipedia title elements read "Alan Turing - Wikipedia".
	if idx := strings.LastIndex(title, " - Wikipedia"); idx > 0 {
		title = title[:idx]
	}
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	return title
}

// contentRoot finds the article body. Wikipedia keeps it in
// div.mw-parser-output inside #mw-content-text.
func contentRoot(doc *goquery.Document) *goquery.Selection {
	if sel := doc.Find("div.mw-parser-output").First(); sel.Length() > 0 {
		return sel
	}
	if sel := doc.Find("#mw-content-text").First(); sel.Length() > 0 {
		return sel
	}
	return doc.Find("body").First()
}

func (s *Scraper) extractSections(doc *goquery.Document) []string {
	var sections []string
	doc.Find("h2").Each(func(_ int, sel *goquery.Selection) {
		heading := strings.TrimSpace(sel.Find("span.mw-headline").First().Text())
		if heading == "" {
			heading = strings.TrimSpace(sel.Text())
		}
		if heading == "" || s.skipHeadings[strings.ToLower(heading)] {
			return
		}
		sections = append(sections, heading)
	})
	return sections
}

func extractText(doc *goquery.Document) string {
	root := contentRoot(doc)
	for _, sel := range noiseSelectors {
		root.Find(sel).Remove()
	}

	var paragraphs []string
	root.Find("p").Each(func(_ int, p *goquery.Selection) {
		text := collapseSpace(p.Text())
		if len(text) >= 10 {
			paragraphs = append(paragraphs, text)
		}
	})
	text := strings.Join(paragraphs, "\n\n")

	// Sparse pages: fall back to headings and list items before giving up.
	if len(strings.TrimSpace(text)) < 200 {
		parts := paragraphs
		root.Find("h1, h2, h3, h4, h5").Each(func(_ int, h *goquery.Selection) {
			if t := collapseSpace(h.Text()); len(t) >= 5 {
				parts = append(parts, t)
			}
		})
		root.Find("li").Each(func(_ int, li *goquery.Selection) {
			if t := collapseSpace(li.Text()); len(t) >= 10 {
				parts = append(parts, t)
			}
		})
		text = strings.Join(parts, "\n\n")
	}

	// Last resort: every meaningful line of the whole document.
	if len(strings.TrimSpace(text)) < 50 {
		var lines []string
		for _, line := range strings.Split(doc.Text(), "\n") {
			line = strings.TrimSpace(line)
			if len(line) > 20 {
				lines = append(lines, line)
			}
			if len(lines) >= 100 {
				break
			}
		}
		text = strings.Join(lines, "\n")
	}

	return text
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
