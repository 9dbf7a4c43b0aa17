// Package harvest drives a headless browser across a conference agenda site,
// discovers session detail pages, and hands each page's content to the
// extraction engine: the structured __NEXT_DATA__ document when the page has
// one, the rendered text otherwise.
package harvest

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/chromedp/chromedp"

	"github.com/joelkehle/summit-agenda/internal/catalog"
	"github.com/joelkehle/summit-agenda/internal/extract"
	"github.com/joelkehle/summit-agenda/internal/session"
)

// Options configures one harvest run.
type Options struct {
	BaseURL      string
	ChromePath   string
	PageTimeout  time.Duration
	PreviewCount int // >0 caps how many session pages are visited
}

const (
	defaultPageTimeout = 30 * time.Second
	maxAgendaPages     = 200
)

// Harvester crawls the agenda and accumulates Session candidates. The crawl
// is strictly sequential: one page is fully extracted before the next loads.
type Harvester struct {
	opts  Options
	store *catalog.Store

	// fetchPage loads one session detail page. It defaults to HarvestPage;
	// tests substitute it to drive the crawl loop without a browser.
	fetchPage func(context.Context, string) (extract.Input, error)
}

func NewHarvester(opts Options, store *catalog.Store) *Harvester {
	if opts.PageTimeout <= 0 {
		opts.PageTimeout = defaultPageTimeout
	}
	h := &Harvester{opts: opts, store: store}
	h.fetchPage = h.HarvestPage
	return h
}

// Run crawls, extracts, merges, and persists the catalogue. It returns the
// merged records that were written.
func (h *Harvester) Run(ctx context.Context) ([]session.Session, error) {
	browserCtx, cancel := newBrowserContext(ctx, h.opts.ChromePath)
	defer cancel()

	urls, err := h.DiscoverSessionURLs(browserCtx)
	if err != nil {
		return nil, fmt.Errorf("discover session pages: %w", err)
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("no session pages found at %s", h.opts.BaseURL)
	}
	if h.opts.PreviewCount > 0 && len(urls) > h.opts.PreviewCount {
		log.Printf("harvest: preview mode, visiting %d of %d session pages", h.opts.PreviewCount, len(urls))
		urls = urls[:h.opts.PreviewCount]
	}

	return h.harvestAll(browserCtx, urls)
}

// harvestAll visits every session page and persists the merged result. A
// cancelled context aborts the run before anything is written: the store does
// full rewrites, so persisting the partial candidate set of an interrupted
// crawl would replace a complete prior catalogue with a truncated one.
func (h *Harvester) harvestAll(ctx context.Context, urls []string) ([]session.Session, error) {
	run := extract.NewRun()
	for i, url := range urls {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("harvest interrupted: %w", err)
		}
		in, err := h.fetchPage(ctx, url)
		if err != nil {
			log.Printf("harvest: skipping %s: %v", url, err)
			continue
		}
		candidates := run.Process(in)
		log.Printf("harvest: page %d/%d yielded %d session(s)", i+1, len(urls), len(candidates))
	}
	// A cancellation during the final page lands here, not in the loop check.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("harvest interrupted: %w", err)
	}

	merged, err := h.store.Write(run.Candidates())
	if err != nil {
		return nil, fmt.Errorf("persist catalogue: %w", err)
	}
	return merged, nil
}

// DiscoverSessionURLs pages through the agenda listing until a page yields no
// new session links.
func (h *Harvester) DiscoverSessionURLs(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	var urls []string

	for page := 1; page <= maxAgendaPages; page++ {
		pageURL := fmt.Sprintf("%s?page=%d", h.opts.BaseURL, page)
		links, err := h.collectLinks(ctx, pageURL)
		if err != nil {
			return nil, err
		}
		fresh := 0
		for _, u := range FilterSessionLinks(links) {
			if !seen[u] {
				seen[u] = true
				urls = append(urls, u)
				fresh++
			}
		}
		if fresh == 0 {
			break
		}
		log.Printf("harvest: agenda page %d: %d new session link(s)", page, fresh)
	}
	sort.Strings(urls)
	return urls, nil
}

// Link is one anchor found on an agenda listing page.
type Link struct {
	Href string `json:"href"`
	Text string `json:"text"`
}

func (h *Harvester) collectLinks(ctx context.Context, pageURL string) ([]Link, error) {
	pageCtx, cancel := context.WithTimeout(ctx, h.opts.PageTimeout)
	defer cancel()

	var links []Link
	err := chromedp.Run(pageCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(
			`Array.from(document.querySelectorAll('a[href*="/session/"]')).map(a => ({href: a.href, text: a.textContent || ""}))`,
			&links,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", pageURL, err)
	}
	return links, nil
}

// FilterSessionLinks drops call-to-action anchors ("SEE DETAILS" buttons link
// to the same pages as the card titles) and empty hrefs.
func FilterSessionLinks(links []Link) []string {
	var out []string
	for _, l := range links {
		if strings.Contains(strings.ToUpper(l.Text), "SEE DETAILS") {
			continue
		}
		href := strings.TrimSpace(l.Href)
		if href == "" {
			continue
		}
		out = append(out, href)
	}
	return out
}

// HarvestPage loads one session detail page and assembles the extraction
// input. The structured document is preferred; the rendered page text rides
// along so extraction can fall back when the document yields nothing.
func (h *Harvester) HarvestPage(ctx context.Context, url string) (extract.Input, error) {
	pageCtx, cancel := context.WithTimeout(ctx, h.opts.PageTimeout)
	defer cancel()

	var nextData, pageHTML string
	err := chromedp.Run(pageCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(`JSON.stringify(window.__NEXT_DATA__ || null)`, &nextData),
		chromedp.OuterHTML("html", &pageHTML, chromedp.ByQuery),
	)
	if err != nil {
		return extract.Input{}, fmt.Errorf("load %s: %w", url, err)
	}

	in := extract.Input{SourceURL: url}
	if doc, err := DecodeNextData(nextData); err == nil {
		in.Document = doc
	} else if doc, ok := scanInlineScripts(pageHTML); ok {
		in.Document = doc
	}

	if text, err := htmltomarkdown.ConvertString(pageHTML); err == nil {
		in.Text = text
	} else {
		log.Printf("harvest: html conversion failed for %s: %v", url, err)
	}
	return in, nil
}

var scriptTagPattern = regexp.MustCompile(`(?is)<script[^>]*>(.*?)</script>`)

// scanInlineScripts scavenges script tags in the raw HTML for an embedded
// session payload when window.__NEXT_DATA__ was absent.
func scanInlineScripts(pageHTML string) (map[string]any, bool) {
	for _, m := range scriptTagPattern.FindAllStringSubmatch(pageHTML, -1) {
		body := m[1]
		lowered := strings.ToLower(body)
		if !strings.Contains(lowered, "session") && !strings.Contains(lowered, "agenda") {
			continue
		}
		if doc, ok := ScanScriptPayload(body); ok {
			return doc, true
		}
	}
	return nil, false
}
