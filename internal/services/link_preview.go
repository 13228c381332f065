package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"

	"launchpad/internal/infrastructure/logging"
	"launchpad/internal/launcher"
	"launchpad/internal/types"
)

const (
	previewUserAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	previewMaxBodySize = 512 * 1024
)

// LinkPreviewer fetches and caches page titles for website shortcuts
type LinkPreviewer struct {
	base   *colly.Collector
	logger logging.Logger

	mu    sync.RWMutex
	cache map[string]types.LinkPreview
}

// NewLinkPreviewer creates a previewer whose requests give up after timeout
func NewLinkPreviewer(timeout time.Duration, logger logging.Logger) *LinkPreviewer {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	c := colly.NewCollector(
		colly.UserAgent(previewUserAgent),
		colly.MaxBodySize(previewMaxBodySize),
		colly.AllowURLRevisit(),
	)
	if timeout > 0 {
		c.SetRequestTimeout(timeout)
	}

	return &LinkPreviewer{
		base:   c,
		logger: logger,
		cache:  make(map[string]types.LinkPreview),
	}
}

// Fetch returns the title of rawURL, from cache when already known
func (p *LinkPreviewer) Fetch(ctx context.Context, rawURL string) (types.LinkPreview, error) {
	if preview, ok := p.cached(rawURL); ok {
		return preview, nil
	}
	if err := launcher.ValidateURL(rawURL); err != nil {
		return types.LinkPreview{}, err
	}
	if err := ctx.Err(); err != nil {
		return types.LinkPreview{}, err
	}

	var (
		title    string
		ogTitle  string
		fetchErr error
	)

	c := p.base.Clone()
	c.OnHTML("title", func(e *colly.HTMLElement) {
		if title == "" {
			title = normalizeTitle(e.Text)
		}
	})
	c.OnHTML(`meta[property="og:title"]`, func(e *colly.HTMLElement) {
		if ogTitle == "" {
			ogTitle = normalizeTitle(e.Attr("content"))
		}
	})
	c.OnError(func(r *colly.Response, err error) {
		fetchErr = fmt.Errorf("fetch %s (status %d): %w", rawURL, r.StatusCode, err)
	})

	if err := c.Visit(rawURL); err != nil && fetchErr == nil {
		fetchErr = fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	if fetchErr != nil {
		return types.LinkPreview{}, fetchErr
	}

	if title == "" {
		title = ogTitle
	}
	if title == "" {
		return types.LinkPreview{}, fmt.Errorf("fetch %s: page has no title", rawURL)
	}

	preview := types.LinkPreview{URL: rawURL, Title: title, FetchedAt: time.Now()}
	p.mu.Lock()
	p.cache[rawURL] = preview
	p.mu.Unlock()
	return preview, nil
}

// FetchAll fetches every URL in turn until ctx is done. Failures are logged and skipped.
func (p *LinkPreviewer) FetchAll(ctx context.Context, urls []string) int {
	fetched := 0
	for _, u := range urls {
		if ctx.Err() != nil {
			p.logger.Debug("Link previews cancelled", "remaining", len(urls)-fetched)
			break
		}
		if _, err := p.Fetch(ctx, u); err != nil {
			p.logger.Debug("Link preview failed", "url", u, "error", err)
			continue
		}
		fetched++
	}
	return fetched
}

// Title returns the cached title for rawURL
func (p *LinkPreviewer) Title(rawURL string) (string, bool) {
	preview, ok := p.cached(rawURL)
	return preview.Title, ok
}

func (p *LinkPreviewer) cached(rawURL string) (types.LinkPreview, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	preview, ok := p.cache[rawURL]
	return preview, ok
}

// WebsiteURLs lists the first target of every website shortcut in catalog
func WebsiteURLs(catalog *launcher.Catalog) []string {
	var urls []string
	for _, s := range catalog.All() {
		if s.Kind == launcher.KindWebsite && len(s.Targets) > 0 {
			urls = append(urls, s.Targets[0])
		}
	}
	return urls
}

func normalizeTitle(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
