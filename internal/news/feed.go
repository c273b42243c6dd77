// Package news harvests negative environmental press coverage for a
// company: Google News RSS polling per query template, dedup, embedding
// rerank, and generative event extraction.
package news

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/greenlens/claims-cli/internal/model"
)

const googleNewsRSS = "https://news.google.com/rss/search"

// defaultQueryTemplates pair the company name with the incident vocabulary
// regulators and local press actually use. %s is the company name.
var defaultQueryTemplates = []string{
	"%s 永續 罰款",
	"%s 污染",
	"%s 環保 裁罰",
	"%s 漏油",
	"%s 火災 爆炸",
	"%s 碳排 放空",
}

// FeedConfig tunes the RSS harvest.
type FeedConfig struct {
	BaseURL           string
	Templates         []string
	Locale            string // hl parameter, e.g. "zh-TW"
	Country           string // gl parameter, e.g. "TW"
	Edition           string // ceid parameter, e.g. "TW:zh-Hant"
	ItemsPerFeed      int
	RequestsPerSecond float64
}

func (c *FeedConfig) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = googleNewsRSS
	}
	if len(c.Templates) == 0 {
		c.Templates = defaultQueryTemplates
	}
	if c.Locale == "" {
		c.Locale = "zh-TW"
	}
	if c.Country == "" {
		c.Country = "TW"
	}
	if c.Edition == "" {
		c.Edition = "TW:zh-Hant"
	}
	if c.ItemsPerFeed <= 0 {
		c.ItemsPerFeed = 50
	}
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = 2
	}
}

// BuildQueries expands the query templates for one company.
func BuildQueries(company string, templates []string) []string {
	company = strings.TrimSpace(company)
	out := make([]string, 0, len(templates))
	for _, tmpl := range templates {
		out = append(out, fmt.Sprintf(tmpl, company))
	}
	return out
}

// rss mirrors the subset of RSS 2.0 Google News emits.
type rss struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	PubDate     string `xml:"pubDate"`
	Description string `xml:"description"`
}

// Fetcher polls Google News RSS with a shared rate limit across queries.
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	cfg     FeedConfig
}

// NewFetcher builds a Fetcher. A nil client uses a 15s-timeout default.
func NewFetcher(client *http.Client, cfg FeedConfig) *Fetcher {
	cfg.applyDefaults()
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Fetcher{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		cfg:     cfg,
	}
}

// FetchAll runs every query concurrently and returns the combined items in
// query order. A single failing feed fails the harvest; callers treat the
// whole fetch as one external call.
func (f *Fetcher) FetchAll(ctx context.Context, queries []string) ([]model.NewsItem, error) {
	results := make([][]model.NewsItem, len(queries))
	g, gctx := errgroup.WithContext(ctx)

	for i, q := range queries {
		g.Go(func() error {
			items, err := f.fetchQuery(gctx, q)
			if err != nil {
				return err
			}
			results[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []model.NewsItem
	for _, items := range results {
		all = append(all, items...)
	}
	zap.L().Debug("news: feeds fetched",
		zap.Int("queries", len(queries)),
		zap.Int("items", len(all)),
	)
	return all, nil
}

func (f *Fetcher) fetchQuery(ctx context.Context, query string) ([]model.NewsItem, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "news: rate limit wait")
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("hl", f.cfg.Locale)
	params.Set("gl", f.cfg.Country)
	params.Set("ceid", f.cfg.Edition)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.cfg.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "news: build request")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "news: fetch feed %q", query)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("news: feed %q returned status %d", query, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrapf(err, "news: read feed %q", query)
	}

	var doc rss
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, eris.Wrapf(err, "news: parse feed %q", query)
	}

	items := doc.Channel.Items
	if len(items) > f.cfg.ItemsPerFeed {
		items = items[:f.cfg.ItemsPerFeed]
	}

	out := make([]model.NewsItem, 0, len(items))
	for _, it := range items {
		out = append(out, model.NewsItem{
			Title:     it.Title,
			Link:      it.Link,
			Published: it.PubDate,
			Summary:   it.Description,
			Source:    "google_rss",
			Query:     query,
		})
	}
	return out, nil
}

// DedupeItems drops repeated entries by (title, link), keeping first-seen
// order. The same story routinely surfaces under several query templates.
func DedupeItems(items []model.NewsItem) []model.NewsItem {
	type key struct{ title, link string }
	seen := make(map[key]bool, len(items))
	var out []model.NewsItem
	for _, it := range items {
		k := key{it.Title, it.Link}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, it)
	}
	return out
}

// pubDateLayouts cover the formats Google News feeds emit.
var pubDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
}

// GuessEventDate parses a feed pubDate into YYYY-MM-DD, or "" when the
// format is unrecognized.
func GuessEventDate(published string) string {
	published = strings.TrimSpace(published)
	if published == "" {
		return ""
	}
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, published); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}
