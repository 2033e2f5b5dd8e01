package feed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultURL is the public FX slice feed.
	DefaultURL = "https://kgc0418-tdw-data-0.s3.amazonaws.com/slices/FOREX_RSS_FEED.rss"

	defaultFetchTimeout = 30 * time.Second
)

// RSSClient fetches and decodes the RSS slice feed over HTTP.
type RSSClient struct {
	url    string
	parser *gofeed.Parser
	logger *logrus.Logger
}

// NewRSSClient creates a feed client. Empty url selects DefaultURL; a zero
// timeout selects a default so a hung fetch cannot stall the poll loop.
func NewRSSClient(url string, timeout time.Duration, logger *logrus.Logger) *RSSClient {
	if strings.TrimSpace(url) == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	if logger == nil {
		logger = logrus.New()
	}

	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}

	return &RSSClient{
		url:    url,
		parser: parser,
		logger: logger,
	}
}

// Fetch downloads the current feed snapshot and flattens it to Items.
func (c *RSSClient) Fetch(ctx context.Context) ([]Item, error) {
	parsed, err := c.parser.ParseURLWithContext(c.url, ctx)
	if err != nil {
		return nil, fmt.Errorf("feed fetch failed: %w", err)
	}

	items := flatten(parsed)
	c.logger.WithFields(logrus.Fields{
		"url":   c.url,
		"items": len(items),
	}).Debug("Fetched feed snapshot")

	return items, nil
}

// flatten maps parsed RSS items to the pipeline's Item form. Newlines are
// stripped from descriptions so each payload is a single CSV row.
func flatten(parsed *gofeed.Feed) []Item {
	items := make([]Item, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		item := Item{
			GUID:        it.GUID,
			Title:       it.Title,
			Description: strings.NewReplacer("\r", "", "\n", "").Replace(it.Description),
		}
		if it.PublishedParsed != nil {
			item.Published = *it.PublishedParsed
		}
		items = append(items, item)
	}
	return items
}
