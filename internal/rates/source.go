package rates

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultQuoteURL       = "http://download.finance.yahoo.com/d/quotes.csv"
	defaultRequestTimeout = 10 * time.Second
	defaultRequestsPerSec = 2
)

// Quote row layout: symbol, last rate, quote date, quote time.
// Example response: "USDINR=X",54.635,"4/15/2013","5:55pm"
const quoteFields = 4

// HTTPSource fetches quotes from a CSV quote endpoint. A rate limiter keeps
// the poll loop from hammering the source when many currencies go stale in
// the same cycle.
type HTTPSource struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewHTTPSource creates a quote source. Empty baseURL selects the default
// endpoint; requestsPerSecond <= 0 selects a conservative default.
func NewHTTPSource(baseURL string, requestsPerSecond float64) *HTTPSource {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultQuoteURL
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = defaultRequestsPerSec
	}
	return &HTTPSource{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultRequestTimeout},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// FetchQuote requests the latest quote row for a 6-letter pair token.
func (s *HTTPSource) FetchQuote(ctx context.Context, pair string) (Quote, error) {
	if !ValidPair(pair) {
		return Quote{}, fmt.Errorf("%w: %q", ErrInvalidPair, pair)
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return Quote{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.quoteURL(pair), nil)
	if err != nil {
		return Quote{}, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return Quote{}, fmt.Errorf("quote fetch for %s failed: %w", pair, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("quote fetch for %s: unexpected status %d", pair, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return Quote{}, fmt.Errorf("quote fetch for %s: %w", pair, err)
	}

	return parseQuoteRow(string(body), pair)
}

// parseQuoteRow decodes the single CSV row the quote endpoint returns.
func parseQuoteRow(raw, pair string) (Quote, error) {
	line := strings.NewReplacer("\r", "", "\n", "").Replace(raw)
	record, err := csv.NewReader(strings.NewReader(line)).Read()
	if err != nil {
		return Quote{}, fmt.Errorf("quote row for %s unparsable: %w", pair, err)
	}
	if len(record) < quoteFields {
		return Quote{}, fmt.Errorf("quote row for %s too short: %d fields", pair, len(record))
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
	if err != nil {
		return Quote{}, fmt.Errorf("quote rate for %s unparsable: %w", pair, err)
	}

	return Quote{
		Rate: value,
		Date: record[2],
		Time: record[3],
	}, nil
}

func (s *HTTPSource) quoteURL(pair string) string {
	query := url.Values{}
	query.Set("f", "sl1d1t1")
	query.Set("e", ".csv")
	query.Set("s", pair+"=X")
	return s.baseURL + "?" + query.Encode()
}
