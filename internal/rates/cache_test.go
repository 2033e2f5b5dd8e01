package rates

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"
)

// stubSource serves fixed USD-relative quotes and records fetch counts.
type stubSource struct {
	mu      sync.Mutex
	rates   map[string]float64
	fetches map[string]int
	fail    bool
	delay   time.Duration
}

func newStubSource() *stubSource {
	return &stubSource{
		rates: map[string]float64{
			"USDEUR": 0.92,
			"USDGBP": 0.79,
			"USDJPY": 148.5,
			"USDCHF": 0.88,
		},
		fetches: make(map[string]int),
	}
}

func (s *stubSource) FetchQuote(ctx context.Context, pair string) (Quote, error) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches[pair]++
	if s.fail {
		return Quote{}, errors.New("source down")
	}
	r, ok := s.rates[pair]
	if !ok {
		return Quote{}, fmt.Errorf("no quote for %s", pair)
	}
	return Quote{Rate: r, Date: "4/15/2013", Time: "5:55pm"}, nil
}

func (s *stubSource) fetchCount(pair string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches[pair]
}

func (s *stubSource) setFail(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = fail
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRateBaseCurrencyFixed(t *testing.T) {
	src := newStubSource()
	c := NewCache(src, 0, nil)

	r, err := c.Rate(context.Background(), "USD")
	if err != nil {
		t.Fatalf("Rate(USD) error: %v", err)
	}
	if r != 1.0 {
		t.Errorf("Rate(USD) = %v, want 1.0", r)
	}
	if n := src.fetchCount("USDUSD"); n != 0 {
		t.Errorf("base currency triggered %d fetches", n)
	}
}

func TestRateValidatesCurrency(t *testing.T) {
	c := NewCache(newStubSource(), 0, nil)

	for _, ccy := range []string{"", "EU", "EURO", "XXX", "123"} {
		if _, err := c.Rate(context.Background(), ccy); !errors.Is(err, ErrInvalidCurrency) {
			t.Errorf("Rate(%q) error = %v, want ErrInvalidCurrency", ccy, err)
		}
	}
}

func TestSpotValidatesPair(t *testing.T) {
	c := NewCache(newStubSource(), 0, nil)

	for _, pair := range []string{"", "EUR", "EURUS", "EURUSDX", "EURXXX", "XXXUSD"} {
		if _, err := c.Spot(context.Background(), pair); !errors.Is(err, ErrInvalidPair) {
			t.Errorf("Spot(%q) error = %v, want ErrInvalidPair", pair, err)
		}
	}
}

func TestSpotDirection(t *testing.T) {
	c := NewCache(newStubSource(), 0, nil)

	// EURUSD: units of USD per one EUR = 1/0.92.
	spot, err := c.Spot(context.Background(), "EURUSD")
	if err != nil {
		t.Fatalf("Spot error: %v", err)
	}
	if !approxEqual(spot, 1/0.92) {
		t.Errorf("Spot(EURUSD) = %v, want %v", spot, 1/0.92)
	}

	// USDJPY is the source's own quoting direction.
	spot, err = c.Spot(context.Background(), "USDJPY")
	if err != nil {
		t.Fatalf("Spot error: %v", err)
	}
	if !approxEqual(spot, 148.5) {
		t.Errorf("Spot(USDJPY) = %v, want 148.5", spot)
	}
}

func TestSpotReciprocal(t *testing.T) {
	c := NewCache(newStubSource(), 0, nil)
	ctx := context.Background()

	pairs := [][2]string{{"EUR", "USD"}, {"EUR", "GBP"}, {"GBP", "JPY"}, {"USD", "CHF"}}
	for _, p := range pairs {
		fwd, err := c.Spot(ctx, p[0]+p[1])
		if err != nil {
			t.Fatalf("Spot(%s%s) error: %v", p[0], p[1], err)
		}
		rev, err := c.Spot(ctx, p[1]+p[0])
		if err != nil {
			t.Fatalf("Spot(%s%s) error: %v", p[1], p[0], err)
		}
		if !approxEqual(fwd, 1/rev) {
			t.Errorf("Spot(%s%s) = %v, reciprocal of reverse = %v", p[0], p[1], fwd, 1/rev)
		}
	}
}

func TestSpotCrossRateIdentity(t *testing.T) {
	c := NewCache(newStubSource(), 0, nil)
	ctx := context.Background()

	ac, err := c.Spot(ctx, "EURJPY")
	if err != nil {
		t.Fatalf("Spot(EURJPY) error: %v", err)
	}
	ab, err := c.Spot(ctx, "EURGBP")
	if err != nil {
		t.Fatalf("Spot(EURGBP) error: %v", err)
	}
	bc, err := c.Spot(ctx, "GBPJPY")
	if err != nil {
		t.Fatalf("Spot(GBPJPY) error: %v", err)
	}

	if !approxEqual(ac, ab*bc) {
		t.Errorf("cross-rate identity broken: Spot(EURJPY)=%v, Spot(EURGBP)*Spot(GBPJPY)=%v", ac, ab*bc)
	}
}

func TestRateCachedWithinTTL(t *testing.T) {
	src := newStubSource()
	c := NewCache(src, time.Minute, nil)
	ctx := context.Background()

	if _, err := c.Spot(ctx, "EURGBP"); err != nil {
		t.Fatalf("Spot error: %v", err)
	}
	if _, err := c.Spot(ctx, "EURGBP"); err != nil {
		t.Fatalf("Spot error: %v", err)
	}

	for _, pair := range []string{"USDEUR", "USDGBP"} {
		if n := src.fetchCount(pair); n != 1 {
			t.Errorf("fetch count for %s = %d, want 1 (cache hit expected)", pair, n)
		}
	}
}

func TestRateRefreshedAfterTTL(t *testing.T) {
	src := newStubSource()
	c := NewCache(src, 10*time.Millisecond, nil)
	ctx := context.Background()

	if _, err := c.Rate(ctx, "EUR"); err != nil {
		t.Fatalf("Rate error: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, err := c.Rate(ctx, "EUR"); err != nil {
		t.Fatalf("Rate error: %v", err)
	}

	if n := src.fetchCount("USDEUR"); n != 2 {
		t.Errorf("fetch count = %d, want exactly 2 (one refresh after TTL)", n)
	}
}

func TestRateStaleFallbackOnSourceFailure(t *testing.T) {
	src := newStubSource()
	c := NewCache(src, 10*time.Millisecond, nil)
	ctx := context.Background()

	first, err := c.Rate(ctx, "EUR")
	if err != nil {
		t.Fatalf("Rate error: %v", err)
	}

	src.setFail(true)
	time.Sleep(20 * time.Millisecond)

	stale, err := c.Rate(ctx, "EUR")
	if err != nil {
		t.Fatalf("Rate with cached value should not fail: %v", err)
	}
	if stale != first {
		t.Errorf("expected stale value %v, got %v", first, stale)
	}
}

func TestRateUnavailableWithoutCachedValue(t *testing.T) {
	src := newStubSource()
	src.setFail(true)
	c := NewCache(src, 0, nil)

	if _, err := c.Rate(context.Background(), "EUR"); !errors.Is(err, ErrRateUnavailable) {
		t.Errorf("error = %v, want ErrRateUnavailable", err)
	}
}

func TestTimestamp(t *testing.T) {
	src := newStubSource()
	c := NewCache(src, time.Minute, nil)
	ctx := context.Background()

	if _, ok := c.Timestamp("EURGBP"); ok {
		t.Error("Timestamp should be unknown before any fetch")
	}
	if _, ok := c.Timestamp("EURUSDX"); ok {
		t.Error("Timestamp of malformed pair should be unknown")
	}

	if _, err := c.Spot(ctx, "EURGBP"); err != nil {
		t.Fatalf("Spot error: %v", err)
	}
	first, ok := c.Timestamp("EURGBP")
	if !ok {
		t.Fatal("Timestamp should be known after Spot")
	}

	// The base leg is pinned far in the future, so a USD pair reports the
	// other leg's freshness.
	usdLeg, ok := c.Timestamp("EURUSD")
	if !ok {
		t.Fatal("Timestamp(EURUSD) should be known")
	}
	if usdLeg.After(time.Now().Add(time.Minute)) {
		t.Errorf("Timestamp(EURUSD) = %v, should reflect the EUR leg", usdLeg)
	}

	// Freshness is non-decreasing across refreshes.
	later, ok := c.Timestamp("EURGBP")
	if !ok || later.Before(first) {
		t.Errorf("Timestamp went backwards: %v -> %v", first, later)
	}
}

func TestConcurrentRateSingleFetch(t *testing.T) {
	src := newStubSource()
	src.delay = 20 * time.Millisecond
	c := NewCache(src, time.Minute, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Rate(context.Background(), "EUR"); err != nil {
				t.Errorf("Rate error: %v", err)
			}
		}()
	}
	wg.Wait()

	if n := src.fetchCount("USDEUR"); n != 1 {
		t.Errorf("concurrent Rate calls issued %d fetches, want 1", n)
	}
}
