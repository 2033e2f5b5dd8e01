// Package enrich augments extracted trade records with derived FX fields:
// the currency pair keys, a cached spot reference and a USD-equivalent
// notional. Every failure here is non-fatal; the record proceeds with
// whichever derived fields succeeded.
package enrich

import (
	"context"
	"log/slog"
	"strings"

	"github.com/zimpower/trade-logger/internal/models"
)

// RateSource is the slice of the rate cache the enricher needs.
type RateSource interface {
	Spot(ctx context.Context, pair string) (float64, error)
}

type Enricher struct {
	rates  RateSource
	logger *slog.Logger
}

func New(rates RateSource, logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{rates: rates, logger: logger}
}

// Enrich adds derived fields to rec in place. Original fields are never
// removed or modified.
func (e *Enricher) Enrich(ctx context.Context, rec *models.TradeRecord) {
	c1 := strings.ToUpper(rec.Currency1)
	c2 := strings.ToUpper(rec.Currency2)
	if len(c1) != 3 || len(c2) != 3 {
		e.logger.Warn("record has no usable currency pair, skipping enrichment",
			"id", rec.DisseminationID, "ccy1", rec.Currency1, "ccy2", rec.Currency2)
		return
	}

	rec.Pair = c1 + c2
	if c1 < c2 {
		rec.AlphaPair = c1 + c2
	} else {
		rec.AlphaPair = c2 + c1
	}

	e.addSpotRef(ctx, rec)
	e.addUSDEquivalent(ctx, rec, c1, c2)
}

func (e *Enricher) addSpotRef(ctx context.Context, rec *models.TradeRecord) {
	spot, err := e.rates.Spot(ctx, rec.Pair)
	if err != nil {
		e.logger.Warn("spot ref unavailable, field skipped",
			"id", rec.DisseminationID, "pair", rec.Pair, "error", err)
		return
	}
	rec.SpotRef = &spot
	e.logger.Debug("added spot ref", "id", rec.DisseminationID, "pair", rec.Pair, "spot", spot)
}

// addUSDEquivalent restates the notional in USD. A USD leg is copied
// directly so no rate error is introduced; otherwise the first notional is
// bridged over the USD cross rate. With no computable case the field stays
// nil.
func (e *Enricher) addUSDEquivalent(ctx context.Context, rec *models.TradeRecord, c1, c2 string) {
	switch {
	case c1 == "USD":
		if rec.Notional1 != nil {
			v := *rec.Notional1
			rec.USDEquivalentNotional = &v
		}
	case c2 == "USD":
		if rec.Notional2 != nil {
			v := *rec.Notional2
			rec.USDEquivalentNotional = &v
		}
	default:
		if rec.Notional1 == nil {
			return
		}
		pair := "USD" + c1
		spot, err := e.rates.Spot(ctx, pair)
		if err != nil {
			e.logger.Warn("usd equivalent unavailable, field skipped",
				"id", rec.DisseminationID, "pair", pair, "error", err)
			return
		}
		if spot == 0 {
			e.logger.Warn("zero usd cross rate, field skipped",
				"id", rec.DisseminationID, "pair", pair)
			return
		}
		v := *rec.Notional1 / spot
		rec.USDEquivalentNotional = &v
	}

	if rec.USDEquivalentNotional != nil {
		e.logger.Debug("added usd equivalent notional",
			"id", rec.DisseminationID, "usdEquivNotional", *rec.USDEquivalentNotional)
	}
}
