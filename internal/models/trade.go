// Package models defines the domain models used across the application.
package models

import "github.com/zimpower/trade-logger/internal/timeutil"

// Option-bearing taxonomy values published on the disclosure feed. Records
// carrying any other taxonomy (including "ForeignExchange:NDF") have no
// option terms.
const (
	TaxonomyNDF           = "ForeignExchange:NDF"
	TaxonomyNDO           = "ForeignExchange:NDO"
	TaxonomyVanillaOption = "ForeignExchange:VanillaOption"
	TaxonomyBarrier       = "ForeignExchange:SimpleExotic:Barrier"
	TaxonomyComplexExotic = "ForeignExchange:ComplexExotic"
)

// HasOptionTerms reports whether a taxonomy value carries the option-specific
// columns of the feed schema.
func HasOptionTerms(taxonomy string) bool {
	switch taxonomy {
	case TaxonomyNDO, TaxonomyVanillaOption, TaxonomyBarrier, TaxonomyComplexExotic:
		return true
	}
	return false
}

// TradeRecord is one disclosed trade decoded from a feed item.
//
// Numeric fields are pointers: a nil value means the column was not reported
// on the feed, which is distinct from a reported zero. Option is nil unless
// the taxonomy is option-bearing. The enrichment fields at the bottom are
// populated once by the enrichment stage and left nil/empty when a derived
// value could not be computed.
type TradeRecord struct {
	// DisseminationID identifies the trade within a feed snapshot. A later
	// snapshot may re-emit the same underlying trade under a new id with
	// OriginalDisseminationID pointing at the prior publication.
	DisseminationID         string `json:"dtcc_id"`
	OriginalDisseminationID string `json:"orig_dtcc_id,omitempty"`

	// Action is the feed's correction/cancellation marker (NEW, CORRECT,
	// CANCEL).
	Action string `json:"action,omitempty"`

	AssetClass string `json:"asset,omitempty"`

	// Taxonomy is the trade-type classifier that gates the option fields.
	Taxonomy string `json:"taxonomy"`

	// Status is the price-forming continuation data column.
	Status string `json:"status,omitempty"`

	Cleared            string `json:"cleared,omitempty"`
	SettlementCurrency string `json:"settlement_ccy,omitempty"`

	// Currency1/Currency2 are the two notional currencies (3-letter codes).
	Currency1 string `json:"und"`
	Currency2 string `json:"acc"`

	// Notional1/Notional2 are the rounded notional amounts in Currency1 and
	// Currency2 respectively.
	Notional1 *float64 `json:"und_not,omitempty"`
	Notional2 *float64 `json:"acc_not,omitempty"`

	ExecutionTime timeutil.Stamp `json:"time_stamp,omitempty"`

	// Feed item metadata.
	Title     string         `json:"title,omitempty"`
	FeedGUID  string         `json:"rss_guid,omitempty"`
	Published timeutil.Stamp `json:"pub_date,omitempty"`

	// Option holds the option-specific columns, present only when
	// HasOptionTerms(Taxonomy) is true.
	Option *OptionTerms `json:"option,omitempty"`

	// Derived fields, set by the enrichment stage.

	// Pair is Currency1+Currency2 in feed order; AlphaPair is the same two
	// currencies in lexicographic order, independent of quoting convention.
	Pair      string `json:"m_pair,omitempty"`
	AlphaPair string `json:"m_alpha_pair,omitempty"`

	// SpotRef is the cached spot rate for Pair at enrichment time.
	SpotRef *float64 `json:"m_spot_ref,omitempty"`

	// USDEquivalentNotional is the trade notional restated in USD. Nil when
	// no USD leg exists and no USD cross rate was available.
	USDEquivalentNotional *float64 `json:"m_usd_equiv_not,omitempty"`
}

// OptionTerms are the columns only meaningful for option-bearing taxonomies.
type OptionTerms struct {
	Strike          *float64       `json:"strike,omitempty"`
	Premium         *float64       `json:"prem,omitempty"`
	PremiumCurrency string         `json:"prem_ccy,omitempty"`
	Type            string         `json:"type,omitempty"`
	Expiry          timeutil.Stamp `json:"expiry,omitempty"`
}
