package storage

import (
	"testing"

	"github.com/zimpower/trade-logger/internal/models"
	"github.com/zimpower/trade-logger/internal/timeutil"
)

func f(v float64) *float64 { return &v }

func TestRowFromRecord(t *testing.T) {
	rec := &models.TradeRecord{
		DisseminationID:         "935534400",
		OriginalDisseminationID: "935530000",
		Action:                  "CORRECT",
		AssetClass:              "CU",
		Taxonomy:                models.TaxonomyVanillaOption,
		Currency1:               "EUR",
		Currency2:               "USD",
		Notional1:               f(1000000),
		ExecutionTime:           timeutil.ParseParts("2013-04-15", "13:28:36"),
		Published:               timeutil.ParseParts("2013-04-15", "13:30:00"),
		Option: &models.OptionTerms{
			Strike:          f(1.25),
			PremiumCurrency: "USD",
			Type:            "Call",
			Expiry:          timeutil.Parse("2013-07-15"),
		},
		Pair:                  "EURUSD",
		AlphaPair:             "EURUSD",
		SpotRef:               f(1.0869),
		USDEquivalentNotional: f(1086900),
	}

	row := rowFromRecord(rec)

	if row.DisseminationID != "935534400" || row.OriginalDisseminationID != "935530000" {
		t.Errorf("ids = %q/%q", row.DisseminationID, row.OriginalDisseminationID)
	}
	if row.ExecutionDate != "2013-04-15" || row.ExecutionTime != "13:28:36" {
		t.Errorf("execution = %q %q", row.ExecutionDate, row.ExecutionTime)
	}
	if row.Notional1 == nil || *row.Notional1 != 1000000 {
		t.Errorf("notional1 = %v", row.Notional1)
	}
	if row.Notional2 != nil {
		t.Errorf("unreported notional2 must stay NULL, got %v", *row.Notional2)
	}
	if row.OptionStrike == nil || *row.OptionStrike != 1.25 {
		t.Errorf("strike = %v", row.OptionStrike)
	}
	if row.OptionExpiryDate != "2013-07-15" {
		t.Errorf("expiry = %q", row.OptionExpiryDate)
	}
	if row.SpotRef == nil || *row.SpotRef != 1.0869 {
		t.Errorf("spot ref = %v", row.SpotRef)
	}
	if row.InsertedAt.IsZero() {
		t.Error("inserted_at must be set")
	}
}

func TestRowFromRecordWithoutOption(t *testing.T) {
	rec := &models.TradeRecord{
		DisseminationID: "935534398",
		Taxonomy:        models.TaxonomyNDF,
		Currency1:       "USD",
		Currency2:       "BRL",
	}

	row := rowFromRecord(rec)

	if row.OptionStrike != nil || row.OptionPremium != nil || row.OptionType != "" {
		t.Errorf("NDF row must carry no option columns: %+v", row)
	}
	if row.ExecutionDate != "" {
		t.Errorf("invalid execution stamp must map to empty, got %q", row.ExecutionDate)
	}
}
