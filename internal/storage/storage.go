// Package storage persists enriched trade records to ClickHouse.
package storage

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/zimpower/trade-logger/internal/models"
)

// TradeStore is the persistence sink contract. Absence in Exists is a
// success value, not an error. Implementations must be safe for concurrent
// use.
type TradeStore interface {
	// Exists reports whether a record with this dissemination id was
	// already ingested.
	Exists(ctx context.Context, disseminationID string) (bool, error)

	// Insert stores one enriched record.
	Insert(ctx context.Context, rec *models.TradeRecord) error
}

// TradeRow is the flat trades table layout. Nullable columns mirror the
// record's optional fields: NULL means "not reported", never zero.
type TradeRow struct {
	DisseminationID         string `gorm:"column:dissemination_id"`
	OriginalDisseminationID string `gorm:"column:original_dissemination_id"`
	Action                  string `gorm:"column:action"`
	AssetClass              string `gorm:"column:asset_class"`
	Taxonomy                string `gorm:"column:taxonomy"`
	Status                  string `gorm:"column:status"`
	Cleared                 string `gorm:"column:cleared"`
	SettlementCurrency      string `gorm:"column:settlement_currency"`

	Currency1 string   `gorm:"column:currency_1"`
	Currency2 string   `gorm:"column:currency_2"`
	Notional1 *float64 `gorm:"column:notional_1"`
	Notional2 *float64 `gorm:"column:notional_2"`

	ExecutionDate string `gorm:"column:execution_date"`
	ExecutionTime string `gorm:"column:execution_time"`

	Title         string `gorm:"column:title"`
	FeedGUID      string `gorm:"column:feed_guid"`
	PublishedDate string `gorm:"column:published_date"`
	PublishedTime string `gorm:"column:published_time"`

	OptionStrike     *float64 `gorm:"column:option_strike"`
	OptionPremium    *float64 `gorm:"column:option_premium"`
	OptionCurrency   string   `gorm:"column:option_currency"`
	OptionType       string   `gorm:"column:option_type"`
	OptionExpiryDate string   `gorm:"column:option_expiry_date"`

	Pair                  string   `gorm:"column:pair"`
	AlphaPair             string   `gorm:"column:alpha_pair"`
	SpotRef               *float64 `gorm:"column:spot_ref"`
	USDEquivalentNotional *float64 `gorm:"column:usd_equiv_notional"`

	InsertedAt time.Time `gorm:"column:inserted_at"`
}

func (TradeRow) TableName() string { return "trades" }

// rowFromRecord flattens a TradeRecord for storage.
func rowFromRecord(rec *models.TradeRecord) TradeRow {
	row := TradeRow{
		DisseminationID:         rec.DisseminationID,
		OriginalDisseminationID: rec.OriginalDisseminationID,
		Action:                  rec.Action,
		AssetClass:              rec.AssetClass,
		Taxonomy:                rec.Taxonomy,
		Status:                  rec.Status,
		Cleared:                 rec.Cleared,
		SettlementCurrency:      rec.SettlementCurrency,
		Currency1:               rec.Currency1,
		Currency2:               rec.Currency2,
		Notional1:               rec.Notional1,
		Notional2:               rec.Notional2,
		Title:                   rec.Title,
		FeedGUID:                rec.FeedGUID,
		Pair:                    rec.Pair,
		AlphaPair:               rec.AlphaPair,
		SpotRef:                 rec.SpotRef,
		USDEquivalentNotional:   rec.USDEquivalentNotional,
		InsertedAt:              time.Now().UTC(),
	}
	if rec.ExecutionTime.Valid {
		row.ExecutionDate = rec.ExecutionTime.Date
		row.ExecutionTime = rec.ExecutionTime.Time
	}
	if rec.Published.Valid {
		row.PublishedDate = rec.Published.Date
		row.PublishedTime = rec.Published.Time
	}
	if opt := rec.Option; opt != nil {
		row.OptionStrike = opt.Strike
		row.OptionPremium = opt.Premium
		row.OptionCurrency = opt.PremiumCurrency
		row.OptionType = opt.Type
		if opt.Expiry.Valid {
			row.OptionExpiryDate = opt.Expiry.Date
		}
	}
	return row
}

type gormTradeStore struct {
	db *gorm.DB
}

// NewGormTradeStore creates a TradeStore on an open gorm connection.
func NewGormTradeStore(db *gorm.DB) TradeStore {
	return &gormTradeStore{db: db}
}

func (s *gormTradeStore) Exists(ctx context.Context, disseminationID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&TradeRow{}).
		Where("dissemination_id = ?", disseminationID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *gormTradeStore) Insert(ctx context.Context, rec *models.TradeRecord) error {
	row := rowFromRecord(rec)
	return s.db.WithContext(ctx).Create(&row).Error
}
