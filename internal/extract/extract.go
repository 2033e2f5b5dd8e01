// Package extract decodes one feed item's embedded tabular payload into a
// TradeRecord using the fixed column schema.
package extract

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/zimpower/trade-logger/internal/feed"
	"github.com/zimpower/trade-logger/internal/models"
	"github.com/zimpower/trade-logger/internal/timeutil"
)

// ErrDecode marks a feed item that could not be decoded into a record.
// Decode failures are per-item; siblings in the same snapshot are
// unaffected.
var ErrDecode = errors.New("extract: undecodable feed item")

// guidPattern locates the numeric dissemination id embedded at the end of
// the item's long-form unique reference, e.g.
// ".../slices/FOREX_RSS_FEED.rss#935534398". The optional </guid> suffix
// tolerates feeds that leak the closing tag into the value.
var guidPattern = regexp.MustCompile(`#(\d+)(?:</guid>)?$`)

// Extractor decodes feed items. Parse problems in individual columns are
// logged and the column omitted; only a missing id or an unparsable row is
// a decode failure.
type Extractor struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract decodes one feed item into a TradeRecord.
func (x *Extractor) Extract(item feed.Item) (*models.TradeRecord, error) {
	guid, err := parseGUID(item.GUID)
	if err != nil {
		return nil, err
	}

	row, err := parseRow(item.Description)
	if err != nil {
		return nil, err
	}

	rec := &models.TradeRecord{
		DisseminationID:         row.field("DISSEMINATION_ID"),
		OriginalDisseminationID: row.field("ORIGINAL_DISSEMINATION_ID"),
		Action:                  row.field("ACTION"),
		AssetClass:              row.field("ASSET_CLASS"),
		Taxonomy:                row.field("TAXONOMY"),
		Status:                  row.field("PRICE_FORMING_CONTINUATION_DATA"),
		Cleared:                 row.field("CLEARED"),
		SettlementCurrency:      row.field("SETTLEMENT_CURRENCY"),
		Currency1:               row.field("NOTIONAL_CURRENCY_1"),
		Currency2:               row.field("NOTIONAL_CURRENCY_2"),
		Title:                   item.Title,
		FeedGUID:                guid,
		Published:               timeutil.FromTime(item.Published),
	}
	if rec.DisseminationID == "" {
		rec.DisseminationID = guid
	}

	rec.Notional1 = x.amount(row, "ROUNDED_NOTIONAL_AMOUNT_1", rec.DisseminationID)
	rec.Notional2 = x.amount(row, "ROUNDED_NOTIONAL_AMOUNT_2", rec.DisseminationID)
	rec.ExecutionTime = x.stamp(row, "EXECUTION_TIMESTAMP", rec.DisseminationID)

	if models.HasOptionTerms(rec.Taxonomy) {
		rec.Option = &models.OptionTerms{
			Strike:          x.amount(row, "OPTION_STRIKE_PRICE", rec.DisseminationID),
			Premium:         x.amount(row, "OPTION_PREMIUM", rec.DisseminationID),
			PremiumCurrency: row.field("OPTION_CURRENCY"),
			Type:            strings.ReplaceAll(row.field("OPTION_TYPE"), "-", ""),
			Expiry:          x.stamp(row, "OPTION_EXPIRATION_DATE", rec.DisseminationID),
		}
	}

	return rec, nil
}

// parseGUID extracts the trailing numeric id from the long-form reference.
func parseGUID(guid string) (string, error) {
	m := guidPattern.FindStringSubmatch(strings.TrimSpace(guid))
	if m == nil {
		return "", fmt.Errorf("%w: no trailing id in guid %q", ErrDecode, guid)
	}
	return m[1], nil
}

// dataRow is one payload row keyed by the schema's column positions.
type dataRow []string

// parseRow prepends the fixed header to the payload and parses the result
// as a single CSV data row.
func parseRow(payload string) (dataRow, error) {
	reader := csv.NewReader(strings.NewReader(payload))
	reader.FieldsPerRecord = -1

	fields, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: payload row unparsable: %v", ErrDecode, err)
	}
	if len(fields) < len(Columns) {
		return nil, fmt.Errorf("%w: payload row short: %d of %d columns", ErrDecode, len(fields), len(Columns))
	}
	return dataRow(fields), nil
}

func (r dataRow) field(name string) string {
	return strings.TrimSpace(r[columnIndex[name]])
}

// amount parses a numeric column, stripping thousands separators. An empty
// or unparsable column yields nil: "not reported" is distinct from zero.
func (x *Extractor) amount(row dataRow, column, id string) *float64 {
	raw := row.field(column)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		x.logger.Warn("unparsable numeric column, omitting", "id", id, "column", column, "value", raw)
		return nil
	}
	return &v
}

// stamp normalizes a timestamp column. Unparsable values yield an invalid
// Stamp and the record otherwise proceeds.
func (x *Extractor) stamp(row dataRow, column, id string) timeutil.Stamp {
	raw := row.field(column)
	if raw == "" {
		return timeutil.Stamp{}
	}
	st := timeutil.Parse(raw)
	if !st.Valid {
		x.logger.Warn("unparsable timestamp column, omitting", "id", id, "column", column, "value", raw)
	}
	return st
}
