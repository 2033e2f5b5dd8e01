package extract

// Columns is the fixed, order-sensitive header of the embedded trade
// payload. Each feed item's description is one data row under this schema;
// the feed itself never transmits the header. This list is a versioned
// contract with the feed publisher and must not drift.
var Columns = []string{
	"DISSEMINATION_ID",
	"ORIGINAL_DISSEMINATION_ID",
	"ACTION",
	"EXECUTION_TIMESTAMP",
	"CLEARED",
	"INDICATION_OF_COLLATERALIZATION",
	"INDICATION_OF_END_USER_EXCEPTION",
	"INDICATION_OF_OTHER_PRICE_AFFECTING_TERM",
	"BLOCK_TRADES_AND_LARGE_NOTIONAL_OFF-FACILITY_SWAPS",
	"EXECUTION_VENUE",
	"EFFECTIVE_DATE",
	"END_DATE",
	"DAY_COUNT_CONVENTION",
	"SETTLEMENT_CURRENCY",
	"ASSET_CLASS",
	"SUB-ASSET_CLASS_FOR_OTHER_COMMODITY",
	"TAXONOMY",
	"PRICE_FORMING_CONTINUATION_DATA",
	"UNDERLYING_ASSET_1",
	"UNDERLYING_ASSET_2",
	"PRICE_NOTATION_TYPE",
	"PRICE_NOTATION",
	"ADDITIONAL_PRICE_NOTATION_TYPE",
	"ADDITIONAL_PRICE_NOTATION",
	"NOTIONAL_CURRENCY_1",
	"NOTIONAL_CURRENCY_2",
	"ROUNDED_NOTIONAL_AMOUNT_1",
	"ROUNDED_NOTIONAL_AMOUNT_2",
	"PAYMENT_FREQUENCY_1",
	"PAYMENT_FREQUENCY_2",
	"RESET_FREQUENCY_1",
	"RESET_FREQUENCY_2",
	"EMBEDED_OPTION",
	"OPTION_STRIKE_PRICE",
	"OPTION_TYPE",
	"OPTION_FAMILY",
	"OPTION_CURRENCY",
	"OPTION_PREMIUM",
	"OPTION_LOCK_PERIOD",
	"OPTION_EXPIRATION_DATE",
	"PRICE_NOTATION2_TYPE",
	"PRICE_NOTATION2",
	"PRICE_NOTATION3_TYPE",
	"PRICE_NOTATION3",
}

// columnIndex maps column names to their position in Columns.
var columnIndex = func() map[string]int {
	idx := make(map[string]int, len(Columns))
	for i, name := range Columns {
		idx[name] = i
	}
	return idx
}()
