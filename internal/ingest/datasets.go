package ingest

import "time"

const (
	defaultBatchSize = 1000
	riskBatchSize    = 5000
)

var macroUSCutoff = time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC)

// datasets lists every loadable table in dependency order: companies
// must exist before the company-scoped tables are loaded.
var datasets = []Dataset{
	{
		Name:      "industry_mapping",
		Table:     "industry_mapping",
		BatchSize: defaultBatchSize,
		Fields: []Field{
			{Column: "industry_sector", Source: "industry_sector", Kind: FieldText},
			{Column: "industry_sector_num", Source: "industry_sector_num", Kind: FieldInt},
			{Column: "industry_group", Source: "industry_group", Kind: FieldText},
			{Column: "industry_group_num", Source: "industry_group_num", Kind: FieldInt},
			{Column: "industry_subgroup", Source: "industry_subgroup", Kind: FieldText},
			{Column: "industry_subgroup_num", Source: "industry_subgroup_num", Kind: FieldInt, Required: true},
		},
	},
	{
		Name:      "companies",
		Table:     "companies",
		BatchSize: defaultBatchSize,
		Fields: []Field{
			{Column: "u3_company_number", Source: "u3_company_number", Kind: FieldInt, Required: true},
			{Column: "id_bb_unique", Source: "id_bb_unique", Kind: FieldText},
			{Column: "id_bb_company", Source: "id_bb_company", Kind: FieldInt},
			{Column: "ticker", Source: "ticker", Kind: FieldText},
			{Column: "company_name", Source: "company_name", Kind: FieldText},
			{Column: "country_name", Source: "country_name", Kind: FieldText},
			{Column: "security_type", Source: "security_type", Kind: FieldText},
			{Column: "market_status", Source: "market_status", Kind: FieldText},
			{Column: "prime_exchange", Source: "prime_exchange", Kind: FieldText},
			{Column: "domicile", Source: "domicile", Kind: FieldText},
			{Column: "industry_sector_num", Source: "industry_sector_num", Kind: FieldInt},
			{Column: "industry_group_num", Source: "industry_group_num", Kind: FieldInt},
			{Column: "industry_subgroup_num", Source: "industry_subgroup_num", Kind: FieldInt},
			{Column: "id_isin", Source: "id_isin", Kind: FieldText},
			{Column: "id_cusip", Source: "id_cusip", Kind: FieldText},
		},
	},
	{
		Name:          "credit_events",
		Table:         "credit_events",
		BatchSize:     defaultBatchSize,
		CompanyScoped: true,
		Fields: []Field{
			{Column: "u3_company_number", Source: "u3_company_number", Kind: FieldInt, Required: true},
			{Column: "id_bb_company", Source: "id_bb_company", Kind: FieldInt},
			{Column: "announcement_date", Source: "announcement_date", Kind: FieldDate},
			{Column: "effective_date", Source: "effective_date", Kind: FieldDate},
			{Column: "event_type", Source: "event_type", Kind: FieldInt},
			{Column: "action_name", Source: "action_name", Kind: FieldText},
			{Column: "subcategory", Source: "subcategory", Kind: FieldText},
		},
	},
	{
		Name:          "risk_indicators",
		Table:         "risk_indicators",
		BatchSize:     riskBatchSize,
		CompanyScoped: true,
		DecodeParquet: decodeRiskIndicatorParquet,
		Fields: []Field{
			{Column: "u3_company_number", Source: "Company_Number", Kind: FieldCompanyNumber, Required: true},
			{Column: "year", Source: "year", Kind: FieldInt, Required: true},
			{Column: "month", Source: "month", Kind: FieldInt, Required: true},
			{Column: "stk_index", Source: "StkIndx", Kind: FieldFloat},
			{Column: "st_int", Source: "STInt", Kind: FieldFloat},
			{Column: "m2b", Source: "m2b", Kind: FieldFloat},
			{Column: "sigma", Source: "sigma", Kind: FieldFloat},
			{Column: "dtd_median", Source: "DTDmedian", Kind: FieldFloat},
			{Column: "dtd_median_i", Source: "DTDmedian.1", Kind: FieldFloat},
			{Column: "dtd", Source: "dtd", Kind: FieldFloat},
			{Column: "liquidity_r", Source: "liquidity_r", Kind: FieldFloat},
			{Column: "ni2ta", Source: "ni2ta", Kind: FieldFloat},
			{Column: "size", Source: "size", Kind: FieldFloat},
			{Column: "liquidity_fin", Source: "liquidity_fin", Kind: FieldFloat},
		},
	},
	{
		Name:      "macro_commodities",
		Table:     "macro_commodities",
		BatchSize: defaultBatchSize,
		Fields: macroFields("date",
			"wti_crude", "brent_crude", "gasoline", "heating_oil", "gasoil",
			"natural_gas", "aluminum", "copper", "lead", "nickel", "zinc",
			"gold", "silver", "wheat", "corn", "soybeans", "cotton", "sugar",
			"coffee", "cocoa", "kansas_financial_stress", "iron_ore", "coal",
			"palm_oil", "rubber"),
	},
	{
		Name:      "macro_bond_yields",
		Table:     "macro_bond_yields",
		BatchSize: defaultBatchSize,
		Fields: macroFields("data_date",
			"us_1m", "us_3m", "us_6m", "us_1y", "us_2y", "us_3y", "us_5y",
			"us_7y", "us_10y", "us_30y"),
	},
	{
		Name:      "macro_us",
		Table:     "macro_us",
		BatchSize: defaultBatchSize,
		Keep:      afterMacroUSCutoff,
		Fields: macroFields("date",
			"sp_gsci", "sp500", "nasdaq", "vix", "gdp", "unemployment",
			"cpi", "ppi", "effective_exchange_rate", "interbank_3m",
			"house_price_index", "current_account"),
	},
	{
		Name:      "macro_fx",
		Table:     "macro_fx",
		BatchSize: defaultBatchSize,
		Fields: macroFields("date",
			"audusd", "usdcny", "usdhkd", "usdinr", "usdidr", "usdjpy",
			"usdmyr", "usdphp", "usdsgd", "usdkrw", "usdtwd", "usdthb",
			"eurusd", "gbpusd", "usdchf", "usdzar", "usdnok", "usdsek",
			"usdbrl", "usdmxn", "usdcad"),
	},
}

func All() []Dataset {
	return append([]Dataset(nil), datasets...)
}

func ByName(name string) (Dataset, bool) {
	for _, ds := range datasets {
		if ds.Name == name {
			return ds, true
		}
	}
	return Dataset{}, false
}

func macroFields(dateColumn string, values ...string) []Field {
	fields := make([]Field, 0, len(values)+1)
	fields = append(fields, Field{Column: dateColumn, Source: dateColumn, Kind: FieldDate, Required: true})
	for _, name := range values {
		fields = append(fields, Field{Column: name, Source: name, Kind: FieldFloat})
	}
	return fields
}

// The source workbook mixes series that start well before the macro
// coverage window; rows before 1990 are dropped.
func afterMacroUSCutoff(row Row) bool {
	date, ok := row[0].(time.Time)
	return ok && !date.Before(macroUSCutoff)
}
