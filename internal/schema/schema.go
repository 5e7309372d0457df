package schema

type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Note string `json:"note,omitempty"`
}

type Table struct {
	Name     string   `json:"name"`
	RowsNote string   `json:"rows_note,omitempty"`
	Columns  []Column `json:"columns"`
}

type Descriptor struct {
	Version string  `json:"version"`
	Text    string  `json:"-"`
	Tables  []Table `json:"tables"`
}

func Default() Descriptor {
	return Descriptor{
		Version: "2024-06",
		Text:    descriptorText,
		Tables:  tables(),
	}
}

func tables() []Table {
	return []Table{
		{
			Name:     "companies",
			RowsNote: "29,118 rows",
			Columns: []Column{
				{Name: "u3_company_number", Type: "INT", Note: "primary key, unique company identifier"},
				{Name: "ticker", Type: "VARCHAR", Note: "Bloomberg ticker, e.g. 'AAPL US'"},
				{Name: "company_name", Type: "VARCHAR", Note: "full company name"},
				{Name: "country_name", Type: "VARCHAR", Note: "country of listing"},
				{Name: "security_type", Type: "VARCHAR", Note: "Common Stock, Depositary Receipt, etc."},
				{Name: "market_status", Type: "VARCHAR", Note: "ACTV=Active, DLST=Delisted, ACQU=Acquired, MERG=Merged, LIQU=Liquidated"},
				{Name: "prime_exchange", Type: "VARCHAR", Note: "primary exchange"},
				{Name: "domicile", Type: "VARCHAR", Note: "country of domicile"},
				{Name: "industry_sector_num", Type: "INT", Note: "links to industry_mapping.industry_sector_num"},
				{Name: "industry_group_num", Type: "INT", Note: "links to industry_mapping.industry_group_num"},
				{Name: "industry_subgroup_num", Type: "INT", Note: "links to industry_mapping.industry_subgroup_num"},
				{Name: "id_isin", Type: "VARCHAR", Note: "ISIN identifier"},
				{Name: "id_cusip", Type: "VARCHAR", Note: "CUSIP identifier"},
			},
		},
		{
			Name:     "industry_mapping",
			RowsNote: "64 rows",
			Columns: []Column{
				{Name: "industry_sector", Type: "VARCHAR", Note: "e.g. 'Energy', 'Financials', 'Technology'"},
				{Name: "industry_sector_num", Type: "INT", Note: "sector code, not unique"},
				{Name: "industry_group", Type: "VARCHAR", Note: "e.g. 'Oil & Gas', 'Banking'"},
				{Name: "industry_group_num", Type: "INT", Note: "group code"},
				{Name: "industry_subgroup", Type: "VARCHAR", Note: "e.g. 'Integrated Oil', 'Regional Banks'"},
				{Name: "industry_subgroup_num", Type: "INT", Note: "subgroup code, UNIQUE, preferred join key"},
			},
		},
		{
			Name:     "credit_events",
			RowsNote: "~40,936 rows",
			Columns: []Column{
				{Name: "id", Type: "INT", Note: "primary key"},
				{Name: "u3_company_number", Type: "INT", Note: "references companies.u3_company_number"},
				{Name: "announcement_date", Type: "DATE", Note: "when the event was announced"},
				{Name: "effective_date", Type: "DATE", Note: "when the event took effect"},
				{Name: "event_type", Type: "INT", Note: "110=Bankruptcy Filing, 208=Delisting, 301=Default Corp Action"},
				{Name: "action_name", Type: "VARCHAR", Note: "'Delisting', 'Default Corp Action', 'Bankruptcy Filing', ..."},
				{Name: "subcategory", Type: "TEXT", Note: "details, e.g. 'Reason: Bankruptcy'"},
			},
		},
		{
			Name:     "risk_indicators",
			RowsNote: "monthly panel, millions of rows",
			Columns: []Column{
				{Name: "id", Type: "INT", Note: "primary key"},
				{Name: "u3_company_number", Type: "INT", Note: "references companies.u3_company_number"},
				{Name: "year", Type: "INT"},
				{Name: "month", Type: "INT", Note: "1-12"},
				{Name: "dtd", Type: "FLOAT", Note: "Distance-to-Default, primary credit risk measure, lower = riskier"},
				{Name: "sigma", Type: "FLOAT", Note: "stock return volatility"},
				{Name: "m2b", Type: "FLOAT", Note: "market-to-book ratio"},
				{Name: "ni2ta", Type: "FLOAT", Note: "net income to total assets"},
				{Name: "size", Type: "FLOAT", Note: "log market cap"},
				{Name: "liquidity_r", Type: "FLOAT", Note: "market liquidity measure"},
				{Name: "liquidity_fin", Type: "FLOAT", Note: "financial liquidity measure"},
				{Name: "stk_index", Type: "FLOAT", Note: "stock market index level"},
				{Name: "st_int", Type: "FLOAT", Note: "short-term interest rate"},
			},
		},
		{
			Name:     "macro_commodities",
			RowsNote: "~9,241 rows, daily since 1990",
			Columns: []Column{
				{Name: "date", Type: "DATE", Note: "primary key"},
				{Name: "wti_crude", Type: "FLOAT"},
				{Name: "brent_crude", Type: "FLOAT"},
				{Name: "gold", Type: "FLOAT"},
				{Name: "silver", Type: "FLOAT"},
				{Name: "copper", Type: "FLOAT"},
				{Name: "natural_gas", Type: "FLOAT"},
				{Name: "aluminum", Type: "FLOAT"},
				{Name: "lead", Type: "FLOAT"},
				{Name: "nickel", Type: "FLOAT"},
				{Name: "zinc", Type: "FLOAT"},
				{Name: "wheat", Type: "FLOAT"},
				{Name: "corn", Type: "FLOAT"},
				{Name: "soybeans", Type: "FLOAT"},
				{Name: "cotton", Type: "FLOAT"},
				{Name: "sugar", Type: "FLOAT"},
				{Name: "coffee", Type: "FLOAT"},
				{Name: "cocoa", Type: "FLOAT"},
				{Name: "kansas_financial_stress", Type: "FLOAT", Note: "Kansas City Fed Financial Stress Index"},
			},
		},
		{
			Name:     "macro_bond_yields",
			RowsNote: "~9,252 rows, daily since 1990",
			Columns: []Column{
				{Name: "data_date", Type: "DATE", Note: "primary key"},
				{Name: "us_1m", Type: "FLOAT"},
				{Name: "us_3m", Type: "FLOAT"},
				{Name: "us_6m", Type: "FLOAT"},
				{Name: "us_1y", Type: "FLOAT"},
				{Name: "us_2y", Type: "FLOAT"},
				{Name: "us_3y", Type: "FLOAT"},
				{Name: "us_5y", Type: "FLOAT"},
				{Name: "us_7y", Type: "FLOAT"},
				{Name: "us_10y", Type: "FLOAT"},
				{Name: "us_30y", Type: "FLOAT"},
			},
		},
		{
			Name:     "macro_us",
			RowsNote: "~24,495 rows, mixed daily/quarterly frequency",
			Columns: []Column{
				{Name: "date", Type: "DATE", Note: "primary key"},
				{Name: "sp500", Type: "FLOAT", Note: "daily"},
				{Name: "nasdaq", Type: "FLOAT", Note: "daily"},
				{Name: "vix", Type: "FLOAT", Note: "daily"},
				{Name: "gdp", Type: "FLOAT", Note: "quarterly"},
				{Name: "unemployment", Type: "FLOAT", Note: "monthly"},
				{Name: "cpi", Type: "FLOAT", Note: "monthly"},
				{Name: "ppi", Type: "FLOAT", Note: "monthly"},
				{Name: "house_price_index", Type: "FLOAT", Note: "quarterly"},
				{Name: "interbank_3m", Type: "FLOAT"},
				{Name: "effective_exchange_rate", Type: "FLOAT"},
			},
		},
		{
			Name:     "macro_fx",
			RowsNote: "~12,869 rows, daily since 1990",
			Columns: []Column{
				{Name: "date", Type: "DATE", Note: "primary key"},
				{Name: "eurusd", Type: "FLOAT"},
				{Name: "gbpusd", Type: "FLOAT"},
				{Name: "usdjpy", Type: "FLOAT"},
				{Name: "usdchf", Type: "FLOAT"},
				{Name: "usdcny", Type: "FLOAT"},
				{Name: "usdhkd", Type: "FLOAT"},
				{Name: "usdsgd", Type: "FLOAT"},
				{Name: "usdkrw", Type: "FLOAT"},
				{Name: "audusd", Type: "FLOAT"},
				{Name: "usdinr", Type: "FLOAT"},
				{Name: "usdidr", Type: "FLOAT"},
				{Name: "usdmyr", Type: "FLOAT"},
				{Name: "usdphp", Type: "FLOAT"},
				{Name: "usdtwd", Type: "FLOAT"},
				{Name: "usdthb", Type: "FLOAT"},
				{Name: "usdzar", Type: "FLOAT"},
			},
		},
	}
}

const descriptorText = `Database: CreditBench - Credit Research Database (data through June 2024)

Table: companies (29,118 rows)
- u3_company_number (INT, PK) - Unique company identifier
- ticker (VARCHAR) - Bloomberg ticker, e.g. 'AAPL US'
- company_name (VARCHAR) - Full company name
- country_name (VARCHAR) - Country of listing
- security_type (VARCHAR) - Common Stock, Depositary Receipt, etc.
- market_status (VARCHAR) - ACTV=Active, DLST=Delisted, ACQU=Acquired, MERG=Merged, LIQU=Liquidated, etc.
- prime_exchange (VARCHAR) - Primary exchange
- domicile (VARCHAR) - Country of domicile
- industry_sector_num (INT) - Links to industry_mapping.industry_sector_num
- industry_group_num (INT) - Links to industry_mapping.industry_group_num
- industry_subgroup_num (INT) - Links to industry_mapping.industry_subgroup_num
- id_isin (VARCHAR) - ISIN identifier
- id_cusip (VARCHAR) - CUSIP identifier

Table: industry_mapping (64 rows)
- industry_sector (VARCHAR) - e.g. 'Energy', 'Financials', 'Technology'
- industry_sector_num (INT) - Sector code (can link to companies.industry_sector_num)
- industry_group (VARCHAR) - e.g. 'Oil & Gas', 'Banking'
- industry_group_num (INT) - Group code
- industry_subgroup (VARCHAR) - e.g. 'Integrated Oil', 'Regional Banks'
- industry_subgroup_num (INT) - Subgroup code (UNIQUE, can link to companies.industry_subgroup_num)

Table: credit_events (~40,936 rows)
- id (INT, PK)
- u3_company_number (INT, FK -> companies.u3_company_number)
- announcement_date (DATE) - When the event was announced
- effective_date (DATE) - When the event took effect
- event_type (INT) - Event type code: 110=Bankruptcy Filing, 208=Delisting, 301=Default Corp Action
- action_name (VARCHAR) - Human-readable event name: 'Delisting', 'Default Corp Action', 'Bankruptcy Filing', 'Change in Listing (Exchange to OTC)', etc.
- subcategory (TEXT) - Additional details, e.g. 'Reason: Bankruptcy', 'Filing Type: Receivership'

Table: risk_indicators (large, monthly panel data - millions of rows)
- id (INT, PK)
- u3_company_number (INT, FK -> companies.u3_company_number)
- year (INT) - Year of the observation
- month (INT) - Month (1-12)
- dtd (FLOAT) - Distance-to-Default (MOST IMPORTANT - Merton model credit risk measure, higher = safer)
- sigma (FLOAT) - Stock return volatility
- m2b (FLOAT) - Market-to-book ratio
- ni2ta (FLOAT) - Net income to total assets ratio
- size (FLOAT) - Firm size (log market cap)
- liquidity_r (FLOAT) - Market liquidity measure
- liquidity_fin (FLOAT) - Financial liquidity measure
- stk_index (FLOAT) - Stock market index level
- st_int (FLOAT) - Short-term interest rate

Table: macro_commodities (~9,241 rows, daily since 1990)
- date (DATE, PK)
- wti_crude (FLOAT) - WTI crude oil price
- brent_crude (FLOAT) - Brent crude oil price
- gold (FLOAT) - Gold price
- silver (FLOAT) - Silver price
- copper (FLOAT) - Copper price
- natural_gas (FLOAT) - Natural gas price
- aluminum, lead, nickel, zinc (FLOAT) - Industrial metal prices
- wheat, corn, soybeans, cotton, sugar, coffee, cocoa (FLOAT) - Agricultural commodity prices
- kansas_financial_stress (FLOAT) - Kansas City Fed Financial Stress Index

Table: macro_bond_yields (~9,252 rows, daily since 1990)
- data_date (DATE, PK)
- us_1m, us_3m, us_6m (FLOAT) - US Treasury yields (short-term)
- us_1y, us_2y, us_3y (FLOAT) - US Treasury yields (mid-term)
- us_5y, us_7y, us_10y (FLOAT) - US Treasury yields (long-term)
- us_30y (FLOAT) - 30-year Treasury yield

Table: macro_us (~24,495 rows, mixed daily/quarterly frequency)
- date (DATE, PK)
- sp500 (FLOAT, daily) - S&P 500 index level
- nasdaq (FLOAT, daily) - NASDAQ index level
- vix (FLOAT, daily) - VIX volatility index
- gdp (FLOAT, quarterly) - Real GDP
- unemployment (FLOAT, monthly) - Unemployment rate
- cpi (FLOAT, monthly) - Consumer Price Index
- ppi (FLOAT, monthly) - Producer Price Index
- house_price_index (FLOAT, quarterly) - Case-Shiller House Price Index

Table: macro_fx (~12,869 rows, daily since 1990)
- date (DATE, PK)
- eurusd, gbpusd (FLOAT) - Major currency pairs
- usdjpy, usdchf (FLOAT) - USD vs major currencies
- usdcny, usdhkd, usdsgd, usdkrw (FLOAT) - USD vs Asian currencies
- audusd (FLOAT) - AUD vs USD
- usdinr, usdidr, usdmyr, usdphp, usdtwd, usdthb (FLOAT) - Other Asian currencies
- usdzar (FLOAT) - USD vs South African rand

Key relationships:
- companies.u3_company_number <- credit_events.u3_company_number
- companies.u3_company_number <- risk_indicators.u3_company_number
- companies.industry_sector_num -> industry_mapping.industry_sector_num (NOT UNIQUE, JOIN carefully)
- companies.industry_subgroup_num -> industry_mapping.industry_subgroup_num (UNIQUE, can use for JOIN)

Important notes:
- dtd (Distance-to-Default) in risk_indicators is the PRIMARY credit risk metric
- Lower dtd = higher default risk, higher dtd = lower default risk
- risk_indicators is a monthly panel (one row per company-year-month)
- Macro tables have different frequencies (daily/monthly/quarterly)`
