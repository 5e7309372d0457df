package seed

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"time"

	"github.com/creditbench/creditbench/internal/ingest"
)

// anchor pins every generated date so a seed value alone determines
// the output.
var anchor = time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

type Config struct {
	Seed        int64
	Companies   int
	RiskMonths  int
	MacroMonths int
}

func DefaultConfig() Config {
	return Config{
		Seed:        1,
		Companies:   24,
		RiskMonths:  24,
		MacroMonths: 60,
	}
}

type Company struct {
	Number        int64
	IDBBUnique    string
	IDBBCompany   int64
	Ticker        string
	Name          string
	Country       string
	SecurityType  string
	MarketStatus  string
	PrimeExchange string
	Domicile      string
	SectorNum     int64
	GroupNum      int64
	SubgroupNum   int64
	ISIN          string
	CUSIP         string
}

type CreditEvent struct {
	CompanyNumber    int64
	IDBBCompany      int64
	AnnouncementDate time.Time
	EffectiveDate    time.Time
	EventType        int
	ActionName       string
	Subcategory      string
}

type Industry struct {
	Sector      string
	SectorNum   int64
	Group       string
	GroupNum    int64
	Subgroup    string
	SubgroupNum int64
}

// MacroSeries holds one macro drop as formatted CSV cells; empty cells
// stand for values the vendor sheet left blank.
type MacroSeries struct {
	Dataset string
	Header  []string
	Rows    [][]string
}

type Data struct {
	Industries     []Industry
	Companies      []Company
	CreditEvents   []CreditEvent
	RiskIndicators []ingest.RiskIndicatorRecord
	Macro          []MacroSeries
}

type Generator struct {
	rnd *rand.Rand
	cfg Config
}

func NewGenerator(cfg Config) *Generator {
	if cfg.Companies <= 0 {
		cfg.Companies = DefaultConfig().Companies
	}
	if cfg.RiskMonths <= 0 {
		cfg.RiskMonths = DefaultConfig().RiskMonths
	}
	if cfg.MacroMonths <= 0 {
		cfg.MacroMonths = DefaultConfig().MacroMonths
	}
	return &Generator{
		rnd: rand.New(rand.NewSource(cfg.Seed)),
		cfg: cfg,
	}
}

func (g *Generator) Generate() (Data, error) {
	data := Data{
		Industries: append([]Industry(nil), industryCatalog...),
		Companies:  make([]Company, 0, g.cfg.Companies),
	}
	for i := 0; i < g.cfg.Companies; i++ {
		company := g.company(i)
		data.Companies = append(data.Companies, company)
		events := g.eventsFor(company)
		data.CreditEvents = append(data.CreditEvents, events...)
		data.RiskIndicators = append(data.RiskIndicators, g.riskSeries(company, len(events) > 0)...)
	}

	macro, err := g.macroSeries()
	if err != nil {
		return Data{}, err
	}
	data.Macro = macro
	return data, nil
}

var industryCatalog = []Industry{
	{"Industrial", 10, "Machinery", 1010, "Construction Machinery", 101010},
	{"Industrial", 10, "Machinery", 1010, "Industrial Automation", 101011},
	{"Financial", 11, "Banks", 1110, "Commercial Banks", 111010},
	{"Financial", 11, "Banks", 1110, "Consumer Finance", 111011},
	{"Technology", 12, "Software", 1210, "Application Software", 121010},
	{"Technology", 12, "Hardware", 1211, "Semiconductors", 121110},
	{"Energy", 13, "Oil & Gas", 1310, "Exploration & Production", 131010},
	{"Energy", 13, "Oil & Gas", 1310, "Refining & Marketing", 131011},
	{"Consumer", 14, "Retail", 1410, "Department Stores", 141010},
	{"Consumer", 14, "Retail", 1410, "Food Retail", 141011},
}

type listing struct {
	country    string
	exchange   string
	isinPrefix string
}

var listings = []listing{
	{"United States", "New York", "US"},
	{"Japan", "Tokyo", "JP"},
	{"United Kingdom", "London", "GB"},
	{"Germany", "Frankfurt", "DE"},
	{"India", "Mumbai", "IN"},
	{"Brazil", "Sao Paulo", "BR"},
	{"Canada", "Toronto", "CA"},
	{"Australia", "Sydney", "AU"},
}

var (
	nameAdjectives = []string{
		"Apex", "Northern", "Pacific", "Golden", "United", "Crescent",
		"Summit", "Meridian", "Atlas", "Pioneer", "Sterling", "Cascade",
		"Harbor", "Monarch", "Vanguard", "Ridgeline",
	}
	nameNouns = []string{
		"Industrial", "Financial", "Energy", "Consumer", "Technology",
		"Logistics", "Materials", "Capital", "Foods", "Marine", "Mining",
		"Textile",
	}
	nameSuffixes = []string{
		"Holdings", "Group", "Corp", "Industries", "PLC", "Partners", "Ltd",
	}
	bankruptcySubcategories = []string{"Chapter 11", "Receivership", "Administration"}
	defaultSubcategories    = []string{"Missed Coupon Payment", "Debt Restructuring", "Distressed Exchange"}
)

func (g *Generator) company(i int) Company {
	place := listings[g.rnd.Intn(len(listings))]
	industry := industryCatalog[g.rnd.Intn(len(industryCatalog))]

	domicile := place.country
	if g.rnd.Intn(100) < 15 {
		domicile = listings[g.rnd.Intn(len(listings))].country
	}
	isin := ""
	if g.rnd.Intn(100) < 80 {
		isin = fmt.Sprintf("%s%010d", place.isinPrefix, g.rnd.Int63n(10_000_000_000))
	}
	cusip := ""
	if place.isinPrefix == "US" || place.isinPrefix == "CA" {
		cusip = fmt.Sprintf("%09d", g.rnd.Int63n(1_000_000_000))
	}

	return Company{
		Number:        int64(1000 + i),
		IDBBUnique:    fmt.Sprintf("EQ%016d", g.rnd.Int63n(10_000_000_000_000_000)),
		IDBBCompany:   int64(100000 + i),
		Ticker:        tickerFor(i),
		Name: fmt.Sprintf("%s %s %s",
			pickOne(g.rnd, nameAdjectives),
			pickOne(g.rnd, nameNouns),
			pickOne(g.rnd, nameSuffixes)),
		Country:       place.country,
		SecurityType:  g.pickSecurityType(),
		MarketStatus:  g.pickMarketStatus(),
		PrimeExchange: place.exchange,
		Domicile:      domicile,
		SectorNum:     industry.SectorNum,
		GroupNum:      industry.GroupNum,
		SubgroupNum:   industry.SubgroupNum,
		ISIN:          isin,
		CUSIP:         cusip,
	}
}

func (g *Generator) pickSecurityType() string {
	p := g.rnd.Intn(100)
	switch {
	case p < 85:
		return "Common Stock"
	case p < 93:
		return "ADR"
	default:
		return "REIT"
	}
}

func (g *Generator) pickMarketStatus() string {
	p := g.rnd.Intn(100)
	switch {
	case p < 78:
		return "ACTV"
	case p < 85:
		return "DLST"
	case p < 90:
		return "ACQU"
	case p < 94:
		return "MERG"
	case p < 97:
		return "PRNA"
	default:
		return "LIQU"
	}
}

func (g *Generator) eventsFor(company Company) []CreditEvent {
	switch company.MarketStatus {
	case "DLST":
		return []CreditEvent{g.event(company, 208, "Delisting", "")}
	case "LIQU":
		return []CreditEvent{g.event(company, 110, "Bankruptcy Filing", pickOne(g.rnd, bankruptcySubcategories))}
	case "ACTV":
		if g.rnd.Intn(100) < 12 {
			return []CreditEvent{g.event(company, 301, "Default", pickOne(g.rnd, defaultSubcategories))}
		}
	}
	return nil
}

func (g *Generator) event(company Company, eventType int, action, subcategory string) CreditEvent {
	announced := anchor.AddDate(0, -(1 + g.rnd.Intn(47)), -g.rnd.Intn(28))
	return CreditEvent{
		CompanyNumber:    company.Number,
		IDBBCompany:      company.IDBBCompany,
		AnnouncementDate: announced,
		EffectiveDate:    announced.AddDate(0, 0, 7+g.rnd.Intn(30)),
		EventType:        eventType,
		ActionName:       action,
		Subcategory:      subcategory,
	}
}

// riskSeries walks monthly indicators up to the anchor month. Companies
// that went through a credit event start closer to the default barrier
// and drift toward it.
func (g *Generator) riskSeries(company Company, distressed bool) []ingest.RiskIndicatorRecord {
	months := g.cfg.RiskMonths
	dtd := 3 + g.rnd.Float64()*5
	drift := 0.0
	if distressed {
		dtd = 0.5 + g.rnd.Float64()*2
		drift = -0.08
	}
	size := 10 + g.rnd.Float64()*8
	base := anchor.Year()*12 + int(anchor.Month()) - 1

	records := make([]ingest.RiskIndicatorRecord, 0, months)
	for i := 0; i < months; i++ {
		index := base - (months - 1) + i
		dtd += drift + (g.rnd.Float64()-0.5)*0.8

		record := ingest.RiskIndicatorRecord{
			CompanyNumber: company.Number*1000 + 1,
			Year:          int32(index / 12),
			Month:         int32(index%12 + 1),
			StkIndex:      floatPtr(round4(1 + g.rnd.Float64())),
			STInt:         floatPtr(round4(0.5 + g.rnd.Float64()*4)),
			M2B:           floatPtr(round4(0.5 + g.rnd.Float64()*3.5)),
			Sigma:         floatPtr(round4(0.15 + g.rnd.Float64()*0.45)),
			DTDMedian:     floatPtr(round4(dtd + g.rnd.Float64() - 0.5)),
			DTD:           floatPtr(round4(dtd)),
			LiquidityR:    floatPtr(round4(g.rnd.Float64())),
			NI2TA:         floatPtr(round4(-0.05 + g.rnd.Float64()*0.2)),
			Size:          floatPtr(round4(size + (g.rnd.Float64()-0.5)*0.2)),
		}
		if g.rnd.Intn(5) > 0 {
			record.DTDMedianI = floatPtr(round4(dtd + g.rnd.Float64() - 0.5))
		}
		if g.rnd.Intn(10) > 0 {
			record.LiquidityFin = floatPtr(round4(g.rnd.Float64()))
		}
		records = append(records, record)
	}
	return records
}

func (g *Generator) macroSeries() ([]MacroSeries, error) {
	specs := []struct {
		dataset  string
		low      float64
		span     float64
		vol      float64
		decimals int
	}{
		{"macro_commodities", 20, 180, 0.06, 2},
		{"macro_bond_yields", 0.5, 5, 0.04, 3},
		{"macro_us", 1, 99, 0.04, 2},
		{"macro_fx", 0.5, 120, 0.03, 4},
	}

	series := make([]MacroSeries, 0, len(specs))
	for _, spec := range specs {
		ds, ok := ingest.ByName(spec.dataset)
		if !ok {
			return nil, fmt.Errorf("dataset %s not registered", spec.dataset)
		}
		header := ds.Columns()

		values := make([]float64, len(header)-1)
		for i := range values {
			values[i] = spec.low + g.rnd.Float64()*spec.span
		}

		rows := make([][]string, 0, g.cfg.MacroMonths)
		base := anchor.Year()*12 + int(anchor.Month()) - 1
		for m := 0; m < g.cfg.MacroMonths; m++ {
			index := base - (g.cfg.MacroMonths - 1) + m
			row := make([]string, len(header))
			row[0] = monthEnd(index/12, index%12+1).Format("2006-01-02")
			for i := range values {
				values[i] = math.Max(0.01, values[i]*(1+(g.rnd.Float64()-0.5)*spec.vol))
				if g.rnd.Intn(50) == 0 {
					continue
				}
				row[i+1] = strconv.FormatFloat(values[i], 'f', spec.decimals, 64)
			}
			rows = append(rows, row)
		}

		series = append(series, MacroSeries{Dataset: spec.dataset, Header: header, Rows: rows})
	}
	return series, nil
}

func monthEnd(year, month int) time.Time {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
}

func tickerFor(i int) string {
	return string([]byte{
		'A' + byte(i/676%26),
		'A' + byte(i/26%26),
		'A' + byte(i%26),
	})
}

func round4(value float64) float64 {
	return math.Round(value*10000) / 10000
}

func floatPtr(value float64) *float64 {
	return &value
}

func pickOne(r *rand.Rand, values []string) string {
	return values[r.Intn(len(values))]
}
