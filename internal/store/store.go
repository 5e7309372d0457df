package store

import (
	"context"
	"time"
)

type Result struct {
	Columns  []string      `json:"columns"`
	Rows     [][]any       `json:"rows"`
	RowCount int           `json:"row_count"`
	Duration time.Duration `json:"-"`
}

type Company struct {
	Number       int    `json:"u3_company_number"`
	Ticker       string `json:"ticker"`
	Name         string `json:"company_name"`
	CountryName  string `json:"country_name"`
	MarketStatus string `json:"market_status"`
}

type Querier interface {
	ExecuteReadOnly(ctx context.Context, sqlText string, timeout time.Duration) (Result, error)
}

type CompanyDirectory interface {
	CompanyByNumber(ctx context.Context, number int) (Company, bool, error)
	CompanyByName(ctx context.Context, name string) (Company, bool, error)
}

func CanonicalValue(value any, dbTypeName string) any {
	switch typed := value.(type) {
	case time.Time:
		switch dbTypeName {
		case "DATE":
			return typed.Format("2006-01-02")
		case "TIME", "TIMETZ":
			return typed.Format("15:04:05")
		default:
			return typed.Format(time.RFC3339)
		}
	case []byte:
		return string(typed)
	default:
		return value
	}
}

func CanonicalRow(values []any, dbTypeNames []string) []any {
	row := make([]any, len(values))
	for i, value := range values {
		typeName := ""
		if i < len(dbTypeNames) {
			typeName = dbTypeNames[i]
		}
		row[i] = CanonicalValue(value, typeName)
	}
	return row
}
