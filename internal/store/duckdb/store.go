package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/marcboeker/go-duckdb/v2"

	"github.com/creditbench/creditbench/internal/store"
)

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("duckdb path is required")
	}
	db, err := sql.Open("duckdb", path+"?access_mode=read_only")
	if err != nil {
		return nil, fmt.Errorf("open duckdb snapshot: %w", err)
	}
	return &Store{db: db}, nil
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping duckdb snapshot: %w", err)
	}
	return nil
}

func (s *Store) ExecuteReadOnly(ctx context.Context, sqlText string, timeout time.Duration) (store.Result, error) {
	start := time.Now()

	queryCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		queryCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	rows, err := s.db.QueryContext(queryCtx, sqlText)
	if err != nil {
		return store.Result{}, fmt.Errorf("execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return store.Result{}, fmt.Errorf("read columns: %w", err)
	}
	typeNames := make([]string, len(columns))
	columnTypes, err := rows.ColumnTypes()
	if err == nil {
		for i, columnType := range columnTypes {
			if i < len(typeNames) {
				typeNames[i] = columnType.DatabaseTypeName()
			}
		}
	}

	resultRows := make([][]any, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		targets := make([]any, len(columns))
		for i := range values {
			targets[i] = &values[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return store.Result{}, fmt.Errorf("scan row: %w", err)
		}
		resultRows = append(resultRows, store.CanonicalRow(values, typeNames))
	}
	if err := rows.Err(); err != nil {
		return store.Result{}, fmt.Errorf("iterate rows: %w", err)
	}

	return store.Result{
		Columns:  columns,
		Rows:     resultRows,
		RowCount: len(resultRows),
		Duration: time.Since(start),
	}, nil
}

func (s *Store) CompanyByNumber(ctx context.Context, number int) (store.Company, bool, error) {
	query := `
SELECT u3_company_number, COALESCE(ticker, ''), COALESCE(company_name, ''), COALESCE(country_name, ''), COALESCE(market_status, '')
FROM companies
WHERE u3_company_number = ?`

	company, err := scanCompany(s.db.QueryRowContext(ctx, query, number))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Company{}, false, nil
		}
		return store.Company{}, false, fmt.Errorf("get company %d: %w", number, err)
	}
	return company, true, nil
}

func (s *Store) CompanyByName(ctx context.Context, name string) (store.Company, bool, error) {
	query := `
SELECT u3_company_number, COALESCE(ticker, ''), COALESCE(company_name, ''), COALESCE(country_name, ''), COALESCE(market_status, '')
FROM companies
WHERE company_name ILIKE '%' || ? || '%'
ORDER BY length(company_name) ASC, u3_company_number ASC
LIMIT 1`

	company, err := scanCompany(s.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Company{}, false, nil
		}
		return store.Company{}, false, fmt.Errorf("find company %q: %w", name, err)
	}
	return company, true, nil
}

func scanCompany(row *sql.Row) (store.Company, error) {
	var company store.Company
	if err := row.Scan(
		&company.Number,
		&company.Ticker,
		&company.Name,
		&company.CountryName,
		&company.MarketStatus,
	); err != nil {
		return store.Company{}, err
	}
	return company, nil
}
