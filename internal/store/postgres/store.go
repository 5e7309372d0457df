package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/creditbench/creditbench/internal/store"
)

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
}

func Open(ctx context.Context, cfg DBConfig) (*sql.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("dataset dsn is required")
	}

	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open dataset db: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping dataset db: %w", err)
	}

	return db, nil
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping dataset db: %w", err)
	}
	return nil
}

func (s *Store) ExecuteReadOnly(ctx context.Context, sqlText string, timeout time.Duration) (store.Result, error) {
	start := time.Now()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return store.Result{}, fmt.Errorf("begin read-only tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if timeout > 0 {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("SET LOCAL statement_timeout = %d", timeout.Milliseconds())); err != nil {
			return store.Result{}, fmt.Errorf("set statement timeout: %w", err)
		}
	}

	rows, err := tx.QueryContext(ctx, sqlText)
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
WHERE u3_company_number = $1`

	company, err := s.scanCompany(s.db.QueryRowContext(ctx, query, number))
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
WHERE company_name ILIKE '%' || $1 || '%'
ORDER BY length(company_name) ASC, u3_company_number ASC
LIMIT 1`

	company, err := s.scanCompany(s.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Company{}, false, nil
		}
		return store.Company{}, false, fmt.Errorf("find company %q: %w", name, err)
	}
	return company, true, nil
}

func (s *Store) scanCompany(row *sql.Row) (store.Company, error) {
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
