package ingest

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/creditbench/creditbench/internal/storage"
)

// maxStatementParams keeps multi-row inserts under the Postgres wire
// limit of 65535 bind parameters per statement.
const maxStatementParams = 60000

type Loader struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewLoader(db *sql.DB, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{db: db, logger: logger}
}

// LoadCSV replaces the dataset's table contents with the rows decoded
// from r. Malformed rows are skipped and counted, not fatal.
func (l *Loader) LoadCSV(ctx context.Context, ds Dataset, r io.Reader) (Summary, error) {
	start := time.Now()

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return Summary{}, fmt.Errorf("read %s header: %w", ds.Name, err)
	}
	positions, err := resolveFields(ds, header)
	if err != nil {
		return Summary{}, err
	}

	if err := l.clear(ctx, ds); err != nil {
		return Summary{}, err
	}
	known, err := l.knownCompanies(ctx, ds)
	if err != nil {
		return Summary{}, err
	}
	companyIdx := ds.columnIndex("u3_company_number")

	batch := newBatchInsert(l.db, ds)
	skipped := 0
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Summary{}, fmt.Errorf("read %s row: %w", ds.Name, err)
		}
		row, err := decodeRecord(ds, positions, record)
		if err != nil {
			skipped++
			l.logger.WarnContext(ctx, "skipping malformed row",
				slog.String("dataset", ds.Name),
				slog.Int("line", line),
				slog.Any("error", err))
			continue
		}
		if !keepRow(ds, row, known, companyIdx) {
			skipped++
			continue
		}
		if err := batch.add(ctx, row); err != nil {
			return Summary{}, err
		}
	}
	if err := batch.flush(ctx); err != nil {
		return Summary{}, err
	}

	return Summary{
		Dataset:  ds.Name,
		Inserted: batch.inserted,
		Skipped:  skipped,
		Duration: time.Since(start),
	}, nil
}

// Load replaces the dataset's table contents with already decoded rows.
func (l *Loader) Load(ctx context.Context, ds Dataset, rows []Row) (Summary, error) {
	start := time.Now()

	if err := l.clear(ctx, ds); err != nil {
		return Summary{}, err
	}
	known, err := l.knownCompanies(ctx, ds)
	if err != nil {
		return Summary{}, err
	}
	companyIdx := ds.columnIndex("u3_company_number")

	batch := newBatchInsert(l.db, ds)
	skipped := 0
	for _, row := range rows {
		if len(row) != len(ds.Fields) {
			return Summary{}, fmt.Errorf("dataset %s: row has %d values, expected %d", ds.Name, len(row), len(ds.Fields))
		}
		if !keepRow(ds, row, known, companyIdx) {
			skipped++
			continue
		}
		if err := batch.add(ctx, row); err != nil {
			return Summary{}, err
		}
	}
	if err := batch.flush(ctx); err != nil {
		return Summary{}, err
	}

	return Summary{
		Dataset:  ds.Name,
		Inserted: batch.inserted,
		Skipped:  skipped,
		Duration: time.Since(start),
	}, nil
}

// LoadFromSource resolves the dataset's drop file in the source,
// preferring CSV over parquet, and loads it.
func (l *Loader) LoadFromSource(ctx context.Context, source Source, ds Dataset) (Summary, error) {
	for _, name := range ds.fileNames() {
		reader, err := source.Open(ctx, ds.Name, name)
		if errors.Is(err, storage.ErrObjectNotFound) {
			continue
		}
		if err != nil {
			return Summary{}, fmt.Errorf("open drop %s: %w", name, err)
		}
		summary, err := l.loadFile(ctx, ds, name, reader)
		closeErr := reader.Close()
		if err != nil {
			return Summary{}, err
		}
		if closeErr != nil {
			return Summary{}, fmt.Errorf("close drop %s: %w", name, closeErr)
		}
		summary.File = name
		return summary, nil
	}
	return Summary{}, fmt.Errorf("%w: %s", ErrNoDrop, ds.Name)
}

// LoadAll loads the named datasets in dependency order. With no names
// it loads whatever the source advertises, or every dataset when the
// source cannot enumerate its drops.
func (l *Loader) LoadAll(ctx context.Context, source Source, names []string) ([]Summary, error) {
	explicit := len(names) > 0
	if !explicit {
		if d, ok := source.(discoverer); ok {
			discovered, err := d.Discover(ctx)
			if err != nil {
				return nil, fmt.Errorf("discover drops: %w", err)
			}
			names = discovered
		}
	}

	requested := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := ByName(name); !ok {
			return nil, fmt.Errorf("unknown dataset %q", name)
		}
		requested[name] = true
	}

	summaries := make([]Summary, 0, len(datasets))
	for _, ds := range datasets {
		if len(requested) > 0 && !requested[ds.Name] {
			continue
		}
		summary, err := l.LoadFromSource(ctx, source, ds)
		if errors.Is(err, ErrNoDrop) && !explicit {
			continue
		}
		if err != nil {
			return summaries, err
		}
		l.logger.InfoContext(ctx, "dataset loaded",
			slog.String("dataset", summary.Dataset),
			slog.String("file", summary.File),
			slog.Int("inserted", summary.Inserted),
			slog.Int("skipped", summary.Skipped),
			slog.Duration("duration", summary.Duration))
		summaries = append(summaries, summary)
	}
	if len(summaries) == 0 {
		return nil, errors.New("no drops found in source")
	}
	return summaries, nil
}

func (l *Loader) loadFile(ctx context.Context, ds Dataset, name string, r io.Reader) (Summary, error) {
	switch path.Ext(name) {
	case ".csv":
		return l.LoadCSV(ctx, ds, r)
	case ".parquet":
		if ds.DecodeParquet == nil {
			return Summary{}, fmt.Errorf("dataset %s has no parquet decoder", ds.Name)
		}
		rows, err := ds.DecodeParquet(r)
		if err != nil {
			return Summary{}, fmt.Errorf("decode %s: %w", name, err)
		}
		return l.Load(ctx, ds, rows)
	default:
		return Summary{}, fmt.Errorf("unsupported drop format %q", name)
	}
}

// Loads are idempotent: each run replaces the table's contents.
func (l *Loader) clear(ctx context.Context, ds Dataset) error {
	if _, err := l.db.ExecContext(ctx, "DELETE FROM "+ds.Table); err != nil {
		return fmt.Errorf("clear %s: %w", ds.Table, err)
	}
	return nil
}

func (l *Loader) knownCompanies(ctx context.Context, ds Dataset) (map[int64]struct{}, error) {
	if !ds.CompanyScoped {
		return nil, nil
	}
	rows, err := l.db.QueryContext(ctx, "SELECT u3_company_number FROM companies")
	if err != nil {
		return nil, fmt.Errorf("load known companies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	known := make(map[int64]struct{})
	for rows.Next() {
		var number int64
		if err := rows.Scan(&number); err != nil {
			return nil, fmt.Errorf("scan company number: %w", err)
		}
		known[number] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate company numbers: %w", err)
	}
	return known, nil
}

func keepRow(ds Dataset, row Row, known map[int64]struct{}, companyIdx int) bool {
	if ds.Keep != nil && !ds.Keep(row) {
		return false
	}
	if known != nil && companyIdx >= 0 {
		number, ok := row[companyIdx].(int64)
		if !ok {
			return false
		}
		if _, found := known[number]; !found {
			return false
		}
	}
	return true
}

type batchInsert struct {
	db       *sql.DB
	ds       Dataset
	limit    int
	rows     []Row
	inserted int
}

func newBatchInsert(db *sql.DB, ds Dataset) *batchInsert {
	limit := ds.BatchSize
	if limit <= 0 {
		limit = defaultBatchSize
	}
	if budget := maxStatementParams / len(ds.Fields); limit > budget {
		limit = budget
	}
	return &batchInsert{db: db, ds: ds, limit: limit, rows: make([]Row, 0, limit)}
}

func (b *batchInsert) add(ctx context.Context, row Row) error {
	b.rows = append(b.rows, row)
	if len(b.rows) >= b.limit {
		return b.flush(ctx)
	}
	return nil
}

func (b *batchInsert) flush(ctx context.Context) error {
	if len(b.rows) == 0 {
		return nil
	}
	statement := insertStatement(b.ds, len(b.rows))
	args := make([]any, 0, len(b.rows)*len(b.ds.Fields))
	for _, row := range b.rows {
		args = append(args, row...)
	}
	if _, err := b.db.ExecContext(ctx, statement, args...); err != nil {
		return fmt.Errorf("insert %s batch: %w", b.ds.Table, err)
	}
	b.inserted += len(b.rows)
	b.rows = b.rows[:0]
	return nil
}

func insertStatement(ds Dataset, rowCount int) string {
	var builder strings.Builder
	builder.WriteString("INSERT INTO ")
	builder.WriteString(ds.Table)
	builder.WriteString(" (")
	builder.WriteString(strings.Join(ds.Columns(), ", "))
	builder.WriteString(") VALUES ")
	arg := 1
	for i := 0; i < rowCount; i++ {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteByte('(')
		for j := 0; j < len(ds.Fields); j++ {
			if j > 0 {
				builder.WriteString(", ")
			}
			builder.WriteByte('$')
			builder.WriteString(strconv.Itoa(arg))
			arg++
		}
		builder.WriteByte(')')
	}
	return builder.String()
}
