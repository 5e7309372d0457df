package ingest

import (
	"errors"
	"io"
	"time"
)

// Row holds one decoded record with values aligned to the dataset's
// field order. Nil cells become SQL NULL.
type Row []any

type FieldKind int

const (
	FieldText FieldKind = iota
	FieldInt
	FieldFloat
	FieldDate
	// FieldCompanyNumber reads a vendor company number whose last three
	// digits are a per-security suffix; the stored key is the quotient.
	FieldCompanyNumber
)

type Field struct {
	Column   string
	Source   string
	Kind     FieldKind
	Required bool
}

type Dataset struct {
	Name          string
	Table         string
	Fields        []Field
	BatchSize     int
	CompanyScoped bool
	Keep          func(Row) bool
	DecodeParquet func(io.Reader) ([]Row, error)
}

func (d Dataset) Columns() []string {
	columns := make([]string, len(d.Fields))
	for i, field := range d.Fields {
		columns[i] = field.Column
	}
	return columns
}

func (d Dataset) columnIndex(column string) int {
	for i, field := range d.Fields {
		if field.Column == column {
			return i
		}
	}
	return -1
}

func (d Dataset) fileNames() []string {
	names := []string{d.Name + ".csv"}
	if d.DecodeParquet != nil {
		names = append(names, d.Name+".parquet")
	}
	return names
}

type Summary struct {
	Dataset  string
	File     string
	Inserted int
	Skipped  int
	Duration time.Duration
}

// ErrNoDrop reports that no drop file exists for a dataset in the
// configured source.
var ErrNoDrop = errors.New("no drop found for dataset")
