package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"
)

// RiskIndicatorRecord mirrors the vendor risk file schema: the raw
// Company_Number keeps its per-security suffix, and the metric columns
// are optional.
type RiskIndicatorRecord struct {
	CompanyNumber int64    `parquet:"Company_Number"`
	Year          int32    `parquet:"year"`
	Month         int32    `parquet:"month"`
	StkIndex      *float64 `parquet:"StkIndx,optional"`
	STInt         *float64 `parquet:"STInt,optional"`
	M2B           *float64 `parquet:"m2b,optional"`
	Sigma         *float64 `parquet:"sigma,optional"`
	DTDMedian     *float64 `parquet:"DTDmedian,optional"`
	DTDMedianI    *float64 `parquet:"DTDmedian_i,optional"`
	DTD           *float64 `parquet:"dtd,optional"`
	LiquidityR    *float64 `parquet:"liquidity_r,optional"`
	NI2TA         *float64 `parquet:"ni2ta,optional"`
	Size          *float64 `parquet:"size,optional"`
	LiquidityFin  *float64 `parquet:"liquidity_fin,optional"`
}

func EncodeRiskIndicators(w io.Writer, records []RiskIndicatorRecord) error {
	if len(records) == 0 {
		return fmt.Errorf("records are required")
	}
	writer := parquet.NewGenericWriter[RiskIndicatorRecord](w)
	if _, err := writer.Write(records); err != nil {
		return fmt.Errorf("write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return nil
}

func decodeRiskIndicatorParquet(r io.Reader) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read parquet payload: %w", err)
	}
	reader := parquet.NewGenericReader[RiskIndicatorRecord](bytes.NewReader(data))
	defer func() { _ = reader.Close() }()

	rows := make([]Row, 0, reader.NumRows())
	buffer := make([]RiskIndicatorRecord, 256)
	for {
		count, err := reader.Read(buffer)
		for _, record := range buffer[:count] {
			rows = append(rows, record.row())
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read parquet rows: %w", err)
		}
	}
	return rows, nil
}

func (r RiskIndicatorRecord) row() Row {
	return Row{
		r.CompanyNumber / 1000,
		int64(r.Year),
		int64(r.Month),
		floatCell(r.StkIndex),
		floatCell(r.STInt),
		floatCell(r.M2B),
		floatCell(r.Sigma),
		floatCell(r.DTDMedian),
		floatCell(r.DTDMedianI),
		floatCell(r.DTD),
		floatCell(r.LiquidityR),
		floatCell(r.NI2TA),
		floatCell(r.Size),
		floatCell(r.LiquidityFin),
	}
}

func floatCell(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}
