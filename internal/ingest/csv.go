package ingest

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var quarterPattern = regexp.MustCompile(`^Q([1-4])\s+(\d{4})$`)

var dateLayouts = []string{
	"2006-01-02",
	"20060102",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// resolveFields maps each dataset field to its position in the CSV
// header. Optional fields may be absent; required fields must resolve.
func resolveFields(ds Dataset, header []string) ([]int, error) {
	positions := make([]int, len(ds.Fields))
	for i, field := range ds.Fields {
		positions[i] = -1
		for j, name := range header {
			if strings.EqualFold(strings.TrimSpace(name), field.Source) {
				positions[i] = j
				break
			}
		}
		if positions[i] == -1 && field.Required {
			return nil, fmt.Errorf("dataset %s: required column %q not found in header", ds.Name, field.Source)
		}
	}
	return positions, nil
}

func decodeRecord(ds Dataset, positions []int, record []string) (Row, error) {
	row := make(Row, len(ds.Fields))
	for i, field := range ds.Fields {
		pos := positions[i]
		if pos < 0 || pos >= len(record) {
			if field.Required {
				return nil, fmt.Errorf("missing value for %s", field.Column)
			}
			continue
		}
		raw, ok := scrubValue(record[pos])
		if !ok {
			if field.Required {
				return nil, fmt.Errorf("missing value for %s", field.Column)
			}
			continue
		}
		value, err := convertField(field, raw)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", field.Column, err)
		}
		row[i] = value
	}
	return row, nil
}

// scrubValue treats empty cells and the NA spellings seen across the
// vendor files as missing.
func scrubValue(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	switch strings.ToUpper(trimmed) {
	case "NA", "N/A":
		return "", false
	}
	return raw, true
}

func convertField(field Field, raw string) (any, error) {
	switch field.Kind {
	case FieldText:
		return raw, nil
	case FieldInt:
		return parseIntValue(strings.TrimSpace(raw))
	case FieldFloat:
		value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("parse float %q", raw)
		}
		return value, nil
	case FieldDate:
		return parseDateValue(strings.TrimSpace(raw))
	case FieldCompanyNumber:
		number, err := parseIntValue(strings.TrimSpace(raw))
		if err != nil {
			return nil, err
		}
		return number / 1000, nil
	default:
		return nil, fmt.Errorf("unknown field kind %d", field.Kind)
	}
}

// parseIntValue also accepts integral floats such as "1983.0", which
// spreadsheet exports produce for integer columns.
func parseIntValue(raw string) (int64, error) {
	if number, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return number, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value != math.Trunc(value) {
		return 0, fmt.Errorf("parse integer %q", raw)
	}
	return int64(value), nil
}

// parseDateValue accepts ISO dates, compact YYYYMMDD dates as used by
// the FX sheets, timestamps, and quarter labels such as "Q1 2024"
// (resolved to the quarter end).
func parseDateValue(raw string) (time.Time, error) {
	if match := quarterPattern.FindStringSubmatch(raw); match != nil {
		quarter, _ := strconv.Atoi(match[1])
		year, _ := strconv.Atoi(match[2])
		return quarterEnd(year, quarter), nil
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("parse date %q", raw)
}

func quarterEnd(year, quarter int) time.Time {
	switch quarter {
	case 1:
		return time.Date(year, time.March, 31, 0, 0, 0, 0, time.UTC)
	case 2:
		return time.Date(year, time.June, 30, 0, 0, 0, 0, time.UTC)
	case 3:
		return time.Date(year, time.September, 30, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	}
}
