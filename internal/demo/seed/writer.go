package seed

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/creditbench/creditbench/internal/ingest"
)

const dropDateLayout = "2006-01-02"

// WriteFiles lays the generated datasets out as drop files in dir, the
// layout the directory source and PushDrops expect.
func (d Data) WriteFiles(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create drop directory: %w", err)
	}

	drops := []struct {
		dataset string
		records [][]string
	}{
		{"industry_mapping", industryRecords(d.Industries)},
		{"companies", companyRecords(d.Companies)},
		{"credit_events", eventRecords(d.CreditEvents)},
	}

	written := make([]string, 0, len(drops)+len(d.Macro)+1)
	for _, drop := range drops {
		ds, ok := ingest.ByName(drop.dataset)
		if !ok {
			return nil, fmt.Errorf("dataset %s not registered", drop.dataset)
		}
		path, err := writeCSV(dir, drop.dataset+".csv", ds.Columns(), drop.records)
		if err != nil {
			return nil, err
		}
		written = append(written, path)
	}

	path, err := writeRiskParquet(dir, d.RiskIndicators)
	if err != nil {
		return nil, err
	}
	written = append(written, path)

	for _, series := range d.Macro {
		path, err := writeCSV(dir, series.Dataset+".csv", series.Header, series.Rows)
		if err != nil {
			return nil, err
		}
		written = append(written, path)
	}
	return written, nil
}

func industryRecords(industries []Industry) [][]string {
	records := make([][]string, 0, len(industries))
	for _, industry := range industries {
		records = append(records, []string{
			industry.Sector,
			strconv.FormatInt(industry.SectorNum, 10),
			industry.Group,
			strconv.FormatInt(industry.GroupNum, 10),
			industry.Subgroup,
			strconv.FormatInt(industry.SubgroupNum, 10),
		})
	}
	return records
}

func companyRecords(companies []Company) [][]string {
	records := make([][]string, 0, len(companies))
	for _, company := range companies {
		records = append(records, []string{
			strconv.FormatInt(company.Number, 10),
			company.IDBBUnique,
			strconv.FormatInt(company.IDBBCompany, 10),
			company.Ticker,
			company.Name,
			company.Country,
			company.SecurityType,
			company.MarketStatus,
			company.PrimeExchange,
			company.Domicile,
			strconv.FormatInt(company.SectorNum, 10),
			strconv.FormatInt(company.GroupNum, 10),
			strconv.FormatInt(company.SubgroupNum, 10),
			company.ISIN,
			company.CUSIP,
		})
	}
	return records
}

func eventRecords(events []CreditEvent) [][]string {
	records := make([][]string, 0, len(events))
	for _, event := range events {
		records = append(records, []string{
			strconv.FormatInt(event.CompanyNumber, 10),
			strconv.FormatInt(event.IDBBCompany, 10),
			event.AnnouncementDate.Format(dropDateLayout),
			event.EffectiveDate.Format(dropDateLayout),
			strconv.Itoa(event.EventType),
			event.ActionName,
			event.Subcategory,
		})
	}
	return records
}

func writeRiskParquet(dir string, records []ingest.RiskIndicatorRecord) (string, error) {
	path := filepath.Join(dir, "risk_indicators.parquet")
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := ingest.EncodeRiskIndicators(file, records); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

func writeCSV(dir, name string, header []string, records [][]string) (string, error) {
	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("write %s header: %w", path, err)
	}
	if err := writer.WriteAll(records); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}
