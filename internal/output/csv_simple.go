package output

import (
	"bytes"
	"encoding/csv"
	"sort"

	"github.com/rpgo/swiss-tax-calculator/internal/domain"
)

// CSVSummarizer implements the simple summary CSV output (one row per profile).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(report *domain.Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Profile", "Commune", "MaritalStatus", "Employed", "Children", "GrossIncome", "FederalNetIncome", "CantonalNetIncome", "FederalTax", "CantonalBaseTax", "CantonalTax", "MunicipalTax", "ChurchTax", "TotalCantonalMunicipalChurchTax", "TotalIncomeTax", "EffectiveRatePercent", "Error"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	entries := append([]domain.ReportEntry(nil), report.Entries...)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	for _, e := range entries {
		if e.Result == nil {
			row := make([]string, len(header))
			row[0] = e.Name
			row[len(row)-1] = e.Error
			if err := w.Write(row); err != nil {
				return nil, err
			}
			continue
		}
		r := e.Result
		b := r.Breakdown
		row := []string{
			e.Name,
			r.Profile.Commune,
			string(r.Profile.MaritalStatus),
			boolToString(r.Profile.Employed),
			intToString(r.Profile.NumberOfChildren),
			r.Profile.GrossIncome.StringFixed(2),
			r.FederalNetIncome.StringFixed(2),
			r.CantonalNetIncome.StringFixed(2),
			b.FederalTax.StringFixed(2),
			b.CantonalBaseTax.StringFixed(2),
			b.CantonalTax.StringFixed(2),
			b.MunicipalTax.StringFixed(2),
			b.ChurchTax.StringFixed(2),
			b.TotalCantonalMunicipalChurchTax.StringFixed(2),
			b.TotalIncomeTax.StringFixed(2),
			EffectiveRate(r).StringFixed(2),
			"",
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
