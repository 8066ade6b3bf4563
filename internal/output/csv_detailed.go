package output

import (
	"bytes"
	"encoding/csv"
	"sort"

	"github.com/rpgo/swiss-tax-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// CSVDetailedExporter writes one row per profile and line item: mandatory
// deductions, each optional deduction per jurisdiction, net incomes and taxes.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "detailed-csv" }

type lineItem struct {
	jurisdiction string
	component    string
	amount       decimal.Decimal
}

func lineItems(r *domain.TaxResult) []lineItem {
	fd, cd, b := r.FederalDeductions, r.CantonalDeductions, r.Breakdown
	return []lineItem{
		{"mandatory", "social_insurance", r.Mandatory.SocialInsurance},
		{"mandatory", "pension_contribution", r.Mandatory.PensionContribution},
		{"federal", "travel", fd.Travel},
		{"federal", "insurance_adults", fd.InsuranceAdults},
		{"federal", "insurance_children", fd.InsuranceChildren},
		{"federal", "pillar_3a", fd.Pillar3a},
		{"federal", "child_deduction", fd.ChildDeduction},
		{"federal", "married_deduction", fd.MarriedDeduction},
		{"federal", "childcare", fd.ChildcareDeduction},
		{"federal", "net_income", r.FederalNetIncome},
		{"federal", "tax", b.FederalTax},
		{"cantonal", "travel", cd.Travel},
		{"cantonal", "insurance_adults", cd.InsuranceAdults},
		{"cantonal", "insurance_children", cd.InsuranceChildren},
		{"cantonal", "pillar_3a", cd.Pillar3a},
		{"cantonal", "two_income_couple", cd.TwoIncomeCouple},
		{"cantonal", "asset_management", cd.AssetManagement},
		{"cantonal", "childcare", cd.ChildcareDeduction},
		{"cantonal", "child_education", cd.ChildEducation},
		{"cantonal", "child_deduction_by_age", cd.ChildDeductionByAge},
		{"cantonal", "net_income", r.CantonalNetIncome},
		{"cantonal", "base_tax", b.CantonalBaseTax},
		{"cantonal", "tax", b.CantonalTax},
		{"municipal", "tax", b.MunicipalTax},
		{"church", "tax", b.ChurchTax},
		{"total", "cantonal_municipal_church_tax", b.TotalCantonalMunicipalChurchTax},
		{"total", "income_tax", b.TotalIncomeTax},
	}
}

func (c CSVDetailedExporter) Format(report *domain.Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Profile", "Jurisdiction", "Component", "Amount"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	entries := append([]domain.ReportEntry(nil), report.Entries...)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	for _, e := range entries {
		if e.Result == nil {
			continue
		}
		for _, item := range lineItems(e.Result) {
			row := []string{e.Name, item.jurisdiction, item.component, item.amount.StringFixed(2)}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
