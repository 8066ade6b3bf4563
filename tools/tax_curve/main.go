package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/rpgo/swiss-tax-calculator/internal/calculation"
	"github.com/rpgo/swiss-tax-calculator/internal/domain"
	"github.com/rpgo/swiss-tax-calculator/internal/refdata"
	"github.com/shopspring/decimal"
)

// Prints the tax breakdown over a range of gross incomes for one household,
// to eyeball the curve against published tax tables.
func main() {
	refPath := flag.String("refdata", "", "reference tables file (default: embedded)")
	commune := flag.String("commune", "St. Gallen", "commune")
	church := flag.String("church", "", "church affiliation")
	married := flag.Bool("married", false, "married")
	children := flag.Int("children", 0, "children under 7")
	from := flag.Int64("from", 20000, "first gross income")
	to := flag.Int64("to", 300000, "last gross income")
	step := flag.Int64("step", 20000, "income step")
	flag.Parse()

	if *from <= 0 || *step <= 0 {
		log.Fatal("from and step must be positive")
	}

	ref, err := refdata.Load(*refPath)
	if err != nil {
		log.Fatal(err)
	}
	calc := calculation.NewCalculator(ref)

	status := domain.Single
	if *married {
		status = domain.Married
	}

	fmt.Printf("%s %d, %s, %s, %d children\n", ref.Canton(), ref.TaxYear(), *commune, status, *children)
	fmt.Printf("%10s %10s %10s %10s %10s %10s %7s\n", "gross", "federal", "canton", "commune", "church", "total", "rate")
	for gross := *from; gross <= *to; gross += *step {
		p := domain.TaxpayerProfile{
			GrossIncome:       decimal.NewFromInt(gross),
			Age:               40,
			Employed:          true,
			MaritalStatus:     status,
			NumberOfChildren:  *children,
			ChildrenUnder7:    *children,
			Commune:           *commune,
			ChurchAffiliation: domain.ChurchAffiliation(*church),
		}
		r, err := calc.Calculate(&p)
		if err != nil {
			log.Fatal(err)
		}
		b := r.Breakdown
		rate := b.TotalIncomeTax.Div(p.GrossIncome).Mul(decimal.NewFromInt(100))
		fmt.Printf("%10d %10s %10s %10s %10s %10s %6s%%\n", gross,
			b.FederalTax.StringFixed(2), b.CantonalTax.StringFixed(2), b.MunicipalTax.StringFixed(2),
			b.ChurchTax.StringFixed(2), b.TotalIncomeTax.StringFixed(2), rate.StringFixed(2))
	}
}
