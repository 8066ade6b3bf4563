package config

import (
	"fmt"
	"os"

	"github.com/rpgo/swiss-tax-calculator/internal/domain"
	"github.com/rpgo/swiss-tax-calculator/pkg/dateutil"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of taxpayer profile files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a profile set from a YAML or JSON file
func (ip *InputParser) LoadFromFile(filename string) (*domain.ProfileSet, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes, normalises and validates a profile set.
func (ip *InputParser) Parse(data []byte) (*domain.ProfileSet, error) {
	var set domain.ProfileSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ResolveChildren(&set); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	if err := ip.ValidateProfileSet(&set); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &set, nil
}

// ResolveChildren fills in the child counts of every profile.
//
// Profiles that list child birth dates get their under-7 / 7-and-over split
// from the dates at 31 December of the tax year. Profiles that give only the
// split get number_of_children from its sum.
func (ip *InputParser) ResolveChildren(set *domain.ProfileSet) error {
	for i := range set.Profiles {
		p := &set.Profiles[i]
		if len(p.ChildBirthDates) > 0 {
			if set.TaxYear <= 0 {
				return fmt.Errorf("profile %d: tax_year is required to use child_birth_dates", i)
			}
			if p.ChildrenUnder7 != 0 || p.Children7AndOver != 0 {
				return fmt.Errorf("profile %d: give either child_birth_dates or the children_under_7/children_7_and_over counts, not both", i)
			}
			under7, over := dateutil.ChildAgeCounts(p.ChildBirthDates, dateutil.TaxReferenceDate(set.TaxYear))
			if p.NumberOfChildren != 0 && p.NumberOfChildren != under7+over {
				return fmt.Errorf("profile %d: number_of_children is %d but %d children are born by the end of %d",
					i, p.NumberOfChildren, under7+over, set.TaxYear)
			}
			p.ChildrenUnder7, p.Children7AndOver = under7, over
			p.NumberOfChildren = under7 + over
			continue
		}
		if p.NumberOfChildren == 0 {
			p.NumberOfChildren = p.ChildrenUnder7 + p.Children7AndOver
		}
	}
	return nil
}

// ValidateProfileSet validates the loaded profiles
func (ip *InputParser) ValidateProfileSet(set *domain.ProfileSet) error {
	if len(set.Profiles) == 0 {
		return fmt.Errorf("no profiles provided")
	}
	if set.TaxYear < 0 {
		return fmt.Errorf("tax_year cannot be negative")
	}

	seen := make(map[string]int, len(set.Profiles))
	for i := range set.Profiles {
		p := &set.Profiles[i]
		if p.Name == "" {
			p.Name = fmt.Sprintf("profile-%d", i+1)
		}
		if j, dup := seen[p.Name]; dup {
			return fmt.Errorf("profile %d: name %q already used by profile %d", i, p.Name, j)
		}
		seen[p.Name] = i

		if err := p.Validate(); err != nil {
			return fmt.Errorf("profile %q validation failed: %w", p.Name, err)
		}
	}
	return nil
}
