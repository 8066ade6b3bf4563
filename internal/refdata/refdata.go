// Package refdata loads the reference tables the calculator runs on: federal
// brackets, cantonal bands, commune multipliers and both deduction tables.
//
// The St. Gallen 2025 tables are embedded; other years or cantons can be read
// from any YAML file with the same layout.
package refdata

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"sync"

	"github.com/rpgo/swiss-tax-calculator/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed data/sg_2025.yaml
var embeddedSG2025 []byte

// EmbeddedName identifies the built-in tables in settings and messages.
const EmbeddedName = "embedded:sg_2025"

var (
	defaultOnce sync.Once
	defaultRef  *domain.ReferenceData
	defaultErr  error
)

// Default returns the embedded St. Gallen 2025 tables. They are parsed once.
func Default() (*domain.ReferenceData, error) {
	defaultOnce.Do(func() {
		defaultRef, defaultErr = Parse(embeddedSG2025)
		if defaultErr != nil {
			defaultErr = fmt.Errorf("embedded reference data: %w", defaultErr)
		}
	})
	return defaultRef, defaultErr
}

// LoadFromFile reads and validates tables from a YAML file.
func LoadFromFile(filename string) (*domain.ReferenceData, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference data %s: %w", filename, err)
	}
	ref, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("reference data %s: %w", filename, err)
	}
	return ref, nil
}

// Load resolves a settings value: empty or EmbeddedName selects the embedded
// tables, anything else is a file path.
func Load(source string) (*domain.ReferenceData, error) {
	if source == "" || source == EmbeddedName {
		return Default()
	}
	return LoadFromFile(source)
}

// Parse decodes YAML tables and validates them. Unknown fields are rejected so
// a misspelt column cannot silently read as zero.
func Parse(data []byte) (*domain.ReferenceData, error) {
	var tables domain.ReferenceTables
	if err := decodeStrict(data, &tables); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	ref, err := domain.NewReferenceData(tables)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return ref, nil
}

// Tables decodes YAML into the raw table form without validating it.
func Tables(data []byte) (domain.ReferenceTables, error) {
	var tables domain.ReferenceTables
	err := decodeStrict(data, &tables)
	return tables, err
}

// EmbeddedTables returns the raw embedded tables, e.g. to derive variants in tests.
func EmbeddedTables() (domain.ReferenceTables, error) {
	return Tables(embeddedSG2025)
}

func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(out)
}
