package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rpgo/swiss-tax-calculator/internal/domain"
	"gopkg.in/yaml.v3"
)

func unsupported(format string) error {
	return fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format,
		strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
}

// WriteReport renders report in format and writes it to w.
func WriteReport(w io.Writer, report *domain.Report, format string) error {
	f := GetFormatterByName(format)
	if f == nil {
		return unsupported(format)
	}
	data, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("format %s: %w", f.Name(), err)
	}
	_, err = w.Write(data)
	return err
}

// GenerateReport writes report to timestamped files in dir and returns their
// paths. Format "all" writes the console, detailed CSV and JSON renderings.
func GenerateReport(report *domain.Report, format, dir string) ([]string, error) {
	if NormalizeFormatName(format) == "all" {
		var paths []string
		for _, name := range []string{"console", "detailed-csv", "json"} {
			path, err := WriteFormatted(GetFormatterByName(name), report, dir, Extension(name))
			if err != nil {
				return paths, err
			}
			paths = append(paths, path)
		}
		return paths, nil
	}

	f := GetFormatterByName(format)
	if f == nil {
		return nil, unsupported(format)
	}
	path, err := WriteFormatted(f, report, dir, Extension(format))
	if err != nil {
		return nil, err
	}
	return []string{path}, nil
}

// SaveProfiles writes a profile set as YAML in the input file format. Profiles
// with child birth dates are written with the dates only, so the file loads
// back through the input parser.
func SaveProfiles(set *domain.ProfileSet, filename string) error {
	out := domain.ProfileSet{TaxYear: set.TaxYear, Profiles: make([]domain.TaxpayerProfile, len(set.Profiles))}
	for i, p := range set.Profiles {
		if len(p.ChildBirthDates) > 0 {
			p.ChildrenUnder7, p.Children7AndOver = 0, 0
		}
		out.Profiles[i] = p
	}
	b, err := yaml.Marshal(&out)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0o644)
}
