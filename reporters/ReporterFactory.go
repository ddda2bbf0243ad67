package reporters

import (
	"errors"
	"fmt"

	"github.com/reaandrew/s3hunter/core"
)

const (
	FormatText   = "text"
	FormatJson   = "json"
	FormatXlsx   = "xlsx"
	FormatSqlite = "sqlite"
	FormatHttp   = "http"
)

const (
	DefaultJsonReport   = "s3hunter_findings.json"
	DefaultXlsxReport   = "s3hunter_findings.xlsx"
	DefaultSqliteReport = "s3hunter_findings.db"
)

// Options selects and configures a reporter.
type Options struct {
	Format     string
	OutputPath string
	BaseURL    string
}

// CreateReporter returns the reporter for options.Format. A text report
// without an output path has nothing to write, so the reporter is nil.
func CreateReporter(options Options) (core.Reporter, error) {
	switch options.Format {
	case "", FormatText:
		if options.OutputPath == "" {
			return nil, nil
		}
		return TextReporter{OutputPath: options.OutputPath}, nil
	case FormatJson:
		return JsonReporter{OutputPath: orDefault(options.OutputPath, DefaultJsonReport)}, nil
	case FormatXlsx:
		return XlsxReporter{OutputPath: orDefault(options.OutputPath, DefaultXlsxReport)}, nil
	case FormatSqlite:
		return SqliteReporter{DBPath: orDefault(options.OutputPath, DefaultSqliteReport)}, nil
	case FormatHttp:
		if options.BaseURL == "" {
			return nil, errors.New("the http report format requires a base url")
		}
		return NewDefaultHttpReporter(options.BaseURL), nil
	}

	return nil, fmt.Errorf("unknown report format: %s", options.Format)
}

func orDefault(value string, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
