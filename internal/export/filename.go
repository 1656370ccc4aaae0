package export

import (
	"fmt"
	"strings"

	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/domain"
)

type Mode string

const (
	ModeDetailed Mode = "detailed"
	ModeSummary  Mode = "summary"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeDetailed, ModeSummary:
		return m, nil
	case "":
		return ModeDetailed, nil
	}
	return "", domain.Invalid("mode", fmt.Sprintf("unknown export mode %q", s))
}

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX:
		return f, nil
	case "":
		return FormatCSV, nil
	}
	return "", domain.Invalid("format", fmt.Sprintf("unknown export format %q", s))
}

// ContentType is the HTTP media type of the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Filename builds aiims_ild_<mode>[_<period>][_<category>]_<YYYY-MM-DD>.<ext>. Period is
// only part of summary names; category is the short code of the filter, if any.
func Filename(mode Mode, period string, category string, format Format, day domain.Date) string {
	parts := []string{"aiims_ild", string(mode)}
	if mode == ModeSummary && period != "" {
		parts = append(parts, period)
	}
	if code := domain.CategoryCode(category); code != "" {
		parts = append(parts, code)
	}
	parts = append(parts, day.String())
	return strings.Join(parts, "_") + "." + string(format)
}
