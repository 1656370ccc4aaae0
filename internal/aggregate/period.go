package aggregate

import (
	"fmt"
	"strings"

	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/domain"
)

// Period is the grouping granularity for worst-log selection and summaries.
type Period string

const (
	Daily   Period = "daily"
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
)

var Periods = []Period{Daily, Weekly, Monthly}

func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case Daily, Weekly, Monthly:
		return p, nil
	case "":
		return Daily, nil
	}
	return "", domain.Invalid("period", fmt.Sprintf("unknown period %q", s))
}

// PeriodKey identifies one group: the inclusive day range it covers.
type PeriodKey struct {
	Period Period      `json:"period"`
	Start  domain.Date `json:"start"`
	End    domain.Date `json:"end"`
}

// KeyOf returns the group containing day. Weeks run Monday through Sunday.
func (p Period) KeyOf(day domain.Date) PeriodKey {
	switch p {
	case Weekly:
		start := day.StartOfWeek()
		return PeriodKey{Period: p, Start: start, End: start.AddDays(6)}
	case Monthly:
		return PeriodKey{Period: p, Start: day.StartOfMonth(), End: day.EndOfMonth()}
	default:
		return PeriodKey{Period: Daily, Start: day, End: day}
	}
}

// Contains reports whether day falls inside the key's range.
func (k PeriodKey) Contains(day domain.Date) bool {
	return !day.Before(k.Start) && !day.After(k.End)
}

// Label renders the key for exports: 2024-03-05, 2024-03-04 to 2024-03-10, or 2024-03.
func (k PeriodKey) Label() string {
	switch k.Period {
	case Weekly:
		return k.Start.String() + " to " + k.End.String()
	case Monthly:
		return fmt.Sprintf("%04d-%02d", k.Start.Year, int(k.Start.Month))
	default:
		return k.Start.String()
	}
}
