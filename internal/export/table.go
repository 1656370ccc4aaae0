package export

import (
	"sort"
	"strconv"

	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/domain"
)

// Table is a fixed-width sheet: every row has len(Header) cells.
type Table struct {
	Sheet  string
	Header []string
	Rows   [][]string
}

func (t *Table) newRow() []string {
	return make([]string, len(t.Header))
}

// columnIndex maps header names to positions.
func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[h] = i
	}
	return idx
}

// byRegistrationDesc orders patients newest registration first, keeping input order on ties.
func byRegistrationDesc(patients []domain.Patient) []domain.Patient {
	out := make([]domain.Patient, len(patients))
	copy(out, patients)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RegistrationDate.After(out[j].RegistrationDate)
	})
	return out
}

func formatInt(v int) string {
	return strconv.Itoa(v)
}

func formatIntPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
