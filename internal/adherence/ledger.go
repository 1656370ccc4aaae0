package adherence

import (
	"fmt"
	"strings"

	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/domain"
)

// CountDaysTaken counts the patient's logs marking medication as taken. Two logs on the
// same date both count.
func CountDaysTaken(p domain.Patient, medication string) int {
	n := 0
	for _, l := range p.Logs {
		if l.Took(medication) {
			n++
		}
	}
	return n
}

// TakenCounts tallies every medication name appearing in any log.
func TakenCounts(p domain.Patient) map[string]int {
	counts := make(map[string]int)
	for _, l := range p.Logs {
		for _, m := range l.TakenMedications {
			counts[m]++
		}
	}
	return counts
}

// ActiveMedicationsOnDate filters prescriptions whose interval contains day, keeping
// prescription order.
func ActiveMedicationsOnDate(p domain.Patient, day domain.Date) []domain.Medication {
	var out []domain.Medication
	for _, m := range p.Medications {
		if m.ActiveOn(day) {
			out = append(out, m)
		}
	}
	return out
}

// AdherenceSummary maps each prescribed medication to a readable line. A medication
// prescribed over several intervals gets its lines joined with " | ".
func AdherenceSummary(p domain.Patient) map[string]string {
	counts := TakenCounts(p)
	out := make(map[string]string, len(p.Medications))
	for _, m := range p.Medications {
		line := fmt.Sprintf("%s - [Taken: %d days]", prescription(m), counts[m.Name])
		if prev, ok := out[m.Name]; ok {
			line = prev + " | " + line
		}
		out[m.Name] = line
	}
	return out
}

// MedicationHistory renders all prescriptions as one export cell:
// Name (dose, freq, start to end) - [Taken: N days], joined with " | ".
func MedicationHistory(p domain.Patient) string {
	counts := TakenCounts(p)
	parts := make([]string, 0, len(p.Medications))
	for _, m := range p.Medications {
		parts = append(parts, fmt.Sprintf("%s (%s) - [Taken: %d days]", m.Name, prescription(m), counts[m.Name]))
	}
	return strings.Join(parts, " | ")
}

// LogAdherence renders Name(Y) or Name(N) for every prescribed medication against one log.
func LogAdherence(p domain.Patient, l domain.HealthLog) string {
	parts := make([]string, 0, len(p.Medications))
	for _, m := range p.Medications {
		mark := "N"
		if l.Took(m.Name) {
			mark = "Y"
		}
		parts = append(parts, fmt.Sprintf("%s(%s)", m.Name, mark))
	}
	return strings.Join(parts, "; ")
}

func prescription(m domain.Medication) string {
	parts := []string{m.Dose, m.Frequency}
	if m.DoseNumber != nil {
		parts = append(parts, fmt.Sprintf("dose #%d", *m.DoseNumber))
	}
	if m.DosageDate != nil {
		parts = append(parts, "given "+m.DosageDate.String())
	}
	start := m.StartDate.String()
	if start == "" {
		start = "N/A"
	}
	end := "ongoing"
	if m.EndDate != nil {
		end = m.EndDate.String()
	}
	parts = append(parts, start+" to "+end)
	return strings.Join(parts, ", ")
}
