package adherence

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/domain"
)

func fixture() domain.Patient {
	end := domain.MustParseDate("2024-03-10")
	dose := 2
	return domain.Patient{
		ID: "9999999999",
		Medications: []domain.Medication{
			{Name: "MMF", Dose: "500mg", Frequency: "BD", StartDate: domain.MustParseDate("2024-03-01"), EndDate: &end},
			{Name: "Nintedanib", Dose: "150mg", Frequency: "OD", StartDate: domain.MustParseDate("2024-03-05")},
			{Name: "Rituximab", Dose: "1g", Frequency: "Induction 2nd dose", StartDate: domain.MustParseDate("2024-03-01"), DoseNumber: &dose},
		},
		Logs: []domain.HealthLog{
			{ID: "1", Date: domain.MustParseDate("2024-03-06"), TakenMedications: []string{"MMF", "Nintedanib"}},
			{ID: "2", Date: domain.MustParseDate("2024-03-06"), TakenMedications: []string{"MMF"}},
			{ID: "3", Date: domain.MustParseDate("2024-03-07"), TakenMedications: []string{"Nintedanib"}},
		},
	}
}

func TestCountDaysTaken(t *testing.T) {
	p := fixture()
	assert.Equal(t, 2, CountDaysTaken(p, "MMF"))
	assert.Equal(t, 2, CountDaysTaken(p, "Nintedanib"))
	assert.Equal(t, 0, CountDaysTaken(p, "Rituximab"))
	assert.Equal(t, map[string]int{"MMF": 2, "Nintedanib": 2}, TakenCounts(p))
}

func TestActiveMedicationsOnDate(t *testing.T) {
	p := fixture()

	names := func(ms []domain.Medication) []string {
		var out []string
		for _, m := range ms {
			out = append(out, m.Name)
		}
		return out
	}
	assert.Equal(t, []string{"MMF", "Rituximab"}, names(ActiveMedicationsOnDate(p, domain.MustParseDate("2024-03-02"))))
	assert.Equal(t, []string{"MMF", "Nintedanib", "Rituximab"}, names(ActiveMedicationsOnDate(p, domain.MustParseDate("2024-03-10"))))
	assert.Equal(t, []string{"Nintedanib", "Rituximab"}, names(ActiveMedicationsOnDate(p, domain.MustParseDate("2024-03-11"))))
	assert.Empty(t, ActiveMedicationsOnDate(p, domain.MustParseDate("2024-02-01")))
}

func TestAdherenceStrings(t *testing.T) {
	p := fixture()

	summary := AdherenceSummary(p)
	assert.Equal(t, "500mg, BD, 2024-03-01 to 2024-03-10 - [Taken: 2 days]", summary["MMF"])
	assert.Equal(t, "1g, Induction 2nd dose, dose #2, 2024-03-01 to ongoing - [Taken: 0 days]", summary["Rituximab"])

	assert.Equal(t,
		"MMF (500mg, BD, 2024-03-01 to 2024-03-10) - [Taken: 2 days] | "+
			"Nintedanib (150mg, OD, 2024-03-05 to ongoing) - [Taken: 2 days] | "+
			"Rituximab (1g, Induction 2nd dose, dose #2, 2024-03-01 to ongoing) - [Taken: 0 days]",
		MedicationHistory(p))

	assert.Equal(t, "MMF(N); Nintedanib(Y); Rituximab(N)", LogAdherence(p, p.Logs[2]))
}
