package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/adherence"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/aggregate"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/domain"
)

// Row types of the detailed export
const (
	RowPatient = "Patient"
	RowPFT     = "PFT"
	RowLog     = "Log"
)

var patientColumns = []string{
	"Patient Name", "Age", "Sex", "Occupation", "Registration Date",
	"Diagnosis Category", "Diagnosis", "CTD Type", "Sarcoidosis Stage", "Fibrotic ILD",
	"Co-morbidities", "Medication History & Adherence",
}

var pftColumns = []string{
	"PFT Date", "FEV1/FVC", "FEV1 (%)", "FEV1 (L)", "FVC (%)", "FVC (L)", "DLCO (%)",
	"6MWD (m)", "6MWT Min SpO2", "6MWT Max SpO2",
}

var logColumns = func() []string {
	cols := []string{
		"Log Date", "Log Time", "Logs That Day", "Edited", "Alerts", "AQI",
		"SpO2 Rest", "SpO2 Exertion", "mMRC Grade", "KBILD Total Score",
	}
	for i := 1; i <= domain.KbildQuestionCount; i++ {
		cols = append(cols, fmt.Sprintf("KBILD Q%d", i))
	}
	cols = append(cols,
		"VAS Cough", "VAS Expectoration", "VAS Breathlessness", "VAS Chest Pain",
		"VAS Hemoptysis", "VAS Fever", "VAS CTD Symptoms",
		"Side Effects", "Meds Taken (Daily Log)", "Medication Adherence (Daily Log)",
	)
	return cols
}()

// DetailedHeader is the superset schema shared by patient, PFT and log rows.
func DetailedHeader() []string {
	header := []string{"Row Type", "Mobile ID"}
	header = append(header, patientColumns...)
	header = append(header, pftColumns...)
	header = append(header, logColumns...)
	return header
}

// DetailedTable emits, per patient (newest registration first), one patient row, its PFT
// rows by ascending date, then its worst log of each day by ascending date. Cells owned
// by another row type stay empty.
func DetailedTable(patients []domain.Patient) Table {
	t := Table{Sheet: "Detailed", Header: DetailedHeader()}
	col := columnIndex(t.Header)

	for _, p := range byRegistrationDesc(patients) {
		t.Rows = append(t.Rows, patientRow(&t, col, p))
		for _, e := range pftByDate(p.PFTHistory) {
			t.Rows = append(t.Rows, pftRow(&t, col, p, e))
		}
		for _, pl := range aggregate.WorstPerDay(p.Logs) {
			t.Rows = append(t.Rows, logRow(&t, col, p, pl))
		}
	}
	return t
}

func patientRow(t *Table, col map[string]int, p domain.Patient) []string {
	row := t.newRow()
	row[col["Row Type"]] = RowPatient
	row[col["Mobile ID"]] = p.ID
	row[col["Patient Name"]] = p.Name
	row[col["Age"]] = formatInt(p.Age)
	row[col["Sex"]] = string(p.Sex)
	row[col["Occupation"]] = p.Occupation
	row[col["Registration Date"]] = p.RegistrationDate.String()
	row[col["Diagnosis Category"]] = p.Diagnosis.Category()
	row[col["Diagnosis"]] = p.Diagnosis.Subtype()
	row[col["CTD Type"]], _ = p.Diagnosis.CTDType()
	row[col["Sarcoidosis Stage"]], _ = p.Diagnosis.SarcoidosisStage()
	row[col["Fibrotic ILD"]] = yesNo(p.FibroticILD)
	row[col["Co-morbidities"]] = coMorbidities(p)
	row[col["Medication History & Adherence"]] = adherence.MedicationHistory(p)
	return row
}

func pftRow(t *Table, col map[string]int, p domain.Patient, e domain.PFTEntry) []string {
	row := t.newRow()
	row[col["Row Type"]] = RowPFT
	row[col["Mobile ID"]] = p.ID
	row[col["PFT Date"]] = e.Date.String()
	row[col["FEV1/FVC"]] = formatFloat(e.FEV1FVC)
	row[col["FEV1 (%)"]] = formatFloat(e.FEV1)
	row[col["FEV1 (L)"]] = formatFloatPtr(e.FEV1Liters)
	row[col["FVC (%)"]] = formatFloat(e.FVC)
	row[col["FVC (L)"]] = formatFloatPtr(e.FVCLiters)
	row[col["DLCO (%)"]] = formatFloat(e.DLCO)
	row[col["6MWD (m)"]] = formatFloat(e.SixMWD)
	row[col["6MWT Min SpO2"]] = formatFloat(e.MinSpO2)
	row[col["6MWT Max SpO2"]] = formatFloat(e.MaxSpO2)
	return row
}

func logRow(t *Table, col map[string]int, p domain.Patient, pl aggregate.PeriodLog) []string {
	l := pl.Log
	row := t.newRow()
	row[col["Row Type"]] = RowLog
	row[col["Mobile ID"]] = p.ID
	row[col["Log Date"]] = l.Date.String()
	row[col["Log Time"]] = l.Time
	row[col["Logs That Day"]] = formatInt(pl.LogCount)
	row[col["Edited"]] = yesNo(l.IsEdited)
	row[col["Alerts"]] = strings.Join(l.Alerts, "; ")
	row[col["AQI"]] = formatIntPtr(l.AQI)
	row[col["SpO2 Rest"]] = formatInt(l.SpO2Rest)
	row[col["SpO2 Exertion"]] = formatInt(l.SpO2Exertion)
	row[col["mMRC Grade"]] = l.MMRCGrade
	row[col["KBILD Total Score"]] = formatInt(l.KbildScore)
	for i := 1; i <= domain.KbildQuestionCount; i++ {
		if v, ok := l.KbildResponses[i]; ok {
			row[col[fmt.Sprintf("KBILD Q%d", i)]] = formatInt(v)
		}
	}
	row[col["VAS Cough"]] = formatInt(l.VAS.Cough)
	row[col["VAS Expectoration"]] = formatInt(l.VAS.Expectoration)
	row[col["VAS Breathlessness"]] = formatInt(l.VAS.Breathlessness)
	row[col["VAS Chest Pain"]] = formatInt(l.VAS.ChestPain)
	row[col["VAS Hemoptysis"]] = formatInt(l.VAS.Hemoptysis)
	row[col["VAS Fever"]] = formatInt(l.VAS.Fever)
	row[col["VAS CTD Symptoms"]] = formatInt(l.VAS.CTDSymptoms)
	row[col["Side Effects"]] = strings.Join(l.SideEffects, "; ")
	row[col["Meds Taken (Daily Log)"]] = strings.Join(l.TakenMedications, "; ")
	row[col["Medication Adherence (Daily Log)"]] = adherence.LogAdherence(p, l)
	return row
}

// coMorbidities renders the list with the free-text entry as "Others: <text>".
func coMorbidities(p domain.Patient) string {
	parts := make([]string, 0, len(p.CoMorbidities))
	for _, c := range p.CoMorbidities {
		if c == domain.OtherCoMorbidity && p.OtherCoMorbidity != "" {
			c = domain.OtherCoMorbidity + ": " + p.OtherCoMorbidity
		}
		parts = append(parts, c)
	}
	return strings.Join(parts, "; ")
}

func pftByDate(entries []domain.PFTEntry) []domain.PFTEntry {
	out := make([]domain.PFTEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
