package export

import (
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/aggregate"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/domain"
)

var summaryHeader = []string{
	"Mobile ID", "Patient Name", "Diagnosis Category", "Diagnosis",
	"Period", "Period Start", "Period End", "Logs", "PFT Entries",
	"Min KBILD", "Max mMRC", "Min SpO2 Rest", "Min SpO2 Exertion", "Alert Count",
	"Min FEV1/FVC", "Min FEV1 (%)", "Min FEV1 (L)", "Min FVC (%)", "Min FVC (L)",
	"Min DLCO (%)", "Min 6MWD (m)", "Min 6MWT SpO2", "Max 6MWT SpO2",
}

// SummaryHeader is the column layout of the period-summary export.
func SummaryHeader() []string {
	return append([]string(nil), summaryHeader...)
}

// SummaryTable emits one row per (patient, period) holding the period's extremal
// metrics. Patients without logs or PFT entries produce no rows; absent metrics are
// empty cells.
func SummaryTable(patients []domain.Patient, period aggregate.Period) Table {
	t := Table{Sheet: "Summary", Header: SummaryHeader()}
	col := columnIndex(t.Header)

	for _, p := range byRegistrationDesc(patients) {
		for _, s := range aggregate.Summarize(p, period) {
			row := t.newRow()
			row[col["Mobile ID"]] = p.ID
			row[col["Patient Name"]] = p.Name
			row[col["Diagnosis Category"]] = p.Diagnosis.Category()
			row[col["Diagnosis"]] = p.Diagnosis.Subtype()
			row[col["Period"]] = s.Key.Label()
			row[col["Period Start"]] = s.Key.Start.String()
			row[col["Period End"]] = s.Key.End.String()
			row[col["Logs"]] = formatInt(s.LogCount)
			row[col["PFT Entries"]] = formatInt(s.PFTCount)
			row[col["Min KBILD"]] = formatIntPtr(s.MinKbild)
			row[col["Max mMRC"]] = formatIntPtr(s.MaxMMRC)
			row[col["Min SpO2 Rest"]] = formatIntPtr(s.MinSpO2Rest)
			row[col["Min SpO2 Exertion"]] = formatIntPtr(s.MinSpO2Exertion)
			row[col["Alert Count"]] = formatIntPtr(s.AlertCount)
			row[col["Min FEV1/FVC"]] = formatFloatPtr(s.MinFEV1FVC)
			row[col["Min FEV1 (%)"]] = formatFloatPtr(s.MinFEV1)
			row[col["Min FEV1 (L)"]] = formatFloatPtr(s.MinFEV1Liters)
			row[col["Min FVC (%)"]] = formatFloatPtr(s.MinFVC)
			row[col["Min FVC (L)"]] = formatFloatPtr(s.MinFVCLiters)
			row[col["Min DLCO (%)"]] = formatFloatPtr(s.MinDLCO)
			row[col["Min 6MWD (m)"]] = formatFloatPtr(s.MinSixMWD)
			row[col["Min 6MWT SpO2"]] = formatFloatPtr(s.MinWalkSpO2)
			row[col["Max 6MWT SpO2"]] = formatFloatPtr(s.MaxWalkSpO2)
			t.Rows = append(t.Rows, row)
		}
	}
	return t
}
