package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/aggregate"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/domain"
)

func exportFixture(t *testing.T) []domain.Patient {
	t.Helper()
	ctd, err := domain.NewCTDILDDiagnosis("SLE")
	require.NoError(t, err)
	copd, err := domain.NewDiagnosis("OAD", "COPD")
	require.NoError(t, err)
	ipf, err := domain.NewDiagnosis("ILD", "Idiopathic pulmonary fibrosis")
	require.NoError(t, err)

	older := domain.Patient{
		ID: "1111111111", Name: `Ram "Bhai" Singh`, Age: 70, Sex: domain.SexMale, Diagnosis: ctd,
		CoMorbidities: []string{"GERD", domain.OtherCoMorbidity}, OtherCoMorbidity: "Gout",
		RegistrationDate: domain.MustParseDate("2024-01-05"),
		Medications: []domain.Medication{
			{Name: "MMF", Dose: "500mg", Frequency: "BD", StartDate: domain.MustParseDate("2024-01-05")},
		},
		PFTHistory: []domain.PFTEntry{
			{ID: "p2", Date: domain.MustParseDate("2024-03-01"), FEV1: 60},
			{ID: "p1", Date: domain.MustParseDate("2024-01-05"), FEV1: 65},
		},
		Logs: []domain.HealthLog{
			{ID: "b", Date: domain.MustParseDate("2024-02-02"), SpO2Rest: 96, SpO2Exertion: 90, MMRCGrade: "1", KbildScore: 50, TakenMedications: []string{"MMF"}, Alerts: []string{}},
			{ID: "a", Date: domain.MustParseDate("2024-02-01"), SpO2Rest: 96, SpO2Exertion: 92, MMRCGrade: "1", KbildScore: 50, Alerts: []string{}},
			{ID: "a2", Date: domain.MustParseDate("2024-02-01"), SpO2Rest: 96, SpO2Exertion: 85, MMRCGrade: "1", KbildScore: 50, KbildResponses: map[int]int{1: 4}, Alerts: []string{"SpO2 drop > 5%"}},
		},
	}
	newer := domain.Patient{
		ID: "2222222222", Name: "Sita", Age: 40, Sex: domain.SexFemale, Diagnosis: copd,
		RegistrationDate: domain.MustParseDate("2024-04-01"),
	}
	empty := domain.Patient{
		ID: "3333333333", Name: "Nobody", Diagnosis: ipf,
		RegistrationDate: domain.MustParseDate("2024-02-01"),
	}
	return []domain.Patient{older, newer, empty}
}

func TestDetailedTable_Layout(t *testing.T) {
	tbl := DetailedTable(exportFixture(t))
	col := columnIndex(tbl.Header)

	for _, row := range tbl.Rows {
		require.Len(t, row, len(tbl.Header))
	}

	var kinds, ids []string
	for _, row := range tbl.Rows {
		kinds = append(kinds, row[col["Row Type"]])
		ids = append(ids, row[col["Mobile ID"]])
	}
	assert.Equal(t, []string{RowPatient, RowPatient, RowPatient, RowPFT, RowPFT, RowLog, RowLog}, kinds)
	assert.Equal(t, []string{"2222222222", "3333333333", "1111111111", "1111111111", "1111111111", "1111111111", "1111111111"}, ids)

	patient := tbl.Rows[2]
	assert.Equal(t, "GERD; Others: Gout", patient[col["Co-morbidities"]])
	assert.Equal(t, "SLE", patient[col["CTD Type"]])
	assert.Equal(t, "MMF (500mg, BD, 2024-01-05 to ongoing) - [Taken: 1 days]", patient[col["Medication History & Adherence"]])
	assert.Empty(t, patient[col["PFT Date"]])
	assert.Empty(t, patient[col["Log Date"]])

	assert.Equal(t, "2024-01-05", tbl.Rows[3][col["PFT Date"]])
	assert.Equal(t, "2024-03-01", tbl.Rows[4][col["PFT Date"]])
	assert.Empty(t, tbl.Rows[3][col["Patient Name"]])

	worstFeb1 := tbl.Rows[5]
	assert.Equal(t, "2024-02-01", worstFeb1[col["Log Date"]])
	assert.Equal(t, "SpO2 drop > 5%", worstFeb1[col["Alerts"]])
	assert.Equal(t, "2", worstFeb1[col["Logs That Day"]])
	assert.Equal(t, "4", worstFeb1[col["KBILD Q1"]])
	assert.Empty(t, worstFeb1[col["KBILD Q2"]])
	assert.Equal(t, "MMF(N)", worstFeb1[col["Medication Adherence (Daily Log)"]])
	assert.Equal(t, "MMF(Y)", tbl.Rows[6][col["Medication Adherence (Daily Log)"]])
}

func TestWriteCSV_QuotingRoundTrip(t *testing.T) {
	tbl := DetailedTable(exportFixture(t))

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl))

	out := buf.String()
	assert.Contains(t, out, `"Ram ""Bhai"" Singh"`)
	assert.Contains(t, out, "\"Row Type\",\"Mobile ID\",")
	assert.NotContains(t, out, "\r\n")

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(tbl.Rows)+1)
	assert.Equal(t, tbl.Header, records[0])
	assert.Equal(t, tbl.Rows, records[1:])
}

func TestQuoteField(t *testing.T) {
	assert.Equal(t, `""`, QuoteField(""))
	assert.Equal(t, `"a,b"`, QuoteField("a,b"))
	assert.Equal(t, `"say ""hi"""`, QuoteField(`say "hi"`))
}

func TestSummaryTable(t *testing.T) {
	tbl := SummaryTable(exportFixture(t), aggregate.Monthly)
	col := columnIndex(tbl.Header)

	// Sita and Nobody have no data; Ram has Jan (PFT), Feb (logs), Mar (PFT)
	require.Len(t, tbl.Rows, 3)
	jan, feb, mar := tbl.Rows[0], tbl.Rows[1], tbl.Rows[2]
	assert.Equal(t, "2024-01", jan[col["Period"]])
	assert.Equal(t, "65", jan[col["Min FEV1 (%)"]])
	assert.Empty(t, jan[col["Min KBILD"]])
	assert.Empty(t, jan[col["Alert Count"]])

	assert.Equal(t, "2024-02", feb[col["Period"]])
	assert.Equal(t, "3", feb[col["Logs"]])
	assert.Equal(t, "85", feb[col["Min SpO2 Exertion"]])
	assert.Equal(t, "1", feb[col["Alert Count"]])
	assert.Empty(t, feb[col["Min FEV1 (%)"]])

	assert.Equal(t, "60", mar[col["Min FEV1 (%)"]])
}

func TestWriteXLSX(t *testing.T) {
	tbl := SummaryTable(exportFixture(t), aggregate.Monthly)
	b, err := WriteXLSX(tbl)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Mobile ID", rows[0][0])
	assert.Equal(t, "1111111111", rows[1][0])
	assert.Equal(t, []string{"Summary"}, f.GetSheetList())
}

func TestFilename(t *testing.T) {
	day := domain.MustParseDate("2024-06-09")
	assert.Equal(t, "aiims_ild_detailed_2024-06-09.csv", Filename(ModeDetailed, "weekly", "", FormatCSV, day))
	assert.Equal(t, "aiims_ild_summary_weekly_ILD_2024-06-09.xlsx", Filename(ModeSummary, "weekly", domain.CategoryILD, FormatXLSX, day))
	assert.Equal(t, "aiims_ild_detailed_Bronchiectasis_2024-06-09.csv", Filename(ModeDetailed, "", domain.CategoryBronchiectasis, FormatCSV, day))

	_, err := ParseMode("pdf")
	assert.Error(t, err)
	f, err := ParseFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)
}
