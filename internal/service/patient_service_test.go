package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/domain"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/repository"
)

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	var ve domain.ValidationErrors
	require.ErrorAs(t, err, &ve)
	fields := make([]string, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, fe.Field)
	}
	return fields
}

func TestPatientService_Register(t *testing.T) {
	env := newTestEnv(t)

	p := env.register(t, testMobile)
	assert.Equal(t, testMobile, p.ID)
	assert.Equal(t, domain.CategoryILD, p.Diagnosis.Category())
	assert.Equal(t, "Idiopathic pulmonary fibrosis", p.Diagnosis.Subtype())
	assert.Equal(t, domain.MustParseDate("2024-02-01"), p.RegistrationDate)
	assert.True(t, p.FibroticILD)
	assert.Empty(t, p.Logs)

	_, err := env.patients.Register(context.Background(), registerRequest(testMobile))
	assert.ErrorIs(t, err, repository.ErrPatientExists)
}

func TestPatientService_RegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(r *RegisterPatientRequest)
		fields []string
	}{
		{"short mobile", func(r *RegisterPatientRequest) { r.ID = "12345" }, []string{"id"}},
		{"letters in mobile", func(r *RegisterPatientRequest) { r.ID = "98765abcde" }, []string{"id"}},
		{"missing name", func(r *RegisterPatientRequest) { r.Name = "" }, []string{"name"}},
		{"bad sex", func(r *RegisterPatientRequest) { r.Sex = "M" }, []string{"sex"}},
		{"age out of range", func(r *RegisterPatientRequest) { r.Age = 200 }, []string{"age"}},
		{"unknown co-morbidity", func(r *RegisterPatientRequest) { r.CoMorbidities = []string{"Gout"} }, []string{"coMorbidities[0]"}},
		{"subtype of other category", func(r *RegisterPatientRequest) { r.Diagnosis = "COPD" }, []string{"diagnosis"}},
		{"ctd type on IPF", func(r *RegisterPatientRequest) { r.CTDType = "SLE" }, []string{"ctdType"}},
		{"bad registration date", func(r *RegisterPatientRequest) { r.RegistrationDate = "yesterday" }, []string{"registrationDate"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := registerRequest(testMobile)
			tt.mutate(&req)
			_, err := env.patients.Register(ctx, req)
			require.ErrorIs(t, err, domain.ErrValidation)
			assert.Equal(t, tt.fields, fieldsOf(t, err))
		})
	}
	assert.Empty(t, env.store.List())
}

func TestPatientService_RegisterDiagnosisVariants(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	req := registerRequest("9000000001")
	req.Diagnosis = domain.SubtypeCTDILD
	req.CTDType = "Scleroderma"
	p, err := env.patients.Register(ctx, req)
	require.NoError(t, err)
	ctd, ok := p.Diagnosis.CTDType()
	assert.True(t, ok)
	assert.Equal(t, "Scleroderma", ctd)

	req = registerRequest("9000000002")
	req.DiagnosisCategory = ""
	req.Diagnosis = "COPD"
	req.FibroticILD = true
	p, err = env.patients.Register(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryOAD, p.Diagnosis.Category())
	assert.False(t, p.FibroticILD, "fibrotic flag only applies to ILD")
}

func TestPatientService_RegisterOtherCoMorbidity(t *testing.T) {
	env := newTestEnv(t)

	req := registerRequest(testMobile)
	req.CoMorbidities = []string{"Hypertension", domain.OtherCoMorbidity, "Hypertension"}
	req.OtherCoMorbidity = "  Psoriasis "
	p, err := env.patients.Register(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hypertension", domain.OtherCoMorbidity}, p.CoMorbidities)
	assert.Equal(t, "Psoriasis", p.OtherCoMorbidity)

	req = registerRequest("9000000003")
	req.OtherCoMorbidity = "ignored without Others"
	p, err = env.patients.Register(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, p.OtherCoMorbidity)
}

func TestPatientService_RegisterWithMedications(t *testing.T) {
	env := newTestEnv(t)

	req := registerRequest(testMobile)
	req.Medications = []MedicationRequest{
		{Name: "nintedanib", Dose: "150mg", Frequency: "BD"},
		{Name: "  pirfenidone xr ", Dose: "801mg", Frequency: "TDS", StartDate: "2024-01-10"},
	}
	p, err := env.patients.Register(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, p.Medications, 2)
	assert.Equal(t, "Nintedanib", p.Medications[0].Name)
	assert.Equal(t, domain.DateOf(testNow), p.Medications[0].StartDate)
	assert.Equal(t, "PIRFENIDONE XR", p.Medications[1].Name)
	assert.Equal(t, domain.MustParseDate("2024-01-10"), p.Medications[1].StartDate)

	req = registerRequest("9000000004")
	req.Medications = []MedicationRequest{{Name: "MMF", Dose: "500mg", Frequency: "Weekly"}}
	_, err = env.patients.Register(context.Background(), req)
	assert.Equal(t, []string{"medications[0].frequency"}, fieldsOf(t, err))
}

func TestPatientService_UpdateProfileKeepsHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, testMobile)
	_, err := env.logs.Submit(ctx, testMobile, logRequest(96, 94))
	require.NoError(t, err)

	profile := registerRequest(testMobile).PatientProfile
	profile.Name = "Ramesh K."
	profile.Age = 59
	profile.RegistrationDate = ""
	p, err := env.patients.UpdateProfile(ctx, testMobile, profile)
	require.NoError(t, err)
	assert.Equal(t, testMobile, p.ID)
	assert.Equal(t, "Ramesh K.", p.Name)
	assert.Equal(t, 59, p.Age)
	assert.Len(t, p.Logs, 1)
	assert.Equal(t, domain.MustParseDate("2024-02-01"), p.RegistrationDate, "empty date keeps the original")

	_, err = env.patients.UpdateProfile(ctx, "9000000009", profile)
	assert.ErrorIs(t, err, repository.ErrPatientNotFound)

	profile.Sex = ""
	_, err = env.patients.UpdateProfile(ctx, testMobile, profile)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPatientService_DeleteAllowsReuse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, testMobile)

	require.NoError(t, env.patients.Delete(ctx, testMobile))
	_, ok := env.patients.Get(testMobile)
	assert.False(t, ok)
	require.NoError(t, env.patients.Delete(ctx, testMobile))

	env.register(t, testMobile)
	_, ok = env.patients.Get(testMobile)
	assert.True(t, ok)
}

func TestPatientService_List(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, testMobile)

	req := registerRequest("8888888888")
	req.Name = "Sunita Devi"
	req.DiagnosisCategory = "OAD"
	req.Diagnosis = "Asthma"
	_, err := env.patients.Register(ctx, req)
	require.NoError(t, err)

	all, err := env.patients.List(ListPatientsRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total)
	assert.Equal(t, testMobile, all.Items[0].ID)

	byName, err := env.patients.List(ListPatientsRequest{Search: "sunita"})
	require.NoError(t, err)
	require.Len(t, byName.Items, 1)
	assert.Equal(t, "8888888888", byName.Items[0].ID)

	byID, err := env.patients.List(ListPatientsRequest{Search: "9999"})
	require.NoError(t, err)
	require.Len(t, byID.Items, 1)
	assert.Equal(t, testMobile, byID.Items[0].ID)

	byCategory, err := env.patients.List(ListPatientsRequest{Category: "ILD"})
	require.NoError(t, err)
	require.Len(t, byCategory.Items, 1)
	assert.Equal(t, domain.CategoryILD, byCategory.Items[0].DiagnosisCategory)

	none, err := env.patients.List(ListPatientsRequest{Search: "nobody"})
	require.NoError(t, err)
	assert.NotNil(t, none.Items)
	assert.Zero(t, none.Total)

	_, err = env.patients.List(ListPatientsRequest{Category: "Asthma"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPatientService_ListItemCounts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, testMobile)

	first := logRequest(96, 85)
	first.Date = "2024-03-04"
	_, err := env.logs.Submit(ctx, testMobile, first)
	require.NoError(t, err)
	_, err = env.logs.Submit(ctx, testMobile, logRequest(96, 95))
	require.NoError(t, err)

	list, err := env.patients.List(ListPatientsRequest{})
	require.NoError(t, err)
	item := list.Items[0]
	assert.Equal(t, 2, item.LogCount)
	assert.Equal(t, 1, item.AlertLogCount)
	require.NotNil(t, item.LastLogDate)
	assert.Equal(t, domain.DateOf(testNow), *item.LastLogDate)
}

func TestPatientService_Medications(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, testMobile)

	p, err := env.patients.AddMedication(ctx, testMobile, MedicationRequest{
		Name: "Rituximab", Dose: "1g", Frequency: "Induction first dose",
		DoseNumber: intPtr(1), DosageDate: "2024-03-01", StartDate: "2024-03-01",
	})
	require.NoError(t, err)
	require.Len(t, p.Medications, 1)
	require.NotNil(t, p.Medications[0].DoseNumber)
	assert.Equal(t, 1, *p.Medications[0].DoseNumber)
	assert.Equal(t, domain.MustParseDate("2024-03-01"), *p.Medications[0].DosageDate)

	_, err = env.patients.AddMedication(ctx, testMobile, MedicationRequest{
		Name: "MMF", Dose: "500mg", Frequency: "BD", DoseNumber: intPtr(2),
	})
	assert.Equal(t, []string{"doseNumber"}, fieldsOf(t, err))

	_, err = env.patients.AddMedication(ctx, testMobile, MedicationRequest{
		Name: "Rituximab", Dose: "1g", Frequency: "Maintenance dose", DoseNumber: intPtr(21),
	})
	assert.Equal(t, []string{"doseNumber"}, fieldsOf(t, err))

	_, err = env.patients.AddMedication(ctx, testMobile, MedicationRequest{
		Name: "MMF", Dose: "500mg", Frequency: "BD", StartDate: "2024-03-05", EndDate: "2024-03-01",
	})
	assert.Equal(t, []string{"endDate"}, fieldsOf(t, err))

	p, err = env.patients.UpdateMedication(ctx, testMobile, 0, MedicationRequest{
		Name: "Rituximab", Dose: "1g", Frequency: "Induction 2nd dose", DoseNumber: intPtr(2),
		StartDate: "2024-03-01", EndDate: "2024-03-15",
	})
	require.NoError(t, err)
	assert.Equal(t, "Induction 2nd dose", p.Medications[0].Frequency)
	require.NotNil(t, p.Medications[0].EndDate)

	_, err = env.patients.UpdateMedication(ctx, testMobile, 3, MedicationRequest{Name: "MMF", Dose: "1", Frequency: "OD"})
	assert.ErrorIs(t, err, ErrMedicationNotFound)

	p, err = env.patients.RemoveMedication(ctx, testMobile, 0)
	require.NoError(t, err)
	assert.Empty(t, p.Medications)

	_, err = env.patients.RemoveMedication(ctx, testMobile, 0)
	assert.ErrorIs(t, err, ErrMedicationNotFound)
}

func TestPatientService_PFT(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, testMobile)

	liters := 1.9
	e, err := env.patients.AddPFT(ctx, testMobile, PFTRequest{
		Date: "10/02/2024", FEV1FVC: 82, FEV1: 64, FEV1Liters: &liters, FVC: 60, DLCO: 45,
		SixMWD: 320, MinSpO2: 86, MaxSpO2: 97,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, domain.MustParseDate("2024-02-10"), e.Date)

	updated, err := env.patients.UpdatePFT(ctx, testMobile, e.ID, PFTRequest{Date: "2024-02-10", FVC: 58, MinSpO2: 85, MaxSpO2: 96})
	require.NoError(t, err)
	assert.Equal(t, e.ID, updated.ID)
	assert.Nil(t, updated.FEV1Liters)

	p, _ := env.patients.Get(testMobile)
	require.Len(t, p.PFTHistory, 1)
	assert.Equal(t, 58.0, p.PFTHistory[0].FVC)

	_, err = env.patients.AddPFT(ctx, testMobile, PFTRequest{Date: "2024-02-11", MinSpO2: 98, MaxSpO2: 90})
	assert.Equal(t, []string{"min_spo2"}, fieldsOf(t, err))
	_, err = env.patients.AddPFT(ctx, testMobile, PFTRequest{})
	assert.Equal(t, []string{"date"}, fieldsOf(t, err))

	_, err = env.patients.UpdatePFT(ctx, testMobile, "missing", PFTRequest{Date: "2024-02-10"})
	assert.ErrorIs(t, err, repository.ErrPFTNotFound)

	require.NoError(t, env.patients.RemovePFT(ctx, testMobile, e.ID))
	assert.ErrorIs(t, env.patients.RemovePFT(ctx, testMobile, e.ID), repository.ErrPFTNotFound)
}

func intPtr(v int) *int { return &v }
