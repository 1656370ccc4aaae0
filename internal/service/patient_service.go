package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/domain"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/repository"
)

// PatientService holds the clinician-side operations on patient records.
type PatientService struct {
	store     *repository.PatientStore
	validator *Validator
	logger    *zap.Logger
	now       func() time.Time
}

func NewPatientService(store *repository.PatientStore, validator *Validator, logger *zap.Logger) *PatientService {
	return &PatientService{
		store:     store,
		validator: validator,
		logger:    logger,
		now:       time.Now,
	}
}

// PatientProfile is the clinician-editable part of a patient record.
type PatientProfile struct {
	Name              string   `json:"name" validate:"required"`
	Age               int      `json:"age" validate:"required,min=1,max=120"`
	Sex               string   `json:"sex" validate:"required,sex"`
	Occupation        string   `json:"occupation"`
	DiagnosisCategory string   `json:"diagnosisCategory"`
	Diagnosis         string   `json:"diagnosis" validate:"required"`
	CTDType           string   `json:"ctdType"`
	SarcoidosisStage  string   `json:"sarcoidosisStage"`
	FibroticILD       bool     `json:"fibroticIld"`
	CoMorbidities     []string `json:"coMorbidities" validate:"dive,comorbidity"`
	OtherCoMorbidity  string   `json:"otherCoMorbidity"`
	RegistrationDate  string   `json:"registrationDate"`
}

type RegisterPatientRequest struct {
	ID string `json:"id" validate:"required,mobile"`
	PatientProfile
	Medications []MedicationRequest `json:"medications"`
}

// Register validates and stores a new patient. The mobile id must not be in use.
func (s *PatientService) Register(ctx context.Context, req RegisterPatientRequest) (*domain.Patient, error) {
	req.ID = strings.TrimSpace(req.ID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var errs domain.ValidationErrors
	p := domain.Patient{ID: req.ID}
	if err := mergeValidation(&errs, s.applyProfile(&p, req.PatientProfile)); err != nil {
		return nil, err
	}
	for i, mr := range req.Medications {
		m, err := s.buildMedication(mr)
		if err != nil {
			var ve domain.ValidationErrors
			if errors.As(err, &ve) {
				for _, fe := range ve {
					errs.Add(fmt.Sprintf("medications[%d].%s", i, fe.Field), fe.Message)
				}
				continue
			}
			return nil, err
		}
		p.Medications = append(p.Medications, m)
	}
	if len(errs) > 0 {
		return nil, errs
	}

	if err := s.store.Add(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("Patient registered",
		zap.String("patient_id", p.ID),
		zap.String("diagnosis_category", p.Diagnosis.Category()),
	)
	stored, _ := s.store.FindByID(p.ID)
	return &stored, nil
}

// UpdateProfile replaces the profile fields. Id, medications, logs and PFT history are kept.
func (s *PatientService) UpdateProfile(ctx context.Context, id string, profile PatientProfile) (*domain.Patient, error) {
	if err := s.validator.Validate(profile); err != nil {
		return nil, err
	}

	updated, err := s.store.Modify(ctx, id, func(p *domain.Patient) error {
		return s.applyProfile(p, profile)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Patient profile updated", zap.String("patient_id", id))
	return &updated, nil
}

// Delete removes the patient with its logs, PFT entries and medications.
func (s *PatientService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

func (s *PatientService) Get(id string) (domain.Patient, bool) {
	return s.store.FindByID(id)
}

// ListPatientsRequest filters by a name (case-insensitive) or mobile id substring and
// by diagnosis category.
type ListPatientsRequest struct {
	Search   string
	Category string
}

// PatientItem is the list view of a patient.
type PatientItem struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	Age               int          `json:"age"`
	Sex               domain.Sex   `json:"sex"`
	DiagnosisCategory string       `json:"diagnosisCategory"`
	Diagnosis         string       `json:"diagnosis"`
	RegistrationDate  domain.Date  `json:"registrationDate"`
	LogCount          int          `json:"logCount"`
	LastLogDate       *domain.Date `json:"lastLogDate,omitempty"`
	AlertLogCount     int          `json:"alertLogCount"`
}

type ListPatientsResponse struct {
	Items []PatientItem `json:"items"`
	Total int           `json:"total"`
}

func (s *PatientService) List(req ListPatientsRequest) (*ListPatientsResponse, error) {
	patients, err := filterByCategory(s.store.List(), req.Category)
	if err != nil {
		return nil, err
	}
	search := strings.ToLower(strings.TrimSpace(req.Search))

	items := []PatientItem{}
	for _, p := range patients {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) && !strings.Contains(p.ID, search) {
			continue
		}
		items = append(items, patientItem(p))
	}
	return &ListPatientsResponse{Items: items, Total: len(items)}, nil
}

// filterByCategory keeps patients of one diagnosis category; an empty category keeps all.
func filterByCategory(patients []domain.Patient, category string) ([]domain.Patient, error) {
	if strings.TrimSpace(category) == "" {
		return patients, nil
	}
	c, ok := domain.NormalizeCategory(category)
	if !ok {
		return nil, domain.Invalid("category", fmt.Sprintf("unknown category %q", category))
	}
	out := make([]domain.Patient, 0, len(patients))
	for _, p := range patients {
		if p.Diagnosis.Category() == c {
			out = append(out, p)
		}
	}
	return out, nil
}

func patientItem(p domain.Patient) PatientItem {
	item := PatientItem{
		ID:                p.ID,
		Name:              p.Name,
		Age:               p.Age,
		Sex:               p.Sex,
		DiagnosisCategory: p.Diagnosis.Category(),
		Diagnosis:         p.Diagnosis.Subtype(),
		RegistrationDate:  p.RegistrationDate,
		LogCount:          len(p.Logs),
	}
	for _, l := range p.Logs {
		if item.LastLogDate == nil || l.Date.After(*item.LastLogDate) {
			d := l.Date
			item.LastLogDate = &d
		}
		if l.HasAlerts() {
			item.AlertLogCount++
		}
	}
	return item
}

func (s *PatientService) applyProfile(p *domain.Patient, profile PatientProfile) error {
	var errs domain.ValidationErrors

	diag, err := domain.ParseDiagnosis(profile.DiagnosisCategory, profile.Diagnosis, profile.CTDType, profile.SarcoidosisStage)
	if err := mergeValidation(&errs, err); err != nil {
		return err
	}

	regDate := p.RegistrationDate
	if regDate.IsZero() {
		regDate = domain.DateOf(s.now())
	}
	if strings.TrimSpace(profile.RegistrationDate) != "" {
		d, err := domain.ParseDate(profile.RegistrationDate)
		if err != nil {
			errs.Add("registrationDate", "must be a date (YYYY-MM-DD or DD/MM/YYYY)")
		} else {
			regDate = d
		}
	}
	if len(errs) > 0 {
		return errs
	}

	coMorbidities := []string{}
	for _, c := range profile.CoMorbidities {
		if !slices.Contains(coMorbidities, c) {
			coMorbidities = append(coMorbidities, c)
		}
	}
	other := ""
	if slices.Contains(coMorbidities, domain.OtherCoMorbidity) {
		other = strings.TrimSpace(profile.OtherCoMorbidity)
	}

	p.Name = strings.TrimSpace(profile.Name)
	p.Age = profile.Age
	p.Sex = domain.Sex(profile.Sex)
	p.Occupation = strings.TrimSpace(profile.Occupation)
	p.Diagnosis = diag
	p.FibroticILD = profile.FibroticILD && diag.Category() == domain.CategoryILD
	p.CoMorbidities = coMorbidities
	p.OtherCoMorbidity = other
	p.RegistrationDate = regDate
	return nil
}

// MedicationRequest describes one prescription. Dates accept YYYY-MM-DD or DD/MM/YYYY.
type MedicationRequest struct {
	Name       string `json:"name" validate:"required"`
	Dose       string `json:"dose" validate:"required"`
	Frequency  string `json:"frequency" validate:"required,frequency"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	DoseNumber *int   `json:"doseNumber" validate:"omitempty,min=1,max=20"`
	DosageDate string `json:"dosageDate"`
}

// AddMedication appends a prescription to the patient's list.
func (s *PatientService) AddMedication(ctx context.Context, patientID string, req MedicationRequest) (*domain.Patient, error) {
	m, err := s.buildMedication(req)
	if err != nil {
		return nil, err
	}
	updated, err := s.store.Modify(ctx, patientID, func(p *domain.Patient) error {
		p.Medications = append(p.Medications, m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Medication added",
		zap.String("patient_id", patientID),
		zap.String("medication", m.Name),
	)
	return &updated, nil
}

// UpdateMedication replaces the prescription at index.
func (s *PatientService) UpdateMedication(ctx context.Context, patientID string, index int, req MedicationRequest) (*domain.Patient, error) {
	m, err := s.buildMedication(req)
	if err != nil {
		return nil, err
	}
	updated, err := s.store.Modify(ctx, patientID, func(p *domain.Patient) error {
		if index < 0 || index >= len(p.Medications) {
			return ErrMedicationNotFound
		}
		p.Medications[index] = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// RemoveMedication deletes the prescription at index. Logs keep their taken names.
func (s *PatientService) RemoveMedication(ctx context.Context, patientID string, index int) (*domain.Patient, error) {
	updated, err := s.store.Modify(ctx, patientID, func(p *domain.Patient) error {
		if index < 0 || index >= len(p.Medications) {
			return ErrMedicationNotFound
		}
		p.Medications = slices.Delete(p.Medications, index, index+1)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *PatientService) buildMedication(req MedicationRequest) (domain.Medication, error) {
	if err := s.validator.Validate(req); err != nil {
		return domain.Medication{}, err
	}

	var errs domain.ValidationErrors

	m := domain.Medication{
		Name:      medicationName(req.Name),
		Dose:      strings.TrimSpace(req.Dose),
		Frequency: req.Frequency,
		StartDate: domain.DateOf(s.now()),
	}
	if strings.TrimSpace(req.StartDate) != "" {
		d, err := domain.ParseDate(req.StartDate)
		if err != nil {
			errs.Add("startDate", "must be a date")
		} else {
			m.StartDate = d
		}
	}
	if strings.TrimSpace(req.EndDate) != "" {
		d, err := domain.ParseDate(req.EndDate)
		switch {
		case err != nil:
			errs.Add("endDate", "must be a date")
		case d.Before(m.StartDate):
			errs.Add("endDate", "must not be before startDate")
		default:
			m.EndDate = &d
		}
	}

	complexFreq := domain.IsComplexFrequency(req.Frequency)
	if req.DoseNumber != nil {
		if !complexFreq {
			errs.Add("doseNumber", "only allowed for induction or maintenance doses")
		} else {
			n := *req.DoseNumber
			m.DoseNumber = &n
		}
	}
	if strings.TrimSpace(req.DosageDate) != "" {
		d, err := domain.ParseDate(req.DosageDate)
		switch {
		case !complexFreq:
			errs.Add("dosageDate", "only allowed for induction or maintenance doses")
		case err != nil:
			errs.Add("dosageDate", "must be a date")
		default:
			m.DosageDate = &d
		}
	}
	if len(errs) > 0 {
		return domain.Medication{}, errs
	}
	return m, nil
}

// medicationName keeps catalog names as listed and upper-cases free text.
func medicationName(name string) string {
	name = strings.TrimSpace(name)
	for _, known := range domain.MedicationCatalog {
		if strings.EqualFold(known, name) {
			return known
		}
	}
	return strings.ToUpper(name)
}

type PFTRequest struct {
	Date       string   `json:"date" validate:"required"`
	FEV1FVC    float64  `json:"fev1_fvc" validate:"gte=0"`
	FEV1       float64  `json:"fev1" validate:"gte=0"`
	FEV1Liters *float64 `json:"fev1_liters" validate:"omitempty,gte=0"`
	FVC        float64  `json:"fvc" validate:"gte=0"`
	FVCLiters  *float64 `json:"fvc_liters" validate:"omitempty,gte=0"`
	DLCO       float64  `json:"dlco" validate:"gte=0"`
	SixMWD     float64  `json:"six_mwd" validate:"gte=0"`
	MinSpO2    float64  `json:"min_spo2" validate:"gte=0,lte=100"`
	MaxSpO2    float64  `json:"max_spo2" validate:"gte=0,lte=100"`
}

// AddPFT records a new PFT entry with a fresh id.
func (s *PatientService) AddPFT(ctx context.Context, patientID string, req PFTRequest) (*domain.PFTEntry, error) {
	entry, err := s.buildPFT(req)
	if err != nil {
		return nil, err
	}
	entry.ID = uuid.New().String()
	if _, err := s.store.Modify(ctx, patientID, func(p *domain.Patient) error {
		p.PFTHistory = append(p.PFTHistory, entry)
		return nil
	}); err != nil {
		return nil, err
	}
	s.logger.Info("PFT entry added",
		zap.String("patient_id", patientID),
		zap.String("pft_id", entry.ID),
		zap.String("date", entry.Date.String()),
	)
	return &entry, nil
}

func (s *PatientService) UpdatePFT(ctx context.Context, patientID, pftID string, req PFTRequest) (*domain.PFTEntry, error) {
	entry, err := s.buildPFT(req)
	if err != nil {
		return nil, err
	}
	entry.ID = pftID
	if _, err := s.store.Modify(ctx, patientID, func(p *domain.Patient) error {
		i := p.FindPFT(pftID)
		if i < 0 {
			return repository.ErrPFTNotFound
		}
		p.PFTHistory[i] = entry
		return nil
	}); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *PatientService) RemovePFT(ctx context.Context, patientID, pftID string) error {
	_, err := s.store.Modify(ctx, patientID, func(p *domain.Patient) error {
		i := p.FindPFT(pftID)
		if i < 0 {
			return repository.ErrPFTNotFound
		}
		p.PFTHistory = slices.Delete(p.PFTHistory, i, i+1)
		return nil
	})
	return err
}

func (s *PatientService) buildPFT(req PFTRequest) (domain.PFTEntry, error) {
	if err := s.validator.Validate(req); err != nil {
		return domain.PFTEntry{}, err
	}

	var errs domain.ValidationErrors
	day, err := domain.ParseDate(req.Date)
	if err != nil {
		errs.Add("date", "must be a date")
	}
	if req.MaxSpO2 > 0 && req.MinSpO2 > req.MaxSpO2 {
		errs.Add("min_spo2", "must not exceed max_spo2")
	}
	if len(errs) > 0 {
		return domain.PFTEntry{}, errs
	}
	return domain.PFTEntry{
		Date:       day,
		FEV1FVC:    req.FEV1FVC,
		FEV1:       req.FEV1,
		FEV1Liters: copyFloat(req.FEV1Liters),
		FVC:        req.FVC,
		FVCLiters:  copyFloat(req.FVCLiters),
		DLCO:       req.DLCO,
		SixMWD:     req.SixMWD,
		MinSpO2:    req.MinSpO2,
		MaxSpO2:    req.MaxSpO2,
	}, nil
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
