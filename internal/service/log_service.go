package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/adherence"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/aggregate"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/airquality"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/clinical"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/domain"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/metrics"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/notify"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/repository"
)

const clockLayout = "03:04 PM"

var clockInputLayouts = []string{"15:04", clockLayout, "3:04 PM", "3:04PM"}

// LogService handles the patient-side daily log workflow.
type LogService struct {
	store     *repository.PatientStore
	validator *Validator
	aqi       airquality.Provider
	notifier  notify.Notifier
	logger    *zap.Logger
	now       func() time.Time
}

// NewLogService wires the log workflow. aqi may be nil, in which case coordinates are
// ignored and only explicit readings are stored.
func NewLogService(store *repository.PatientStore, validator *Validator, aqi airquality.Provider, notifier notify.Notifier, logger *zap.Logger) *LogService {
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	return &LogService{
		store:     store,
		validator: validator,
		aqi:       aqi,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
	}
}

// LogContent is what a patient fills in for one log.
type LogContent struct {
	Time             string           `json:"time"`
	SpO2Rest         int              `json:"spo2_rest" validate:"required,min=1,max=100"`
	SpO2Exertion     int              `json:"spo2_exertion" validate:"required,min=1,max=100"`
	AQI              *int             `json:"aqi" validate:"omitempty,min=0,max=1000"`
	Latitude         *float64         `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude        *float64         `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	MMRCGrade        string           `json:"mmrc_grade" validate:"required,mmrc"`
	KbildResponses   map[int]int      `json:"kbild_responses"`
	TakenMedications []string         `json:"taken_medications"`
	VAS              domain.VASScores `json:"vas"`
	SideEffects      []string         `json:"side_effects"`
}

// SubmitLogRequest adds the calendar date; an empty date means today.
type SubmitLogRequest struct {
	Date string `json:"date"`
	LogContent
}

// Submit validates a new log, freezes its KBILD score and alerts into it and stores it.
// A third log on the same date is refused.
func (s *LogService) Submit(ctx context.Context, patientID string, req SubmitLogRequest) (*domain.HealthLog, error) {
	patient, ok := s.store.FindByID(patientID)
	if !ok {
		return nil, repository.ErrPatientNotFound
	}

	now := s.now()
	today := domain.DateOf(now)
	day := today
	if strings.TrimSpace(req.Date) != "" {
		d, err := domain.ParseDate(req.Date)
		if err != nil {
			return nil, domain.Invalid("date", "must be a date (YYYY-MM-DD or DD/MM/YYYY)")
		}
		day = d
	}
	if day.After(today) {
		return nil, domain.Invalid("date", "must not be in the future")
	}
	if len(patient.LogsOn(day)) >= repository.MaxLogsPerDay {
		return nil, repository.ErrDailyLogLimit
	}

	log, err := s.buildLog(ctx, patient, day, req.LogContent)
	if err != nil {
		return nil, err
	}
	log.ID = uuid.New().String()
	log.Timestamp = now.UnixMilli()
	if log.Time == "" {
		log.Time = now.Format(clockLayout)
	}

	updated, err := s.store.AppendLog(ctx, patientID, log)
	if err != nil {
		return nil, err
	}
	metrics.RecordLogSubmitted(log.Alerts)
	s.logger.Info("Health log submitted",
		zap.String("patient_id", patientID),
		zap.String("log_id", log.ID),
		zap.String("date", day.String()),
		zap.Int("kbild_score", log.KbildScore),
		zap.Int("alert_count", len(log.Alerts)),
	)
	s.publishAlerts(ctx, updated, log, false)

	stored := updated.Logs[updated.FindLog(log.ID)]
	return &stored, nil
}

// Edit replaces the content of an existing log once. Score and alerts are recomputed
// from the edited content; date and creation time stay.
func (s *LogService) Edit(ctx context.Context, patientID, logID string, req LogContent) (*domain.HealthLog, error) {
	patient, ok := s.store.FindByID(patientID)
	if !ok {
		return nil, repository.ErrPatientNotFound
	}
	i := patient.FindLog(logID)
	if i < 0 {
		return nil, repository.ErrLogNotFound
	}
	orig := patient.Logs[i]
	if orig.IsEdited {
		return nil, repository.ErrLogAlreadyEdited
	}

	log, err := s.buildLog(ctx, patient, orig.Date, req)
	if err != nil {
		return nil, err
	}
	log.ID = orig.ID
	if log.Time == "" {
		log.Time = orig.Time
	}
	if log.AQI == nil && req.Latitude == nil {
		log.AQI = orig.AQI
	}

	updated, err := s.store.ReplaceLog(ctx, patientID, log)
	if err != nil {
		return nil, err
	}
	edited := updated.Logs[updated.FindLog(logID)]
	metrics.RecordLogEdited(edited.Alerts)
	s.logger.Info("Health log edited",
		zap.String("patient_id", patientID),
		zap.String("log_id", logID),
		zap.Int("kbild_score", edited.KbildScore),
		zap.Int("alert_count", len(edited.Alerts)),
	)
	s.publishAlerts(ctx, updated, edited, true)
	return &edited, nil
}

func (s *LogService) buildLog(ctx context.Context, patient domain.Patient, day domain.Date, req LogContent) (domain.HealthLog, error) {
	var errs domain.ValidationErrors
	if err := mergeValidation(&errs, s.validator.Validate(req)); err != nil {
		return domain.HealthLog{}, err
	}
	if err := mergeValidation(&errs, clinical.ValidateVAS(req.VAS)); err != nil {
		return domain.HealthLog{}, err
	}
	// An incomplete questionnaire blocks the whole submission.
	score, err := clinical.ComputeKbildScore(req.KbildResponses)
	if err := mergeValidation(&errs, err); err != nil {
		return domain.HealthLog{}, err
	}

	clock, err := formatClock(req.Time)
	if err != nil {
		errs.Add("time", "must be HH:MM or hh:mm AM/PM")
	}

	active := adherence.ActiveMedicationsOnDate(patient, day)
	taken := []string{}
	for _, name := range req.TakenMedications {
		name = strings.TrimSpace(name)
		if name == "" || slices.Contains(taken, name) {
			continue
		}
		if !slices.ContainsFunc(active, func(m domain.Medication) bool { return m.Name == name }) {
			errs.Add("taken_medications", fmt.Sprintf("%q is not prescribed on %s", name, day))
			continue
		}
		taken = append(taken, name)
	}
	if len(errs) > 0 {
		return domain.HealthLog{}, errs
	}

	sideEffects := []string{}
	for _, e := range req.SideEffects {
		e = strings.TrimSpace(e)
		if e != "" && !slices.Contains(sideEffects, e) {
			sideEffects = append(sideEffects, e)
		}
	}

	responses := make(map[int]int, len(req.KbildResponses))
	for k, v := range req.KbildResponses {
		responses[k] = v
	}

	log := domain.HealthLog{
		Date:             day,
		Time:             clock,
		SpO2Rest:         req.SpO2Rest,
		SpO2Exertion:     req.SpO2Exertion,
		AQI:              s.resolveAQI(ctx, patient.ID, req),
		MMRCGrade:        strings.TrimSpace(req.MMRCGrade),
		KbildScore:       score,
		KbildResponses:   responses,
		TakenMedications: taken,
		VAS:              req.VAS,
		SideEffects:      sideEffects,
		Alerts: clinical.DeriveAlerts(clinical.AlertInput{
			SpO2Rest:     req.SpO2Rest,
			SpO2Exertion: req.SpO2Exertion,
			VAS:          req.VAS,
			SideEffects:  sideEffects,
		}),
	}
	return log, nil
}

// resolveAQI prefers an explicit reading, then a lookup by coordinates. A failed lookup
// leaves the value absent.
func (s *LogService) resolveAQI(ctx context.Context, patientID string, req LogContent) *int {
	if req.AQI != nil {
		v := *req.AQI
		return &v
	}
	if s.aqi == nil || req.Latitude == nil || req.Longitude == nil {
		return nil
	}
	v, err := s.aqi.CurrentAQI(ctx, *req.Latitude, *req.Longitude)
	metrics.RecordAQILookup(err == nil)
	if err != nil {
		s.logger.Warn("AQI lookup failed, storing log without AQI",
			zap.String("patient_id", patientID),
			zap.Error(err),
		)
		return nil
	}
	return &v
}

func (s *LogService) publishAlerts(ctx context.Context, p domain.Patient, log domain.HealthLog, edited bool) {
	if !log.HasAlerts() {
		return
	}
	ev := notify.AlertEvent{
		PatientID:    p.ID,
		PatientName:  p.Name,
		LogID:        log.ID,
		Date:         log.Date,
		Alerts:       log.Alerts,
		SpO2Rest:     log.SpO2Rest,
		SpO2Exertion: log.SpO2Exertion,
		Edited:       edited,
		Timestamp:    s.now().UnixMilli(),
	}
	if err := s.notifier.NotifyAlerts(ctx, ev); err != nil {
		s.logger.Warn("Failed to publish alert event",
			zap.String("patient_id", p.ID),
			zap.String("log_id", log.ID),
			zap.Error(err),
		)
	}
}

// DayLogsResponse lists a date's logs newest first and how many more may be submitted.
type DayLogsResponse struct {
	Date      domain.Date        `json:"date"`
	Logs      []domain.HealthLog `json:"logs"`
	Remaining int                `json:"remaining"`
}

// LogsOn returns the logs of one date. An unknown patient yields an empty day.
func (s *LogService) LogsOn(patientID string, day domain.Date) *DayLogsResponse {
	resp := &DayLogsResponse{Date: day, Logs: []domain.HealthLog{}, Remaining: repository.MaxLogsPerDay}
	p, ok := s.store.FindByID(patientID)
	if !ok {
		return resp
	}
	logs := p.LogsOn(day)
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].Timestamp > logs[j].Timestamp })
	if logs != nil {
		resp.Logs = logs
	}
	resp.Remaining = max(repository.MaxLogsPerDay-len(logs), 0)
	return resp
}

// PreviousLog returns the log used to prefill a new submission for day.
func (s *LogService) PreviousLog(patientID string, day domain.Date) (domain.HealthLog, bool) {
	p, ok := s.store.FindByID(patientID)
	if !ok {
		return domain.HealthLog{}, false
	}
	return aggregate.LatestLogBefore(p, day)
}

// ActiveMedications lists the prescriptions a patient can mark as taken on day.
func (s *LogService) ActiveMedications(patientID string, day domain.Date) []domain.Medication {
	p, ok := s.store.FindByID(patientID)
	if !ok {
		return []domain.Medication{}
	}
	meds := adherence.ActiveMedicationsOnDate(p, day)
	if meds == nil {
		return []domain.Medication{}
	}
	return meds
}

// LookupAQI fetches the current reading for the patient's location.
func (s *LogService) LookupAQI(ctx context.Context, lat, lon float64) (int, error) {
	if s.aqi == nil {
		return 0, airquality.ErrNoReading
	}
	v, err := s.aqi.CurrentAQI(ctx, lat, lon)
	metrics.RecordAQILookup(err == nil)
	if err != nil {
		s.logger.Warn("AQI lookup failed", zap.Error(err))
		if errors.Is(err, airquality.ErrNoReading) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %v", airquality.ErrNoReading, err)
	}
	return v, nil
}

// formatClock normalises a time of day to hh:mm AM/PM. Empty input stays empty.
func formatClock(s string) (string, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	for _, layout := range clockInputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(clockLayout), nil
		}
	}
	return "", fmt.Errorf("invalid time %q", s)
}
