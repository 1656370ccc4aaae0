package service

import (
	"sort"

	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/adherence"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/aggregate"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/clinical"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/domain"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/repository"
)

// ReportService computes the clinician views over one patient's history. Everything is
// derived on request from the stored logs and PFT entries.
type ReportService struct {
	store *repository.PatientStore
}

func NewReportService(store *repository.PatientStore) *ReportService {
	return &ReportService{store: store}
}

// WorstLogs returns the representative log of each period, oldest first. An unknown
// patient has no periods.
func (s *ReportService) WorstLogs(patientID string, period aggregate.Period) []aggregate.PeriodLog {
	p, _ := s.store.FindByID(patientID)
	out := aggregate.WorstPerPeriod(p.Logs, period)
	if out == nil {
		out = []aggregate.PeriodLog{}
	}
	return out
}

// Summaries returns the per-period extremes. A patient without logs or PFT entries has none.
func (s *ReportService) Summaries(patientID string, period aggregate.Period) []aggregate.PeriodSummary {
	p, ok := s.store.FindByID(patientID)
	if !ok {
		return []aggregate.PeriodSummary{}
	}
	out := aggregate.Summarize(p, period)
	if out == nil {
		out = []aggregate.PeriodSummary{}
	}
	return out
}

func (s *ReportService) Trend(patientID string) []aggregate.TrendPoint {
	p, _ := s.store.FindByID(patientID)
	return aggregate.TrendSeries(p)
}

// MedicationAdherence is one prescription with its days-taken count.
type MedicationAdherence struct {
	Medication domain.Medication `json:"medication"`
	DaysTaken  int               `json:"daysTaken"`
	Active     bool              `json:"active"`
	Summary    string            `json:"summary"`
}

type AdherenceResponse struct {
	Medications []MedicationAdherence `json:"medications"`
	History     string                `json:"history"`
}

// Adherence reports days taken per prescription as of day.
func (s *ReportService) Adherence(patientID string, day domain.Date) *AdherenceResponse {
	p, _ := s.store.FindByID(patientID)
	counts := adherence.TakenCounts(p)
	summaries := adherence.AdherenceSummary(p)
	resp := &AdherenceResponse{
		Medications: make([]MedicationAdherence, 0, len(p.Medications)),
		History:     adherence.MedicationHistory(p),
	}
	for _, m := range p.Medications {
		resp.Medications = append(resp.Medications, MedicationAdherence{
			Medication: m,
			DaysTaken:  counts[m.Name],
			Active:     m.ActiveOn(day),
			Summary:    summaries[m.Name],
		})
	}
	return resp
}

// LogDetail is the clinician view of one log.
type LogDetail struct {
	Log          domain.HealthLog        `json:"log"`
	HighSymptoms []clinical.SymptomScore `json:"highSymptoms"`
	AQICategory  string                  `json:"aqiCategory,omitempty"`
	Adherence    string                  `json:"adherence"`
	LogsThatDay  int                     `json:"logsThatDay"`
}

// LogDetail looks up one log. An unknown patient has no logs, so it yields ErrLogNotFound.
func (s *ReportService) LogDetail(patientID, logID string) (*LogDetail, error) {
	p, _ := s.store.FindByID(patientID)
	i := p.FindLog(logID)
	if i < 0 {
		return nil, repository.ErrLogNotFound
	}
	l := p.Logs[i]
	d := &LogDetail{
		Log:          l,
		HighSymptoms: clinical.HighVASSymptoms(l.VAS, clinical.HighlightThreshold),
		Adherence:    adherence.LogAdherence(p, l),
		LogsThatDay:  len(p.LogsOn(l.Date)),
	}
	if d.HighSymptoms == nil {
		d.HighSymptoms = []clinical.SymptomScore{}
	}
	if l.AQI != nil {
		d.AQICategory = clinical.ClassifyAQI(*l.AQI)
	}
	return d, nil
}

// PFTHistory returns the PFT entries ordered by test date.
func (s *ReportService) PFTHistory(patientID string) []domain.PFTEntry {
	p, _ := s.store.FindByID(patientID)
	entries := p.PFTHistory
	if entries == nil {
		return []domain.PFTEntry{}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date.Before(entries[j].Date) })
	return entries
}
