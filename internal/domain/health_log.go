package domain

// VASScores are 0..10 severity ratings per symptom.
type VASScores struct {
	Cough          int `json:"cough"`
	Expectoration  int `json:"expectoration"`
	Breathlessness int `json:"breathlessness"`
	ChestPain      int `json:"chest_pain"`
	Hemoptysis     int `json:"hemoptysis"`
	Fever          int `json:"fever"`
	CTDSymptoms    int `json:"ctd_symptoms"`
}

// Get returns the score for a key from SymptomKeys.
func (v VASScores) Get(key string) (int, bool) {
	switch key {
	case SymptomCough:
		return v.Cough, true
	case SymptomExpectoration:
		return v.Expectoration, true
	case SymptomBreathlessness:
		return v.Breathlessness, true
	case SymptomChestPain:
		return v.ChestPain, true
	case SymptomHemoptysis:
		return v.Hemoptysis, true
	case SymptomFever:
		return v.Fever, true
	case SymptomCTD:
		return v.CTDSymptoms, true
	}
	return 0, false
}

// Values lists the scores in SymptomKeys order.
func (v VASScores) Values() []int {
	return []int{v.Cough, v.Expectoration, v.Breathlessness, v.ChestPain, v.Hemoptysis, v.Fever, v.CTDSymptoms}
}

func (v VASScores) Sum() int {
	total := 0
	for _, s := range v.Values() {
		total += s
	}
	return total
}

// HealthLog is one patient self-report. Score and alerts are computed when the log is
// written and stored with it.
type HealthLog struct {
	ID               string      `json:"id"`
	Date             Date        `json:"date"`
	Time             string      `json:"time,omitempty"` // hh:mm AM/PM
	Timestamp        int64       `json:"timestamp"`      // unix millis at creation
	SpO2Rest         int         `json:"spo2_rest"`
	SpO2Exertion     int         `json:"spo2_exertion"`
	AQI              *int        `json:"aqi,omitempty"`
	MMRCGrade        string      `json:"mmrc_grade"`
	KbildScore       int         `json:"kbild_score"`
	KbildResponses   map[int]int `json:"kbild_responses"`
	TakenMedications []string    `json:"taken_medications"`
	VAS              VASScores   `json:"vas"`
	SideEffects      []string    `json:"side_effects"`
	Alerts           []string    `json:"alerts"`
	IsEdited         bool        `json:"isEdited,omitempty"`
}

func (l HealthLog) HasAlerts() bool {
	return len(l.Alerts) > 0
}

// Took reports whether the named medication was marked as taken.
func (l HealthLog) Took(medication string) bool {
	for _, m := range l.TakenMedications {
		if m == medication {
			return true
		}
	}
	return false
}

func (l HealthLog) Clone() HealthLog {
	out := l
	if l.AQI != nil {
		a := *l.AQI
		out.AQI = &a
	}
	if l.KbildResponses != nil {
		out.KbildResponses = make(map[int]int, len(l.KbildResponses))
		for k, v := range l.KbildResponses {
			out.KbildResponses[k] = v
		}
	}
	out.TakenMedications = cloneStrings(l.TakenMedications)
	out.SideEffects = cloneStrings(l.SideEffects)
	out.Alerts = cloneStrings(l.Alerts)
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func (l *HealthLog) ApplyDefaults() {
	if l.KbildResponses == nil {
		l.KbildResponses = map[int]int{}
	}
	if l.TakenMedications == nil {
		l.TakenMedications = []string{}
	}
	if l.SideEffects == nil {
		l.SideEffects = []string{}
	}
	if l.Alerts == nil {
		l.Alerts = []string{}
	}
}
