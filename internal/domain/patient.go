package domain

import (
	"encoding/json"
	"regexp"
)

type Sex string

const (
	SexMale   Sex = "Male"
	SexFemale Sex = "Female"
	SexOther  Sex = "Other"
)

func (s Sex) Valid() bool {
	return s == SexMale || s == SexFemale || s == SexOther
}

var mobilePattern = regexp.MustCompile(`^[0-9]{10}$`)

// ValidMobileID reports whether id is a 10-digit mobile number.
func ValidMobileID(id string) bool {
	return mobilePattern.MatchString(id)
}

// Patient is keyed by mobile number and exclusively owns its medications, logs and PFT history.
type Patient struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Age              int          `json:"age"`
	Sex              Sex          `json:"sex"`
	Occupation       string       `json:"occupation"`
	Diagnosis        Diagnosis    `json:"-"`
	FibroticILD      bool         `json:"fibroticIld,omitempty"`
	CoMorbidities    []string     `json:"coMorbidities"`
	OtherCoMorbidity string       `json:"otherCoMorbidity,omitempty"`
	RegistrationDate Date         `json:"registrationDate"`
	Medications      []Medication `json:"medications"`
	Logs             []HealthLog  `json:"logs"`
	PFTHistory       []PFTEntry   `json:"pftHistory"`
}

type patientAlias Patient

// patientJSON flattens the diagnosis variant onto the patient record.
type patientJSON struct {
	patientAlias
	DiagnosisCategory string `json:"diagnosisCategory"`
	DiagnosisName     string `json:"diagnosis"`
	CTDType           string `json:"ctdType,omitempty"`
	SarcoidosisStage  string `json:"sarcoidosisStage,omitempty"`
}

func (p Patient) MarshalJSON() ([]byte, error) {
	w := patientJSON{
		patientAlias:      patientAlias(p),
		DiagnosisCategory: p.Diagnosis.Category(),
		DiagnosisName:     p.Diagnosis.Subtype(),
	}
	w.CTDType, _ = p.Diagnosis.CTDType()
	w.SarcoidosisStage, _ = p.Diagnosis.SarcoidosisStage()
	return json.Marshal(w)
}

func (p *Patient) UnmarshalJSON(b []byte) error {
	var w patientJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*p = Patient(w.patientAlias)
	if w.DiagnosisName != "" || w.DiagnosisCategory != "" {
		p.Diagnosis = lenientDiagnosis(w.DiagnosisCategory, w.DiagnosisName, w.CTDType, w.SarcoidosisStage)
	}
	return nil
}

// Clone returns a deep copy sharing no slices or maps with p.
func (p Patient) Clone() Patient {
	out := p
	out.CoMorbidities = cloneStrings(p.CoMorbidities)
	if p.Medications != nil {
		out.Medications = make([]Medication, len(p.Medications))
		for i, m := range p.Medications {
			out.Medications[i] = m.clone()
		}
	}
	if p.Logs != nil {
		out.Logs = make([]HealthLog, len(p.Logs))
		for i, l := range p.Logs {
			out.Logs[i] = l.Clone()
		}
	}
	if p.PFTHistory != nil {
		out.PFTHistory = make([]PFTEntry, len(p.PFTHistory))
		for i, e := range p.PFTHistory {
			out.PFTHistory[i] = e.clone()
		}
	}
	return out
}

// FindLog returns the index of the log with the given id, or -1.
func (p Patient) FindLog(id string) int {
	for i, l := range p.Logs {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// LogsOn returns the logs recorded on day in submission order.
func (p Patient) LogsOn(day Date) []HealthLog {
	var out []HealthLog
	for _, l := range p.Logs {
		if l.Date == day {
			out = append(out, l)
		}
	}
	return out
}

// FindPFT returns the index of the PFT entry with the given id, or -1.
func (p Patient) FindPFT(id string) int {
	for i, e := range p.PFTHistory {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// ApplyDefaults fills collections that older records may lack so absent and empty
// read back the same way.
func (p *Patient) ApplyDefaults() {
	if p.CoMorbidities == nil {
		p.CoMorbidities = []string{}
	}
	if p.Medications == nil {
		p.Medications = []Medication{}
	}
	if p.Logs == nil {
		p.Logs = []HealthLog{}
	}
	if p.PFTHistory == nil {
		p.PFTHistory = []PFTEntry{}
	}
	for i := range p.Logs {
		p.Logs[i].ApplyDefaults()
	}
}
