package domain

// Medication is one prescription interval. A nil EndDate means currently active.
type Medication struct {
	Name       string `json:"name"`
	Dose       string `json:"dose"`
	Frequency  string `json:"frequency"`
	StartDate  Date   `json:"startDate"`
	EndDate    *Date  `json:"endDate,omitempty"`
	DoseNumber *int   `json:"doseNumber,omitempty"` // induction/maintenance only, 1..20
	DosageDate *Date  `json:"dosageDate,omitempty"` // induction/maintenance only
}

// ActiveOn reports start <= day <= end, with a missing start treated as unbounded.
func (m Medication) ActiveOn(day Date) bool {
	if !m.StartDate.IsZero() && day.Before(m.StartDate) {
		return false
	}
	if m.EndDate != nil && day.After(*m.EndDate) {
		return false
	}
	return true
}

func (m Medication) clone() Medication {
	out := m
	out.EndDate = cloneDate(m.EndDate)
	out.DosageDate = cloneDate(m.DosageDate)
	if m.DoseNumber != nil {
		n := *m.DoseNumber
		out.DoseNumber = &n
	}
	return out
}

func cloneDate(d *Date) *Date {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}
