package domain

// PFTEntry is one pulmonary function test visit.
type PFTEntry struct {
	ID         string   `json:"id"`
	Date       Date     `json:"date"`
	FEV1FVC    float64  `json:"fev1_fvc"`              // FEV1/FVC ratio
	FEV1       float64  `json:"fev1"`                  // % predicted
	FEV1Liters *float64 `json:"fev1_liters,omitempty"` // absolute
	FVC        float64  `json:"fvc"`                   // % predicted
	FVCLiters  *float64 `json:"fvc_liters,omitempty"`  // absolute
	DLCO       float64  `json:"dlco"`                  // % predicted
	SixMWD     float64  `json:"six_mwd"`               // metres
	MinSpO2    float64  `json:"min_spo2"`              // during 6MWT
	MaxSpO2    float64  `json:"max_spo2"`              // during 6MWT
}

func (e PFTEntry) clone() PFTEntry {
	out := e
	out.FEV1Liters = cloneFloat(e.FEV1Liters)
	out.FVCLiters = cloneFloat(e.FVCLiters)
	return out
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
