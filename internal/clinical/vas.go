package clinical

import "github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/domain"

// HighlightThreshold is the VAS score above which a symptom is flagged in the log detail view.
const HighlightThreshold = 5

const (
	VASMin = 0
	VASMax = 10
)

// SymptomScore pairs a VAS symptom key with its score.
type SymptomScore struct {
	Symptom string `json:"symptom"`
	Score   int    `json:"score"`
}

// HighVASSymptoms lists symptoms scored strictly above threshold, in symptom-key order.
func HighVASSymptoms(vas domain.VASScores, threshold int) []SymptomScore {
	var out []SymptomScore
	for _, key := range domain.SymptomKeys {
		if v, _ := vas.Get(key); v > threshold {
			out = append(out, SymptomScore{Symptom: key, Score: v})
		}
	}
	return out
}

// ValidateVAS rejects any score outside 0..10.
func ValidateVAS(vas domain.VASScores) error {
	var errs domain.ValidationErrors
	for _, key := range domain.SymptomKeys {
		if v, _ := vas.Get(key); v < VASMin || v > VASMax {
			errs.Add("vas."+key, "must be between 0 and 10")
		}
	}
	return errs.OrNil()
}
