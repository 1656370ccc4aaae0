package clinical

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/domain"
)

func TestParseMMRC(t *testing.T) {
	assert.Equal(t, 0, ParseMMRC("0"))
	assert.Equal(t, 4, ParseMMRC(" 4 "))
	assert.Equal(t, MMRCUnknown, ParseMMRC("5"))
	assert.Equal(t, MMRCUnknown, ParseMMRC(""))
	assert.Equal(t, MMRCUnknown, ParseMMRC("grade 2"))
	assert.True(t, ValidMMRC("2"))
	assert.False(t, ValidMMRC("-1"))
}

func TestHighVASSymptoms(t *testing.T) {
	vas := domain.VASScores{Cough: 6, Breathlessness: 5, Fever: 9}
	got := HighVASSymptoms(vas, HighlightThreshold)
	assert.Equal(t, []SymptomScore{{Symptom: domain.SymptomCough, Score: 6}, {Symptom: domain.SymptomFever, Score: 9}}, got)
	assert.Empty(t, HighVASSymptoms(domain.VASScores{}, HighlightThreshold))
}

func TestValidateVAS(t *testing.T) {
	assert.NoError(t, ValidateVAS(domain.VASScores{Cough: 10}))
	err := ValidateVAS(domain.VASScores{ChestPain: 11, Hemoptysis: -1})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "vas.chest_pain")
	assert.Contains(t, err.Error(), "vas.hemoptysis")
}

func TestClassifyAQI(t *testing.T) {
	assert.Equal(t, AQIGood, ClassifyAQI(50))
	assert.Equal(t, AQIModerate, ClassifyAQI(51))
	assert.Equal(t, AQIModerate, ClassifyAQI(100))
	assert.Equal(t, AQIUnhealthySensitive, ClassifyAQI(150))
	assert.Equal(t, AQIUnhealthy, ClassifyAQI(151))
}
