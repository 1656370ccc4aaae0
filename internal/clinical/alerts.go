package clinical

import (
	"strings"

	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/domain"
)

// Alert tags frozen into a log at submission time.
const (
	AlertSpO2Drop = "SpO2 drop > 5%"
	AlertFever    = "Fever detected"
)

// SpO2DropThreshold is the rest-minus-exertion drop that must be exceeded to alert.
const SpO2DropThreshold = 5

var feverKeywords = []string{"fever", "बुखार"}

// AlertInput is the part of a log candidate the alert rules look at.
type AlertInput struct {
	SpO2Rest     int
	SpO2Exertion int
	VAS          domain.VASScores
	SideEffects  []string
}

// DeriveAlerts evaluates each rule independently. The result is never nil.
func DeriveAlerts(in AlertInput) []string {
	alerts := []string{}
	if in.SpO2Rest-in.SpO2Exertion > SpO2DropThreshold {
		alerts = append(alerts, AlertSpO2Drop)
	}
	if in.VAS.Fever > 0 || mentionsFever(in.SideEffects) {
		alerts = append(alerts, AlertFever)
	}
	return alerts
}

func mentionsFever(sideEffects []string) bool {
	for _, e := range sideEffects {
		lower := strings.ToLower(e)
		for _, kw := range feverKeywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}
