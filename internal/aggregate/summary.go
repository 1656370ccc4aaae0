package aggregate

import (
	"cmp"
	"sort"

	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/clinical"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/domain"
)

// PeriodSummary holds the extremal metrics of one period. A nil metric had no
// contributing entry in the period.
type PeriodSummary struct {
	Key      PeriodKey `json:"key"`
	LogCount int       `json:"logCount"`
	PFTCount int       `json:"pftCount"`

	MinKbild        *int `json:"minKbild,omitempty"`
	MaxMMRC         *int `json:"maxMmrc,omitempty"`
	MinSpO2Rest     *int `json:"minSpo2Rest,omitempty"`
	MinSpO2Exertion *int `json:"minSpo2Exertion,omitempty"`
	AlertCount      *int `json:"alertCount,omitempty"`

	MinFEV1FVC    *float64 `json:"minFev1Fvc,omitempty"`
	MinFEV1       *float64 `json:"minFev1,omitempty"`
	MinFEV1Liters *float64 `json:"minFev1Liters,omitempty"`
	MinFVC        *float64 `json:"minFvc,omitempty"`
	MinFVCLiters  *float64 `json:"minFvcLiters,omitempty"`
	MinDLCO       *float64 `json:"minDlco,omitempty"`
	MinSixMWD     *float64 `json:"minSixMwd,omitempty"`
	MinWalkSpO2   *float64 `json:"minWalkSpo2,omitempty"`
	MaxWalkSpO2   *float64 `json:"maxWalkSpo2,omitempty"`
}

// Summarize computes one summary per period that has at least one log or PFT entry,
// in ascending date order. A patient with neither yields nil.
func Summarize(p domain.Patient, period Period) []PeriodSummary {
	byKey := make(map[PeriodKey]*PeriodSummary)
	get := func(day domain.Date) *PeriodSummary {
		key := period.KeyOf(day)
		s, ok := byKey[key]
		if !ok {
			s = &PeriodSummary{Key: key}
			byKey[key] = s
		}
		return s
	}

	for _, l := range p.Logs {
		s := get(l.Date)
		s.LogCount++
		s.MinKbild = keepMin(s.MinKbild, l.KbildScore)
		if g := clinical.ParseMMRC(l.MMRCGrade); g != clinical.MMRCUnknown {
			s.MaxMMRC = keepMax(s.MaxMMRC, g)
		}
		s.MinSpO2Rest = keepMin(s.MinSpO2Rest, l.SpO2Rest)
		s.MinSpO2Exertion = keepMin(s.MinSpO2Exertion, l.SpO2Exertion)
		n := len(l.Alerts)
		if s.AlertCount != nil {
			n += *s.AlertCount
		}
		s.AlertCount = &n
	}

	for _, e := range p.PFTHistory {
		s := get(e.Date)
		s.PFTCount++
		s.MinFEV1FVC = keepMin(s.MinFEV1FVC, e.FEV1FVC)
		s.MinFEV1 = keepMin(s.MinFEV1, e.FEV1)
		if e.FEV1Liters != nil {
			s.MinFEV1Liters = keepMin(s.MinFEV1Liters, *e.FEV1Liters)
		}
		s.MinFVC = keepMin(s.MinFVC, e.FVC)
		if e.FVCLiters != nil {
			s.MinFVCLiters = keepMin(s.MinFVCLiters, *e.FVCLiters)
		}
		s.MinDLCO = keepMin(s.MinDLCO, e.DLCO)
		s.MinSixMWD = keepMin(s.MinSixMWD, e.SixMWD)
		s.MinWalkSpO2 = keepMin(s.MinWalkSpO2, e.MinSpO2)
		s.MaxWalkSpO2 = keepMax(s.MaxWalkSpO2, e.MaxSpO2)
	}

	if len(byKey) == 0 {
		return nil
	}
	out := make([]PeriodSummary, 0, len(byKey))
	for _, s := range byKey {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key.Start.Before(out[j].Key.Start)
	})
	return out
}

func keepMin[T cmp.Ordered](cur *T, v T) *T {
	if cur != nil && *cur <= v {
		return cur
	}
	return &v
}

func keepMax[T cmp.Ordered](cur *T, v T) *T {
	if cur != nil && *cur >= v {
		return cur
	}
	return &v
}
