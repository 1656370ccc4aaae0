package aggregate

import (
	"sort"

	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/clinical"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/domain"
)

// Worse reports whether a ranks strictly worse than b. Criteria are applied in order and
// the first one that differs decides:
//  1. carrying any alert
//  2. lower SpO2 on exertion
//  3. higher mMRC grade (an unparsable grade ranks lowest)
//  4. higher KBILD total
//
// Logs equal on all four are not worse than each other, so the caller keeps whichever it
// saw first.
func Worse(a, b domain.HealthLog) bool {
	if a.HasAlerts() != b.HasAlerts() {
		return a.HasAlerts()
	}
	if a.SpO2Exertion != b.SpO2Exertion {
		return a.SpO2Exertion < b.SpO2Exertion
	}
	if ma, mb := clinical.ParseMMRC(a.MMRCGrade), clinical.ParseMMRC(b.MMRCGrade); ma != mb {
		return ma > mb
	}
	return a.KbildScore > b.KbildScore
}

// WorstLog returns the worst log in input order, keeping the first on ties.
func WorstLog(logs []domain.HealthLog) (domain.HealthLog, bool) {
	if len(logs) == 0 {
		return domain.HealthLog{}, false
	}
	worst := logs[0]
	for _, l := range logs[1:] {
		if Worse(l, worst) {
			worst = l
		}
	}
	return worst, true
}

// PeriodLog is the representative log of one period.
type PeriodLog struct {
	Key      PeriodKey        `json:"key"`
	Log      domain.HealthLog `json:"log"`
	LogCount int              `json:"logCount"`
}

// WorstPerPeriod groups logs by period and picks the worst of each group. Groups are
// returned in ascending date order.
func WorstPerPeriod(logs []domain.HealthLog, period Period) []PeriodLog {
	index := make(map[PeriodKey]int)
	var out []PeriodLog
	for _, l := range logs {
		key := period.KeyOf(l.Date)
		i, ok := index[key]
		if !ok {
			index[key] = len(out)
			out = append(out, PeriodLog{Key: key, Log: l, LogCount: 1})
			continue
		}
		out[i].LogCount++
		if Worse(l, out[i].Log) {
			out[i].Log = l
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Key.Start.Before(out[j].Key.Start)
	})
	return out
}

// WorstPerDay is WorstPerPeriod with daily grouping.
func WorstPerDay(logs []domain.HealthLog) []PeriodLog {
	return WorstPerPeriod(logs, Daily)
}
