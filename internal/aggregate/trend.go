package aggregate

import (
	"sort"

	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/clinical"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/domain"
)

// TrendPoint is one chart sample.
type TrendPoint struct {
	Date         domain.Date `json:"date"`
	Time         string      `json:"time,omitempty"`
	Timestamp    int64       `json:"timestamp"`
	SpO2Rest     int         `json:"spo2Rest"`
	SpO2Exertion int         `json:"spo2Exertion"`
	Kbild        int         `json:"kbild"`
	MMRC         int         `json:"mmrc"`
}

// TrendSeries returns every log as a point, ordered by date then creation time.
func TrendSeries(p domain.Patient) []TrendPoint {
	logs := sortedLogs(p.Logs)
	out := make([]TrendPoint, 0, len(logs))
	for _, l := range logs {
		out = append(out, TrendPoint{
			Date:         l.Date,
			Time:         l.Time,
			Timestamp:    l.Timestamp,
			SpO2Rest:     l.SpO2Rest,
			SpO2Exertion: l.SpO2Exertion,
			Kbild:        l.KbildScore,
			MMRC:         clinical.ParseMMRC(l.MMRCGrade),
		})
	}
	return out
}

// LatestLogBefore picks the log used to prefill a new submission for day: the newest log
// on day itself, else the newest log strictly before it.
func LatestLogBefore(p domain.Patient, day domain.Date) (domain.HealthLog, bool) {
	logs := sortedLogs(p.Logs)
	for i := len(logs) - 1; i >= 0; i-- {
		if !logs[i].Date.After(day) {
			return logs[i], true
		}
	}
	return domain.HealthLog{}, false
}

func sortedLogs(logs []domain.HealthLog) []domain.HealthLog {
	out := make([]domain.HealthLog, len(logs))
	copy(out, logs)
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Date.Compare(out[j].Date); c != 0 {
			return c < 0
		}
		return out[i].Timestamp < out[j].Timestamp
	})
	return out
}
