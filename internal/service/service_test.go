package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/domain"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/notify"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/repository"
)

const testMobile = "9999999999"

var testNow = time.Date(2024, time.March, 6, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

type fakeAQI struct {
	value int
	err   error
	calls int
}

func (f *fakeAQI) CurrentAQI(_ context.Context, _, _ float64) (int, error) {
	f.calls++
	return f.value, f.err
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.AlertEvent
	err    error
}

func (r *recordingNotifier) NotifyAlerts(_ context.Context, ev notify.AlertEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

type testEnv struct {
	store    *repository.PatientStore
	patients *PatientService
	logs     *LogService
	reports  *ReportService
	aqi      *fakeAQI
	notifier *recordingNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()
	store, err := repository.NewPatientStore(context.Background(), repository.NewMemorySnapshot(), logger)
	require.NoError(t, err)

	v := NewValidator()
	env := &testEnv{
		store:    store,
		aqi:      &fakeAQI{value: 87},
		notifier: &recordingNotifier{},
	}
	env.patients = NewPatientService(store, v, logger)
	env.patients.now = fixedClock
	env.logs = NewLogService(store, v, env.aqi, env.notifier, logger)
	env.logs.now = fixedClock
	env.reports = NewReportService(store)
	return env
}

func registerRequest(id string) RegisterPatientRequest {
	return RegisterPatientRequest{
		ID: id,
		PatientProfile: PatientProfile{
			Name:              "Ramesh Kumar",
			Age:               58,
			Sex:               "Male",
			Occupation:        "Farmer",
			DiagnosisCategory: "ILD",
			Diagnosis:         "Idiopathic pulmonary fibrosis",
			FibroticILD:       true,
			CoMorbidities:     []string{"Diabetes Mellitus"},
			RegistrationDate:  "01/02/2024",
		},
	}
}

func (e *testEnv) register(t *testing.T, id string) domain.Patient {
	t.Helper()
	p, err := e.patients.Register(context.Background(), registerRequest(id))
	require.NoError(t, err)
	return *p
}

// kbildAnswers returns a complete response set summing to total (15..105).
func kbildAnswers(total int) map[int]int {
	out := make(map[int]int, domain.KbildQuestionCount)
	rest := total - domain.KbildQuestionCount
	for q := 1; q <= domain.KbildQuestionCount; q++ {
		extra := min(rest, domain.KbildMaxAnswer-1)
		out[q] = 1 + extra
		rest -= extra
	}
	return out
}

func logRequest(rest, exertion int) SubmitLogRequest {
	return SubmitLogRequest{
		LogContent: LogContent{
			Time:           "09:15",
			SpO2Rest:       rest,
			SpO2Exertion:   exertion,
			MMRCGrade:      "1",
			KbildResponses: kbildAnswers(40),
		},
	}
}

var errBoom = errors.New("boom")
