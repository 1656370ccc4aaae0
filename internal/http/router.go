package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/auth"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/metrics"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/service"
)

// Services bundles the service layer the API exposes.
type Services struct {
	Auth     *service.AuthService
	Patients *service.PatientService
	Logs     *service.LogService
	Reports  *service.ReportService
	Exports  *service.ExportService
}

// Handler serves the clinician and patient APIs.
type Handler struct {
	auth     *service.AuthService
	patients *service.PatientService
	logs     *service.LogService
	reports  *service.ReportService
	exports  *service.ExportService
	logger   *zap.Logger
	now      func() time.Time
}

func NewHandler(s Services, logger *zap.Logger) *Handler {
	return &Handler{
		auth:     s.Auth,
		patients: s.Patients,
		logs:     s.Logs,
		reports:  s.Reports,
		exports:  s.Exports,
		logger:   logger,
		now:      time.Now,
	}
}

// RouterConfig tunes the middleware stack.
type RouterConfig struct {
	// LoginPerMinute caps login attempts per client IP
	LoginPerMinute int
	// TrustProxy takes the client IP from X-Forwarded-For / X-Real-IP
	TrustProxy bool
}

// NewRouter wires every route.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	if cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, Ok("ok"))
	})
	r.Handle("/metrics", metrics.Handler())

	limiter := NewLoginLimiter(cfg.LoginPerMinute)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(limiter.Middleware)
			r.Post("/auth/clinician/login", h.LoginClinician)
			r.Post("/auth/patient/login", h.LoginPatient)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.Authenticate)
			r.Post("/auth/logout", h.Logout)

			// clinician
			r.Group(func(r chi.Router) {
				r.Use(RequireRole(auth.RoleClinician))

				r.Get("/patients", h.ListPatients)
				r.Post("/patients", h.RegisterPatient)
				r.Route("/patients/{patientID}", func(r chi.Router) {
					r.Get("/", h.GetPatient)
					r.Put("/", h.UpdatePatient)
					r.Delete("/", h.DeletePatient)

					r.Post("/medications", h.AddMedication)
					r.Put("/medications/{index}", h.UpdateMedication)
					r.Delete("/medications/{index}", h.RemoveMedication)

					r.Get("/pft", h.ListPFT)
					r.Post("/pft", h.AddPFT)
					r.Put("/pft/{pftID}", h.UpdatePFT)
					r.Delete("/pft/{pftID}", h.RemovePFT)

					r.Get("/logs", h.PatientLogs)
					r.Get("/logs/{logID}", h.LogDetail)
					r.Get("/worst-logs", h.WorstLogs)
					r.Get("/summaries", h.Summaries)
					r.Get("/trend", h.Trend)
					r.Get("/adherence", h.Adherence)
				})

				r.Get("/export", h.Export)
			})

			// patient
			r.Route("/me", func(r chi.Router) {
				r.Use(RequireRole(auth.RolePatient))

				r.Get("/", h.Me)
				r.Get("/logs", h.MyLogs)
				r.Post("/logs", h.SubmitLog)
				r.Get("/logs/previous", h.PreviousLog)
				r.Put("/logs/{logID}", h.EditLog)
				r.Get("/medications/active", h.ActiveMedications)
				r.Get("/aqi", h.LookupAQI)
			})
		})
	})

	return r
}
