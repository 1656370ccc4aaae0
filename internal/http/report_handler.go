package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/aggregate"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/service"
)

// PatientLogs shows a clinician one day of a patient's logs.
func (h *Handler) PatientLogs(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "patientID")
	day, err := queryDate(r, "date", h.now())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(h.logs.LogsOn(id, day)))
}

func (h *Handler) LogDetail(w http.ResponseWriter, r *http.Request) {
	d, err := h.reports.LogDetail(chi.URLParam(r, "patientID"), chi.URLParam(r, "logID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(d))
}

func (h *Handler) WorstLogs(w http.ResponseWriter, r *http.Request) {
	period, err := aggregate.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(h.reports.WorstLogs(chi.URLParam(r, "patientID"), period)))
}

func (h *Handler) Summaries(w http.ResponseWriter, r *http.Request) {
	period, err := aggregate.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(h.reports.Summaries(chi.URLParam(r, "patientID"), period)))
}

func (h *Handler) Trend(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Ok(h.reports.Trend(chi.URLParam(r, "patientID"))))
}

func (h *Handler) Adherence(w http.ResponseWriter, r *http.Request) {
	day, err := queryDate(r, "date", h.now())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(h.reports.Adherence(chi.URLParam(r, "patientID"), day)))
}

// Export streams a CSV or XLSX download of all patients (or one category).
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.exports.Export(r.Context(), service.ExportRequest{
		Mode:     q.Get("mode"),
		Format:   q.Get("format"),
		Period:   q.Get("period"),
		Category: q.Get("category"),
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+res.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Body)))
	if res.ArchiveKey != "" {
		w.Header().Set("X-Archive-Key", res.ArchiveKey)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.Body); err != nil {
		h.logger.Warn("Failed to write export", zap.String("filename", res.Filename), zap.Error(err))
	}
}
