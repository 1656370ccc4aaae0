package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/domain"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/repository"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/service"
)

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := h.patients.Get(identity(r).PatientID)
	if !ok {
		writeError(w, h.logger, repository.ErrPatientNotFound)
		return
	}
	writeJSON(w, http.StatusOK, Ok(p))
}

func (h *Handler) MyLogs(w http.ResponseWriter, r *http.Request) {
	day, err := queryDate(r, "date", h.now())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(h.logs.LogsOn(identity(r).PatientID, day)))
}

func (h *Handler) SubmitLog(w http.ResponseWriter, r *http.Request) {
	var req service.SubmitLogRequest
	if !decodeBody(w, r, &req) {
		return
	}
	log, err := h.logs.Submit(r.Context(), identity(r).PatientID, req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(log))
}

func (h *Handler) EditLog(w http.ResponseWriter, r *http.Request) {
	var req service.LogContent
	if !decodeBody(w, r, &req) {
		return
	}
	log, err := h.logs.Edit(r.Context(), identity(r).PatientID, chi.URLParam(r, "logID"), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(log))
}

// PreviousLog returns the latest log before date, or a null result when there is none.
func (h *Handler) PreviousLog(w http.ResponseWriter, r *http.Request) {
	day, err := queryDate(r, "date", h.now())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	log, ok := h.logs.PreviousLog(identity(r).PatientID, day)
	if !ok {
		writeJSON(w, http.StatusOK, Ok[*domain.HealthLog](nil))
		return
	}
	writeJSON(w, http.StatusOK, Ok(&log))
}

func (h *Handler) ActiveMedications(w http.ResponseWriter, r *http.Request) {
	day, err := queryDate(r, "date", h.now())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(h.logs.ActiveMedications(identity(r).PatientID, day)))
}

type aqiResponse struct {
	AQI int `json:"aqi"`
}

func (h *Handler) LookupAQI(w http.ResponseWriter, r *http.Request) {
	var errs domain.ValidationErrors
	lat, ok := queryFloat(r, "lat")
	if !ok {
		errs.Add("lat", "must be a number")
	}
	lon, ok := queryFloat(r, "lon")
	if !ok {
		errs.Add("lon", "must be a number")
	}
	if err := errs.OrNil(); err != nil {
		writeError(w, h.logger, err)
		return
	}
	v, err := h.logs.LookupAQI(r.Context(), lat, lon)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(aqiResponse{AQI: v}))
}
