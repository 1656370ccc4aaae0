package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/repository"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/service"
)

func (h *Handler) ListPatients(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := h.patients.List(service.ListPatientsRequest{
		Search:   q.Get("search"),
		Category: q.Get("category"),
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

func (h *Handler) RegisterPatient(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterPatientRequest
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := h.patients.Register(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.logger.Info("Patient registered", zap.String("patient_id", p.ID))
	writeJSON(w, http.StatusCreated, Ok(p))
}

func (h *Handler) GetPatient(w http.ResponseWriter, r *http.Request) {
	p, ok := h.patients.Get(chi.URLParam(r, "patientID"))
	if !ok {
		writeError(w, h.logger, repository.ErrPatientNotFound)
		return
	}
	writeJSON(w, http.StatusOK, Ok(p))
}

func (h *Handler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	var req service.PatientProfile
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := h.patients.UpdateProfile(r.Context(), chi.URLParam(r, "patientID"), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(p))
}

func (h *Handler) DeletePatient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "patientID")
	if err := h.patients.Delete(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.logger.Info("Patient deleted", zap.String("patient_id", id))
	writeJSON(w, http.StatusOK, Ok[any](nil))
}

func (h *Handler) AddMedication(w http.ResponseWriter, r *http.Request) {
	var req service.MedicationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := h.patients.AddMedication(r.Context(), chi.URLParam(r, "patientID"), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(p.Medications))
}

func (h *Handler) UpdateMedication(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r, "index")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req service.MedicationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := h.patients.UpdateMedication(r.Context(), chi.URLParam(r, "patientID"), index, req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(p.Medications))
}

func (h *Handler) RemoveMedication(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r, "index")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	p, err := h.patients.RemoveMedication(r.Context(), chi.URLParam(r, "patientID"), index)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(p.Medications))
}

func (h *Handler) ListPFT(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Ok(h.reports.PFTHistory(chi.URLParam(r, "patientID"))))
}

func (h *Handler) AddPFT(w http.ResponseWriter, r *http.Request) {
	var req service.PFTRequest
	if !decodeBody(w, r, &req) {
		return
	}
	e, err := h.patients.AddPFT(r.Context(), chi.URLParam(r, "patientID"), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(e))
}

func (h *Handler) UpdatePFT(w http.ResponseWriter, r *http.Request) {
	var req service.PFTRequest
	if !decodeBody(w, r, &req) {
		return
	}
	e, err := h.patients.UpdatePFT(r.Context(), chi.URLParam(r, "patientID"), chi.URLParam(r, "pftID"), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(e))
}

func (h *Handler) RemovePFT(w http.ResponseWriter, r *http.Request) {
	if err := h.patients.RemovePFT(r.Context(), chi.URLParam(r, "patientID"), chi.URLParam(r, "pftID")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}
