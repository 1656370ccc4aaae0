package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

type clinicianLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type patientLoginRequest struct {
	Mobile string `json:"mobile"`
}

func (h *Handler) LoginClinician(w http.ResponseWriter, r *http.Request) {
	var req clinicianLoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.auth.LoginClinician(req.Username, req.Password)
	if err != nil {
		h.logger.Info("Clinician login failed", zap.String("client_ip", getClientIP(r)))
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

func (h *Handler) LoginPatient(w http.ResponseWriter, r *http.Request) {
	var req patientLoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.auth.LoginPatient(req.Mobile)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout(identity(r).SessionID)
	writeJSON(w, http.StatusOK, Ok[any](nil))
}
