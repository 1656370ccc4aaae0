package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/airquality"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/auth"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/domain"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/repository"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/service"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func readBodyJSON(r *http.Request, maxBytes int64, out any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

// decodeBody reads the request body into out and answers 400 itself on malformed JSON.
func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := readBodyJSON(r, maxBodyBytes, out); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return false
	}
	return true
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrPatientNotFound),
		errors.Is(err, repository.ErrLogNotFound),
		errors.Is(err, repository.ErrPFTNotFound),
		errors.Is(err, service.ErrMedicationNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrPatientExists),
		errors.Is(err, repository.ErrLogExists),
		errors.Is(err, repository.ErrDailyLogLimit),
		errors.Is(err, repository.ErrLogAlreadyEdited):
		return http.StatusConflict
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrUnknownPatient),
		errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, airquality.ErrNoReading):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// writeError maps err to a status and envelope. Internal errors are logged and hidden.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := statusOf(err)
	var ve domain.ValidationErrors
	switch {
	case errors.As(err, &ve):
		writeJSON(w, status, FailWith("validation error", ve))
	case status == http.StatusInternalServerError:
		logger.Error("Request failed", zap.Error(err))
		writeJSON(w, status, Fail("internal error"))
	default:
		writeJSON(w, status, Fail(err.Error()))
	}
}

// queryDate parses the named query parameter, defaulting to today.
func queryDate(r *http.Request, name string, now time.Time) (domain.Date, error) {
	s := strings.TrimSpace(r.URL.Query().Get(name))
	if s == "" {
		return domain.DateOf(now), nil
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		return domain.Date{}, domain.Invalid(name, "must be a date (YYYY-MM-DD)")
	}
	return d, nil
}

func queryFloat(r *http.Request, name string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(r.URL.Query().Get(name)), 64)
	return f, err == nil
}

func pathIndex(r *http.Request, name string) (int, error) {
	i, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || i < 0 {
		return 0, domain.Invalid(name, "must be a non-negative integer")
	}
	return i, nil
}

// getClientIP returns the peer address. Forwarding headers are only honoured when the
// router runs chi's RealIP, which rewrites RemoteAddr.
func getClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
