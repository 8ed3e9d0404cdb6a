package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/aalvaropc/railbook/internal/domain"
)

// codeRateLimited is a transport code; it never comes out of the domain.
const codeRateLimited = "rate_limited"

type errorBody struct {
	Error string `json:"error"`
}

type statusBody struct {
	Status string `json:"status"`
	UserID string `json:"userId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.CodeOf(err)
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		a.log.Error("http.failed", "path", r.URL.Path, "code", code, "err", err)
	}
	writeJSON(w, status, errorBody{Error: string(code)})
}

func statusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		if domain.CodeOf(err) == domain.CodeInvalidCredentials {
			return http.StatusUnauthorized
		}
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		if domain.CodeOf(err) == domain.CodeForbidden {
			return http.StatusForbidden
		}
		return http.StatusConflict
	case domain.KindStorage:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
