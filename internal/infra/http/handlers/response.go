package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type errorResponse struct {
	Error   string             `json:"error"`
	Message string             `json:"message"`
	Fields  []fieldErrorDetail `json:"fields,omitempty"`
}

type fieldErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

// writeUseCaseError maps use-case errors onto HTTP statuses. Technical errors are
// logged and reported without internal detail.
func writeUseCaseError(w http.ResponseWriter, log logrus.FieldLogger, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		resp := errorResponse{Error: de.Code, Message: de.Message}
		for _, f := range de.Fields {
			resp.Fields = append(resp.Fields, fieldErrorDetail{Field: f.Field, Message: f.Message})
		}
		writeJSON(w, domainStatus(de.Code), resp)
		return
	}

	log.WithError(err).Error("request failed")
	code := usecase.ErrorCode(err)
	if code == "" {
		code = "INTERNAL_ERROR"
	}
	writeErrorResponse(w, http.StatusInternalServerError, code, "Internal server error")
}

func domainStatus(code string) int {
	switch code {
	case usecase.CodeNotFound:
		return http.StatusNotFound
	case usecase.CodeValidation:
		return http.StatusBadRequest
	case usecase.CodeDuplicateEmail:
		return http.StatusConflict
	case usecase.CodeInvalidCredentials:
		return http.StatusUnauthorized
	default:
		return http.StatusUnprocessableEntity
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return false
	}
	return true
}
