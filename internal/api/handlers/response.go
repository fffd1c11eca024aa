package handlers

import (
	"encoding/json"
	"math"
	"net/http"

	"github.com/maksv/social-network-api/pkg/validator"
)

// envelope is the uniform response wrapper: {payload, message}.
type envelope struct {
	Payload any     `json:"payload"`
	Message *string `json:"message"`
}

// paging is the payload shape of paginated listings.
type paging struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
	TotalItems int64 `json:"totalItems"`
	Items      any   `json:"items"`
}

func writeSuccess(w http.ResponseWriter, payload any) {
	writeSuccessStatus(w, http.StatusOK, payload, "")
}

func writeSuccessMessage(w http.ResponseWriter, payload any, message string) {
	writeSuccessStatus(w, http.StatusOK, payload, message)
}

func writeSuccessStatus(w http.ResponseWriter, status int, payload any, message string) {
	env := envelope{Payload: payload}
	if message != "" {
		env.Message = &message
	}
	writeJSON(w, status, env)
}

func writePaginated(w http.ResponseWriter, page, pageSize int, totalItems int64, items any) {
	writeSuccessStatus(w, http.StatusOK, paging{
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int(math.Ceil(float64(totalItems) / float64(pageSize))),
		TotalItems: totalItems,
		Items:      items,
	}, "")
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Payload: nil, Message: &message})
}

// writeValidationError reports field-level messages with a 422, the shape
// the client's form binding expects.
func writeValidationError(w http.ResponseWriter, errs validator.ValidationErrors) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"message": errs,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
