package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
)

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Send a standardized JSON error response
func RespondWithError(w http.ResponseWriter, r *http.Request, statusCode int, code string, message string) {
	RespondWithFieldErrors(w, r, statusCode, code, message, nil)
}

func RespondWithFieldErrors(w http.ResponseWriter, r *http.Request, statusCode int, code string, message string, fields []FieldError) {
	render.Status(r, statusCode)
	render.JSON(w, r, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Fields:  fields,
		},
	})
}

func RespondWithJSON(w http.ResponseWriter, r *http.Request, statusCode int, payload interface{}) {
	render.Status(r, statusCode)
	render.JSON(w, r, payload)
}

// DecodeJSON reads a JSON body of at most maxBytes into v.
// Oversized bodies return an error wrapping *http.MaxBytesError.
func DecodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, v interface{}) error {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}
	return render.DecodeJSON(r.Body, v)
}

// IsBodyTooLarge reports whether err came from exceeding the body limit.
func IsBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
