package submissions

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sangkips/bizsite-bff/internal/handlers"
)

type Handler struct {
	svc          *Service
	maxBodyBytes int64
}

func NewHandler(svc *Service, maxBodyBytes int64) *Handler {
	return &Handler{svc: svc, maxBodyBytes: maxBodyBytes}
}

func (h *Handler) RegisterSubmissionRoutes(r chi.Router) {
	r.Post("/contact", h.submitContact)
	r.Post("/confirmation", h.sendConfirmation)
	r.Post("/partners", h.submitPartnerApplication)
}

func (h *Handler) submitContact(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respond(w, r, func(ctx context.Context) (*SubmissionResponse, error) {
		return h.svc.SubmitContact(ctx, req)
	})
}

func (h *Handler) sendConfirmation(w http.ResponseWriter, r *http.Request) {
	var req ConfirmationRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respond(w, r, func(ctx context.Context) (*SubmissionResponse, error) {
		return h.svc.SendConfirmation(ctx, req)
	})
}

func (h *Handler) submitPartnerApplication(w http.ResponseWriter, r *http.Request) {
	var req PartnerApplicationRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respond(w, r, func(ctx context.Context) (*SubmissionResponse, error) {
		return h.svc.SubmitPartnerApplication(ctx, req)
	})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	err := handlers.DecodeJSON(w, r, h.maxBodyBytes, v)
	if err == nil {
		return true
	}

	if handlers.IsBodyTooLarge(err) {
		handlers.RespondWithError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "Request body is too large")
		return false
	}
	handlers.RespondWithError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body: "+err.Error())
	return false
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, submit func(ctx context.Context) (*SubmissionResponse, error)) {
	resp, err := submit(r.Context())
	if err != nil {
		respondWithSubmissionError(w, r, err)
		return
	}
	handlers.RespondWithJSON(w, r, http.StatusOK, resp)
}

func respondWithSubmissionError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *ValidationError

	switch {
	case errors.As(err, &validationErr):
		handlers.RespondWithFieldErrors(w, r, http.StatusUnprocessableEntity, "VALIDATION_FAILED", "One or more fields are invalid", validationErr.Fields)
	case errors.Is(err, ErrTemplateUnavailable):
		handlers.RespondWithError(w, r, http.StatusInternalServerError, "TEMPLATE_UNAVAILABLE", "Email template is unavailable")
	case errors.Is(err, ErrDeliveryFailed):
		handlers.RespondWithError(w, r, http.StatusBadGateway, "MAIL_SEND_FAILED", "Failed to send email")
	default:
		handlers.RespondWithError(w, r, http.StatusInternalServerError, "SUBMISSION_FAILED", "Failed to process submission")
	}
}
