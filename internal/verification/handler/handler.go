// Package handler wires verification endpoints to the verification service.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"attest/internal/verification"
	dErrors "attest/pkg/domain-errors"
	"attest/pkg/platform/httputil"
	"attest/pkg/requestcontext"
)

// Service defines the interface for verification operations.
type Service interface {
	VerifyFields(documentType string, userFields, extractedFields map[string]string) (*verification.VerificationResult, error)
	ValidateForm(documentType string, form map[string]string) (map[string]string, error)
	Submit(ctx context.Context, req verification.SubmitRequest) (*verification.SubmissionRecord, error)
	Get(ctx context.Context, id uuid.UUID) (*verification.SubmissionRecord, error)
	List(ctx context.Context, limit int) ([]*verification.SubmissionRecord, error)
}

// Handler wires verification endpoints to the verification service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a verification handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts verification endpoints on the router. All routes require an
// authenticated user; the router applies the auth middleware.
func (h *Handler) Register(r chi.Router) {
	r.Post("/verify/fields", h.HandleVerifyFields)
	r.Post("/verify/form", h.HandleValidateForm)
	r.Post("/submissions", h.HandleSubmit)
	r.Get("/submissions", h.HandleListSubmissions)
	r.Get("/submissions/{id}", h.HandleGetSubmission)
}

// HandleVerifyFields handles POST /verify/fields requests: a pure
// cross-check where the caller supplies both sides.
func (h *Handler) HandleVerifyFields(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[*VerifyFieldsRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.VerifyFields(req.DocumentType, req.UserFields, req.ExtractedFields)
	if err != nil {
		h.logger.ErrorContext(ctx, "field verification failed",
			"request_id", requestID,
			"document_type", req.DocumentType,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleValidateForm handles POST /verify/form requests.
func (h *Handler) HandleValidateForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[*ValidateFormRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	errs, err := h.service.ValidateForm(req.DocumentType, req.Fields)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ValidateFormResponse{
		Valid:  len(errs) == 0,
		Errors: errs,
	})
}

// HandleSubmit handles POST /submissions requests: the full flow with
// evidence gathering, persistence, and audit.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[*SubmitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, err := h.service.Submit(ctx, verification.SubmitRequest{
		DocumentType: req.DocumentType,
		UserFields:   req.UserFields,
		DocumentRef:  req.DocumentRef,
		SelfieRef:    req.SelfieRef,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "submission failed",
			"request_id", requestID,
			"document_type", req.DocumentType,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "submission accepted",
		"request_id", requestID,
		"submission_id", record.ID,
		"document_type", record.DocumentType,
		"valid", record.Result.Valid,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusCreated, record)
}

// HandleGetSubmission handles GET /submissions/{id} requests. Records belong
// to their submitter; anyone else sees not_found.
func (h *Handler) HandleGetSubmission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "submission id must be a UUID"))
		return
	}

	record, err := h.service.Get(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if record.UserID != requestcontext.UserID(ctx) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "submission not found"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, record)
}

// HandleListSubmissions handles GET /submissions requests.
func (h *Handler) HandleListSubmissions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := h.service.List(ctx, 50)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ListSubmissionsResponse{Submissions: toSummaries(records)})
}
