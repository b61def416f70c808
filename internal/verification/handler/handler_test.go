package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attest/internal/verification"
	dErrors "attest/pkg/domain-errors"
	"attest/pkg/requestcontext"
)

type fakeService struct {
	verifyResult *verification.VerificationResult
	verifyErr    error
	formErrors   map[string]string
	submitRecord *verification.SubmissionRecord
	submitErr    error
	getRecord    *verification.SubmissionRecord
	getErr       error
	listRecords  []*verification.SubmissionRecord
}

func (f *fakeService) VerifyFields(string, map[string]string, map[string]string) (*verification.VerificationResult, error) {
	return f.verifyResult, f.verifyErr
}

func (f *fakeService) ValidateForm(string, map[string]string) (map[string]string, error) {
	return f.formErrors, f.verifyErr
}

func (f *fakeService) Submit(context.Context, verification.SubmitRequest) (*verification.SubmissionRecord, error) {
	return f.submitRecord, f.submitErr
}

func (f *fakeService) Get(context.Context, uuid.UUID) (*verification.SubmissionRecord, error) {
	return f.getRecord, f.getErr
}

func (f *fakeService) List(context.Context, int) ([]*verification.SubmissionRecord, error) {
	return f.listRecords, nil
}

func newRouter(svc Service, userID string) http.Handler {
	h := New(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := requestcontext.WithUserID(req.Context(), userID)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	h.Register(r)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Error
}

func TestHandleVerifyFields(t *testing.T) {
	t.Run("returns the verification result", func(t *testing.T) {
		svc := &fakeService{verifyResult: &verification.VerificationResult{
			DocumentType: "Passport",
			Valid:        true,
			Summary:      "4 of 4 required fields matched",
		}}
		router := newRouter(svc, "user-1")

		rec := doJSON(t, router, http.MethodPost, "/verify/fields", map[string]any{
			"document_type":    "Passport",
			"user_fields":      map[string]string{"full_name": "Ama Serwaa"},
			"extracted_fields": map[string]string{"full_name": "Ama Serwaa"},
		})

		require.Equal(t, http.StatusOK, rec.Code)
		var result verification.VerificationResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.True(t, result.Valid)
		assert.Equal(t, "Passport", result.DocumentType)
	})

	t.Run("rejects missing document type", func(t *testing.T) {
		router := newRouter(&fakeService{}, "user-1")
		rec := doJSON(t, router, http.MethodPost, "/verify/fields", map[string]any{
			"user_fields": map[string]string{"full_name": "Ama"},
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "validation_error", errorCode(t, rec))
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		router := newRouter(&fakeService{}, "user-1")
		req := httptest.NewRequest(http.MethodPost, "/verify/fields", bytes.NewBufferString("{"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "bad_request", errorCode(t, rec))
	})

	t.Run("maps unknown document type to 404", func(t *testing.T) {
		svc := &fakeService{verifyErr: dErrors.New(dErrors.CodeNotFound, `unknown document type "LibraryCard"`)}
		router := newRouter(svc, "user-1")
		rec := doJSON(t, router, http.MethodPost, "/verify/fields", map[string]any{
			"document_type": "LibraryCard",
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandleValidateForm(t *testing.T) {
	svc := &fakeService{formErrors: map[string]string{"sex": "Sex is required"}}
	router := newRouter(svc, "user-1")

	rec := doJSON(t, router, http.MethodPost, "/verify/form", map[string]any{
		"document_type": "Passport",
		"fields":        map[string]string{"full_name": "Ama Serwaa"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ValidateFormResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)
	assert.Contains(t, resp.Errors, "sex")
}

func TestHandleSubmit(t *testing.T) {
	record := &verification.SubmissionRecord{
		ID:           uuid.New(),
		UserID:       "user-1",
		DocumentType: "Passport",
		Result:       verification.VerificationResult{Valid: true},
		CreatedAt:    time.Now(),
	}

	t.Run("accepts a submission", func(t *testing.T) {
		router := newRouter(&fakeService{submitRecord: record}, "user-1")
		rec := doJSON(t, router, http.MethodPost, "/submissions", map[string]any{
			"document_type": "Passport",
			"user_fields":   map[string]string{"full_name": "Ama Serwaa"},
			"document_ref":  "uploads/doc-1",
			"selfie_ref":    "uploads/selfie-1",
		})

		require.Equal(t, http.StatusCreated, rec.Code)
		var out verification.SubmissionRecord
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		assert.Equal(t, record.ID, out.ID)
	})

	t.Run("rejects a submission without a document reference", func(t *testing.T) {
		router := newRouter(&fakeService{submitRecord: record}, "user-1")
		rec := doJSON(t, router, http.MethodPost, "/submissions", map[string]any{
			"document_type": "Passport",
			"user_fields":   map[string]string{"full_name": "Ama Serwaa"},
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "validation_error", errorCode(t, rec))
	})
}

func TestHandleGetSubmission(t *testing.T) {
	record := &verification.SubmissionRecord{
		ID:     uuid.New(),
		UserID: "user-1",
	}

	t.Run("returns the caller's record", func(t *testing.T) {
		router := newRouter(&fakeService{getRecord: record}, "user-1")
		rec := doJSON(t, router, http.MethodGet, "/submissions/"+record.ID.String(), nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("hides other users' records", func(t *testing.T) {
		router := newRouter(&fakeService{getRecord: record}, "user-2")
		rec := doJSON(t, router, http.MethodGet, "/submissions/"+record.ID.String(), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("rejects a non-UUID id", func(t *testing.T) {
		router := newRouter(&fakeService{}, "user-1")
		rec := doJSON(t, router, http.MethodGet, "/submissions/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("maps a missing record to 404", func(t *testing.T) {
		svc := &fakeService{getErr: dErrors.New(dErrors.CodeNotFound, "submission not found")}
		router := newRouter(svc, "user-1")
		rec := doJSON(t, router, http.MethodGet, "/submissions/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandleListSubmissions(t *testing.T) {
	records := []*verification.SubmissionRecord{
		{ID: uuid.New(), UserID: "user-1", DocumentType: "Passport", Result: verification.VerificationResult{Valid: true, Summary: "4 of 4 required fields matched"}},
		{ID: uuid.New(), UserID: "user-1", DocumentType: "VoterCard", Result: verification.VerificationResult{Valid: false, Summary: "3 of 4 required fields matched"}},
	}
	router := newRouter(&fakeService{listRecords: records}, "user-1")

	rec := doJSON(t, router, http.MethodGet, "/submissions", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ListSubmissionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Submissions, 2)
	assert.Equal(t, "Passport", resp.Submissions[0].DocumentType)
	assert.True(t, resp.Submissions[0].Valid)
}
