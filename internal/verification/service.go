// Package verification drives the field registry and comparator over a
// submission to produce one aggregated, explainable verdict.
package verification

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"attest/internal/audit"
	"attest/internal/document/compare"
	"attest/internal/document/registry"
	"attest/internal/extraction"
	"attest/internal/facematch"
	"attest/internal/verification/metrics"
	dErrors "attest/pkg/domain-errors"
	"attest/pkg/platform/circuit"
	"attest/pkg/platform/sentinel"
	"attest/pkg/requestcontext"
)

// Store persists submission records.
type Store interface {
	Save(ctx context.Context, record *SubmissionRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*SubmissionRecord, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*SubmissionRecord, error)
}

// Service is the single entry point for verification. VerifyFields is pure;
// Submit adds evidence gathering, persistence, and audit around it.
type Service struct {
	registry   *registry.Registry
	comparator *compare.Comparator
	policy     MissingPolicy

	extractor extraction.Extractor
	faces     facematch.Matcher
	store     Store
	audit     *audit.Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics

	extractionBreaker *circuit.Breaker
	facematchBreaker  *circuit.Breaker
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithMissingPolicy overrides the default strict missing-field policy.
func WithMissingPolicy(p MissingPolicy) Option {
	return func(s *Service) { s.policy = p }
}

// WithEvidence wires the external extraction and face-match collaborators
// used by Submit.
func WithEvidence(extractor extraction.Extractor, faces facematch.Matcher) Option {
	return func(s *Service) {
		s.extractor = extractor
		s.faces = faces
	}
}

// WithStore wires submission persistence.
func WithStore(store Store) Option {
	return func(s *Service) { s.store = store }
}

// WithAudit wires the audit publisher.
func WithAudit(publisher *audit.Publisher) Option {
	return func(s *Service) { s.audit = publisher }
}

// WithMetrics wires prometheus metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs the verification service.
func New(reg *registry.Registry, comparator *compare.Comparator, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		registry:          reg,
		comparator:        comparator,
		policy:            MissingFails,
		logger:            logger,
		extractionBreaker: circuit.New("extraction"),
		facematchBreaker:  circuit.New("facematch"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// VerifyFields cross-checks user-entered fields against extracted fields for
// the given document type. Pure domain logic: no I/O, no side effects, a
// fresh result per call. The only abortive error is an unknown document
// type; every per-field condition is reported inside the result.
func (s *Service) VerifyFields(documentType string, userFields, extractedFields map[string]string) (*VerificationResult, error) {
	spec, err := s.registry.Spec(documentType)
	if err != nil {
		return nil, err
	}

	result := &VerificationResult{
		DocumentType:  documentType,
		PassedFields:  []string{},
		FailedFields:  []string{},
		MissingFields: []string{},
		Details:       make(map[string]compare.Result, len(spec.RequiredMatchFields)),
	}

	for _, name := range spec.RequiredMatchFields {
		field := spec.Fields[name]
		// Absent keys are absent values; the comparator reports them
		// as missing rather than failing the lookup.
		res := s.comparator.Compare(field, userFields[name], extractedFields[name])
		if field.Sensitive() {
			res = redactResult(res)
		}
		result.Details[name] = res

		switch res.Outcome {
		case compare.OutcomeMatched:
			result.PassedFields = append(result.PassedFields, name)
		case compare.OutcomeMismatched:
			result.FailedFields = append(result.FailedFields, name)
		case compare.OutcomeMissing:
			result.MissingFields = append(result.MissingFields, name)
		}
	}

	switch s.policy {
	case MissingExcluded:
		result.Valid = len(result.FailedFields) == 0
	default:
		// Strict: every required field must be affirmatively matched.
		result.Valid = len(result.FailedFields) == 0 && len(result.MissingFields) == 0
	}
	result.Summary = summaryMessage(len(result.PassedFields), len(spec.RequiredMatchFields))
	return result, nil
}

// ValidateForm applies shallow syntactic validation to every user-input
// field, before any cross-document comparison. Returns a per-field error
// map; an empty map means the form is acceptable.
func (s *Service) ValidateForm(documentType string, form map[string]string) (map[string]string, error) {
	spec, err := s.registry.Spec(documentType)
	if err != nil {
		return nil, err
	}
	errs := make(map[string]string)
	for _, name := range spec.UserInputFields {
		field := spec.Fields[name]
		if ok, msg := registry.ValidateSyntax(field, form[name]); !ok {
			errs[name] = msg
		}
	}
	return errs, nil
}

// SubmitRequest carries one full verification submission. Image references
// point at already-uploaded artifacts; pixels never pass through this
// service.
type SubmitRequest struct {
	DocumentType string
	UserFields   map[string]string
	DocumentRef  string
	SelfieRef    string
}

// evidenceTimeout bounds the parallel extraction and face-match calls.
const evidenceTimeout = 45 * time.Second

// Submit runs the full flow: gather evidence from the external collaborators
// in parallel, cross-check fields, persist the (redacted) record, and emit
// an audit event. A failed or empty extraction degrades to "all extracted
// fields absent"; a face-match failure is recorded, not fatal.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*SubmissionRecord, error) {
	spec, err := s.registry.Spec(req.DocumentType)
	if err != nil {
		return nil, err
	}

	submissionID := uuid.New()
	s.emitAudit(ctx, audit.Event{
		Action:       audit.ActionSubmissionReceived,
		UserID:       requestcontext.UserID(ctx),
		SubmissionID: submissionID.String(),
		DocumentType: req.DocumentType,
		ClientIP:     requestcontext.ClientIP(ctx),
	})

	start := time.Now()
	extracted, face := s.gatherEvidence(ctx, spec, req)

	result, err := s.VerifyFields(req.DocumentType, req.UserFields, extracted)
	if err != nil {
		return nil, err
	}

	record := &SubmissionRecord{
		ID:           submissionID,
		UserID:       requestcontext.UserID(ctx),
		DocumentType: req.DocumentType,
		Result:       *result,
		FaceMatch:    face,
		CreatedAt:    requestcontext.Now(ctx),
	}

	if s.store != nil {
		if err := s.store.Save(ctx, record); err != nil {
			return nil, err
		}
	}
	s.publishAudit(ctx, record)

	if s.metrics != nil {
		s.metrics.ObserveSubmitLatency(time.Since(start))
		s.metrics.IncrementVerdict(req.DocumentType, result.Valid)
		for _, detail := range result.Details {
			s.metrics.IncrementFieldOutcome(string(detail.Strategy), string(detail.Outcome))
		}
	}

	s.logger.InfoContext(ctx, "submission verified",
		"request_id", requestcontext.RequestID(ctx),
		"submission_id", record.ID,
		"document_type", req.DocumentType,
		"valid", result.Valid,
		"passed", len(result.PassedFields),
		"failed", len(result.FailedFields),
		"missing", len(result.MissingFields),
		"face_checked", face.Checked,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return record, nil
}

// gatherEvidence fetches document extraction and face similarity in parallel
// with a shared deadline. Neither failure aborts the submission: extraction
// errors yield an empty field map and the face result stays unchecked.
func (s *Service) gatherEvidence(ctx context.Context, spec registry.DocumentTypeSpec, req SubmitRequest) (map[string]string, FaceMatchResult) {
	ctx, cancel := context.WithTimeout(ctx, evidenceTimeout)
	defer cancel()

	var (
		extracted = map[string]string{}
		face      FaceMatchResult
	)

	g, ctx := errgroup.WithContext(ctx)

	if s.extractor != nil && req.DocumentRef != "" {
		g.Go(func() error {
			if !s.extractionBreaker.Allow() {
				s.logger.WarnContext(ctx, "extraction circuit open, skipping call",
					"request_id", requestcontext.RequestID(ctx),
					"document_type", spec.Type,
				)
				return nil
			}
			start := time.Now()
			out, err := s.extractor.Extract(ctx, extraction.Request{
				DocumentRef:  req.DocumentRef,
				DocumentType: spec.Type,
				Fields:       spec.ExtractionFields,
			})
			if s.metrics != nil {
				s.metrics.ObserveEvidenceLatency("extraction", time.Since(start))
			}
			if err != nil {
				// Transport failures count against the breaker; an
				// unreadable document does not.
				s.recordBreaker(ctx, s.extractionBreaker, false)
				s.logger.WarnContext(ctx, "document extraction unavailable",
					"request_id", requestcontext.RequestID(ctx),
					"document_type", spec.Type,
					"error", err,
				)
				return nil
			}
			s.recordBreaker(ctx, s.extractionBreaker, true)
			if !out.Success {
				// Treated as "all extracted fields absent" per the
				// verification contract.
				s.logger.WarnContext(ctx, "document unreadable",
					"request_id", requestcontext.RequestID(ctx),
					"document_type", spec.Type,
				)
				return nil
			}
			extracted = out.Fields
			return nil
		})
	}

	if s.faces != nil && req.SelfieRef != "" && req.DocumentRef != "" {
		g.Go(func() error {
			if !s.facematchBreaker.Allow() {
				s.logger.WarnContext(ctx, "face match circuit open, skipping call",
					"request_id", requestcontext.RequestID(ctx),
				)
				return nil
			}
			start := time.Now()
			match, err := s.faces.Match(ctx, req.DocumentRef, req.SelfieRef)
			if s.metrics != nil {
				s.metrics.ObserveEvidenceLatency("facematch", time.Since(start))
			}
			if err != nil {
				s.recordBreaker(ctx, s.facematchBreaker, false)
				s.logger.WarnContext(ctx, "face match unavailable",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				return nil
			}
			s.recordBreaker(ctx, s.facematchBreaker, true)
			face = FaceMatchResult{Checked: true, Match: match.Match, Similarity: match.Similarity}
			return nil
		})
	}

	// Goroutines only return nil; Wait is for completion, not failure.
	_ = g.Wait()
	return extracted, face
}

// recordBreaker feeds one call outcome to a circuit breaker and logs state
// transitions exactly once.
func (s *Service) recordBreaker(ctx context.Context, b *circuit.Breaker, success bool) {
	var change circuit.StateChange
	if success {
		_, change = b.RecordSuccess()
	} else {
		_, change = b.RecordFailure()
	}
	switch {
	case change.Opened:
		s.logger.WarnContext(ctx, "circuit opened", "dependency", b.Name())
	case change.Closed:
		s.logger.InfoContext(ctx, "circuit closed", "dependency", b.Name())
	}
}

// Get returns a stored submission record.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*SubmissionRecord, error) {
	if s.store == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "submission store not configured")
	}
	record, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(dErrors.CodeNotFound, "submission not found", err)
		}
		return nil, err
	}
	return record, nil
}

// List returns the calling user's submissions, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]*SubmissionRecord, error) {
	if s.store == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "submission store not configured")
	}
	return s.store.ListByUser(ctx, requestcontext.UserID(ctx), limit)
}

func (s *Service) publishAudit(ctx context.Context, record *SubmissionRecord) {
	action := audit.ActionSubmissionRejected
	if record.Result.Valid {
		action = audit.ActionSubmissionVerified
	}
	// Audit events carry counts and identifiers only, never field values.
	s.emitAudit(ctx, audit.Event{
		Action:       action,
		UserID:       record.UserID,
		SubmissionID: record.ID.String(),
		DocumentType: record.DocumentType,
		ClientIP:     requestcontext.ClientIP(ctx),
		Detail:       record.Result.Summary,
	})
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "audit emit failed",
			"request_id", requestcontext.RequestID(ctx),
			"submission_id", event.SubmissionID,
			"error", err,
		)
	}
}

// redactResult masks display values for sensitive fields so card numbers
// never appear in results, logs, or storage.
func redactResult(res compare.Result) compare.Result {
	res.UserValue = redactedValue(res.UserValue)
	res.ExtractedValue = redactedValue(res.ExtractedValue)
	return res
}

const redactionMask = "****"

func redactedValue(v string) string {
	if v == "" {
		return v
	}
	return redactionMask
}
