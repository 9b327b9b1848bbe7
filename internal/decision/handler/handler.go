package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"loanassist/internal/application"
	"loanassist/internal/decision"
	dErrors "loanassist/pkg/domain-errors"
	audit "loanassist/pkg/platform/audit"
	"loanassist/pkg/platform/httputil"
	"loanassist/pkg/requestcontext"
)

// MaxBodyBytes caps the size of an application document.
const MaxBodyBytes = 64 << 10

// Service defines the interface for decision operations.
type Service interface {
	Evaluate(ctx context.Context, raw application.RawApplication) (*decision.Result, error)
	Threshold() float64
}

// Handler wires decision endpoints to the decision service.
type Handler struct {
	service Service
	audit   audit.Reader
	logger  *slog.Logger
}

type Option func(*Handler)

// WithAuditReader enables GET /loan/decisions/{decisionID}/audit.
func WithAuditReader(r audit.Reader) Option {
	return func(h *Handler) {
		h.audit = r
	}
}

// New constructs a decision handler with its dependencies.
func New(service Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		service: service,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts decision endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/loan", func(r chi.Router) {
		r.Post("/decisions", h.HandleEvaluate)
		r.Get("/decisions/{decisionID}/audit", h.HandleAuditTrail)
		r.Get("/rules", h.HandleListRules)
		r.Get("/schema", h.HandleSchema)
	})
}

// HandleEvaluate handles POST /loan/decisions requests.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "request body too large"))
			return
		}
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "failed to read request body"))
		return
	}

	// Schema validation reports every field problem at once
	if err := application.ValidateDocument(body); err != nil {
		h.logger.WarnContext(ctx, "application failed schema validation",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[EvaluateRequest](w, body, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Evaluate(ctx, req.Application())
	if err != nil {
		h.logger.ErrorContext(ctx, "decision evaluation failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "decision evaluated",
		"request_id", requestID,
		"decision_id", result.DecisionID,
		"outcome", result.Verdict.Outcome(),
		"class", result.Verdict.Class(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromResult(result, h.service.Threshold()))
}

// HandleListRules handles GET /loan/rules requests.
func (h *Handler) HandleListRules(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, RulesResponse{
		Rules:     decision.Rules(),
		Threshold: h.service.Threshold(),
	})
}

// HandleSchema handles GET /loan/schema requests.
func (h *Handler) HandleSchema(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/schema+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(application.Schema())
}

// HandleAuditTrail handles GET /loan/decisions/{decisionID}/audit requests.
func (h *Handler) HandleAuditTrail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	decisionID, err := uuid.Parse(chi.URLParam(r, "decisionID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "decision id must be a UUID"))
		return
	}
	if h.audit == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "audit trail is not available"))
		return
	}

	events, err := h.audit.ListByDecision(ctx, decisionID.String())
	if err != nil {
		if errors.Is(err, audit.ErrNotReadable) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "audit trail is not available"))
			return
		}
		h.logger.ErrorContext(ctx, "failed to read audit trail",
			"request_id", requestID,
			"decision_id", decisionID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read audit trail"))
		return
	}
	if len(events) == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "no audit events for decision"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, AuditTrailResponse{
		DecisionID: decisionID.String(),
		Events:     events,
	})
}
