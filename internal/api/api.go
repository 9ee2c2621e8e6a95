// Package api exposes the engine's operations as a thin JSON API. Identity
// arrives pre-authenticated in X-Actor-* headers and the organizational
// scope in X-Scope; the engine only enforces capability rules.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/suasdigital/caseflow/internal/domain/casefile"
	"github.com/suasdigital/caseflow/internal/domain/identity"
	"github.com/suasdigital/caseflow/internal/domain/queue"
	"github.com/suasdigital/caseflow/internal/domain/referral"
	"github.com/suasdigital/caseflow/internal/domain/workflow"
)

const maxBodySize = 1 << 20 // 1MB

// Deps carries the services the handlers need.
type Deps struct {
	Cases     *casefile.Service
	Workflows *workflow.Service
	Referrals *referral.Service
	Weights   queue.Weights
	Logger    *slog.Logger
}

// NewHandler builds the router.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(requestMetrics)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metricsHandler())

	r.Route("/cases", func(r chi.Router) {
		r.Get("/", handleListCases(deps))
		r.Post("/", handleCreateCase(deps))
		r.Get("/selected", handleSelectedCase(deps))
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", handleGetCase(deps))
			r.Patch("/", handlePatchCase(deps))
			r.Post("/select", handleSelectCase(deps))
			r.Post("/timeline", handleAppendTimeline(deps))
			r.Post("/stages/{code}/touch", handleStageTouch(deps))
			r.Post("/advance", handleAdvance(deps))
			r.Post("/assign", handleAssign(deps))
			r.Post("/activities", handleAddActivity(deps))
			r.Post("/network-referrals", handleAddNetworkReferral(deps))
			r.Post("/network-referrals/{refID}/return", handleReturnNetworkReferral(deps))
			r.Post("/closure/request", handleRequestClosure(deps))
			r.Post("/closure/approve", handleApproveClosure(deps))
			r.Post("/closure/reject", handleRejectClosure(deps))
		})
	})

	r.Get("/queue", handleQueue(deps))
	r.Get("/reports/overview", handleOverview(deps))

	r.Route("/workflow", func(r chi.Router) {
		r.Get("/", handleGetWorkflow(deps))
		r.Put("/", handleSaveWorkflow(deps))
		r.Delete("/", handleResetWorkflow(deps))
	})

	r.Route("/referrals", func(r chi.Router) {
		r.Get("/", handleListReferrals(deps))
		r.Post("/", handleCreateReferral(deps))
		r.Get("/{id}", handleGetReferral(deps))
		r.Post("/{id}/transition", handleTransitionReferral(deps))
		r.Get("/{id}/next-action", handleReferralNextAction(deps))
	})

	return r
}

func actorFrom(r *http.Request) identity.Actor {
	return identity.Actor{
		ID:   r.Header.Get("X-Actor-Id"),
		Name: r.Header.Get("X-Actor-Name"),
		Role: r.Header.Get("X-Actor-Role"),
	}
}

func scopeFrom(r *http.Request) string {
	if scope := r.Header.Get("X-Scope"); scope != "" {
		return scope
	}
	return r.URL.Query().Get("scope")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, status int, code, format string, args ...any) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"type":    code,
			"message": fmt.Sprintf(format, args...),
		},
	})
}

// writeDomainError maps engine sentinel errors onto HTTP statuses. Business
// rule violations are expected conditions, reported as structured errors.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, identity.ErrUnauthorized):
		httpError(w, http.StatusForbidden, "unauthorized", "%v", err)
	case errors.Is(err, casefile.ErrCaseNotFound),
		errors.Is(err, casefile.ErrReferralNotFound),
		errors.Is(err, referral.ErrReferralNotFound):
		httpError(w, http.StatusNotFound, "not_found", "%v", err)
	case errors.Is(err, casefile.ErrInvalidClosureState),
		errors.Is(err, casefile.ErrCaseClosed),
		errors.Is(err, referral.ErrInvalidTransition),
		errors.Is(err, referral.ErrIncompleteDevolution):
		httpError(w, http.StatusConflict, "invalid_transition", "%v", err)
	case errors.Is(err, casefile.ErrInvalidInput),
		errors.Is(err, referral.ErrInvalidInput),
		errors.Is(err, workflow.ErrEmptyConfiguration),
		errors.Is(err, workflow.ErrEmptyStageCode),
		errors.Is(err, workflow.ErrDuplicateStageCode):
		httpError(w, http.StatusBadRequest, "invalid_request", "%v", err)
	default:
		httpError(w, http.StatusInternalServerError, "internal_error", "%v", err)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request", "invalid request body: %v", err)
		return false
	}
	return true
}
