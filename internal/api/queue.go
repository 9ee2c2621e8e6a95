package api

import (
	"net/http"
	"time"

	"github.com/suasdigital/caseflow/internal/domain/metrics"
	"github.com/suasdigital/caseflow/internal/domain/queue"
	"github.com/suasdigital/caseflow/internal/domain/referral"
)

func handleQueue(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		scope := scopeFrom(r)

		cases, err := deps.Cases.List(ctx, scope)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		cfg, err := deps.Workflows.Get(ctx, scope)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		var refs []*referral.Referral
		if r.URL.Query().Get("include_referrals") == "true" {
			refs, err = deps.Referrals.ListForUnit(ctx, scope, referral.ListOptions{OnlyPending: true})
			if err != nil {
				writeDomainError(w, err)
				return
			}
		}

		opts := queue.Options{
			SupervisorView: r.URL.Query().Get("supervisor") == "true",
		}
		items := queue.Build(cases, refs, cfg, deps.Weights, opts, time.Now())
		writeJSON(w, http.StatusOK, items)
	}
}

func handleOverview(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		scope := scopeFrom(r)

		cases, err := deps.Cases.List(ctx, scope)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		cfg, err := deps.Workflows.Get(ctx, scope)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		report := metrics.Build(cases, cfg,
			deps.Weights.IdleThresholdHighRisk, deps.Weights.IdleThresholdDefault, time.Now())
		writeJSON(w, http.StatusOK, report)
	}
}
