package api

import (
	"net/http"

	"github.com/suasdigital/caseflow/internal/domain/workflow"
)

func handleGetWorkflow(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := deps.Workflows.Get(r.Context(), scopeFrom(r))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cfg)
	}
}

func handleSaveWorkflow(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var cfg workflow.Configuration
		if !decodeBody(w, r, &cfg) {
			return
		}
		if err := deps.Workflows.Save(r.Context(), scopeFrom(r), actorFrom(r), &cfg); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, &cfg)
	}
}

func handleResetWorkflow(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Workflows.Reset(r.Context(), scopeFrom(r), actorFrom(r)); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, workflow.Default())
	}
}
