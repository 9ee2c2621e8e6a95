package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/suasdigital/caseflow/internal/domain/casefile"
)

func caseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpError(w, http.StatusBadRequest, "invalid_request", "invalid case id")
		return 0, false
	}
	return id, true
}

func handleCreateCase(deps Deps) http.HandlerFunc {
	type request struct {
		PersonID      string             `json:"person_id"`
		RiskLevel     casefile.RiskLevel `json:"risk_level"`
		Topic         string             `json:"topic"`
		Subtopic      string             `json:"subtopic"`
		Channel       string             `json:"channel"`
		NextAction    string             `json:"next_action"`
		NextActionDue *time.Time         `json:"next_action_due"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if !decodeBody(w, r, &req) {
			return
		}
		c, err := deps.Cases.Create(r.Context(), scopeFrom(r), actorFrom(r), casefile.CreateRequest{
			PersonID:      req.PersonID,
			RiskLevel:     req.RiskLevel,
			Topic:         req.Topic,
			Subtopic:      req.Subtopic,
			Channel:       req.Channel,
			NextAction:    req.NextAction,
			NextActionDue: req.NextActionDue,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, c)
	}
}

func handleListCases(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cases, err := deps.Cases.List(r.Context(), scopeFrom(r))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if cases == nil {
			cases = []*casefile.Case{}
		}
		writeJSON(w, http.StatusOK, cases)
	}
}

func handleGetCase(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := caseID(w, r)
		if !ok {
			return
		}
		c, err := deps.Cases.Get(r.Context(), scopeFrom(r), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func handlePatchCase(deps Deps) http.HandlerFunc {
	type request struct {
		RiskLevel     *casefile.RiskLevel `json:"risk_level"`
		Topic         *string             `json:"topic"`
		Subtopic      *string             `json:"subtopic"`
		Channel       *string             `json:"channel"`
		NextAction    *string             `json:"next_action"`
		NextActionDue *time.Time          `json:"next_action_due"`
		ClearDue      bool                `json:"clear_due"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := caseID(w, r)
		if !ok {
			return
		}
		var req request
		if !decodeBody(w, r, &req) {
			return
		}
		c, err := deps.Cases.Update(r.Context(), scopeFrom(r), actorFrom(r), id, casefile.Patch{
			RiskLevel:     req.RiskLevel,
			Topic:         req.Topic,
			Subtopic:      req.Subtopic,
			Channel:       req.Channel,
			NextAction:    req.NextAction,
			NextActionDue: req.NextActionDue,
			ClearDue:      req.ClearDue,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func handleSelectCase(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := caseID(w, r)
		if !ok {
			return
		}
		if err := deps.Cases.Select(r.Context(), scopeFrom(r), id); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int64{"selected": id})
	}
}

func handleSelectedCase(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := deps.Cases.Selected(r.Context(), scopeFrom(r))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int64{"selected": id})
	}
}

func handleAppendTimeline(deps Deps) http.HandlerFunc {
	type request struct {
		Kind string `json:"kind"`
		Text string `json:"text"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := caseID(w, r)
		if !ok {
			return
		}
		var req request
		if !decodeBody(w, r, &req) {
			return
		}
		c, err := deps.Cases.AppendTimeline(r.Context(), scopeFrom(r), actorFrom(r), id, req.Kind, req.Text)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func handleStageTouch(deps Deps) http.HandlerFunc {
	type request struct {
		Note              string   `json:"note"`
		ActivityID        string   `json:"activity_id"`
		LinkedReferralIDs []string `json:"linked_referral_ids"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := caseID(w, r)
		if !ok {
			return
		}
		var req request
		if !decodeBody(w, r, &req) {
			return
		}
		c, err := deps.Cases.RecordStageTouch(r.Context(), scopeFrom(r), actorFrom(r), id,
			chi.URLParam(r, "code"), casefile.TouchInput{
				Note:              req.Note,
				ActivityID:        req.ActivityID,
				LinkedReferralIDs: req.LinkedReferralIDs,
			})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func handleAdvance(deps Deps) http.HandlerFunc {
	type request struct {
		Stage string `json:"stage"`
		Note  string `json:"note"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := caseID(w, r)
		if !ok {
			return
		}
		var req request
		if !decodeBody(w, r, &req) {
			return
		}
		c, err := deps.Cases.Advance(r.Context(), scopeFrom(r), actorFrom(r), id, req.Stage, req.Note)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func handleAssign(deps Deps) http.HandlerFunc {
	type request struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := caseID(w, r)
		if !ok {
			return
		}
		var req request
		if !decodeBody(w, r, &req) {
			return
		}
		c, err := deps.Cases.Assign(r.Context(), scopeFrom(r), actorFrom(r), id,
			casefile.Assignee{ID: req.ID, Name: req.Name})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func handleAddActivity(deps Deps) http.HandlerFunc {
	type request struct {
		Kind       string    `json:"kind"`
		Summary    string    `json:"summary"`
		OccurredAt time.Time `json:"occurred_at"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := caseID(w, r)
		if !ok {
			return
		}
		var req request
		if !decodeBody(w, r, &req) {
			return
		}
		c, err := deps.Cases.AddActivity(r.Context(), scopeFrom(r), actorFrom(r), id, casefile.ActivityInput{
			Kind:       req.Kind,
			Summary:    req.Summary,
			OccurredAt: req.OccurredAt,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func handleAddNetworkReferral(deps Deps) http.HandlerFunc {
	type request struct {
		Service string     `json:"service"`
		Note    string     `json:"note"`
		DueDate *time.Time `json:"due_date"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := caseID(w, r)
		if !ok {
			return
		}
		var req request
		if !decodeBody(w, r, &req) {
			return
		}
		c, err := deps.Cases.AddNetworkReferral(r.Context(), scopeFrom(r), actorFrom(r), id,
			req.Service, req.Note, req.DueDate)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func handleReturnNetworkReferral(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := caseID(w, r)
		if !ok {
			return
		}
		c, err := deps.Cases.ReturnNetworkReferral(r.Context(), scopeFrom(r), actorFrom(r), id,
			chi.URLParam(r, "refID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func handleRequestClosure(deps Deps) http.HandlerFunc {
	type request struct {
		Reason  string `json:"reason"`
		Summary string `json:"summary"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := caseID(w, r)
		if !ok {
			return
		}
		var req request
		if !decodeBody(w, r, &req) {
			return
		}
		c, err := deps.Cases.RequestClosure(r.Context(), scopeFrom(r), actorFrom(r), id, req.Reason, req.Summary)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func handleApproveClosure(deps Deps) http.HandlerFunc {
	type request struct {
		Checklist []string `json:"checklist"`
		Exception string   `json:"exception"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := caseID(w, r)
		if !ok {
			return
		}
		var req request
		if !decodeBody(w, r, &req) {
			return
		}
		c, err := deps.Cases.ApproveClosure(r.Context(), scopeFrom(r), actorFrom(r), id, req.Checklist, req.Exception)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func handleRejectClosure(deps Deps) http.HandlerFunc {
	type request struct {
		Reason string `json:"reason"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := caseID(w, r)
		if !ok {
			return
		}
		var req request
		if !decodeBody(w, r, &req) {
			return
		}
		c, err := deps.Cases.RejectClosure(r.Context(), scopeFrom(r), actorFrom(r), id, req.Reason)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}
