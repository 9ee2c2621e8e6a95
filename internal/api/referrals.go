package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/suasdigital/caseflow/internal/domain/referral"
)

func handleCreateReferral(deps Deps) http.HandlerFunc {
	type request struct {
		CaseID          int64             `json:"case_id"`
		PersonID        string            `json:"person_id"`
		DestinationUnit string            `json:"destination_unit"`
		Subject         string            `json:"subject"`
		Reason          string            `json:"reason"`
		Priority        referral.Priority `json:"priority"`
		DueDate         *time.Time        `json:"due_date"`
	}
	type response struct {
		Referral *referral.Referral       `json:"referral"`
		Navigate *referral.NavigationHint `json:"navigate,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if !decodeBody(w, r, &req) {
			return
		}
		// The sender's own scope is the origin unit of the handoff.
		ref, err := deps.Referrals.Create(r.Context(), actorFrom(r), referral.CreateRequest{
			CaseID:          req.CaseID,
			PersonID:        req.PersonID,
			OriginUnit:      scopeFrom(r),
			DestinationUnit: req.DestinationUnit,
			Subject:         req.Subject,
			Reason:          req.Reason,
			Priority:        req.Priority,
			DueDate:         req.DueDate,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, response{
			Referral: ref,
			Navigate: &referral.NavigationHint{View: "outbox", ReferralID: ref.ID},
		})
	}
}

func handleListReferrals(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		refs, err := deps.Referrals.ListForUnit(r.Context(), scopeFrom(r), referral.ListOptions{
			Box:         r.URL.Query().Get("box"),
			OnlyPending: r.URL.Query().Get("pending") == "true",
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if refs == nil {
			refs = []*referral.Referral{}
		}
		writeJSON(w, http.StatusOK, refs)
	}
}

func handleGetReferral(deps Deps) http.HandlerFunc {
	type response struct {
		Referral       *referral.Referral `json:"referral"`
		DevolutionText string             `json:"devolution_text,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ref, err := deps.Referrals.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		resp := response{Referral: ref}
		if ref.Devolution != nil {
			resp.DevolutionText = ref.Devolution.Narrative()
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleTransitionReferral(deps Deps) http.HandlerFunc {
	type request struct {
		To         referral.Status      `json:"to"`
		Note       string               `json:"note"`
		Devolution *referral.Devolution `json:"devolution"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if !decodeBody(w, r, &req) {
			return
		}
		ref, err := deps.Referrals.Transition(r.Context(), actorFrom(r), referral.TransitionRequest{
			ID:         chi.URLParam(r, "id"),
			To:         req.To,
			Note:       req.Note,
			ActingUnit: scopeFrom(r),
			Devolution: req.Devolution,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ref)
	}
}

func handleReferralNextAction(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		action, err := deps.Referrals.NextActionFor(r.Context(), chi.URLParam(r, "id"), scopeFrom(r))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]referral.NextAction{"next_action": action})
	}
}
