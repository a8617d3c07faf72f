/*
Package handler provides HTTP handler functions for the pricing plans.
*/
package handler

import (
	"net/http"

	"lexdraft/internal/app/plans"
	"lexdraft/internal/pkg/req"
	"lexdraft/internal/pkg/resp"
)

// HandleListPlans returns the pricing catalog and the current plan of the
// signed-in user, when there is one.
func HandleListPlans(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentPlan := ""
		if _, manager := deps.sessionManager(r); manager != nil {
			if u := manager.CurrentUser(); u != nil {
				currentPlan = u.PlanNameOrDefault()
			}
		}

		resp.RespondSuccess(w, r, map[string]any{
			"plans":       plans.Catalog(),
			"currentPlan": currentPlan,
		})
	}
}

type SelectPlanInput struct {
	Plan string `json:"plan"`
}

// HandleSelectPlan switches the signed-in user to the named plan.
func HandleSelectPlan(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		manager, _, customErr := deps.requireUser(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input SelectPlanInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if err := plans.Select(r.Context(), manager, input.Plan); err != nil {
			resp.RespondError(w, r, asCustomError(err))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"user": manager.CurrentUser()})
	}
}
