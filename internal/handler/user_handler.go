/*
Package handler provides HTTP handler functions for the profile and settings views.
*/
package handler

import (
	"net/http"
	"unicode/utf8"

	"lexdraft/internal/app/user"
	"lexdraft/internal/pkg/errs"
	"lexdraft/internal/pkg/req"
	"lexdraft/internal/pkg/resp"
)

// maxBioRunes caps the profile bio length.
const maxBioRunes = 500

// HandleGetProfile returns the signed-in user's profile, including metadata
// and settings.
func HandleGetProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, manager := deps.sessionManager(r)
		if manager == nil {
			resp.RespondError(w, r, deps.noSessionError(r))
			return
		}

		u := manager.CurrentUser()
		if u == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"user": u})
	}
}

// UpdateProfileInput mirrors user.MetadataPatch on the wire: absent fields are
// left untouched, present fields overwrite.
type UpdateProfileInput struct {
	FullName *string             `json:"fullname"`
	Phone    *string             `json:"phone"`
	Company  *string             `json:"company"`
	Position *string             `json:"position"`
	Location *string             `json:"location"`
	Bio      *string             `json:"bio"`
	Settings *user.SettingsPatch `json:"settings"`
}

// HandleUpdateProfile merges the submitted fields into the user's metadata and
// returns the refreshed user. Plan and token fields are not reachable from
// here; those change only through the plan and generation flows.
func HandleUpdateProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, manager := deps.sessionManager(r)
		if manager == nil {
			resp.RespondError(w, r, deps.noSessionError(r))
			return
		}

		var input UpdateProfileInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.Bio != nil && utf8.RuneCountInString(*input.Bio) > maxBioRunes {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		patch := user.MetadataPatch{
			FullName: input.FullName,
			Phone:    input.Phone,
			Company:  input.Company,
			Position: input.Position,
			Location: input.Location,
			Bio:      input.Bio,
			Settings: input.Settings,
		}

		if err := manager.UpdateUser(r.Context(), patch); err != nil {
			resp.RespondError(w, r, asCustomError(err))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"user": manager.CurrentUser()})
	}
}
