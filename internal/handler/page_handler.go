/*
Package handler provides the page view handlers.

Each navigable route resolves to a view model describing what the client should
render: the view's data, a loading placeholder while the session is still
resolving, or a redirect. Protected routes run the route guard on every
request; the verdict is never cached.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"lexdraft/internal/app/docgen"
	"lexdraft/internal/app/guard"
	"lexdraft/internal/app/landing"
	"lexdraft/internal/app/plans"
	"lexdraft/internal/app/session"
	"lexdraft/internal/app/user"
	"lexdraft/internal/pkg/errs"
	"lexdraft/internal/pkg/logx"
	"lexdraft/internal/pkg/randx"
	"lexdraft/internal/pkg/req"
	"lexdraft/internal/pkg/resp"
)

// visitorCookieName carries the anonymous visitor id that keys the landing
// page navigation state.
const visitorCookieName = "lexdraft_visitor"

// PageView is the view model returned for every page route.
type PageView struct {
	Route      string `json:"route"`
	Title      string `json:"title"`
	Loading    bool   `json:"loading,omitempty"`
	RedirectTo string `json:"redirectTo,omitempty"`
	Data       any    `json:"data,omitempty"`
}

// sessionState resolves the request's session into the guard's inputs.
// Anonymous requests and expired sessions read as settled and signed out.
func (deps *AppDeps) sessionState(r *http.Request) (*session.Manager, bool, *user.User) {
	_, manager := deps.sessionManager(r)
	if manager == nil {
		return nil, false, nil
	}
	return manager, manager.Loading(), manager.CurrentUser()
}

// guardedPage evaluates the route guard and, when the view may render, builds
// its data from the signed-in user.
func (deps *AppDeps) guardedPage(route, title string, buildData func(r *http.Request, manager *session.Manager, u *user.User) (any, *errs.CustomError)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		manager, loading, u := deps.sessionState(r)

		switch outcome := guard.Decide(loading, u); outcome {
		case guard.RenderLoading:
			resp.RespondSuccess(w, r, PageView{Route: route, Title: title, Loading: true})
			return
		case guard.RedirectToAuth:
			resp.RespondSuccess(w, r, PageView{Route: route, Title: title, RedirectTo: "/auth"})
			return
		case guard.RenderChildren:
			// Fall through to the view itself.
		default:
			logx.Warn("Unexpected guard outcome", "route", route, "outcome", outcome.String())
		}

		data, customErr := buildData(r, manager, u)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, PageView{Route: route, Title: title, Data: data})
	}
}

// visitorID returns the request's visitor id, minting one into a cookie on
// first sight.
func (deps *AppDeps) visitorID(w http.ResponseWriter, r *http.Request) (string, error) {
	if cookie, err := r.Cookie(visitorCookieName); err == nil {
		if randx.IsValidBase62ID(cookie.Value, randx.VisitorIDLength) {
			return cookie.Value, nil
		}
	}

	id, err := randx.VisitorID()
	if err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     visitorCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id, nil
}

// HandleLandingPage serves the landing view: the section catalog and the
// visitor's current section.
func HandleLandingPage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentSection := landing.FirstSection
		if id, err := deps.visitorID(w, r); err == nil {
			currentSection = deps.Tracker.Navigator(id).Section()
		}

		_, _, u := deps.sessionState(r)

		resp.RespondSuccess(w, r, PageView{
			Route: "/",
			Title: "LexDraft",
			Data: map[string]any{
				"sections":       landing.Sections(),
				"currentSection": currentSection,
				"signedIn":       u != nil,
			},
		})
	}
}

// HandleAuthPage serves the sign-in/sign-up view. Signed-in users are sent
// straight to the dashboard.
func HandleAuthPage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, loading, u := deps.sessionState(r)

		view := PageView{Route: "/auth", Title: "Sign In"}
		switch {
		case loading:
			view.Loading = true
		case u != nil:
			view.RedirectTo = "/dashboard"
		default:
			view.Data = map[string]any{
				"powRequired": deps.Pow.Enabled(),
			}
		}

		resp.RespondSuccess(w, r, view)
	}
}

// HandleDashboardPage serves the protected dashboard: the user's document
// history, token balance, and the generation shortcuts.
func HandleDashboardPage(deps *AppDeps) http.HandlerFunc {
	return deps.guardedPage("/dashboard", "Dashboard", func(r *http.Request, manager *session.Manager, u *user.User) (any, *errs.CustomError) {
		documents, err := deps.Docs.List(r.Context(), u.ID)
		if err != nil {
			return nil, asCustomError(err)
		}

		return map[string]any{
			"user":          u,
			"plan":          u.PlanNameOrDefault(),
			"tokens":        u.TokenBalance(),
			"documents":     documents,
			"documentTypes": docgen.Types(),
		}, nil
	})
}

// HandleGenerateMenuPage serves the protected document type menu.
func HandleGenerateMenuPage(deps *AppDeps) http.HandlerFunc {
	return deps.guardedPage("/generate", "Generate a Document", func(r *http.Request, manager *session.Manager, u *user.User) (any, *errs.CustomError) {
		return map[string]any{
			"tokens":        u.TokenBalance(),
			"documentTypes": docgen.Types(),
		}, nil
	})
}

// HandleGenerateFormPage serves the protected generation form for one document
// type.
func HandleGenerateFormPage(deps *AppDeps) http.HandlerFunc {
	return deps.guardedPage("/generate/{type}", "Generate a Document", func(r *http.Request, manager *session.Manager, u *user.User) (any, *errs.CustomError) {
		docType := chi.URLParam(r, "type")

		var info *docgen.TypeInfo
		for _, t := range docgen.Types() {
			if t.Type == docType {
				info = &t
				break
			}
		}
		if info == nil {
			return nil, errs.NewError(errs.ErrDocumentTypeInvalid)
		}

		return map[string]any{
			"tokens":       u.TokenBalance(),
			"documentType": info,
		}, nil
	})
}

// HandlePricingPage serves the public pricing view. The signed-in user's
// current plan is marked when there is one.
func HandlePricingPage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, _, u := deps.sessionState(r)

		currentPlan := ""
		if u != nil {
			currentPlan = u.PlanNameOrDefault()
		}

		resp.RespondSuccess(w, r, PageView{
			Route: "/pricing",
			Title: "Pricing",
			Data: map[string]any{
				"plans":       plans.Catalog(),
				"currentPlan": currentPlan,
			},
		})
	}
}

// helpTopic is one entry of the public help view.
type helpTopic struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// HandleHelpPage serves the public help view.
func HandleHelpPage(deps *AppDeps) http.HandlerFunc {
	topics := []helpTopic{
		{
			Question: "What document types can I generate?",
			Answer:   "Contract agreements, non-disclosure agreements, and loan agreements. Each type has its own guided form.",
		},
		{
			Question: "How do tokens work?",
			Answer:   "Every generated document costs one token. Free accounts start with two; upgrading your plan raises the allotment.",
		},
		{
			Question: "Are the generated documents legally binding?",
			Answer:   "The documents are professional templates filled with your details. For high-stakes agreements, have a qualified attorney review the result.",
		},
		{
			Question: "How do I talk to the assistant?",
			Answer:   "Open the chat bubble on the dashboard. The assistant answers general questions about contracts, NDAs, and loan agreements.",
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, PageView{
			Route: "/help",
			Title: "Help",
			Data:  map[string]any{"topics": topics},
		})
	}
}

// HandleProfilePage serves the protected profile view.
func HandleProfilePage(deps *AppDeps) http.HandlerFunc {
	return deps.guardedPage("/profile", "Profile", func(r *http.Request, manager *session.Manager, u *user.User) (any, *errs.CustomError) {
		return map[string]any{"user": u}, nil
	})
}

// HandleProfileSettingsPage serves the protected settings view.
func HandleProfileSettingsPage(deps *AppDeps) http.HandlerFunc {
	return deps.guardedPage("/profile/settings", "Settings", func(r *http.Request, manager *session.Manager, u *user.User) (any, *errs.CustomError) {
		return map[string]any{"settings": u.Metadata.Settings}, nil
	})
}

// HandleLandingSections returns the landing section catalog.
func HandleLandingSections(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]any{"sections": landing.Sections()})
	}
}

// NavigateInput is one landing navigation event.
type NavigateInput struct {
	Type   string  `json:"type"`
	DeltaY float64 `json:"deltaY,omitempty"`
	Key    string  `json:"key,omitempty"`
	To     int     `json:"to,omitempty"`
}

// HandleLandingNavigate applies a navigation event to the visitor's section
// navigator and returns the resulting section.
func HandleLandingNavigate(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input NavigateInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var event landing.Event
		switch input.Type {
		case "wheel":
			event = landing.WheelEvent{DeltaY: input.DeltaY}
		case "key":
			switch input.Key {
			case "ArrowDown":
				event = landing.KeyEvent{Key: landing.KeyArrowDown}
			case "ArrowUp":
				event = landing.KeyEvent{Key: landing.KeyArrowUp}
			default:
				resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
				return
			}
		case "jump":
			event = landing.JumpEvent{To: input.To}
		default:
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		id, err := deps.visitorID(w, r)
		if err != nil {
			logx.Error(err, "landing_navigate: failed to mint visitor id")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		section := deps.Tracker.Navigator(id).Handle(event)
		resp.RespondSuccess(w, r, map[string]any{"section": section})
	}
}
