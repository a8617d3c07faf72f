/*
Package guard implements the route guard that gates access to authenticated views.

The decision is a pure function of the session's {loading, user} pair and is
re-evaluated on every request — never cached — so a session change takes effect
on the very next navigation.
*/
package guard

import "lexdraft/internal/app/user"

// Outcome is the route guard's verdict for a single evaluation.
type Outcome int

const (
	// RenderChildren allows the protected view to render.
	RenderChildren Outcome = iota

	// RenderLoading shows a loading placeholder while the session is still
	// resolving. Never a redirect: redirecting before the session settles
	// would bounce already-authenticated users through the auth view.
	RenderLoading

	// RedirectToAuth sends an unauthenticated visitor to the auth view.
	RedirectToAuth
)

// String returns the outcome name for logging.
func (o Outcome) String() string {
	switch o {
	case RenderChildren:
		return "render_children"
	case RenderLoading:
		return "render_loading"
	case RedirectToAuth:
		return "redirect_to_auth"
	default:
		return "unknown"
	}
}

// Decide yields the guard outcome for the given session state.
// While loading, the placeholder wins regardless of the user value; once
// settled, presence of a user decides between the children and the redirect.
func Decide(loading bool, u *user.User) Outcome {
	if loading {
		return RenderLoading
	}
	if u == nil {
		return RedirectToAuth
	}
	return RenderChildren
}
