package handler

import (
	"errors"
	"net/http"

	"lexdraft/internal/app/chat"
	"lexdraft/internal/app/docgen"
	"lexdraft/internal/app/landing"
	"lexdraft/internal/app/session"
	"lexdraft/internal/configs"
	"lexdraft/internal/pkg/auth/jwt"
	"lexdraft/internal/pkg/errs"
	"lexdraft/internal/pkg/pow"
	"lexdraft/internal/pkg/randx"
)

// AppDeps bundles the services the handlers depend on.
type AppDeps struct {
	Config    *configs.AppConfig
	Sessions  *session.Registry
	Assistant *chat.Hub
	Docs      *docgen.Service
	Tracker   *landing.Tracker
	Pow       *pow.Manager
}

// sessionManager resolves the request's server-side session from the token
// identity. Returns ("", nil) for anonymous requests, tokens with malformed
// session ids, and sessions the registry no longer knows.
func (deps *AppDeps) sessionManager(r *http.Request) (string, *session.Manager) {
	payload := jwt.GetPayloadFromContext(r)
	if payload == nil {
		return "", nil
	}
	if !randx.IsValidBase62ID(payload.SessionID, randx.SessionIDLength) {
		return "", nil
	}

	manager := deps.Sessions.Get(payload.SessionID)
	if manager == nil {
		return "", nil
	}
	return payload.SessionID, manager
}

// setSessionCookie attaches the freshly minted session token to the response.
func (deps *AppDeps) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     jwt.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(jwt.SessionTokenExpiration.Seconds()),
		HttpOnly: true,
		Secure:   deps.Config.Environment != "development",
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie expires the session cookie.
func (deps *AppDeps) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     jwt.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   deps.Config.Environment != "development",
		SameSite: http.SameSiteLaxMode,
	})
}

// noSessionError classifies why a request has no usable session: a valid token
// whose server-side session is gone means the session expired; no token at all
// is plain unauthorized.
func (deps *AppDeps) noSessionError(r *http.Request) *errs.CustomError {
	if jwt.GetPayloadFromContext(r) != nil {
		return errs.NewError(errs.ErrSessionExpired)
	}
	return errs.NewError(errs.ErrUnauthorized)
}

// asCustomError normalizes service-layer errors for the response envelope.
func asCustomError(err error) *errs.CustomError {
	var customErr *errs.CustomError
	if errors.As(err, &customErr) {
		return customErr
	}
	return errs.NewError(errs.ErrUnknown, err)
}
