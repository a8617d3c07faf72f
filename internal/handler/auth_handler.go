/*
Package handler provides HTTP handler functions for sign-up, sign-in, and session management.
*/
package handler

import (
	"net/http"
	"regexp"
	"unicode/utf8"

	"lexdraft/internal/pkg/auth/jwt"
	"lexdraft/internal/pkg/errs"
	"lexdraft/internal/pkg/logx"
	"lexdraft/internal/pkg/pow"
	"lexdraft/internal/pkg/req"
	"lexdraft/internal/pkg/resp"
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// validPassword reports whether the password length is acceptable. The upper
// bound matches the identity provider's limit.
func validPassword(password string) bool {
	length := utf8.RuneCountInString(password)
	return length >= 6 && length <= 72
}

// HandleGetChallenge issues a proof-of-work challenge for sign-up. When the
// challenge is disabled the client may sign up directly.
func HandleGetChallenge(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !deps.Pow.Enabled() {
			resp.RespondSuccess(w, r, map[string]any{"required": false})
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"required":   true,
			"nonce":      deps.Pow.GenerateNonce(),
			"difficulty": deps.Pow.Difficulty(),
		})
	}
}

type VerifyChallengeInput struct {
	Nonce   string `json:"nonce"`
	Counter string `json:"counter"`
}

// HandleVerifyChallenge validates a solved proof-of-work challenge and issues
// the short-lived proof token the sign-up endpoint requires.
func HandleVerifyChallenge(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !deps.Pow.Enabled() {
			resp.RespondError(w, r, errs.NewError(errs.ErrPowChallengeInvalid))
			return
		}

		var input VerifyChallengeInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		token, err := deps.Pow.ValidateProof(input.Nonce, input.Counter)
		if err != nil {
			logx.Warn("Proof-of-work validation failed", "error", err)
			resp.RespondError(w, r, errs.NewError(errs.ErrPowChallengeInvalid))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"token":     token,
			"validFor":  pow.ProofTokenDuration.Seconds(),
			"headerKey": pow.TokenHeaderKey,
		})
	}
}

type SignUpInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullname"`
}

// HandleSignUp creates a new account with the identity provider, opens a
// server-side session for the browser, and mints its session token.
func HandleSignUp(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if payload := jwt.GetPayloadFromContext(r); payload != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrAlreadyLoggedIn))
			return
		}

		if deps.Pow.Enabled() && !deps.Pow.CheckProofToken(r) {
			resp.RespondError(w, r, errs.NewError(errs.ErrPowChallengeRequired))
			return
		}

		var input SignUpInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if !emailRegex.MatchString(input.Email) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidEmail))
			return
		}
		if !validPassword(input.Password) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidPassword))
			return
		}

		sessionID, manager, err := deps.Sessions.Open(r.Context())
		if err != nil {
			logx.Error(err, "sign_up: failed to open session")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if err := manager.SignUp(r.Context(), input.Email, input.Password, input.FullName); err != nil {
			deps.Sessions.Close(sessionID)
			resp.RespondError(w, r, asCustomError(err))
			return
		}

		u := manager.CurrentUser()
		if u == nil {
			// Account created but not signed in (e.g. email confirmation
			// pending). No session to keep around.
			deps.Sessions.Close(sessionID)
			resp.RespondSuccess(w, r, map[string]any{"user": nil})
			return
		}

		token, err := jwt.GenerateToken(&jwt.Payload{
			SessionID: sessionID,
			UserID:    u.ID,
			Email:     u.Email,
		}, deps.Config.JWTSecret, jwt.SessionTokenExpiration)
		if err != nil {
			logx.Error(err, "sign_up: token generation failed")
			deps.Sessions.Close(sessionID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		deps.setSessionCookie(w, token)
		resp.RespondSuccess(w, r, map[string]any{
			"token": token,
			"user":  u,
		})
	}
}

type SignInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleSignIn verifies credentials with the identity provider, opens a
// server-side session for the browser, and mints its session token.
func HandleSignIn(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if payload := jwt.GetPayloadFromContext(r); payload != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrAlreadyLoggedIn))
			return
		}

		var input SignInInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if !emailRegex.MatchString(input.Email) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidEmail))
			return
		}
		if !validPassword(input.Password) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidPassword))
			return
		}

		sessionID, manager, err := deps.Sessions.Open(r.Context())
		if err != nil {
			logx.Error(err, "sign_in: failed to open session")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if err := manager.SignIn(r.Context(), input.Email, input.Password); err != nil {
			deps.Sessions.Close(sessionID)
			resp.RespondError(w, r, asCustomError(err))
			return
		}

		u := manager.CurrentUser()
		if u == nil {
			deps.Sessions.Close(sessionID)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		token, err := jwt.GenerateToken(&jwt.Payload{
			SessionID: sessionID,
			UserID:    u.ID,
			Email:     u.Email,
		}, deps.Config.JWTSecret, jwt.SessionTokenExpiration)
		if err != nil {
			logx.Error(err, "sign_in: token generation failed")
			deps.Sessions.Close(sessionID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		deps.setSessionCookie(w, token)
		resp.RespondSuccess(w, r, map[string]any{
			"token": token,
			"user":  u,
		})
	}
}

// HandleSignOut ends the session with the identity provider, drops the
// server-side session and its chat transcript, and clears the cookie. Always
// succeeds from the client's point of view.
func HandleSignOut(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, manager := deps.sessionManager(r)
		if manager != nil {
			if err := manager.SignOut(r.Context()); err != nil {
				logx.Warn("sign_out: provider sign-out failed", "error", err)
			}
			deps.Sessions.Close(sessionID)
			deps.Assistant.Remove(sessionID)
		}

		deps.clearSessionCookie(w)
		resp.RespondSuccess(w, r, nil)
	}
}

// HandleGetSession reports the current session state: the signed-in user, or
// null for anonymous and expired sessions.
func HandleGetSession(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, manager := deps.sessionManager(r)
		if manager == nil {
			resp.RespondSuccess(w, r, map[string]any{"user": nil, "loading": false})
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"user":    manager.CurrentUser(),
			"loading": manager.Loading(),
		})
	}
}
