/*
Package handler provides HTTP handler functions for document generation and history.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"lexdraft/internal/app/docgen"
	"lexdraft/internal/app/session"
	"lexdraft/internal/app/user"
	"lexdraft/internal/pkg/errs"
	"lexdraft/internal/pkg/req"
	"lexdraft/internal/pkg/resp"
)

// requireUser resolves the signed-in session or rejects the request.
func (deps *AppDeps) requireUser(r *http.Request) (*session.Manager, *user.User, *errs.CustomError) {
	_, manager := deps.sessionManager(r)
	if manager == nil {
		return nil, nil, deps.noSessionError(r)
	}

	u := manager.CurrentUser()
	if u == nil {
		return nil, nil, errs.NewError(errs.ErrUnauthorized)
	}
	return manager, u, nil
}

// documentIDParam extracts and validates the {id} route parameter.
func documentIDParam(r *http.Request) (string, *errs.CustomError) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		return "", errs.NewError(errs.ErrDocumentNotFound)
	}
	return id, nil
}

// HandleDocumentTypes returns the catalog of generatable document types.
func HandleDocumentTypes(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]any{"documentTypes": docgen.Types()})
	}
}

type GenerateDocumentInput struct {
	Type   string            `json:"type"`
	Fields map[string]string `json:"fields"`
}

// HandleGenerateDocument renders a document, stores it, and debits a token.
func HandleGenerateDocument(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		manager, _, customErr := deps.requireUser(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input GenerateDocumentInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		document, err := deps.Docs.Generate(r.Context(), manager, input.Type, input.Fields)
		if err != nil {
			resp.RespondError(w, r, asCustomError(err))
			return
		}

		tokens := 0
		if u := manager.CurrentUser(); u != nil {
			tokens = u.TokenBalance()
		}

		resp.RespondSuccess(w, r, map[string]any{
			"document": document,
			"tokens":   tokens,
		})
	}
}

// HandleListDocuments returns the user's generated documents, newest first.
func HandleListDocuments(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, u, customErr := deps.requireUser(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		documents, err := deps.Docs.List(r.Context(), u.ID)
		if err != nil {
			resp.RespondError(w, r, asCustomError(err))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"documents": documents})
	}
}

// HandleDownloadDocument returns a short-lived download URL for one document.
func HandleDownloadDocument(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, u, customErr := deps.requireUser(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		id, customErr := documentIDParam(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		url, err := deps.Docs.DownloadURL(r.Context(), u.ID, id)
		if err != nil {
			resp.RespondError(w, r, asCustomError(err))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"url": url})
	}
}

// HandleDeleteDocument removes one document from the user's history.
func HandleDeleteDocument(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, u, customErr := deps.requireUser(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		id, customErr := documentIDParam(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if err := deps.Docs.Delete(r.Context(), u.ID, id); err != nil {
			resp.RespondError(w, r, asCustomError(err))
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}
