/*
Package handler provides HTTP handler functions for the assistant chat widget.
*/
package handler

import (
	"context"
	"net/http"
	"strings"
	"unicode/utf8"

	"lexdraft/internal/app/chat"
	"lexdraft/internal/pkg/errs"
	"lexdraft/internal/pkg/req"
	"lexdraft/internal/pkg/resp"
)

// MaxMessageRunes caps the length of one chat message.
const MaxMessageRunes = 2000

// widgetForRequest resolves the signed-in session's chat widget. The widget is
// only reachable from authenticated views, so anonymous requests are rejected.
func (deps *AppDeps) widgetForRequest(r *http.Request) (*chat.Widget, *errs.CustomError) {
	sessionID, manager := deps.sessionManager(r)
	if manager == nil {
		return nil, deps.noSessionError(r)
	}
	if manager.CurrentUser() == nil {
		return nil, errs.NewError(errs.ErrUnauthorized)
	}
	return deps.Assistant.Widget(sessionID), nil
}

// HandleGetMessages returns the widget's panel state and transcript.
func HandleGetMessages(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		widget, customErr := deps.widgetForRequest(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"panel":    widget.Panel(),
			"messages": widget.Messages(),
		})
	}
}

type SendMessageInput struct {
	Text string `json:"text"`
}

// HandleSendMessage appends the user's message and waits for the assistant's
// reply. The reply is computed on a detached context so an impatient client
// disconnect never loses the transcript entry.
func HandleSendMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		widget, customErr := deps.widgetForRequest(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input SendMessageInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		text := strings.TrimSpace(input.Text)
		if text == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}
		if utf8.RuneCountInString(text) > MaxMessageRunes {
			resp.RespondError(w, r, errs.NewError(errs.ErrMessageContentTooLong))
			return
		}

		userMsg, replyCh := widget.Send(context.WithoutCancel(r.Context()), text)
		reply := <-replyCh

		resp.RespondSuccess(w, r, map[string]any{
			"message": userMsg,
			"reply":   reply,
		})
	}
}

type PanelActionInput struct {
	Action string `json:"action"`
}

// HandlePanelAction applies an open/minimize/restore/close action to the
// widget's panel. Invalid transitions are ignored; the response always carries
// the resulting state.
func HandlePanelAction(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		widget, customErr := deps.widgetForRequest(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input PanelActionInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		switch input.Action {
		case "open":
			widget.Open()
		case "minimize":
			widget.Minimize()
		case "restore":
			widget.Restore()
		case "close":
			widget.Close()
		default:
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"panel": widget.Panel()})
	}
}
