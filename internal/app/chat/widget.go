package chat

import (
	"context"
	"sync"
)

// PanelState is the chat widget's floating panel state.
type PanelState string

const (
	// PanelClosed means only the launcher button shows.
	PanelClosed PanelState = "closed"

	// PanelExpanded means the full chat window is visible.
	PanelExpanded PanelState = "expanded"

	// PanelMinimized means the window is collapsed to its header bar. The
	// transcript is retained.
	PanelMinimized PanelState = "minimized"
)

// Widget is one visitor's chat widget: the panel state machine plus the
// conversation transcript. Invalid panel transitions are ignored rather than
// rejected, so stray events cannot wedge the widget.
type Widget struct {
	conv      *Conversation
	responder *Responder

	mu    sync.Mutex
	panel PanelState
}

// NewWidget returns a closed widget with a freshly greeted conversation.
func NewWidget(responder *Responder) *Widget {
	return &Widget{
		conv:      NewConversation(),
		responder: responder,
		panel:     PanelClosed,
	}
}

// Panel returns the current panel state.
func (w *Widget) Panel() PanelState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.panel
}

// Open expands a closed panel. The transcript, greeting included, survives
// open/close cycles.
func (w *Widget) Open() {
	w.transition(PanelClosed, PanelExpanded)
}

// Minimize collapses an expanded panel to its header bar.
func (w *Widget) Minimize() {
	w.transition(PanelExpanded, PanelMinimized)
}

// Restore expands a minimized panel.
func (w *Widget) Restore() {
	w.transition(PanelMinimized, PanelExpanded)
}

// Close hides the panel from any visible state.
func (w *Widget) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.panel != PanelClosed {
		w.panel = PanelClosed
	}
}

func (w *Widget) transition(from, to PanelState) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.panel == from {
		w.panel = to
	}
}

// Send records the user's message and kicks off the assistant's reply.
//
// The user message is appended to the transcript before Send returns. The
// reply is computed concurrently and appended at the moment it resolves, then
// delivered on the returned channel, which is closed after the single reply.
// With a slow endpoint and an eager visitor, replies can therefore interleave
// out of order with later user messages; the transcript records resolution
// order.
func (w *Widget) Send(ctx context.Context, text string) (Message, <-chan Message) {
	userMsg := NewMessage(SenderUser, text)
	w.conv.Append(userMsg)

	replyCh := make(chan Message, 1)
	go func() {
		defer close(replyCh)

		botMsg := NewMessage(SenderBot, w.responder.Reply(ctx, text))
		w.conv.Append(botMsg)
		replyCh <- botMsg
	}()

	return userMsg, replyCh
}

// Messages returns a copy of the conversation transcript.
func (w *Widget) Messages() []Message {
	return w.conv.Messages()
}
