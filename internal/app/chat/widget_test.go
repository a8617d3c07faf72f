package chat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedGenerator blocks each Generate call until released.
type gatedGenerator struct {
	release chan struct{}
}

func (g *gatedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	<-g.release
	return completionFor("A reply that took its time to arrive."), nil
}

func newTestWidget() *Widget {
	return NewWidget(NewResponder(&fakeGenerator{completion: completionFor("A perfectly adequate answer.")}))
}

func TestConversationGreeting(t *testing.T) {
	w := newTestWidget()

	msgs := w.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, SenderBot, msgs[0].Sender)
	assert.Equal(t, Greeting, msgs[0].Text)
}

func TestPanelStateMachine(t *testing.T) {
	t.Run("starts closed", func(t *testing.T) {
		assert.Equal(t, PanelClosed, newTestWidget().Panel())
	})

	t.Run("open, minimize, restore, close", func(t *testing.T) {
		w := newTestWidget()

		w.Open()
		assert.Equal(t, PanelExpanded, w.Panel())

		w.Minimize()
		assert.Equal(t, PanelMinimized, w.Panel())

		w.Restore()
		assert.Equal(t, PanelExpanded, w.Panel())

		w.Close()
		assert.Equal(t, PanelClosed, w.Panel())
	})

	t.Run("close works from minimized", func(t *testing.T) {
		w := newTestWidget()
		w.Open()
		w.Minimize()
		w.Close()
		assert.Equal(t, PanelClosed, w.Panel())
	})

	t.Run("invalid transitions are ignored", func(t *testing.T) {
		w := newTestWidget()

		w.Minimize()
		assert.Equal(t, PanelClosed, w.Panel())

		w.Restore()
		assert.Equal(t, PanelClosed, w.Panel())

		w.Open()
		w.Open()
		assert.Equal(t, PanelExpanded, w.Panel())
	})

	t.Run("transcript survives close and reopen", func(t *testing.T) {
		w := newTestWidget()
		w.Open()
		_, replyCh := w.Send(context.Background(), "hello")
		<-replyCh
		w.Close()
		w.Open()
		assert.Equal(t, 3, w.conv.Len())
	})
}

func TestWidgetSend(t *testing.T) {
	t.Run("user message is recorded before the reply resolves", func(t *testing.T) {
		gate := &gatedGenerator{release: make(chan struct{})}
		w := NewWidget(NewResponder(gate))

		userMsg, replyCh := w.Send(context.Background(), "first question")

		msgs := w.Messages()
		require.Len(t, msgs, 2)
		assert.Equal(t, SenderUser, msgs[1].Sender)
		assert.Equal(t, "first question", msgs[1].Text)
		assert.Equal(t, userMsg.ID, msgs[1].ID)

		close(gate.release)
		reply, ok := <-replyCh
		require.True(t, ok)
		assert.Equal(t, SenderBot, reply.Sender)
	})

	t.Run("reply is appended at resolution and delivered on the channel", func(t *testing.T) {
		w := newTestWidget()

		_, replyCh := w.Send(context.Background(), "question")
		reply := <-replyCh

		msgs := w.Messages()
		require.Len(t, msgs, 3)
		assert.Equal(t, reply.ID, msgs[2].ID)

		_, open := <-replyCh
		assert.False(t, open)
	})

	t.Run("slow reply lands after a faster later message", func(t *testing.T) {
		gate := &gatedGenerator{release: make(chan struct{})}
		w := NewWidget(NewResponder(gate))

		_, slowCh := w.Send(context.Background(), "slow one")
		w.Send(context.Background(), "quick follow-up")

		// Both user messages are in before any reply resolved.
		assert.Equal(t, 3, w.conv.Len())

		close(gate.release)
		<-slowCh
		deadline := time.After(time.Second)
		for w.conv.Len() < 5 {
			select {
			case <-deadline:
				t.Fatal("replies did not resolve in time")
			case <-time.After(5 * time.Millisecond):
			}
		}

		msgs := w.Messages()
		assert.Equal(t, "slow one", msgs[1].Text)
		assert.Equal(t, "quick follow-up", msgs[2].Text)
		assert.Equal(t, SenderBot, msgs[3].Sender)
		assert.Equal(t, SenderBot, msgs[4].Sender)
	})
}

func TestHub(t *testing.T) {
	responder := NewResponder(&fakeGenerator{completion: completionFor("An answer of sufficient length.")})

	t.Run("same session gets the same widget", func(t *testing.T) {
		h := NewHub(responder)
		defer h.Shutdown()

		assert.Same(t, h.Widget("s-1"), h.Widget("s-1"))
		assert.NotSame(t, h.Widget("s-1"), h.Widget("s-2"))
	})

	t.Run("remove discards the transcript", func(t *testing.T) {
		h := NewHub(responder)
		defer h.Shutdown()

		w := h.Widget("s-1")
		_, replyCh := w.Send(context.Background(), "hello")
		<-replyCh

		h.Remove("s-1")
		assert.Equal(t, 1, h.Widget("s-1").conv.Len())
	})
}
