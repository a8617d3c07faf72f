package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"lexdraft/internal/app/inference"
)

// fakeGenerator returns a fixed completion or error.
type fakeGenerator struct {
	completion string
	err        error
	prompts    []string
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return g.completion, g.err
}

// completionFor wraps a continuation in the endpoint's echo format.
func completionFor(continuation string) string {
	return "some prompt echo " + continuationMarker + " " + continuation
}

func TestResponderReply(t *testing.T) {
	t.Run("usable continuation becomes the reply", func(t *testing.T) {
		gen := &fakeGenerator{completion: completionFor("You should put the payment schedule in writing.")}
		r := NewResponder(gen)

		reply := r.Reply(context.Background(), "how do I document payments?")
		assert.Equal(t, "You should put the payment schedule in writing.", reply)
	})

	t.Run("prompt embeds the user message", func(t *testing.T) {
		gen := &fakeGenerator{completion: completionFor("An answer that is long enough.")}
		r := NewResponder(gen)

		r.Reply(context.Background(), "what is consideration?")
		assert.Len(t, gen.prompts, 1)
		assert.Contains(t, gen.prompts[0], `User asks: "what is consideration?"`)
	})

	t.Run("long continuation is truncated with an ellipsis", func(t *testing.T) {
		long := strings.Repeat("a", 400)
		gen := &fakeGenerator{completion: completionFor(long)}
		r := NewResponder(gen)

		reply := r.Reply(context.Background(), "tell me everything")
		assert.Equal(t, strings.Repeat("a", 300)+"...", reply)
	})

	t.Run("missing marker falls back to the disclaimer", func(t *testing.T) {
		gen := &fakeGenerator{completion: "no marker here at all"}
		r := NewResponder(gen)

		reply := r.Reply(context.Background(), "hello")
		assert.Equal(t, disclaimer, reply)
	})

	t.Run("too short continuation falls back to the disclaimer", func(t *testing.T) {
		gen := &fakeGenerator{completion: completionFor("short")}
		r := NewResponder(gen)

		reply := r.Reply(context.Background(), "hello")
		assert.Equal(t, disclaimer, reply)
	})

	t.Run("no completion from the endpoint falls back to the disclaimer", func(t *testing.T) {
		gen := &fakeGenerator{err: fmt.Errorf("%w: status 503", inference.ErrNoCompletion)}
		r := NewResponder(gen)

		reply := r.Reply(context.Background(), "hello")
		assert.Equal(t, disclaimer, reply)
	})
}

func TestResponderTopicSentences(t *testing.T) {
	gen := &fakeGenerator{completion: completionFor("Here is some generated guidance text.")}
	r := NewResponder(gen)

	t.Run("contract questions get the contract sentence", func(t *testing.T) {
		reply := r.Reply(context.Background(), "Can you review my Contract?")
		assert.True(t, strings.HasPrefix(reply, contractTopic))
	})

	t.Run("nda questions get the nda sentence", func(t *testing.T) {
		reply := r.Reply(context.Background(), "I need an NDA template")
		assert.True(t, strings.HasPrefix(reply, ndaTopic))
	})

	t.Run("non-disclosure spelling also matches", func(t *testing.T) {
		reply := r.Reply(context.Background(), "draft a non-disclosure agreement")
		assert.True(t, strings.HasPrefix(reply, ndaTopic))
	})

	t.Run("loan questions get the loan sentence", func(t *testing.T) {
		reply := r.Reply(context.Background(), "what goes into a loan agreement?")
		assert.True(t, strings.HasPrefix(reply, loanTopic))
	})

	t.Run("contract wins when several keywords match", func(t *testing.T) {
		reply := r.Reply(context.Background(), "contract with an nda clause and a loan")
		assert.True(t, strings.HasPrefix(reply, contractTopic))
		assert.NotContains(t, reply, ndaTopic)
	})

	t.Run("topic sentence applies even when only the disclaimer is available", func(t *testing.T) {
		failing := NewResponder(&fakeGenerator{err: fmt.Errorf("%w: empty", inference.ErrNoCompletion)})
		reply := failing.Reply(context.Background(), "I need an NDA")
		assert.Equal(t, ndaTopic+disclaimer, reply)
	})
}

func TestResponderNetworkFallback(t *testing.T) {
	r := NewResponder(&fakeGenerator{err: errors.New("dial tcp: connection refused")})

	t.Run("keyword questions get the matching canned body", func(t *testing.T) {
		reply := r.Reply(context.Background(), "help me with an NDA")
		assert.Equal(t, fallbackOpener+fallbackNDA+fallbackCloser, reply)
	})

	t.Run("legal keyword without a document type gets the general body", func(t *testing.T) {
		reply := r.Reply(context.Background(), "is this legal?")
		assert.Equal(t, fallbackOpener+fallbackLegal+fallbackCloser, reply)
	})

	t.Run("unrelated questions get the generic body", func(t *testing.T) {
		reply := r.Reply(context.Background(), "hello")
		assert.Equal(t, fallbackOpener+fallbackGeneric+fallbackCloser, reply)
	})

	t.Run("every fallback ends with the clarification closer", func(t *testing.T) {
		for _, msg := range []string{"hello", "contract", "nda", "loan", "law"} {
			assert.True(t, strings.HasSuffix(r.Reply(context.Background(), msg), fallbackCloser), msg)
		}
	})

	t.Run("success-path topic sentences never appear", func(t *testing.T) {
		reply := r.Reply(context.Background(), "contract question")
		assert.NotContains(t, reply, contractTopic)
	})
}
