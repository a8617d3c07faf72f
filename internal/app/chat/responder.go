package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"lexdraft/internal/app/inference"
	"lexdraft/internal/pkg/logx"
)

// Generator produces a raw continuation for a prompt. *inference.Client is the
// production implementation.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const (
	// promptTemplate frames the user's message for the generation endpoint.
	promptTemplate = `Legal Assistant: I am Alice, a legal AI assistant. User asks: "%s". I respond with helpful legal guidance:`

	// continuationMarker separates the prompt echo from the generated reply in
	// the endpoint's output.
	continuationMarker = "I respond with helpful legal guidance:"

	// minUsableRunes is the shortest extracted continuation worth showing.
	minUsableRunes = 10

	// maxReplyRunes caps the displayed reply length; longer continuations are
	// truncated with an ellipsis.
	maxReplyRunes = 300
)

// disclaimer is the generic reply body used when the endpoint answered but
// produced nothing usable.
const disclaimer = "I'm here to help with legal questions. However, please note that I provide general information only and this doesn't constitute legal advice."

// Topic sentences prepended to a generated reply when the user's message
// mentions a known document type. Checked in order; the first match wins.
const (
	contractTopic = "Regarding contracts: A contract is a legally binding agreement between parties. Key elements include offer, acceptance, consideration, and mutual consent. For specific contract review or drafting, I recommend consulting with a qualified attorney. "
	ndaTopic      = "NDAs (Non-Disclosure Agreements) protect confidential information. They typically include definitions of confidential information, obligations of receiving party, and duration of confidentiality. "
	loanTopic     = "Loan agreements should specify loan amount, interest rate, repayment terms, and consequences of default. Both parties should understand all terms before signing. "
)

// Canned reply bodies for when the network path to the endpoint fails
// entirely. Keyword-matched in the same first-match-wins order.
const (
	fallbackOpener   = "I understand you're asking about legal matters. "
	fallbackContract = "For contracts, ensure all parties understand the terms, obligations, and consequences. Key elements include clear offer, acceptance, consideration, and legal capacity of parties. Always have important contracts reviewed by a legal professional."
	fallbackNDA      = "NDAs are crucial for protecting confidential information. They should clearly define what constitutes confidential information, duration of confidentiality, and permitted uses. Consider having an attorney draft or review your NDA."
	fallbackLoan     = "Loan agreements should specify the principal amount, interest rate, payment schedule, and default consequences. Ensure compliance with applicable lending laws and consider legal review for significant amounts."
	fallbackLegal    = "Legal matters can be complex and vary by jurisdiction. While I can provide general information, specific legal advice should come from a qualified attorney familiar with your local laws and circumstances."
	fallbackGeneric  = "I can help with general legal information about contracts, NDAs, loan agreements, and other legal documents. However, for specific legal advice tailored to your situation, please consult with a qualified attorney."
	fallbackCloser   = " Is there a specific aspect of this topic you'd like me to explain further?"
)

// Responder turns a user message into the assistant's reply text.
type Responder struct {
	generator Generator
	logger    zerolog.Logger
}

// NewResponder constructs a Responder backed by the given generator.
func NewResponder(generator Generator) *Responder {
	return &Responder{
		generator: generator,
		logger:    logx.Logger().With().Str("component", "ChatResponder").Logger(),
	}
}

// Reply computes the assistant's reply for the user's message.
//
// The generation endpoint is consulted first. If the call completes, the reply
// is the extracted continuation (or the generic disclaimer when nothing usable
// came back) with a topic sentence prepended when the message names a known
// document type. If the network path fails outright, a canned keyword-matched
// body plus a clarification closer is used instead; the visitor always gets an
// answer.
func (r *Responder) Reply(ctx context.Context, userText string) string {
	completion, err := r.generator.Generate(ctx, fmt.Sprintf(promptTemplate, userText))
	if err != nil && !errors.Is(err, inference.ErrNoCompletion) {
		r.logger.Warn().Err(err).Msg("Generation endpoint unreachable, using fallback reply.")
		return fallbackReply(userText)
	}

	body := disclaimer
	if err == nil {
		if extracted := extractContinuation(completion); extracted != "" {
			body = truncateReply(extracted)
		}
	}

	return topicSentence(userText) + body
}

// extractContinuation pulls the generated reply out of the endpoint's output,
// which echoes the prompt back. Returns "" when nothing usable follows the
// marker.
func extractContinuation(completion string) string {
	_, after, found := strings.Cut(completion, continuationMarker)
	if !found {
		return ""
	}

	reply := strings.TrimSpace(after)
	if len([]rune(reply)) <= minUsableRunes {
		return ""
	}
	return reply
}

func truncateReply(reply string) string {
	runes := []rune(reply)
	if len(runes) <= maxReplyRunes {
		return reply
	}
	return string(runes[:maxReplyRunes]) + "..."
}

// topicSentence returns the sentence to prepend for the first document type
// the message mentions, or "" when none match.
func topicSentence(userText string) string {
	lower := strings.ToLower(userText)

	switch {
	case strings.Contains(lower, "contract"):
		return contractTopic
	case strings.Contains(lower, "nda") || strings.Contains(lower, "non-disclosure"):
		return ndaTopic
	case strings.Contains(lower, "loan"):
		return loanTopic
	default:
		return ""
	}
}

// fallbackReply builds the canned reply used when the endpoint cannot be
// reached at all.
func fallbackReply(userText string) string {
	lower := strings.ToLower(userText)

	var body string
	switch {
	case strings.Contains(lower, "contract"):
		body = fallbackContract
	case strings.Contains(lower, "nda") || strings.Contains(lower, "non-disclosure"):
		body = fallbackNDA
	case strings.Contains(lower, "loan"):
		body = fallbackLoan
	case strings.Contains(lower, "law") || strings.Contains(lower, "legal"):
		body = fallbackLegal
	default:
		body = fallbackGeneric
	}

	return fallbackOpener + body + fallbackCloser
}
