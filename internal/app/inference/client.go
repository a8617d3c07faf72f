/*
Package inference provides the client for the external text-generation endpoint.

The endpoint accepts a prompt plus sampling parameters and returns candidate
continuations. Anything that is not a well-formed 2xx response with a usable
continuation is reported as ErrNoCompletion; callers are expected to have their
own fallback and never treat that as fatal.
*/
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrNoCompletion indicates the endpoint answered but produced no usable
// continuation (non-2xx status, unexpected body shape, or an empty result).
// Transport-level failures are returned as plain errors instead, so callers can
// tell "the call completed without a completion" from "the network path failed".
var ErrNoCompletion = errors.New("inference: no usable completion")

// Sampling parameters sent with every generation request.
const (
	maxLength   = 150
	temperature = 0.7
	topP        = 0.9
)

// Client calls the text-generation endpoint.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// NewClient constructs a Client for the given endpoint. The bearer token is
// optional. No request timeout is imposed here; cancellation is the caller's
// context's business, and a reply that resolves late is still delivered.
func NewClient(endpoint, token string) *Client {
	return &Client{
		endpoint:   endpoint,
		token:      token,
		httpClient: &http.Client{},
	}
}

// generateRequest is the endpoint's request body.
type generateRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters generateParameters `json:"parameters"`
}

type generateParameters struct {
	MaxLength   int     `json:"max_length"`
	Temperature float64 `json:"temperature"`
	DoSample    bool    `json:"do_sample"`
	TopP        float64 `json:"top_p"`
}

// generateCandidate is one element of the endpoint's response array.
type generateCandidate struct {
	GeneratedText string `json:"generated_text"`
}

// Generate submits the prompt and returns the first candidate's generated text.
// Every failure mode collapses into an error wrapping ErrNoCompletion.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Inputs: prompt,
		Parameters: generateParameters{
			MaxLength:   maxLength,
			Temperature: temperature,
			DoSample:    true,
			TopP:        topP,
		},
	})
	if err != nil {
		return "", fmt.Errorf("inference: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("inference: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("inference: request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", fmt.Errorf("%w: endpoint returned status %d", ErrNoCompletion, res.StatusCode)
	}

	var candidates []generateCandidate
	if err := json.NewDecoder(res.Body).Decode(&candidates); err != nil {
		return "", fmt.Errorf("%w: unexpected response shape: %v", ErrNoCompletion, err)
	}

	if len(candidates) == 0 || candidates[0].GeneratedText == "" {
		return "", fmt.Errorf("%w: empty candidate list", ErrNoCompletion)
	}

	return candidates[0].GeneratedText, nil
}
