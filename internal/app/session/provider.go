/*
Package session contains the session layer built on top of the external identity provider.

This file implements the Store interface against a GoTrue-compatible HTTP API
(password grant sign-in, sign-up with initial metadata, sign-out, and user
fetch/update). One Provider instance holds the credential for exactly one
browser session.
*/
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"lexdraft/internal/app/user"
	"lexdraft/internal/pkg/errs"
	"lexdraft/internal/pkg/logx"
)

const providerRequestTimeout = 15 * time.Second

// Provider is the HTTP-backed Store implementation. It keeps the provider access
// token for its session and fans change notifications out to subscribers in
// emission order.
type Provider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	// tokenMu protects accessToken.
	tokenMu     sync.RWMutex
	accessToken string

	// subMu protects the subscriber map; emitMu serializes emissions so every
	// event is fully delivered before the next one starts.
	subMu       sync.RWMutex
	emitMu      sync.Mutex
	subscribers map[int]func(*Session)
	nextSubID   int
}

// NewProvider constructs a Provider talking to the identity API at baseURL.
func NewProvider(baseURL, apiKey string) *Provider {
	return &Provider{
		baseURL:     baseURL,
		apiKey:      apiKey,
		httpClient:  &http.Client{Timeout: providerRequestTimeout},
		subscribers: make(map[int]func(*Session)),
	}
}

// providerUser mirrors the provider's wire representation of an account.
type providerUser struct {
	ID       string        `json:"id"`
	Email    string        `json:"email"`
	Metadata user.Metadata `json:"user_metadata"`
}

func (p providerUser) toUser() *user.User {
	return &user.User{
		ID:       p.ID,
		Email:    p.Email,
		Metadata: p.Metadata.Clone(),
	}
}

// tokenResponse is the provider's response to sign-in and sign-up calls.
type tokenResponse struct {
	AccessToken string        `json:"access_token"`
	User        *providerUser `json:"user"`
}

// providerError is the provider's error body; which field carries the text
// varies by endpoint.
type providerError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
}

func (e providerError) text() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.ErrorDescription != "" {
		return e.ErrorDescription
	}
	return e.Error
}

// OnSessionChange registers fn on the change stream and returns its unsubscribe function.
func (p *Provider) OnSessionChange(fn func(*Session)) func() {
	p.subMu.Lock()
	id := p.nextSubID
	p.nextSubID++
	p.subscribers[id] = fn
	p.subMu.Unlock()

	return func() {
		p.subMu.Lock()
		delete(p.subscribers, id)
		p.subMu.Unlock()
	}
}

// emit delivers a session snapshot to every subscriber. emitMu guarantees that
// concurrent emissions are serialized, so subscribers observe events in order.
func (p *Provider) emit(session *Session) {
	p.emitMu.Lock()
	defer p.emitMu.Unlock()

	p.subMu.RLock()
	subs := make([]func(*Session), 0, len(p.subscribers))
	for _, fn := range p.subscribers {
		subs = append(subs, fn)
	}
	p.subMu.RUnlock()

	for _, fn := range subs {
		fn(session)
	}
}

func (p *Provider) token() string {
	p.tokenMu.RLock()
	defer p.tokenMu.RUnlock()
	return p.accessToken
}

func (p *Provider) setToken(token string) {
	p.tokenMu.Lock()
	p.accessToken = token
	p.tokenMu.Unlock()
}

// doJSON performs a provider request with the standard headers and decodes a
// 2xx response into out (when out is non-nil). Non-2xx responses are returned
// as a providerError alongside the status code.
func (p *Provider) doJSON(ctx context.Context, method, path string, body any, out any) (int, *providerError, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build provider request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("apikey", p.apiKey)
	}
	if token := p.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := p.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("provider request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := &providerError{}
		if decodeErr := json.NewDecoder(res.Body).Decode(apiErr); decodeErr != nil {
			apiErr.Error = res.Status
		}
		return res.StatusCode, apiErr, nil
	}

	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return res.StatusCode, nil, fmt.Errorf("failed to decode provider response: %w", err)
		}
	}

	return res.StatusCode, nil, nil
}

// GetCurrentSession fetches the account behind the held token. Without a token
// the session is simply empty.
func (p *Provider) GetCurrentSession(ctx context.Context) (*Session, error) {
	if p.token() == "" {
		return &Session{}, nil
	}

	var account providerUser
	status, apiErr, err := p.doJSON(ctx, http.MethodGet, "/user", nil, &account)
	if err != nil {
		return nil, err
	}
	if apiErr != nil {
		if status == http.StatusUnauthorized || status == http.StatusForbidden {
			// The token went stale; drop it so the session reads as signed out.
			p.setToken("")
			return &Session{}, nil
		}
		return nil, fmt.Errorf("provider rejected session fetch: %s", apiErr.text())
	}

	return &Session{User: account.toUser()}, nil
}

// SignIn exchanges credentials for an access token and emits the new session.
func (p *Provider) SignIn(ctx context.Context, email, password string) error {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var tokens tokenResponse
	status, apiErr, err := p.doJSON(ctx, http.MethodPost, "/token?grant_type=password", body, &tokens)
	if err != nil {
		return err
	}
	if apiErr != nil {
		logx.Warn("Sign-in rejected by identity provider", "status", status, "reason", apiErr.text())
		return errs.NewError(errs.ErrInvalidCredentials)
	}

	p.setToken(tokens.AccessToken)

	session := &Session{}
	if tokens.User != nil {
		session.User = tokens.User.toUser()
	}
	p.emit(session)

	return nil
}

// SignUp creates an account with the given initial metadata. When the provider
// auto-confirms the account it returns a usable token, in which case the new
// session is emitted immediately.
func (p *Provider) SignUp(ctx context.Context, email, password string, metadata user.Metadata) error {
	body := map[string]any{
		"email":    email,
		"password": password,
		"data":     metadata,
	}

	var tokens tokenResponse
	status, apiErr, err := p.doJSON(ctx, http.MethodPost, "/signup", body, &tokens)
	if err != nil {
		return err
	}
	if apiErr != nil {
		logx.Warn("Sign-up rejected by identity provider", "status", status, "reason", apiErr.text())
		if status == http.StatusUnprocessableEntity || status == http.StatusConflict || status == http.StatusBadRequest {
			return errs.NewError(errs.ErrEmailAlreadyRegistered)
		}
		return errs.NewError(errs.ErrUnknown)
	}

	if tokens.AccessToken != "" {
		p.setToken(tokens.AccessToken)

		session := &Session{}
		if tokens.User != nil {
			session.User = tokens.User.toUser()
		}
		p.emit(session)
	}

	return nil
}

// SignOut revokes the provider session. The local credential is cleared and the
// empty session emitted even when the revocation call fails, so the client is
// never stuck signed in.
func (p *Provider) SignOut(ctx context.Context) error {
	var revokeErr error
	if p.token() != "" {
		_, apiErr, err := p.doJSON(ctx, http.MethodPost, "/logout", nil, nil)
		if err != nil {
			revokeErr = err
		} else if apiErr != nil {
			logx.Warn("Sign-out revocation rejected by identity provider", "reason", apiErr.text())
		}
	}

	p.setToken("")
	p.emit(&Session{})

	return revokeErr
}

// UpdateUserMetadata replaces the metadata bag on the provider and emits the
// refreshed session.
func (p *Provider) UpdateUserMetadata(ctx context.Context, metadata user.Metadata) error {
	if p.token() == "" {
		return errs.NewError(errs.ErrUnauthorized)
	}

	body := map[string]any{
		"data": metadata,
	}

	var account providerUser
	status, apiErr, err := p.doJSON(ctx, http.MethodPut, "/user", body, &account)
	if err != nil {
		return err
	}
	if apiErr != nil {
		logx.Warn("Metadata update rejected by identity provider", "status", status, "reason", apiErr.text())
		return errs.NewError(errs.ErrProfileUpdateFailed)
	}

	p.emit(&Session{User: account.toUser()})

	return nil
}
