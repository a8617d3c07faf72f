/*
Package session contains the session layer built on top of the external identity provider.

This file defines the Session snapshot and the Store interface, the boundary through
which the rest of the application talks to the provider. The concrete HTTP-backed
implementation lives in provider.go; tests substitute their own Store.
*/
package session

import (
	"context"

	"lexdraft/internal/app/user"
)

// Session is the ephemeral snapshot of "who is signed in" derived from the identity
// provider. A nil User means no authenticated account. Snapshots are replaced
// wholesale on every change notification, never mutated in place.
type Session struct {
	User *user.User
}

// Store is the boundary to the external identity provider. All operations are
// asynchronous network calls; state mutations surface exclusively through the
// change notification stream, in emission order.
type Store interface {
	// GetCurrentSession fetches the current session. An absent or expired
	// credential yields an empty session, not an error.
	GetCurrentSession(ctx context.Context) (*Session, error)

	// OnSessionChange registers a callback invoked for every session change, in
	// emission order. The returned function removes the subscription.
	OnSessionChange(fn func(*Session)) (unsubscribe func())

	// SignIn verifies credentials with the provider. Bad credentials yield a
	// typed error; success is announced through the change stream.
	SignIn(ctx context.Context, email, password string) error

	// SignUp creates a new account with the given initial metadata. A duplicate
	// email yields a typed error.
	SignUp(ctx context.Context, email, password string, metadata user.Metadata) error

	// SignOut revokes the provider session and announces the empty session
	// through the change stream.
	SignOut(ctx context.Context) error

	// UpdateUserMetadata replaces the account's metadata bag with the given
	// (already merged) value and announces the refreshed session.
	UpdateUserMetadata(ctx context.Context, metadata user.Metadata) error
}
