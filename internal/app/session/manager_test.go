package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexdraft/internal/app/user"
	"lexdraft/internal/pkg/errs"
)

// fakeStore is an in-memory Store with a controllable change stream.
type fakeStore struct {
	mu         sync.Mutex
	current    *Session
	fetchErr   error
	updateErr  error
	subscriber func(*Session)

	updatedMetadata *user.Metadata
	unsubscribed    bool
}

func (f *fakeStore) GetCurrentSession(ctx context.Context) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.current, nil
}

func (f *fakeStore) OnSessionChange(fn func(*Session)) func() {
	f.mu.Lock()
	f.subscriber = fn
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		f.unsubscribed = true
		f.mu.Unlock()
	}
}

func (f *fakeStore) emit(session *Session) {
	f.mu.Lock()
	f.current = session
	fn := f.subscriber
	f.mu.Unlock()
	if fn != nil {
		fn(session)
	}
}

func (f *fakeStore) SignIn(ctx context.Context, email, password string) error { return nil }
func (f *fakeStore) SignOut(ctx context.Context) error                        { return nil }
func (f *fakeStore) SignUp(ctx context.Context, email, password string, metadata user.Metadata) error {
	return nil
}

func (f *fakeStore) UpdateUserMetadata(ctx context.Context, metadata user.Metadata) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updatedMetadata = &metadata
	if f.current != nil && f.current.User != nil {
		cloned := f.current.User.Clone()
		cloned.Metadata = metadata.Clone()
		f.current = &Session{User: &cloned}
	}
	return nil
}

func signedInSession(id string, tokens int) *Session {
	return &Session{User: &user.User{
		ID:    id,
		Email: id + "@example.com",
		Metadata: user.Metadata{
			FullName: user.String("Test User"),
			PlanName: user.String("Free"),
			Tokens:   user.Int(tokens),
		},
	}}
}

func TestManagerInitialize(t *testing.T) {
	t.Run("settles to the fetched session", func(t *testing.T) {
		store := &fakeStore{current: signedInSession("u-1", 2)}
		m := NewManager(store)
		m.Initialize(context.Background())

		assert.False(t, m.Loading())
		require.NotNil(t, m.CurrentUser())
		assert.Equal(t, "u-1", m.CurrentUser().ID)
	})

	t.Run("fetch failure settles as signed out", func(t *testing.T) {
		store := &fakeStore{fetchErr: errors.New("provider down")}
		m := NewManager(store)
		m.Initialize(context.Background())

		assert.False(t, m.Loading())
		assert.Nil(t, m.CurrentUser())
	})

	t.Run("second Initialize panics", func(t *testing.T) {
		m := NewManager(&fakeStore{})
		m.Initialize(context.Background())
		assert.Panics(t, func() { m.Initialize(context.Background()) })
	})

	t.Run("use before Initialize panics", func(t *testing.T) {
		m := NewManager(&fakeStore{})
		assert.Panics(t, func() { m.CurrentUser() })
		assert.Panics(t, func() { m.Loading() })
	})
}

func TestManagerChangeStream(t *testing.T) {
	t.Run("events apply in order, last write wins", func(t *testing.T) {
		store := &fakeStore{}
		m := NewManager(store)
		m.Initialize(context.Background())

		store.emit(signedInSession("u-1", 2))
		store.emit(nil)
		store.emit(signedInSession("u-2", 5))

		require.NotNil(t, m.CurrentUser())
		assert.Equal(t, "u-2", m.CurrentUser().ID)
	})

	t.Run("empty session clears the user", func(t *testing.T) {
		store := &fakeStore{current: signedInSession("u-1", 2)}
		m := NewManager(store)
		m.Initialize(context.Background())

		store.emit(&Session{})
		assert.Nil(t, m.CurrentUser())
	})

	t.Run("CurrentUser returns an independent copy", func(t *testing.T) {
		store := &fakeStore{current: signedInSession("u-1", 2)}
		m := NewManager(store)
		m.Initialize(context.Background())

		u := m.CurrentUser()
		*u.Metadata.Tokens = 99

		assert.Equal(t, 2, m.CurrentUser().TokenBalance())
	})
}

func TestManagerUpdateUser(t *testing.T) {
	t.Run("patch merges into existing metadata", func(t *testing.T) {
		store := &fakeStore{current: signedInSession("u-1", 2)}
		m := NewManager(store)
		m.Initialize(context.Background())

		err := m.UpdateUser(context.Background(), user.MetadataPatch{
			Bio: user.String("contract enthusiast"),
		})
		require.NoError(t, err)

		// The store received the full merged bag, not just the patch.
		require.NotNil(t, store.updatedMetadata)
		assert.Equal(t, "Test User", *store.updatedMetadata.FullName)
		assert.Equal(t, "contract enthusiast", *store.updatedMetadata.Bio)
		assert.Equal(t, 2, *store.updatedMetadata.Tokens)

		// Local state refreshed from the provider.
		require.NotNil(t, m.CurrentUser().Metadata.Bio)
		assert.Equal(t, "contract enthusiast", *m.CurrentUser().Metadata.Bio)
	})

	t.Run("provider failure leaves local state unchanged", func(t *testing.T) {
		store := &fakeStore{current: signedInSession("u-1", 2)}
		m := NewManager(store)
		m.Initialize(context.Background())

		before := m.CurrentUser()

		store.updateErr = errs.NewError(errs.ErrProfileUpdateFailed)
		err := m.UpdateUser(context.Background(), user.MetadataPatch{Bio: user.String("x")})

		require.Error(t, err)
		assert.True(t, errs.IsCode(err, errs.ErrProfileUpdateFailed))
		assert.Equal(t, before, m.CurrentUser())
	})

	t.Run("signed out update is rejected", func(t *testing.T) {
		store := &fakeStore{}
		m := NewManager(store)
		m.Initialize(context.Background())

		err := m.UpdateUser(context.Background(), user.MetadataPatch{Bio: user.String("x")})
		require.Error(t, err)
		assert.True(t, errs.IsCode(err, errs.ErrUnauthorized))
	})
}

func TestManagerShutdown(t *testing.T) {
	store := &fakeStore{}
	m := NewManager(store)
	m.Initialize(context.Background())
	m.Shutdown()

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.True(t, store.unsubscribed)
}

func TestRegistry(t *testing.T) {
	newStore := func() Store { return &fakeStore{current: signedInSession("u-1", 2)} }

	t.Run("open then get returns the same manager", func(t *testing.T) {
		r := NewRegistry(newStore)
		defer r.Shutdown()

		id, m, err := r.Open(context.Background())
		require.NoError(t, err)
		assert.Same(t, m, r.Get(id))
	})

	t.Run("unknown id returns nil", func(t *testing.T) {
		r := NewRegistry(newStore)
		defer r.Shutdown()

		assert.Nil(t, r.Get("no-such-session"))
	})

	t.Run("close removes the session", func(t *testing.T) {
		r := NewRegistry(newStore)
		defer r.Shutdown()

		id, _, err := r.Open(context.Background())
		require.NoError(t, err)
		r.Close(id)
		assert.Nil(t, r.Get(id))
	})
}
