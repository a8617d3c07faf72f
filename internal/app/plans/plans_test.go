package plans

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexdraft/internal/app/session"
	"lexdraft/internal/app/user"
	"lexdraft/internal/pkg/errs"
)

// stubStore keeps one session in memory and applies metadata updates to it.
type stubStore struct {
	current *session.Session
}

func (s *stubStore) GetCurrentSession(ctx context.Context) (*session.Session, error) {
	return s.current, nil
}

func (s *stubStore) OnSessionChange(fn func(*session.Session)) func() {
	return func() {}
}

func (s *stubStore) SignIn(ctx context.Context, email, password string) error { return nil }
func (s *stubStore) SignOut(ctx context.Context) error                        { return nil }

func (s *stubStore) SignUp(ctx context.Context, email, password string, metadata user.Metadata) error {
	return nil
}

func (s *stubStore) UpdateUserMetadata(ctx context.Context, metadata user.Metadata) error {
	if s.current != nil && s.current.User != nil {
		cloned := s.current.User.Clone()
		cloned.Metadata = metadata.Clone()
		s.current = &session.Session{User: &cloned}
	}
	return nil
}

func managerOnPlan(t *testing.T, planName string) *session.Manager {
	t.Helper()

	store := &stubStore{current: &session.Session{User: &user.User{
		ID:    "u-1",
		Email: "u@example.com",
		Metadata: user.Metadata{
			PlanName: user.String(planName),
			Tokens:   user.Int(1),
		},
	}}}

	m := session.NewManager(store)
	m.Initialize(context.Background())
	return m
}

func TestCatalog(t *testing.T) {
	catalog := Catalog()
	require.Len(t, catalog, 3)

	assert.Equal(t, Plan{
		Name:     "Free",
		PriceUSD: 0,
		Tokens:   2,
		Features: catalog[0].Features,
	}, catalog[0])

	assert.Equal(t, "Professional", catalog[1].Name)
	assert.Equal(t, 29, catalog[1].PriceUSD)
	assert.Equal(t, 20, catalog[1].Tokens)
	assert.True(t, catalog[1].Highlighted)

	assert.Equal(t, "Enterprise", catalog[2].Name)
	assert.Equal(t, 49, catalog[2].PriceUSD)
	assert.Equal(t, 999, catalog[2].Tokens)
}

func TestByName(t *testing.T) {
	p, ok := ByName("Professional")
	require.True(t, ok)
	assert.Equal(t, 20, p.Tokens)

	_, ok = ByName("Platinum")
	assert.False(t, ok)
}

func TestSelect(t *testing.T) {
	t.Run("switching plans updates plan and token allotment", func(t *testing.T) {
		m := managerOnPlan(t, "Free")

		require.NoError(t, Select(context.Background(), m, "Professional"))

		u := m.CurrentUser()
		require.NotNil(t, u)
		assert.Equal(t, "Professional", u.PlanNameOrDefault())
		assert.Equal(t, 20, u.TokenBalance())
	})

	t.Run("unknown plan is rejected", func(t *testing.T) {
		m := managerOnPlan(t, "Free")

		err := Select(context.Background(), m, "Platinum")
		require.Error(t, err)
		assert.True(t, errs.IsCode(err, errs.ErrPlanUnknown))
	})

	t.Run("reselecting the current plan is rejected", func(t *testing.T) {
		m := managerOnPlan(t, "Professional")

		err := Select(context.Background(), m, "Professional")
		require.Error(t, err)
		assert.True(t, errs.IsCode(err, errs.ErrPlanAlreadyCurrent))
	})

	t.Run("unset plan counts as Free", func(t *testing.T) {
		store := &stubStore{current: &session.Session{User: &user.User{ID: "u-1"}}}
		m := session.NewManager(store)
		m.Initialize(context.Background())

		err := Select(context.Background(), m, "Free")
		require.Error(t, err)
		assert.True(t, errs.IsCode(err, errs.ErrPlanAlreadyCurrent))
	})

	t.Run("signed out selection is rejected", func(t *testing.T) {
		m := session.NewManager(&stubStore{})
		m.Initialize(context.Background())

		err := Select(context.Background(), m, "Professional")
		require.Error(t, err)
		assert.True(t, errs.IsCode(err, errs.ErrUnauthorized))
	})
}
