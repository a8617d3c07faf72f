package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lexdraft/internal/app/user"
)

func TestDecide(t *testing.T) {
	signedIn := &user.User{ID: "u-1", Email: "a@b.co"}

	tests := []struct {
		name    string
		loading bool
		user    *user.User
		want    Outcome
	}{
		{"loading with no user shows placeholder", true, nil, RenderLoading},
		{"loading wins even with a user present", true, signedIn, RenderLoading},
		{"settled and signed out redirects", false, nil, RedirectToAuth},
		{"settled and signed in renders", false, signedIn, RenderChildren},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.loading, tt.user))
		})
	}
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "render_children", RenderChildren.String())
	assert.Equal(t, "render_loading", RenderLoading.String())
	assert.Equal(t, "redirect_to_auth", RedirectToAuth.String())
}
