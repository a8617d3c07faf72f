package pow

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// solve brute-forces a counter whose hash meets the difficulty.
func solve(nonce string, difficulty int) string {
	prefix := strings.Repeat("0", difficulty)
	for i := 0; ; i++ {
		counter := fmt.Sprintf("%d", i)
		hash := sha256.Sum256([]byte(nonce + counter))
		if strings.HasPrefix(hex.EncodeToString(hash[:]), prefix) {
			return counter
		}
	}
}

func TestManagerEnabled(t *testing.T) {
	assert.False(t, NewManager(0).Enabled())
	assert.True(t, NewManager(2).Enabled())
	assert.Equal(t, 2, NewManager(2).Difficulty())
}

func TestValidateProof(t *testing.T) {
	t.Run("valid proof yields a usable token", func(t *testing.T) {
		m := NewManager(1)
		nonce := m.GenerateNonce()

		token, err := m.ValidateProof(nonce, solve(nonce, 1))
		require.NoError(t, err)
		require.NotEmpty(t, token)

		r := httptest.NewRequest("POST", "/signup", nil)
		r.Header.Set(TokenHeaderKey, token)
		assert.True(t, m.CheckProofToken(r))
	})

	t.Run("wrong counter is rejected", func(t *testing.T) {
		m := NewManager(4)
		nonce := m.GenerateNonce()

		_, err := m.ValidateProof(nonce, "not-a-solution")
		assert.Error(t, err)
	})

	t.Run("unknown nonce is rejected", func(t *testing.T) {
		m := NewManager(1)
		_, err := m.ValidateProof("made-up-nonce", "0")
		assert.Error(t, err)
	})

	t.Run("nonce is single use", func(t *testing.T) {
		m := NewManager(1)
		nonce := m.GenerateNonce()
		counter := solve(nonce, 1)

		_, err := m.ValidateProof(nonce, counter)
		require.NoError(t, err)

		_, err = m.ValidateProof(nonce, counter)
		assert.Error(t, err)
	})

	t.Run("missing token fails the check", func(t *testing.T) {
		m := NewManager(1)
		r := httptest.NewRequest("POST", "/signup", nil)
		assert.False(t, m.CheckProofToken(r))
	})

	t.Run("token may ride in the query string", func(t *testing.T) {
		m := NewManager(1)
		nonce := m.GenerateNonce()
		token, err := m.ValidateProof(nonce, solve(nonce, 1))
		require.NoError(t, err)

		r := httptest.NewRequest("POST", "/signup?pow_token="+token, nil)
		assert.True(t, m.CheckProofToken(r))
	})
}
