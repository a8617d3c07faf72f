package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientGenerate(t *testing.T) {
	t.Run("returns the first candidate", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

			var body generateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "the prompt", body.Inputs)
			assert.Equal(t, 150, body.Parameters.MaxLength)
			assert.InDelta(t, 0.7, body.Parameters.Temperature, 1e-9)
			assert.True(t, body.Parameters.DoSample)
			assert.InDelta(t, 0.9, body.Parameters.TopP, 1e-9)

			json.NewEncoder(w).Encode([]generateCandidate{
				{GeneratedText: "first"},
				{GeneratedText: "second"},
			})
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "test-token")
		text, err := c.Generate(context.Background(), "the prompt")
		require.NoError(t, err)
		assert.Equal(t, "first", text)
	})

	t.Run("no authorization header without a token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode([]generateCandidate{{GeneratedText: "ok then"}})
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "")
		_, err := c.Generate(context.Background(), "p")
		require.NoError(t, err)
	})

	t.Run("non-2xx status reports no completion", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "")
		_, err := c.Generate(context.Background(), "p")
		assert.ErrorIs(t, err, ErrNoCompletion)
	})

	t.Run("unexpected body shape reports no completion", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error":"loading"}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "")
		_, err := c.Generate(context.Background(), "p")
		assert.ErrorIs(t, err, ErrNoCompletion)
	})

	t.Run("empty candidate list reports no completion", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "")
		_, err := c.Generate(context.Background(), "p")
		assert.ErrorIs(t, err, ErrNoCompletion)
	})

	t.Run("transport failure is not ErrNoCompletion", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		c := NewClient(srv.URL, "")
		_, err := c.Generate(context.Background(), "p")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNoCompletion)
	})
}
