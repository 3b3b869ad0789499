package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrevoProvider_Send(t *testing.T) {
	var got brevoSendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	p := NewBrevoProvider("test-key", "hello@example.com", "Give My Menu")
	p.endpoint = srv.URL

	err := p.Send(context.Background(), "new@example.com", "Hi", "<p>hi</p>")
	require.NoError(t, err)
	assert.Equal(t, "hello@example.com", got.Sender.Email)
	assert.Equal(t, "Give My Menu", got.Sender.Name)
	require.Len(t, got.To, 1)
	assert.Equal(t, "new@example.com", got.To[0].Email)
	assert.Equal(t, "<p>hi</p>", got.HTML)
}

func TestBrevoProvider_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"unauthorized"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := NewBrevoProvider("bad", "hello@example.com", "")
	p.endpoint = srv.URL

	err := p.Send(context.Background(), "new@example.com", "Hi", "<p>hi</p>")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 401")
	assert.True(t, IsPermanent(err))
}

func TestBrevoProvider_RetryableStatuses(t *testing.T) {
	for _, status := range []int{http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			}))
			defer srv.Close()

			p := NewBrevoProvider("key", "hello@example.com", "")
			p.endpoint = srv.URL

			err := p.Send(context.Background(), "new@example.com", "Hi", "<p>hi</p>")
			require.Error(t, err)
			assert.False(t, IsPermanent(err))
		})
	}
}
