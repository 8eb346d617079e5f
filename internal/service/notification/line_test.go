package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineClientPush(t *testing.T) {
	var got pushRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/message/push", r.URL.Path)
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewLineClient("token-1", srv.URL+"/")
	err := client.Push(context.Background(), "U123", []Message{{Type: "text", Text: "hello"}})

	require.NoError(t, err)
	assert.Equal(t, "U123", got.To)
	assert.Equal(t, []Message{{Type: "text", Text: "hello"}}, got.Messages)
}

func TestLineClientPushAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"message":"rate limit"}`))
	}))
	defer srv.Close()

	err := NewLineClient("token-1", srv.URL).Push(context.Background(), "U123", nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "rate limit")
}

func TestLineClientDisabledWithoutToken(t *testing.T) {
	client := NewLineClient("", "")
	assert.False(t, client.Enabled())
	assert.ErrorIs(t, client.Push(context.Background(), "U123", nil), ErrLineDisabled)

	_, err := client.IsFriend(context.Background(), "U123")
	assert.ErrorIs(t, err, ErrLineDisabled)
}

func TestLineClientIsFriend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/profile/Ufriend" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewLineClient("token-1", srv.URL)

	ok, err := client.IsFriend(context.Background(), "Ufriend")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.IsFriend(context.Background(), "Ustranger")
	require.NoError(t, err)
	assert.False(t, ok)
}
