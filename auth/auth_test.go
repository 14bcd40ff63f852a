package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIsCachedAndSetOnRequests(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"token123","token_type":"bearer","expires_in":3600}`))
	}))
	defer server.Close()

	conf := &Conf{ClientID: "id", ClientSecret: "secret", TokenURL: server.URL}
	require.True(t, conf.Enabled())
	client := NewClientCred(*conf)

	tok, err := client.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token123", tok.AccessToken)

	req := httptest.NewRequest(http.MethodPost, "http://solver/solve", nil)
	require.NoError(t, client.SetAuthHeader(req))
	assert.Equal(t, "Bearer token123", req.Header.Get("Authorization"))
	assert.Equal(t, 1, calls)
}

func TestTokenEndpointFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := NewClientCred(Conf{ClientID: "id", TokenURL: server.URL}).Token(context.Background())
	assert.Error(t, err)
	var nilConf *Conf
	assert.False(t, nilConf.Enabled())
}
