package copywriter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClientSendsChatRequest(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  {\"ok\":true}  "}}]}`))
	}))
	defer server.Close()

	client := NewHTTPClient(HTTPConfig{BaseURL: server.URL + "/v1/", APIKey: "secret", Model: "test-model"})
	out, err := client.Complete(context.Background(), Request{System: "be brief", Prompt: "hello", JSON: true})
	require.NoError(t, err)
	require.Equal(t, `{"ok":true}`, out)

	require.Equal(t, "test-model", got.Model)
	require.Len(t, got.Messages, 2)
	require.Equal(t, "system", got.Messages[0].Role)
	require.Equal(t, "hello", got.Messages[1].Content)
	require.NotNil(t, got.ResponseFormat)
	require.Equal(t, "json_object", got.ResponseFormat.Type)
	require.InDelta(t, defaultTemperature, got.Temperature, 0.0001)
}

func TestHTTPClientErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "non-2xx", status: http.StatusBadGateway, body: `upstream down`},
		{name: "empty choices", status: http.StatusOK, body: `{"choices":[]}`, wantErr: ErrEmptyResponse},
		{name: "blank content", status: http.StatusOK, body: `{"choices":[{"message":{"content":"  "}}]}`, wantErr: ErrEmptyResponse},
		{name: "service error", status: http.StatusOK, body: `{"error":{"message":"quota"}}`},
		{name: "not json", status: http.StatusOK, body: `<html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewHTTPClient(HTTPConfig{BaseURL: server.URL, APIKey: "k"})
			_, err := client.Complete(context.Background(), Request{Prompt: "p"})
			require.Error(t, err)
			if tt.wantErr != nil {
				require.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			}
		})
	}
}

func TestHTTPClientTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewHTTPClient(HTTPConfig{BaseURL: server.URL, APIKey: "k", Timeout: 50 * time.Millisecond})
	_, err := client.Complete(context.Background(), Request{Prompt: "p"})
	require.Error(t, err)
}

func TestHTTPClientRequiresKey(t *testing.T) {
	client := NewHTTPClient(HTTPConfig{})
	_, err := client.Complete(context.Background(), Request{Prompt: "p"})
	require.Error(t, err)
}

func TestClientFunc(t *testing.T) {
	var client Client = ClientFunc(func(_ context.Context, req Request) (string, error) {
		return req.Prompt + "!", nil
	})
	out, err := client.Complete(context.Background(), Request{Prompt: "hi"})
	require.NoError(t, err)
	require.Equal(t, "hi!", out)
}
