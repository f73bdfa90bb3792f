package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_PostReturnsJSONBody(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"queued"}`))
	}))
	defer srv.Close()

	c := NewClient(time.Second)
	out, err := c.Post(context.Background(), srv.URL, map[string]any{"sessionId": "s1", "phone": nil})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"queued"}`, string(out))
	assert.Equal(t, "s1", received["sessionId"])
	assert.Contains(t, received, "phone")
	assert.Nil(t, received["phone"])
}

func TestClient_PostNonJSONBodyBecomesEmptyObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Workflow was started"))
	}))
	defer srv.Close()

	out, err := NewClient(time.Second).Post(context.Background(), srv.URL, struct{}{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(out))
}

func TestClient_PostErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(time.Second).Post(context.Background(), srv.URL, struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
