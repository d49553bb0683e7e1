package webhook_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peerline/peerline/internal/adapter/driven/notify/webhook"
	"github.com/peerline/peerline/internal/core/domain"
)

func TestNotifier_PostsInvite(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := webhook.NewNotifier(srv.URL, time.Second)
	recipient := domain.NewUserID()

	err := n.Notify(context.Background(), recipient, domain.CallInvite{
		RoomID:     "call-1",
		CallerName: "Alice",
	})
	require.NoError(t, err)

	assert.Equal(t, recipient.String(), got["recipient"])
	assert.Equal(t, "call-1", got["room_id"])
	assert.Equal(t, "Alice", got["caller_name"])
}

func TestNotifier_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	n := webhook.NewNotifier(srv.URL, time.Second)
	err := n.Notify(context.Background(), domain.NewUserID(), domain.CallInvite{RoomID: "call-1"})
	assert.Error(t, err)
}

func TestNotifier_Unreachable(t *testing.T) {
	n := webhook.NewNotifier("http://127.0.0.1:1", 100*time.Millisecond)
	err := n.Notify(context.Background(), domain.NewUserID(), domain.CallInvite{RoomID: "call-1"})
	assert.Error(t, err)
}
