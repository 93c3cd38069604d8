package healthtracker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRecordWarningPostsPayload(t *testing.T) {
	var received Warning
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/warnings", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, zap.NewNop())
	tenant := uint(3)
	err := client.RecordWarning(context.Background(), Warning{
		Route:             "/api/tasks/:id",
		Method:            http.MethodGet,
		WarnType:          WarnTypeMissingTenantID,
		ActorUserID:       7,
		EffectiveTenantID: &tenant,
		ResourceID:        "123",
		Notes:             "task:123 has legacy null tenantId",
	})
	require.NoError(t, err)

	assert.Equal(t, "/api/tasks/:id", received.Route)
	assert.Equal(t, WarnTypeMissingTenantID, received.WarnType)
	assert.Equal(t, uint(7), received.ActorUserID)
	require.NotNil(t, received.EffectiveTenantID)
	assert.Equal(t, uint(3), *received.EffectiveTenantID)
}

func TestRecordWarningSurfacesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(ErrorResponse{Error: "unavailable", Message: "try later"})
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, zap.NewNop())
	err := client.RecordWarning(context.Background(), Warning{WarnType: WarnTypeMismatch})
	assert.Error(t, err)
}

func TestRecordWarningUnreachableTracker(t *testing.T) {
	// Port 0 is never routable
	client := NewClient("http://127.0.0.1:0", time.Second, zap.NewNop())
	err := client.RecordWarning(context.Background(), Warning{WarnType: WarnTypeMismatch})
	assert.Error(t, err)
}
