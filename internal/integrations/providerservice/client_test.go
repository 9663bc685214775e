package providerservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/AppointmentService/internal/domain"
	"github.com/m04kA/AppointmentService/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, time.Second, logger.Nop())
}

func TestClient_GetProvider(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/internal/providers/3", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"id": 3,
			"name": "Sunrise Care",
			"status": "active",
			"opening_time": "09:00",
			"closing_time": "17:00",
			"operating_days": ["Mon", "Tue", "Wed", "Thu", "Fri"],
			"manager_ids": [100, 101]
		}`))
	})

	provider, err := client.GetProvider(context.Background(), 3)
	require.NoError(t, err)

	assert.True(t, provider.Status.IsBookable())
	assert.True(t, provider.IsManager(101))
	assert.False(t, provider.IsManager(7))

	profile, err := provider.Profile()
	require.NoError(t, err)
	assert.True(t, profile.IsOpenOn(time.Monday))
	assert.False(t, profile.IsOpenOn(time.Saturday))
}

func TestClient_GetProvider_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetProvider(context.Background(), 3)
	assert.ErrorIs(t, err, ErrProviderNotFound)
}

func TestClient_GetService(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/internal/providers/3/services/11", r.URL.Path)
		_, _ = w.Write([]byte(`{"id": 11, "provider_id": 3, "name": "Physio", "duration_minutes": 45}`))
	})

	service, err := client.GetService(context.Background(), 3, 11)
	require.NoError(t, err)
	assert.Equal(t, 45, service.DurationMinutes)
}

func TestClient_UnexpectedStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.GetService(context.Background(), 3, 11)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestProvider_Profile_UnknownDay(t *testing.T) {
	p := &Provider{
		Status:        domain.ProviderActive,
		OpeningTime:   "09:00",
		ClosingTime:   "17:00",
		OperatingDays: []string{"Mon", "Funday"},
	}

	_, err := p.Profile()
	assert.ErrorIs(t, err, ErrInvalidOperatingProfile)
}
