package notificationservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/AppointmentService/pkg/logger"
)

func TestClient_Send(t *testing.T) {
	received := make(chan Notification, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/internal/notifications", r.URL.Path)

		var n Notification
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&n))
		received <- n
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, logger.Nop())
	err := client.Send(context.Background(), Notification{
		Event:      EventBookingCreated,
		ProviderID: 3,
		BookingIDs: []int64{1, 2},
	})

	require.NoError(t, err)
	n := <-received
	assert.Equal(t, EventBookingCreated, n.Event)
	assert.Equal(t, []int64{1, 2}, n.BookingIDs)
}

func TestClient_Send_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, logger.Nop())
	err := client.Send(context.Background(), Notification{Event: EventBookingCancelled})

	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestClient_Send_Disabled(t *testing.T) {
	client := NewClient("", time.Second, logger.Nop())
	assert.NoError(t, client.Send(context.Background(), Notification{}))
}
