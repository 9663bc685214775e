package userservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/AppointmentService/pkg/logger"
)

func TestClient_GetFamilyMember(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{
			name:   "member of patient",
			status: http.StatusOK,
			body:   `{"id": 5, "user_id": 7, "first_name": "Anna"}`,
		},
		{
			name:    "member of another account",
			status:  http.StatusOK,
			body:    `{"id": 5, "user_id": 8, "first_name": "Anna"}`,
			wantErr: ErrFamilyMemberNotFound,
		},
		{
			name:    "not found",
			status:  http.StatusNotFound,
			wantErr: ErrFamilyMemberNotFound,
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			wantErr: ErrInvalidResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/internal/users/7/family-members/5", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, time.Second, logger.Nop())
			member, err := client.GetFamilyMember(context.Background(), 7, 5)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Anna", member.FirstName)
		})
	}
}
