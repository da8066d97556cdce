package client

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

func TestAPIListServices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/public/services", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":"svc-1","name":"Haircut","price":150000,"duration_minutes":30,"active":true}]}`))
	}))
	defer server.Close()

	api := NewAPI(server.URL, nil)

	services, err := api.ListServices(context.Background())
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, "svc-1", services[0].ID)
	assert.Equal(t, "Haircut", services[0].Name)
	assert.Equal(t, 30, services[0].DurationMinutes)
}

func TestAPIListOccupied(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/public/appointments/occupied", r.URL.Path)
		assert.Equal(t, "svc-1", r.URL.Query().Get("service_id"))
		assert.Equal(t, "2025-06-10", r.URL.Query().Get("date"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"appointment_at":"2025-06-10T09:00:00Z"},{"appointment_at":"2025-06-10T09:30:00Z"}]}`))
	}))
	defer server.Close()

	api := NewAPI(server.URL, nil)

	occupied, err := api.ListOccupied(context.Background(), "svc-1", "2025-06-10")
	require.NoError(t, err)
	require.Len(t, occupied, 2)
	assert.True(t, time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC).Equal(occupied[0]))
}

func TestAPIListOccupiedMalformedInstant(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"appointment_at":"not-a-time"}]}`))
	}))
	defer server.Close()

	api := NewAPI(server.URL, nil)

	_, err := api.ListOccupied(context.Background(), "svc-1", "2025-06-10")
	require.Error(t, err)
}

func TestAPICreateAppointment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/public/appointments", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body := map[string]any{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Jane Doe", body["client_name"])
		assert.Equal(t, "2025-06-10T10:00:00Z", body["appointment_at"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"appt-1","service_id":"svc-1","appointment_at":"2025-06-10T10:00:00Z","status":"PENDING"}}`))
	}))
	defer server.Close()

	api := NewAPI(server.URL, nil)

	confirmation, err := api.CreateAppointment(context.Background(), BookingIntent{
		ClientName:    "Jane Doe",
		ClientPhone:   "+1 555 123 4567",
		ServiceID:     "svc-1",
		AppointmentAt: time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "appt-1", confirmation.ID)
	assert.Equal(t, "PENDING", confirmation.Status)
}

func TestAPICreateAppointmentConflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"that time slot has just been booked, please pick another one"}`))
	}))
	defer server.Close()

	api := NewAPI(server.URL, nil)

	_, err := api.CreateAppointment(context.Background(), BookingIntent{ServiceID: "svc-1"})
	require.Error(t, err)
	assert.True(t, IsConflict(err))
	assert.False(t, IsRateLimited(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Contains(t, apiErr.Message, "pick another one")
}

func TestAPICreateAppointmentRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"message":"Request limit exceeded"}`))
	}))
	defer server.Close()

	api := NewAPI(server.URL, nil)

	_, err := api.CreateAppointment(context.Background(), BookingIntent{ServiceID: "svc-1"})
	require.Error(t, err)
	assert.True(t, IsRateLimited(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Request limit exceeded", apiErr.Message)
}

func TestAPIErrorWithoutMessage(t *testing.T) {
	err := &APIError{Status: http.StatusInternalServerError}
	assert.Equal(t, "Internal Server Error", err.Error())
}

func TestIsConflictOnUnrelatedError(t *testing.T) {
	assert.False(t, IsConflict(errors.New("boom")))
	assert.False(t, IsRateLimited(nil))
}
