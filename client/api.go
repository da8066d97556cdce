// Package client implements the booking-side half of the slot availability
// protocol: a typed REST client for the public booking endpoints, the
// availability tracker that keeps an occupied-slot set fresh, and the
// submission flow that reconciles the local view against the server's
// authoritative accept/reject decision.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"stylebook/shared/constant"
	"strings"
	"time"
)

const defaultRequestTimeout = 10 * time.Second

// APIError is a non-2xx response from the booking API. The status code is
// the branch point for submission recovery: conflict and rate-limit
// rejections are handled differently from everything else.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return http.StatusText(e.Status)
}

// IsConflict reports whether err is the server rejecting a booking because
// the slot already has a live appointment.
func IsConflict(err error) bool {
	var apiErr *APIError

	return errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict
}

// IsRateLimited reports whether err is a booking rate-limit rejection.
func IsRateLimited(err error) bool {
	var apiErr *APIError

	return errors.As(err, &apiErr) && apiErr.Status == http.StatusTooManyRequests
}

// Service is the read-only projection of a bookable service.
type Service struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
	Description     string  `json:"description,omitempty"`
	Active          bool    `json:"active"`
}

// BookingIntent carries one submission attempt. It is built when the user
// submits and discarded once the request resolves.
type BookingIntent struct {
	ClientName    string
	ClientPhone   string
	ServiceID     string
	AppointmentAt time.Time
	Notes         string
}

// Confirmation is the server's acknowledgement of a created appointment.
type Confirmation struct {
	ID            string `json:"id"`
	ServiceID     string `json:"service_id"`
	AppointmentAt string `json:"appointment_at"`
	Status        string `json:"status"`
}

type createAppointmentRequest struct {
	ClientName    string `json:"client_name"`
	ClientPhone   string `json:"client_phone"`
	ServiceID     string `json:"service_id"`
	AppointmentAt string `json:"appointment_at"`
	Notes         string `json:"notes,omitempty"`
}

type occupiedAppointment struct {
	AppointmentAt string `json:"appointment_at"`
}

// API is a thin typed wrapper over the public booking endpoints.
type API struct {
	baseURL string
	client  *http.Client
}

func NewAPI(baseURL string, httpClient *http.Client) *API {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultRequestTimeout}
	}

	return &API{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
	}
}

// ListServices fetches the active services for the service selector.
func (a *API) ListServices(ctx context.Context) ([]Service, error) {
	services := []Service{}
	if err := a.do(ctx, http.MethodGet, "/public/services", nil, nil, &services); err != nil {
		return nil, err
	}

	return services, nil
}

// ListOccupied fetches the instants already booked for one (service, date)
// pair. The caller maps them onto the slot grid.
func (a *API) ListOccupied(ctx context.Context, serviceID, date string) ([]time.Time, error) {
	query := url.Values{}
	query.Set(constant.RequestParamServiceID, serviceID)
	query.Set(constant.RequestParamDate, date)

	rows := []occupiedAppointment{}
	if err := a.do(ctx, http.MethodGet, "/public/appointments/occupied", query, nil, &rows); err != nil {
		return nil, err
	}

	occupied := make([]time.Time, 0, len(rows))

	for _, row := range rows {
		at, err := time.Parse(constant.DateFormat, row.AppointmentAt)
		if err != nil {
			return nil, fmt.Errorf("malformed occupied instant %q: %w", row.AppointmentAt, err)
		}

		occupied = append(occupied, at)
	}

	return occupied, nil
}

// CreateAppointment submits a booking intent. The server is the sole
// arbiter of slot uniqueness; use IsConflict and IsRateLimited on the
// returned error to branch recovery.
func (a *API) CreateAppointment(ctx context.Context, intent BookingIntent) (Confirmation, error) {
	body := createAppointmentRequest{
		ClientName:    intent.ClientName,
		ClientPhone:   intent.ClientPhone,
		ServiceID:     intent.ServiceID,
		AppointmentAt: intent.AppointmentAt.UTC().Format(constant.DateFormat),
		Notes:         intent.Notes,
	}

	confirmation := Confirmation{}
	if err := a.do(ctx, http.MethodPost, "/public/appointments", nil, body, &confirmation); err != nil {
		return Confirmation{}, err
	}

	return confirmation, nil
}

func (a *API) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := a.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var payload io.Reader

	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}

		payload = bytes.NewReader(raw)
	}

	request, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	if body != nil {
		request.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	}

	resp, err := a.client.Do(request)
	if err != nil {
		return fmt.Errorf("booking api request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(raw)}
	}

	if out == nil {
		return nil
	}

	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}

	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("failed to decode response envelope: %w", err)
	}

	if envelope.Data == nil {
		return nil
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("failed to decode response payload: %w", err)
	}

	return nil
}

// errorMessage pulls the human-readable message out of an error envelope.
// Validation and failure responses use "error"; the rate limiter's default
// rejection uses "message".
func errorMessage(raw []byte) string {
	envelope := struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}{}

	_ = json.Unmarshal(raw, &envelope)

	if envelope.Error != "" {
		return envelope.Error
	}

	return envelope.Message
}
