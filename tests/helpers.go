package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/lithammer/shortuuid/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseURL = "http://localhost:8080"

type TicketResponse struct {
	TicketID     int64   `json:"ticketId"`
	PlateNumber  string  `json:"plateNumber"`
	CheckInTime  string  `json:"checkInTime"`
	CheckOutTime *string `json:"checkOutTime"`
	TotalPrice   *int64  `json:"totalPrice"`
	Status       string  `json:"status"`
	Currency     string  `json:"currency"`
}

type PreviewResponse struct {
	TicketID     int64  `json:"ticketId"`
	PlateNumber  string `json:"plateNumber"`
	CheckInTime  string `json:"checkInTime"`
	CheckOutTime string `json:"checkOutTime"`
	TotalPrice   int64  `json:"totalPrice"`
}

func checkIn(t *testing.T, plate string, wantStatus int) TicketResponse {
	t.Helper()

	var resp TicketResponse
	send(t, http.MethodPost, "/api/checkin", map[string]any{"plateNumber": plate}, wantStatus, &resp)
	return resp
}

func previewCheckOut(t *testing.T, plate string, wantStatus int) PreviewResponse {
	t.Helper()

	var resp PreviewResponse
	send(t, http.MethodPost, "/api/checkout/preview", map[string]any{"plateNumber": plate}, wantStatus, &resp)
	return resp
}

func confirmCheckOut(t *testing.T, ticketID int64, wantStatus int) TicketResponse {
	t.Helper()

	var resp TicketResponse
	send(t, http.MethodPost, "/api/checkout/confirm", map[string]any{"ticketId": ticketID}, wantStatus, &resp)
	return resp
}

func getTicket(t *testing.T, ticketID int64, wantStatus int) TicketResponse {
	t.Helper()

	var resp TicketResponse
	send(t, http.MethodGet, fmt.Sprintf("/api/tickets/%d", ticketID), nil, wantStatus, &resp)
	return resp
}

func send(t *testing.T, method, path string, body any, wantStatus int, out any) {
	t.Helper()

	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewBuffer(b)
	}

	httpReq, err := http.NewRequest(method, baseURL+path, payload)
	require.NoError(t, err)

	httpReq.Header.Set("Correlation-ID", shortuuid.New())
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(httpReq)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, wantStatus, resp.StatusCode, string(respBody))

	if resp.StatusCode >= 300 {
		assert.NotEmpty(t, resp.Header.Get("X-Error-Code"))
		return
	}
	require.NoError(t, json.Unmarshal(respBody, out))
}

func assertMetricReported(t *testing.T, metric string) {
	t.Helper()

	assert.EventuallyWithT(
		t,
		func(t *assert.CollectT) {
			resp, err := http.Get(baseURL + "/metrics")
			if !assert.NoError(t, err) {
				return
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			if !assert.NoError(t, err) {
				return
			}
			assert.Contains(t, string(body), metric)
		},
		10*time.Second,
		100*time.Millisecond,
	)
}

func waitForHttpServer(t *testing.T) {
	t.Helper()

	require.EventuallyWithT(
		t,
		func(t *assert.CollectT) {
			resp, err := http.Get(baseURL + "/health")
			if !assert.NoError(t, err) {
				return
			}
			defer resp.Body.Close()

			assert.Less(t, resp.StatusCode, 300, "API not ready, http status: %d", resp.StatusCode)
		},
		time.Second*10,
		time.Millisecond*50,
	)
}
