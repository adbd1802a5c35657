package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Brettk80/new2025/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCreateRecipient(t *testing.T) {
	api := newTestAPI(t)
	id := uuid.New()
	api.fake.on(http.MethodPost, "/rest/v1/fax_recipients", http.StatusCreated, fmt.Sprintf(
		`[{"id":%q,"user_id":%q,"fax_number":"+15551234567","to_header":null,"created_at":%q,"updated_at":%q}]`,
		id, api.userID, ts, ts))

	w := api.do(api.authed(jsonRequest(http.MethodPost, "/api/v1/recipients", `{"fax_number":"+1 (555) 123-4567"}`)))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var got models.FaxRecipient
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, id, got.ID)

	var sent models.FaxRecipientInsert
	require.NoError(t, json.Unmarshal(api.fake.requestsTo(http.MethodPost, "/rest/v1/fax_recipients")[0].body, &sent))
	assert.Equal(t, api.userID, sent.UserID)
	assert.Equal(t, "+15551234567", sent.FaxNumber)
}

func TestCreateRecipientInvalidNumber(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(api.authed(jsonRequest(http.MethodPost, "/api/v1/recipients", `{"fax_number":"call me"}`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, api.fake.requestsTo(http.MethodPost, "/rest/v1/fax_recipients"))
}

func TestDeleteRecipientNotFound(t *testing.T) {
	api := newTestAPI(t)
	api.fake.on(http.MethodDelete, "/rest/v1/fax_recipients", http.StatusOK, `[]`)

	w := api.do(api.authed(httptest.NewRequest(http.MethodDelete, "/api/v1/recipients/"+uuid.NewString(), nil)))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListRecipientsPlatformFailure(t *testing.T) {
	api := newTestAPI(t)
	api.fake.on(http.MethodGet, "/rest/v1/fax_recipients", http.StatusInternalServerError,
		`{"code":"XX000","message":"database unavailable"}`)

	w := api.do(api.authed(httptest.NewRequest(http.MethodGet, "/api/v1/recipients", nil)))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "An error occurred", resp.Error)
	assert.Contains(t, resp.Message, "database unavailable")
}

func TestPlatformErrorCodesMapToStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   int
	}{
		{name: "unique violation", status: http.StatusConflict, body: `{"code":"23505","message":"duplicate key value"}`, want: http.StatusConflict},
		{name: "row level security", status: http.StatusForbidden, body: `{"code":"42501","message":"new row violates row-level security policy"}`, want: http.StatusForbidden},
		{name: "check violation", status: http.StatusBadRequest, body: `{"code":"23514","message":"violates check constraint"}`, want: http.StatusBadRequest},
		{name: "unknown", status: http.StatusServiceUnavailable, body: `{"code":"XX000","message":"internal"}`, want: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)
			api.fake.on(http.MethodPost, "/rest/v1/fax_recipients", tt.status, tt.body)

			w := api.do(api.authed(jsonRequest(http.MethodPost, "/api/v1/recipients", `{"fax_number":"+15551234567"}`)))

			assert.Equal(t, tt.want, w.Code, w.Body.String())
			var resp models.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "An error occurred", resp.Error)
		})
	}
}

func TestBlockNumberRejectsUnknownSource(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(api.authed(jsonRequest(http.MethodPost, "/api/v1/block-list", `{"fax_number":"5551234567","source":"rumour"}`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, api.fake.requestsTo(http.MethodPost, "/rest/v1/block_lists"))
}

func TestBlockNumber(t *testing.T) {
	api := newTestAPI(t)
	api.fake.on(http.MethodPost, "/rest/v1/block_lists", http.StatusCreated, fmt.Sprintf(
		`[{"id":%q,"user_id":%q,"fax_number":"5551234567","reason":"asked","source":"opt_out","created_at":%q}]`,
		uuid.New(), api.userID, ts))

	w := api.do(api.authed(jsonRequest(http.MethodPost, "/api/v1/block-list",
		`{"fax_number":"555-123-4567","reason":"asked","source":"opt_out"}`)))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var sent models.BlockListEntryInsert
	require.NoError(t, json.Unmarshal(api.fake.requestsTo(http.MethodPost, "/rest/v1/block_lists")[0].body, &sent))
	assert.Equal(t, models.BlockSourceOptOut, sent.Source)
	assert.Equal(t, "5551234567", sent.FaxNumber)
}
