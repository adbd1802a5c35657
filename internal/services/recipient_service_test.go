package services_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/Brettk80/new2025/internal/models"
	"github.com/Brettk80/new2025/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFaxNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "+1 (555) 123-4567", want: "+15551234567"},
		{in: "555.123.4567", want: "5551234567"},
		{in: "  +44 20 7946 0958 ", want: "+442079460958"},
		{in: "12345", wantErr: true},
		{in: "555-CALL-NOW", wantErr: true},
		{in: "1+5551234567", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := services.NormalizeFaxNumber(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, services.ErrInvalidFaxNumber)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecipientService_CreateNormalizes(t *testing.T) {
	fake, client, _ := newProject(t)
	userID := uuid.New()
	fake.on(http.MethodPost, "/rest/v1/fax_recipients", http.StatusCreated,
		"["+recipientJSON(uuid.New(), userID, "+15551234567")+"]")

	header := "Accounts Payable"
	got, err := services.NewRecipientService().Create(client, userID, "+1 (555) 123-4567", &header)
	require.NoError(t, err)
	assert.Equal(t, "+15551234567", got.FaxNumber)

	var sent models.FaxRecipientInsert
	require.NoError(t, json.Unmarshal(fake.callsTo(http.MethodPost, "/rest/v1/fax_recipients")[0].body, &sent))
	assert.Equal(t, "+15551234567", sent.FaxNumber)
	require.NotNil(t, sent.ToHeader)
	assert.Equal(t, header, *sent.ToHeader)
}

func TestRecipientService_CreateRejectsBadNumber(t *testing.T) {
	fake, client, _ := newProject(t)

	_, err := services.NewRecipientService().Create(client, uuid.New(), "not a number", nil)
	require.ErrorIs(t, err, services.ErrInvalidFaxNumber)
	assert.Empty(t, fake.calls)
}

func TestRecipientService_DeleteMissing(t *testing.T) {
	fake, client, _ := newProject(t)
	fake.on(http.MethodDelete, "/rest/v1/fax_recipients", http.StatusOK, `[]`)

	err := services.NewRecipientService().Delete(client, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestRecipientService_BlockDefaultsToManual(t *testing.T) {
	fake, client, _ := newProject(t)
	userID := uuid.New()
	fake.on(http.MethodPost, "/rest/v1/block_lists", http.StatusCreated, fmt.Sprintf(
		`[{"id":%q,"user_id":%q,"fax_number":"+15551234567","reason":null,"source":"manual","created_at":%q}]`,
		uuid.New(), userID, ts))

	entry, err := services.NewRecipientService().Block(client, userID, "555-123-4567 ", nil, "")
	require.NoError(t, err)
	assert.Equal(t, models.BlockSourceManual, entry.Source)

	var sent models.BlockListEntryInsert
	require.NoError(t, json.Unmarshal(fake.callsTo(http.MethodPost, "/rest/v1/block_lists")[0].body, &sent))
	assert.Equal(t, models.BlockSourceManual, sent.Source)
	assert.Equal(t, "5551234567", sent.FaxNumber)
}
