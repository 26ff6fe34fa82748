package handlers

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

type sampleBody struct {
	LotID string `json:"lotId" validate:"required"`
	Hours int    `json:"hours" validate:"min=1,max=168"`
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"valid", `{"lotId":"lot-1","hours":2}`, nil},
		{"empty body", ``, ErrEmptyBody},
		{"missing lot", `{"hours":2}`, ErrValidation},
		{"hours too large", `{"lotId":"lot-1","hours":200}`, ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))
			var body sampleBody
			err := DecodeAndValidate(r, &body)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecodeJSON_UnknownField(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"lotId":"x","extra":1}`))
	var body sampleBody
	assert.Error(t, DecodeJSON(r, &body))
}

func TestParseStatusQuery(t *testing.T) {
	status, err := ParseStatusQuery(httptest.NewRequest("GET", "/?status=extended", nil))
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, domain.StatusExtended, *status)

	status, err = ParseStatusQuery(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Nil(t, status)

	_, err = ParseStatusQuery(httptest.NewRequest("GET", "/?status=pending", nil))
	assert.Error(t, err)
}

func TestOperationResult(t *testing.T) {
	assert.Equal(t, "ok", OperationResult(nil))
	assert.Equal(t, "slot_unavailable", OperationResult(fmt.Errorf("%w: taken", domain.ErrSlotUnavailable)))
	assert.Equal(t, "already_terminal", OperationResult(domain.ErrAlreadyTerminal))
	assert.Equal(t, "error", OperationResult(errors.New("boom")))
}

func TestRespondError(t *testing.T) {
	w := httptest.NewRecorder()
	RespondConflict(w, "место занято")

	assert.Equal(t, 409, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"code":409,"message":"место занято"}`, w.Body.String())
}
