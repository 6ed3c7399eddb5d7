package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"vahan-rc-bot/internal/models"
	"vahan-rc-bot/internal/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// mockLookupService is a mock implementation for testing
type mockLookupService struct {
	lookupCalled bool
	lastPlate    string
	result       services.Result
}

func (m *mockLookupService) Lookup(ctx context.Context, plate string) services.Result {
	m.lookupCalled = true
	m.lastPlate = plate
	res := m.result
	res.Plate = plate
	return res
}

// Ensure mock implements the interface
var _ services.VehicleLookup = (*mockLookupService)(nil)

func TestHandleLookup(t *testing.T) {
	found := models.NewVehicleRecord("MH12AB1234")
	found.Set(models.LabelOwnerName, "RAVI KUMAR")

	tests := []struct {
		name           string
		method         string
		target         string
		result         services.Result
		wantStatusCode int
		wantCalled     bool
		wantPlate      string
		wantOutcome    string
		wantFields     int
	}{
		{
			name:           "Found",
			method:         http.MethodGet,
			target:         "/api/lookup?plate=mh12ab1234",
			result:         services.Result{Outcome: services.OutcomeFound, Record: found},
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
			wantPlate:      "MH12AB1234",
			wantOutcome:    "found",
			wantFields:     1,
		},
		{
			name:           "Not found",
			method:         http.MethodGet,
			target:         "/api/lookup?plate=KA01AA0001",
			result:         services.Result{Outcome: services.OutcomeNotFound},
			wantStatusCode: http.StatusNotFound,
			wantCalled:     true,
			wantPlate:      "KA01AA0001",
			wantOutcome:    "not_found",
		},
		{
			name:           "Registry unavailable",
			method:         http.MethodGet,
			target:         "/api/lookup?plate=KA01AA0001",
			result:         services.Result{Outcome: services.OutcomeUnavailable, Err: errors.New("timeout")},
			wantStatusCode: http.StatusBadGateway,
			wantCalled:     true,
			wantPlate:      "KA01AA0001",
			wantOutcome:    "unavailable",
		},
		{
			name:           "Plate too short",
			method:         http.MethodGet,
			target:         "/api/lookup?plate=ab1",
			wantStatusCode: http.StatusBadRequest,
			wantCalled:     false,
			wantPlate:      "AB1",
		},
		{
			name:           "Invalid method - POST",
			method:         http.MethodPost,
			target:         "/api/lookup?plate=MH12AB1234",
			wantStatusCode: http.StatusMethodNotAllowed,
			wantCalled:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &mockLookupService{result: tt.result}
			handler := NewLookupHandler(mockService)

			req := httptest.NewRequest(tt.method, tt.target, nil)
			rr := httptest.NewRecorder()

			handler.HandleLookup(rr, req)

			if rr.Code != tt.wantStatusCode {
				t.Errorf("HandleLookup() status = %v, want %v", rr.Code, tt.wantStatusCode)
			}
			if mockService.lookupCalled != tt.wantCalled {
				t.Errorf("Lookup called = %v, want %v", mockService.lookupCalled, tt.wantCalled)
			}
			if tt.wantCalled && mockService.lastPlate != tt.wantPlate {
				t.Errorf("Lookup plate = %q, want %q", mockService.lastPlate, tt.wantPlate)
			}
			if tt.method != http.MethodGet {
				return
			}

			var body LookupResponse
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("Failed to decode body: %v", err)
			}
			if body.Plate != tt.wantPlate {
				t.Errorf("body.Plate = %q, want %q", body.Plate, tt.wantPlate)
			}
			if body.Outcome != tt.wantOutcome {
				t.Errorf("body.Outcome = %q, want %q", body.Outcome, tt.wantOutcome)
			}
			if len(body.Fields) != tt.wantFields {
				t.Errorf("len(body.Fields) = %d, want %d", len(body.Fields), tt.wantFields)
			}
		})
	}
}

func TestHandleHealth(t *testing.T) {
	rr := httptest.NewRecorder()
	HandleHealth(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("HandleHealth() status = %v, want %v", rr.Code, http.StatusOK)
	}
	if rr.Body.String() != "OK" {
		t.Errorf("HandleHealth() body = %q, want OK", rr.Body.String())
	}
}

type mockSink struct {
	pushed    []tgbotapi.Update
	returnErr error
}

func (m *mockSink) Push(ctx context.Context, update tgbotapi.Update) error {
	if m.returnErr != nil {
		return m.returnErr
	}
	m.pushed = append(m.pushed, update)
	return nil
}

func TestWebhookHandler(t *testing.T) {
	valid, err := json.Marshal(tgbotapi.Update{
		UpdateID: 7,
		Message: &tgbotapi.Message{
			MessageID: 1,
			Chat:      &tgbotapi.Chat{ID: 42},
			Text:      "MH12AB1234",
		},
	})
	if err != nil {
		t.Fatalf("Failed to marshal update: %v", err)
	}

	tests := []struct {
		name           string
		method         string
		body           []byte
		sinkErr        error
		wantStatusCode int
		wantPushed     int
	}{
		{"Valid update", http.MethodPost, valid, nil, http.StatusOK, 1},
		{"Invalid method - GET", http.MethodGet, nil, nil, http.StatusMethodNotAllowed, 0},
		{"Invalid JSON body", http.MethodPost, []byte("invalid json"), nil, http.StatusBadRequest, 0},
		{"Sink refuses", http.MethodPost, valid, context.Canceled, http.StatusServiceUnavailable, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &mockSink{returnErr: tt.sinkErr}
			handler := NewWebhookHandler(&tgbotapi.BotAPI{}, sink)

			req := httptest.NewRequest(tt.method, "/telegram/webhook", bytes.NewReader(tt.body))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatusCode {
				t.Errorf("ServeHTTP() status = %v, want %v", rr.Code, tt.wantStatusCode)
			}
			if len(sink.pushed) != tt.wantPushed {
				t.Errorf("pushed = %d, want %d", len(sink.pushed), tt.wantPushed)
			}
			if tt.wantPushed > 0 && sink.pushed[0].UpdateID != 7 {
				t.Errorf("UpdateID = %d, want 7", sink.pushed[0].UpdateID)
			}
		})
	}
}
