package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"vahan-rc-bot/internal/models"
)

// mockFetcher is a mock implementation for testing
type mockFetcher struct {
	calls     []string
	record    models.VehicleRecord
	returnErr error
}

func (m *mockFetcher) Fetch(ctx context.Context, plate string) (models.VehicleRecord, error) {
	m.calls = append(m.calls, plate)
	return m.record, m.returnErr
}

// Ensure mock implements the interface
var _ RecordFetcher = (*mockFetcher)(nil)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "Uppercases and trims", raw: "  mh12ab1234 \n", want: "MH12AB1234"},
		{name: "Exactly five characters", raw: "ab123", want: "AB123"},
		{name: "Too short", raw: "ab12", want: "AB12", wantErr: true},
		{name: "Whitespace padding does not count", raw: "   abc   ", want: "ABC", wantErr: true},
		{name: "Empty", raw: "", want: "", wantErr: true},
		{name: "Multibyte runes counted once", raw: "éééé", want: "ÉÉÉÉ", wantErr: true},
		{name: "Inner spaces kept", raw: "mh 12 ab", want: "MH 12 AB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw)
			if got != tt.want {
				t.Errorf("Normalize() = %q, want %q", got, tt.want)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("Normalize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidPlate) {
				t.Errorf("Normalize() error = %v, want ErrInvalidPlate", err)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	found := models.NewVehicleRecord("MH12AB1234")
	found.Set(models.LabelOwnerName, "RAVI KUMAR")

	tests := []struct {
		name        string
		fetcher     *mockFetcher
		wantOutcome Outcome
		wantFields  int
		wantErr     bool
	}{
		{
			name:        "Record found",
			fetcher:     &mockFetcher{record: found},
			wantOutcome: OutcomeFound,
			wantFields:  1,
		},
		{
			name:        "Empty record is not found",
			fetcher:     &mockFetcher{record: models.NewVehicleRecord("MH12AB1234")},
			wantOutcome: OutcomeNotFound,
		},
		{
			name:        "Fetch error is unavailable",
			fetcher:     &mockFetcher{returnErr: fmt.Errorf("boom")},
			wantOutcome: OutcomeUnavailable,
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewLookupService(tt.fetcher)
			res := svc.Lookup(context.Background(), "MH12AB1234")

			if res.Outcome != tt.wantOutcome {
				t.Errorf("Lookup() outcome = %v, want %v", res.Outcome, tt.wantOutcome)
			}
			if len(res.Record.Fields) != tt.wantFields {
				t.Errorf("Lookup() fields = %d, want %d", len(res.Record.Fields), tt.wantFields)
			}
			if (res.Err != nil) != tt.wantErr {
				t.Errorf("Lookup() err = %v, wantErr %v", res.Err, tt.wantErr)
			}
			if res.Plate != "MH12AB1234" {
				t.Errorf("Lookup() plate = %q", res.Plate)
			}
			if len(tt.fetcher.calls) != 1 || tt.fetcher.calls[0] != "MH12AB1234" {
				t.Errorf("Fetch calls = %v, want exactly one for MH12AB1234", tt.fetcher.calls)
			}
		})
	}
}

func TestOutcomeString(t *testing.T) {
	tests := map[Outcome]string{
		OutcomeFound:       "found",
		OutcomeNotFound:    "not_found",
		OutcomeUnavailable: "unavailable",
		Outcome(42):        "unknown",
	}
	for o, want := range tests {
		if got := o.String(); got != want {
			t.Errorf("Outcome(%d).String() = %q, want %q", int(o), got, want)
		}
	}
}
