// Package services implements business logic for the application
package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"vahan-rc-bot/internal/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// MinPlateLength is the shortest input accepted as a plate
const MinPlateLength = 5

var tracer = otel.Tracer("vahanbot/services")

// ErrInvalidPlate is returned for inputs that cannot be a registration number
var ErrInvalidPlate = errors.New("invalid vehicle number")

// RecordFetcher defines the interface for retrieving a vehicle record
type RecordFetcher interface {
	Fetch(ctx context.Context, plate string) (models.VehicleRecord, error)
}

// VehicleLookup defines the interface used by the frontends
type VehicleLookup interface {
	Lookup(ctx context.Context, plate string) Result
}

// Outcome classifies the result of a lookup
type Outcome int

const (
	// OutcomeFound means at least one field was extracted
	OutcomeFound Outcome = iota
	// OutcomeNotFound means the registry answered but no known field was present
	OutcomeNotFound
	// OutcomeUnavailable means the registry could not be reached or refused the request
	OutcomeUnavailable
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeUnavailable:
		return "unavailable"
	}
	return "unknown"
}

// Result is the outcome of one lookup
type Result struct {
	Plate   string
	Outcome Outcome
	Record  models.VehicleRecord
	Err     error
}

// Normalize uppercases and trims raw user input. It returns ErrInvalidPlate
// when the result is shorter than MinPlateLength.
func Normalize(raw string) (string, error) {
	plate := strings.ToUpper(strings.TrimSpace(raw))
	if utf8.RuneCountInString(plate) < MinPlateLength {
		return plate, ErrInvalidPlate
	}
	return plate, nil
}

// LookupService resolves plates into vehicle records
type LookupService struct {
	fetcher RecordFetcher
}

// NewLookupService creates a new lookup service
func NewLookupService(fetcher RecordFetcher) *LookupService {
	return &LookupService{fetcher: fetcher}
}

// Lookup fetches the record for an already normalized plate
func (s *LookupService) Lookup(ctx context.Context, plate string) Result {
	ctx, span := tracer.Start(ctx, "services:Lookup")
	defer span.End()

	record, err := s.fetcher.Fetch(ctx, plate)
	if err != nil {
		slog.WarnContext(ctx, "lookup failed", "plate", plate, "err", err)
		span.RecordError(err)
		span.SetAttributes(attribute.String("outcome", OutcomeUnavailable.String()))
		return Result{Plate: plate, Outcome: OutcomeUnavailable, Err: err}
	}

	if record.Empty() {
		slog.InfoContext(ctx, "no record found", "plate", plate)
		span.SetAttributes(attribute.String("outcome", OutcomeNotFound.String()))
		return Result{Plate: plate, Outcome: OutcomeNotFound, Record: record}
	}

	slog.InfoContext(ctx, "record found", "plate", plate, "fields", len(record.Fields))
	span.SetAttributes(attribute.String("outcome", OutcomeFound.String()))
	return Result{Plate: plate, Outcome: OutcomeFound, Record: record}
}
