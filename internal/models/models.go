// Package models contains data structures for the application
package models

// Labels the registry page uses for the fields we extract, in display order.
const (
	LabelOwnerName        = "Owner Name"
	LabelFatherName       = "Father's Name"
	LabelModelName        = "Model Name"
	LabelVehicleClass     = "Vehicle Class"
	LabelFuelType         = "Fuel Type"
	LabelRegistrationDate = "Registration Date"
	LabelInsuranceCompany = "Insurance Company"
	LabelInsuranceExpiry  = "Insurance Expiry"
	LabelFitnessUpto      = "Fitness Upto"
	LabelPUCUpto          = "PUC Upto"
	LabelRegisteredRTO    = "Registered RTO"
)

// KnownLabels is the fixed, ordered set of fields looked up on every scrape.
var KnownLabels = []string{
	LabelOwnerName,
	LabelFatherName,
	LabelModelName,
	LabelVehicleClass,
	LabelFuelType,
	LabelRegistrationDate,
	LabelInsuranceCompany,
	LabelInsuranceExpiry,
	LabelFitnessUpto,
	LabelPUCUpto,
	LabelRegisteredRTO,
}

// Field is a single label/value pair extracted from the registry page
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// VehicleRecord holds the fields found for one plate during one request.
// It is never persisted.
type VehicleRecord struct {
	Plate  string  `json:"plate"`
	Fields []Field `json:"fields"`
}

// NewVehicleRecord creates an empty record for a plate
func NewVehicleRecord(plate string) VehicleRecord {
	return VehicleRecord{Plate: plate, Fields: []Field{}}
}

// Set appends a field. Empty values are dropped so that absent and empty look the same.
func (r *VehicleRecord) Set(label, value string) {
	if value == "" {
		return
	}
	for i := range r.Fields {
		if r.Fields[i].Label == label {
			r.Fields[i].Value = value
			return
		}
	}
	r.Fields = append(r.Fields, Field{Label: label, Value: value})
}

// Get returns the value stored for a label
func (r VehicleRecord) Get(label string) (string, bool) {
	for _, f := range r.Fields {
		if f.Label == label {
			return f.Value, true
		}
	}
	return "", false
}

// Empty reports whether no field was matched
func (r VehicleRecord) Empty() bool {
	return len(r.Fields) == 0
}

// Map returns the fields keyed by label
func (r VehicleRecord) Map() map[string]string {
	m := make(map[string]string, len(r.Fields))
	for _, f := range r.Fields {
		m[f.Label] = f.Value
	}
	return m
}
