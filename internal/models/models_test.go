package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVehicleRecordSet(t *testing.T) {
	r := NewVehicleRecord("MH12AB1234")
	require.True(t, r.Empty())

	r.Set(LabelOwnerName, "RAVI KUMAR")
	r.Set(LabelFuelType, "")
	r.Set(LabelModelName, "SWIFT DZIRE")
	r.Set(LabelOwnerName, "R KUMAR")

	require.False(t, r.Empty())
	require.Len(t, r.Fields, 2)

	owner, ok := r.Get(LabelOwnerName)
	require.True(t, ok)
	require.Equal(t, "R KUMAR", owner)

	_, ok = r.Get(LabelFuelType)
	require.False(t, ok)

	require.Equal(t, map[string]string{
		LabelOwnerName: "R KUMAR",
		LabelModelName: "SWIFT DZIRE",
	}, r.Map())
}

func TestVehicleRecordKeepsInsertionOrder(t *testing.T) {
	r := NewVehicleRecord("KA01AA0001")
	r.Set(LabelRegisteredRTO, "BANGALORE")
	r.Set(LabelOwnerName, "ASHA")

	require.Equal(t, []Field{
		{Label: LabelRegisteredRTO, Value: "BANGALORE"},
		{Label: LabelOwnerName, Value: "ASHA"},
	}, r.Fields)
}
