package domain

import (
	"testing"
	"time"

	"github.com/daniil11ru/availability/cli/availability/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLatLon(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected LatLon
		wantErr  bool
	}{
		{name: "Valid", input: "38.711046,-9.160096", expected: LatLon{Latitude: 38.711046, Longitude: -9.160096}},
		{name: "Spaces", input: " 1.5 , 2.5 ", expected: LatLon{Latitude: 1.5, Longitude: 2.5}},
		{name: "Single value", input: "38.7", wantErr: true},
		{name: "Not a number", input: "north,-9.1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLatLon(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSampleFallback(t *testing.T) {
	originalNow := now
	now = func() time.Time { return time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC) }
	defer func() { now = originalNow }()

	f, err := NewSampleFallback(5, "38.71,-9.16", "38.73,-9.13")
	require.NoError(t, err)
	assert.Equal(t, "sample", f.Name())

	first := f.Vehicles()
	second := f.Vehicles()
	require.Len(t, first, 5)
	assert.Equal(t, types.IDs(first), types.IDs(second))

	for _, v := range first {
		assert.GreaterOrEqual(t, v.Y, 38.71)
		assert.LessOrEqual(t, v.Y, 38.73)
		assert.GreaterOrEqual(t, v.X, -9.16)
		assert.LessOrEqual(t, v.X, -9.13)
		assert.GreaterOrEqual(t, v.BatteryLevel, 0)
		assert.LessOrEqual(t, v.BatteryLevel, 100)
		assert.Equal(t, v.Name, v.LicencePlate)
	}
}

func TestSampleFallbackZeroValue(t *testing.T) {
	var f SampleFallback

	assert.NotPanics(t, func() {
		assert.Empty(t, f.Vehicles())
	})

	f.size = 2
	assert.Len(t, f.Vehicles(), 2)
}

func TestSampleFallbackInvalidArea(t *testing.T) {
	_, err := NewSampleFallback(5, "", "38.73,-9.13")
	assert.Error(t, err)
}

func TestEmptyFallback(t *testing.T) {
	assert.Equal(t, "empty", EmptyFallback{}.Name())
	assert.Empty(t, EmptyFallback{}.Vehicles())
}
