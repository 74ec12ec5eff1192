package domain

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"

	"github.com/daniil11ru/availability/cli/availability/types"
)

// Fallback подменяет снимок, если удалённый сервис недоступен
type Fallback interface {
	Name() string
	Vehicles() []types.Vehicle
}

type EmptyFallback struct{}

func (EmptyFallback) Name() string {
	return "empty"
}

func (EmptyFallback) Vehicles() []types.Vehicle {
	return []types.Vehicle{}
}

type LatLon struct {
	Latitude  float64
	Longitude float64
}

func ParseLatLon(s string) (LatLon, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return LatLon{}, fmt.Errorf("ожидались широта и долгота через запятую: %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return LatLon{}, fmt.Errorf("некорректная широта %q: %w", parts[0], err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return LatLon{}, fmt.Errorf("некорректная долгота %q: %w", parts[1], err)
	}
	return LatLon{Latitude: lat, Longitude: lon}, nil
}

// SampleFallback генерирует демонстрационный транспорт внутри заданной области.
// Идентификаторы стабильны между вызовами, меняются только значения полей.
// Создаётся только через NewSampleFallback.
type SampleFallback struct {
	size       int
	lowerLeft  LatLon
	upperRight LatLon

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewSampleFallback(size int, lowerLeftLatLon, upperRightLatLon string) (*SampleFallback, error) {
	lowerLeft, err := ParseLatLon(lowerLeftLatLon)
	if err != nil {
		return nil, err
	}
	upperRight, err := ParseLatLon(upperRightLatLon)
	if err != nil {
		return nil, err
	}

	return &SampleFallback{
		size:       size,
		lowerLeft:  lowerLeft,
		upperRight: upperRight,
		rnd:        rand.New(rand.NewSource(now().UnixNano())),
	}, nil
}

func (f *SampleFallback) Name() string {
	return "sample"
}

func (f *SampleFallback) Vehicles() []types.Vehicle {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.rnd == nil {
		f.rnd = rand.New(rand.NewSource(now().UnixNano()))
	}

	vehicles := make([]types.Vehicle, 0, f.size)
	for i := 1; i <= f.size; i++ {
		plate := fmt.Sprintf("SMPL%03d", i)
		vehicles = append(vehicles, types.Vehicle{
			ID:                fmt.Sprintf("sample-%d", i),
			Name:              plate,
			LicencePlate:      plate,
			X:                 between(f.rnd, f.lowerLeft.Longitude, f.upperRight.Longitude),
			Y:                 between(f.rnd, f.lowerLeft.Latitude, f.upperRight.Latitude),
			BatteryLevel:      f.rnd.Intn(101),
			Helmets:           f.rnd.Intn(3),
			Model:             "Sample",
			ResourceType:      "MOPED",
			ResourceImageURLs: types.StringList{},
		})
	}
	return vehicles
}

func between(rnd *rand.Rand, a, b float64) float64 {
	if a > b {
		a, b = b, a
	}
	return a + rnd.Float64()*(b-a)
}
