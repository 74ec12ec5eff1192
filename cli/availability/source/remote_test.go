package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/daniil11ru/availability/cli/availability/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRemoteGetVehicles(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		expected    []types.Vehicle
		expectError bool
	}{
		{
			name:   "Vehicles list",
			status: http.StatusOK,
			body:   `[{"id":"V1","x":1.5,"y":2.5,"resourcesImagesUrls":["a","b"]},{"id":"V2"}]`,
			expected: []types.Vehicle{
				{ID: "V1", X: 1.5, Y: 2.5, ResourceImageURLs: types.StringList{"a", "b"}},
				{ID: "V2"},
			},
		},
		{
			name:     "Empty list",
			status:   http.StatusOK,
			body:     `[]`,
			expected: []types.Vehicle{},
		},
		{
			name:     "Null body",
			status:   http.StatusOK,
			body:     `null`,
			expected: []types.Vehicle{},
		},
		{
			name:        "Server error",
			status:      http.StatusInternalServerError,
			body:        `{"error":"boom"}`,
			expectError: true,
		},
		{
			name:        "Malformed payload",
			status:      http.StatusOK,
			body:        `[{"id":"V1"`,
			expectError: true,
		},
		{
			name:        "Object instead of list",
			status:      http.StatusOK,
			body:        `{"id":"V1"}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "application/json", r.Header.Get("Accept"))
				assert.Equal(t, "38.7,-9.1", r.URL.Query().Get("lowerLeftLatLon"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			remote := NewDefaultRemote(srv.URL+"/resources?lowerLeftLatLon=38.7,-9.1", time.Second)
			vehicles, err := remote.GetVehicles(context.Background())

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, vehicles)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, vehicles)
		})
	}
}

func TestDefaultRemoteUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	vehicles, err := NewDefaultRemote(url, time.Second).GetVehicles(context.Background())
	assert.Error(t, err)
	assert.Nil(t, vehicles)
}

func TestDefaultRemoteTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := NewDefaultRemote(srv.URL, 20*time.Millisecond).GetVehicles(context.Background())
	assert.Error(t, err)
}

func TestPostgresDsn(t *testing.T) {
	dsn := PostgresDsn(map[string]string{
		"host":     "db",
		"user":     "meep",
		"password": "secret",
		"database": "vehicles",
	})
	assert.Equal(t, "host=db user=meep password=secret dbname=vehicles port=5432 sslmode=disable", dsn)
}
