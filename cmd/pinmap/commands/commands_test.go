package commands

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	apphttp "pinmap/internal/http"
	"pinmap/internal/http/router"
	"pinmap/internal/locations"
	"pinmap/internal/locations/repository"
	"pinmap/internal/maps"
	"pinmap/platform/config"
	"pinmap/platform/logger"
	"pinmap/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct{}

func (stubProvider) Name() string { return "stub" }

func (stubProvider) Reverse(context.Context, float64, float64) ([]maps.Result, error) {
	return nil, maps.ErrNoResults
}

// newAPI starts the locations API over a temporary SQLite database.
func newAPI(t *testing.T) (*httptest.Server, repository.Repository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend, err := repository.Open(context.Background(), &config.Config{
		DatabaseDriver: config.DriverSQLite,
		DatabasePath:   filepath.Join(t.TempDir(), "cli.db"),
	})
	require.NoError(t, err)
	t.Cleanup(backend.Close)

	log := logger.Discard()
	engine := router.New(&apphttp.App{
		Config: &config.Config{CORSAllowAll: true},
		Logger: log,
		Health: backend,
		Modules: []apphttp.Module{
			locations.NewModule(backend, validator.New(), log),
			maps.NewModule(stubProvider{}, log),
		},
	})
	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return srv, backend
}

// newNominatim serves a fixed reverse-geocoding answer.
func newNominatim(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func isolate(t *testing.T, apiURL, nominatimURL string) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PINMAP_API_URL", apiURL)
	t.Setenv("PINMAP_GEOCODER", "nominatim")
	t.Setenv("PINMAP_NOMINATIM_URL", nominatimURL)
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSaveAndList(t *testing.T) {
	api, _ := newAPI(t)
	isolate(t, api.URL, "http://127.0.0.1:1")

	out, err := run(t, "save", "--", "37.7749", "-122.4194", "  123", "Main", "St  ")
	require.NoError(t, err)
	assert.Equal(t, "Saved location #1: 123 Main St\n", out)

	out, err = run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "123 Main St")
	assert.Contains(t, out, "37.774900, -122.419400")
	assert.Contains(t, out, "Page 1 of 1  [1]")
}

func TestSaveRejectsInvalidLatitude(t *testing.T) {
	api, repo := newAPI(t)
	isolate(t, api.URL, "http://127.0.0.1:1")

	_, err := run(t, "save", "abc", "1", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "latitude")

	rows, err := repo.List(context.Background(), repository.ListParams{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestVerboseLogsCarrySessionID(t *testing.T) {
	api, _ := newAPI(t)
	isolate(t, api.URL, "http://127.0.0.1:1")

	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"-v", "save", "abc", "1", "x"})
	require.Error(t, cmd.ExecuteContext(context.Background()))

	assert.Contains(t, errOut.String(), "rejected location save")
	assert.Contains(t, errOut.String(), "session_id=")
}

func TestListEmpty(t *testing.T) {
	api, _ := newAPI(t)
	isolate(t, api.URL, "http://127.0.0.1:1")

	out, err := run(t, "list")
	require.NoError(t, err)
	assert.Equal(t, "No saved locations yet.\n", out)
}

func TestListClampsPage(t *testing.T) {
	api, repo := newAPI(t)
	isolate(t, api.URL, "http://127.0.0.1:1")

	for i := 0; i < 23; i++ {
		_, err := repo.Create(context.Background(), repository.CreateParams{Latitude: 1, Longitude: 1, Address: "somewhere"})
		require.NoError(t, err)
	}

	out, err := run(t, "list", "--page", "99", "--page-size", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Page 5 of 5  1 2 3 4 [5]")

	out, err = run(t, "list", "--page", "4", "--page-size", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Page 4 of 12  1 2 3 [4] 5 6 … 12")
}

func TestListReportsUnreachableAPI(t *testing.T) {
	isolate(t, "http://127.0.0.1:1", "http://127.0.0.1:1")

	_, err := run(t, "list", "--api-timeout", "1s")
	require.Error(t, err)
}

func TestDropAndSave(t *testing.T) {
	api, _ := newAPI(t)
	nominatim := newNominatim(t, http.StatusOK, `{
		"display_name": "1, Dam, Amsterdam, Nederland",
		"addresstype": "building",
		"address": {"road": "Dam", "house_number": "1", "postcode": "1012 JS", "city": "Amsterdam", "country": "Nederland"}
	}`)
	isolate(t, api.URL, nominatim.URL)

	out, err := run(t, "drop", "--save", "52.3731", "4.8922")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Dam 1, 1012 JS Amsterdam, Nederland", lines[0])
	assert.Equal(t, "Latitude 52.373100, Longitude 4.892200", lines[1])
	assert.Equal(t, "https://www.google.com/maps/search/?api=1&query=52.3731,4.8922", lines[2])
	assert.Equal(t, "Saved location #1", lines[3])

	out, err = run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Dam 1, 1012 JS Amsterdam, Nederland")
}

func TestReverseFallsBackOnProviderFailure(t *testing.T) {
	api, _ := newAPI(t)
	nominatim := newNominatim(t, http.StatusInternalServerError, `oops`)
	isolate(t, api.URL, nominatim.URL)

	out, err := run(t, "reverse", "--", "37", "-122")
	require.NoError(t, err)
	assert.Equal(t, "Lat: 37.000000, Lng: -122.000000\n", out)
}

func TestDropRejectsOutOfRangeCoordinates(t *testing.T) {
	isolate(t, "http://127.0.0.1:1", "http://127.0.0.1:1")

	_, err := run(t, "drop", "91", "0")
	assert.Error(t, err)
}

func TestParseCoordinates(t *testing.T) {
	lat, lng, err := parseCoordinates(" 37.5", "-122.25 ")
	require.NoError(t, err)
	assert.Equal(t, 37.5, lat)
	assert.Equal(t, -122.25, lng)

	for _, pair := range [][2]string{{"abc", "1"}, {"1", "NaN"}, {"-90.5", "0"}, {"0", "181"}} {
		_, _, err := parseCoordinates(pair[0], pair[1])
		assert.Error(t, err, "%v", pair)
	}
}
