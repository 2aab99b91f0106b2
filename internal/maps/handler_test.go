package maps

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pinmap/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReverseHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	provider := returning([]Result{{FormattedAddress: "Dam 1, Amsterdam", Types: []string{StreetAddressType}}}, nil)
	handler := NewHandler(NewResolver(provider, logger.Discard()))

	engine := gin.New()
	engine.GET("/reverse", handler.Reverse)

	cases := []struct {
		name   string
		query  string
		status int
	}{
		{"ok", "?lat=52.3731&lng=4.8922", http.StatusOK},
		{"missing lng", "?lat=52.3731", http.StatusBadRequest},
		{"not a number", "?lat=abc&lng=1", http.StatusBadRequest},
		{"out of range", "?lat=91&lng=1", http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reverse"+tc.query, nil))
			require.Equal(t, tc.status, rec.Code)

			if tc.status == http.StatusOK {
				var got GeocodeResult
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
				assert.Equal(t, GeocodeResult{Address: "Dam 1, Amsterdam", Lat: 52.3731, Lng: 4.8922}, got)
			}
		})
	}
}
