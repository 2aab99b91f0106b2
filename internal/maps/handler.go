package maps

import (
	"math"
	"net/http"

	"pinmap/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler exposes the reverse geocoding endpoint.
type Handler struct {
	resolver *Resolver
}

func NewHandler(resolver *Resolver) *Handler {
	return &Handler{resolver: resolver}
}

// Reverse handles GET /api/v1/maps/reverse?lat=...&lng=...
// The response is always an address; unresolved coordinates get the fallback.
func (h *Handler) Reverse(c *gin.Context) {
	var req ReverseRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "query 'lat' and 'lng' are required numbers", nil)
		return
	}

	lat, lng := *req.Lat, *req.Lng
	if !validCoordinate(lat, 90) || !validCoordinate(lng, 180) {
		httpkit.Error(c, http.StatusBadRequest, "coordinates out of range", nil)
		return
	}

	httpkit.OK(c, h.resolver.Resolve(c.Request.Context(), lat, lng))
}

func validCoordinate(v, limit float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && math.Abs(v) <= limit
}
