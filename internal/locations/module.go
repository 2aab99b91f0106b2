// Package locations provides the saved-locations bounded context: the
// list/create HTTP endpoints and the repositories behind them.
package locations

import (
	apphttp "pinmap/internal/http"
	"pinmap/internal/locations/handler"
	"pinmap/internal/locations/repository"
	"pinmap/internal/locations/service"
	"pinmap/platform/logger"
	"pinmap/platform/validator"
)

// Module is the locations bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the locations module with all its dependencies.
func NewModule(repo repository.Repository, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repo, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "locations"
}

// Service returns the locations service for use by other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts location routes. Listing is public; creating goes
// through the write guard.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/locations", m.handler.List)
	ctx.Writes.POST("/locations", m.handler.Create)
}

var _ apphttp.Module = (*Module)(nil)
