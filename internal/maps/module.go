package maps

import (
	apphttp "pinmap/internal/http"
	"pinmap/platform/logger"
)

// Module wires the reverse geocoding HTTP routes.
type Module struct {
	handler  *Handler
	resolver *Resolver
}

func NewModule(provider Provider, log *logger.Logger) *Module {
	resolver := NewResolver(provider, log)
	return &Module{handler: NewHandler(resolver), resolver: resolver}
}

func (m *Module) Name() string {
	return "maps"
}

// Resolver returns the module's resolver for background jobs.
func (m *Module) Resolver() *Resolver {
	return m.resolver
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/maps")
	group.GET("/reverse", m.handler.Reverse)
}

var _ apphttp.Module = (*Module)(nil)
