// Package router builds the Gin engine from the composition root's App.
package router

import (
	"context"
	"net/http"
	"time"

	apphttp "pinmap/internal/http"
	"pinmap/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// New creates the Gin engine with shared middleware, health endpoints and
// every module's routes mounted.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(cors.New(corsConfig(app.Config)))

	if rps := app.Config.GetRateLimitRPS(); rps > 0 {
		limiter := httpkit.NewIPRateLimiter(rate.Limit(rps), app.Config.GetRateLimitBurst(), app.Logger)
		engine.Use(limiter.RateLimit())
	}

	engine.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/api/ready", func(c *gin.Context) {
		if app.Health == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := app.Health.Ping(ctx); err != nil {
			app.Logger.Error("readiness check failed", "error", err)
			httpkit.Error(c, http.StatusServiceUnavailable, "database unavailable", nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := engine.Group("/api/v1")
	writes := v1.Group("")
	writes.Use(httpkit.AuthRequired(app.Config))

	routerCtx := &apphttp.RouterContext{
		Engine: engine,
		V1:     v1,
		Writes: writes,
		Config: app.Config,
	}

	for _, module := range app.Modules {
		app.Logger.Info("registering module routes", "module", module.Name())
		module.RegisterRoutes(routerCtx)
	}

	return engine
}

func corsConfig(cfg apphttp.RouterConfig) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", httpkit.RequestIDHeader)
	corsCfg.ExposeHeaders = []string{httpkit.RequestIDHeader}
	if cfg.GetCORSAllowAll() {
		corsCfg.AllowAllOrigins = true
		return corsCfg
	}
	corsCfg.AllowOrigins = cfg.GetCORSOrigins()
	return corsCfg
}
