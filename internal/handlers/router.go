package handlers

import (
	"neowatch/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	Asteroids *AsteroidHandler
	Auth      *AuthHandler
	System    *SystemHandler
	Tokens    middleware.TokenParser
	// ImportLimiter is optional and throttles POST /importar/ per client IP.
	ImportLimiter gin.HandlerFunc
	Gatherer      prometheus.Gatherer
}

// Register mounts every route on r.
func (rt *Router) Register(r *gin.Engine) {
	r.GET("/health", rt.System.HealthCheck)
	if rt.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(rt.Gatherer, promhttp.HandlerOpts{})))
	}

	r.POST("/register/", rt.Auth.Register)
	r.POST("/token/", rt.Auth.ObtainToken)
	r.POST("/token/refresh/", rt.Auth.RefreshToken)

	api := r.Group("/", middleware.RequireAuth(rt.Tokens))

	api.GET("/", rt.Asteroids.ListAsteroids)
	if rt.ImportLimiter != nil {
		api.POST("/importar/", rt.ImportLimiter, rt.Asteroids.ImportAsteroids)
	} else {
		api.POST("/importar/", rt.Asteroids.ImportAsteroids)
	}
	api.GET("/indicadores/", rt.Asteroids.GetIndicators)
	api.GET("/exportar/", rt.Asteroids.ExportAsteroids)
	api.GET("/asteroide/:id/", rt.Asteroids.GetAsteroid)
	api.GET("/:id/", rt.Asteroids.GetAsteroid)

	api.GET("/system/stats", rt.System.Stats)
}
