package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"laundry-reservation/config"
	"laundry-reservation/internal/metrics"
	"laundry-reservation/internal/mw"
	"laundry-reservation/internal/reservation"
)

// NewRouter creates and configures the gateway router.
func NewRouter(s *reservation.Store, cfg config.GatewayConfig, m *metrics.Metrics) *gin.Engine {
	r := gin.Default()
	handler := NewHandler(s)

	if m != nil {
		r.Use(mw.Instrument(m))
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(ttl, 2*ttl)
	caching := mw.Cache(cacheStore, ttl)
	invalidate := mw.Invalidate(cacheStore, "/api/admin/reports")

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/auth/signin", handler.SignIn)
		api.POST("/auth/signout", handler.SignOut)

		api.GET("/floors", handler.GetFloors)
		api.GET("/machines", handler.GetMachines)
		api.GET("/machines/:id", handler.GetMachine)
		api.POST("/machines/:id/report", handler.ReportMachine)

		api.GET("/me", handler.GetMe)
		api.GET("/reservations/mine", handler.GetMyReservation)
		api.POST("/reservations", handler.CreateReservation)
		api.POST("/reservations/:id/confirm", handler.ConfirmReservation)
		api.DELETE("/reservations/:id", handler.CancelReservation)

		admin := api.Group("/admin")
		admin.Use(mw.RequireAdmin(s.VerifyAdmin, handler.respondError))
		{
			admin.GET("/users", handler.ListUsers)
			admin.POST("/users/:id/restrict", handler.RestrictUser)
			admin.DELETE("/users/:id/restrict", handler.UnrestrictUser)
			admin.GET("/reservations", handler.ListReservations)
			admin.DELETE("/reservations/:id", handler.ForceCancelReservation)
			admin.GET("/reports", caching, handler.ListReports)
			admin.PATCH("/reports/:id", invalidate, handler.ResolveReport)
			admin.PATCH("/machines/:id", handler.SetMachineOutOfOrder)
		}
	}

	return r
}
