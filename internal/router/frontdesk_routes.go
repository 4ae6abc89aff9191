package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-frontdesk/internal/handler"
	"github.com/iliyamo/hotel-frontdesk/internal/middleware"
)

// FrontDesk bundles what RegisterFrontDesk mounts.  Cache and Limiter may
// be nil; the affected routes then run without them.
type FrontDesk struct {
	Stays   *handler.StayHandler
	History *handler.HistoryHandler
	Cache   *middleware.ResponseCache
	Limiter *middleware.FixedWindow
}

// RegisterFrontDesk registers the stay, billing, checkout and history
// endpoints under /v1.  All of them require a valid JWT carrying the
// ADMIN or FRONT_DESK role.
func RegisterFrontDesk(e *echo.Echo, fd FrontDesk, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(middleware.RoleAdmin, middleware.RoleFrontDesk),
	)

	var limited, cached []echo.MiddlewareFunc
	if fd.Limiter != nil {
		limited = append(limited, fd.Limiter.Middleware())
	}
	if fd.Cache != nil {
		cached = append(cached, fd.Cache.Middleware())
	}

	s := fd.Stays
	// ---- Active stays ----
	g.GET("/stay_records", s.List)
	g.GET("/stay_records/due", s.Due)
	g.GET("/stay_records/guest/:guest_id", s.ListByGuest)
	g.POST("/stay_records", s.Create)
	g.PUT("/stay_records/:id", s.Update)
	g.DELETE("/stay_records/:id", s.Delete)

	// ---- Deposit and services ----
	g.GET("/stay_records/:id/deposit", s.GetDeposit)
	g.PUT("/stay_records/:id/deposit", s.PutDeposit, limited...)
	g.GET("/stay_records/:id/services", s.ListServices)
	g.POST("/stay_records/:id/services", s.AddService, limited...)

	// ---- Billing and checkout ----
	g.GET("/stay_records/:id/bill", s.Bill)
	g.POST("/stay_records/:id/payment", s.Pay, limited...)
	g.PUT("/rooms/:id/status", s.SetRoomStatus)

	// ---- History ----
	h := fd.History
	g.GET("/transaction_history", h.List, cached...)
	g.GET("/transaction_history/:id", h.Get, cached...)
	g.GET("/stay_records/guest/:guest_id/history", h.ListByGuest, cached...)
	g.GET("/room_usage", h.RoomUsage, cached...)
}
