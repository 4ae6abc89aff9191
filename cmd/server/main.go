package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/hotel-frontdesk/internal/config"
	"github.com/iliyamo/hotel-frontdesk/internal/database"
	"github.com/iliyamo/hotel-frontdesk/internal/handler"
	"github.com/iliyamo/hotel-frontdesk/internal/jobs"
	"github.com/iliyamo/hotel-frontdesk/internal/middleware"
	"github.com/iliyamo/hotel-frontdesk/internal/queue"
	"github.com/iliyamo/hotel-frontdesk/internal/router"
	"github.com/iliyamo/hotel-frontdesk/internal/service"
	"github.com/iliyamo/hotel-frontdesk/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("godotenv: %v", err)
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBTimeout)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb != nil {
		defer rdb.Close()
	}

	pictures := storage.NewPictures(cfg.IDPictureDir, cfg.IDPictureMaxBytes)
	brokerURL := queue.BrokerURL()

	stays := service.NewStayService(db, pictures, service.Options{
		Timeout:  cfg.DBTimeout,
		Location: cfg.HotelLocation,
		Codes: service.StatusCodes{
			Occupied: cfg.StatusCodeOccupied,
			Overdue:  cfg.StatusCodeOverdue,
		},
		CheckedOutCode: cfg.StatusCodeCheckedOut,
	})
	checkout := service.NewCheckoutService(db, queue.NewPublisher(brokerURL), cfg.DBTimeout)
	history := service.NewHistoryService(db, cfg.DBTimeout)

	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)
	limiter := middleware.NewFixedWindow(config.LoadRateLimitConfig(), rdb)

	stayHandler := handler.NewStayHandler(stays, checkout, pictures)
	stayHandler.AfterCheckout = cache.Purge

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	router.RegisterRoutes(e, db)
	router.RegisterFrontDesk(e, router.FrontDesk{
		Stays:   stayHandler,
		History: handler.NewHistoryHandler(history),
		Cache:   cache,
		Limiter: limiter,
	}, cfg.JWTSecret)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler, err := jobs.StartDueScan(stays, cfg.ReconcileInterval)
	if err != nil {
		log.Fatalf("due-scan: %v", err)
	}
	consumer := &queue.CheckoutConsumer{URL: brokerURL, LogDir: cfg.CheckoutLogDir}
	go consumer.Run(ctx)

	addr := ":" + cfg.Port
	go func() {
		log.Printf("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	if err := scheduler.Shutdown(); err != nil {
		log.Printf("scheduler shutdown: %v", err)
	}
}
