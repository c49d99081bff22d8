package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ArowuTest/church-calendar-backend/api/routes"
	"github.com/ArowuTest/church-calendar-backend/internal/calendar"
	"github.com/ArowuTest/church-calendar-backend/internal/clock"
	"github.com/ArowuTest/church-calendar-backend/internal/config"
	"github.com/ArowuTest/church-calendar-backend/internal/diagnostics"
	"github.com/ArowuTest/church-calendar-backend/internal/handlers"
	"github.com/ArowuTest/church-calendar-backend/internal/services"
	"github.com/ArowuTest/church-calendar-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, using environment variables")
	}

	cfg, err := config.Load(config.GetEnv("CONFIG_PATH", "."))
	if err != nil {
		log.Fatalf("[FATAL] Failed to load configuration: %v", err)
	}
	if cfg.JWT.Secret == "" {
		log.Fatal("[FATAL] JWT secret is not configured, set JWT_SECRET")
	}
	if !strings.EqualFold(cfg.LogLevel, "debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := openBackend(startCtx, cfg)
	cancelStart()
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	defer store.close()

	clk := clock.System{}
	loc := cfg.Calendar.Location()
	reporter := diagnostics.NewLogReporter(cfg.LogLevel)
	tokens := jwt.NewTokenService(cfg.JWT.Secret, cfg.JWT.ExpiresIn)

	authService := services.NewAuthService(store.users, tokens)
	churchService := services.NewChurchService(store.churches, store.memberships, store.users)
	icalService := services.NewICalService(store.churches, store.events, clk, "")
	calendarService := services.NewCalendarService(store.events, calendar.NewGridBuilder(clk, loc))
	eventService := services.NewEventService(services.EventServiceDeps{
		Events:      store.events,
		Memberships: store.memberships,
		Blobs:       store.blobs,
		Clock:       clk,
		Diagnostics: reporter,
		Location:    loc,
		OnChange:    icalService.Invalidate,
	})

	router := routes.SetupRouter(cfg, routes.HandlerDependencies{
		AuthHandler:     handlers.NewAuthHandler(authService),
		ChurchHandler:   handlers.NewChurchHandler(churchService),
		EventHandler:    handlers.NewEventHandler(eventService, cfg.Storage.MaxUploadMB),
		CalendarHandler: handlers.NewCalendarHandler(calendarService, icalService),
		MediaHandler:    handlers.NewMediaHandler(store.blobs),
		Tokens:          tokens,
		Ping:            store.ping,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("[INFO] Server starting on port %s (calendar timezone %s)", cfg.Server.Port, loc)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[FATAL] listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("[INFO] Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[ERROR] Server forced to shutdown: %v", err)
	}

	log.Println("[INFO] Server exiting")
}
