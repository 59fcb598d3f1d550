package main

import (
	"context"
	"expvar"
	"log"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/tutormeet/signaling/internal/infrastructure/configs"
	"github.com/tutormeet/signaling/internal/infrastructure/ratelimiter"
	"github.com/tutormeet/signaling/internal/infrastructure/repository"
	"github.com/tutormeet/signaling/internal/infrastructure/tracing"
	"github.com/tutormeet/signaling/internal/infrastructure/ws"
	"github.com/tutormeet/signaling/internal/presentation/api"
	"github.com/tutormeet/signaling/internal/presentation/handler/courses"
	"github.com/tutormeet/signaling/internal/presentation/handler/health"
	"github.com/tutormeet/signaling/internal/presentation/handler/meetings"
	"github.com/tutormeet/signaling/internal/presentation/handler/signal"
)

func main() {
	logger := zap.Must(zap.NewProduction()).Sugar()
	defer logger.Sync()

	configPath := configs.DetermineConfigPath()
	cfg, err := configs.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(cfg.Tracing)
		if err != nil {
			log.Fatal(err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(ctx)
		}()
	}

	directory := ws.NewRoomDirectory(cfg.Room.Capacity)
	hub := ws.NewHub(directory, logger, cfg.HTTP.AllowedOrigins)

	meetingRepository := repository.NewMeetingRepository(cfg.MeetingStore.Capacity, cfg.MeetingStore.IdleExpiry)
	courseRepository := repository.NewCourseRepository(nil)

	signalHandler := signal.NewHandler(hub, cfg.Room.SendBuffer, logger)
	meetingHandler := meetings.NewHandler(meetingRepository)
	courseHandler := courses.NewHandler(courseRepository)
	healthHandler := health.NewHandler(hub)

	rateLimiter := ratelimiter.NewFixedWindowRateLimiter(cfg.RateLimiter.RequestsPerTimeFrame, cfg.RateLimiter.TimeFrame)
	defer rateLimiter.Close()

	app := api.NewApplication(*cfg, logger, rateLimiter, signalHandler, meetingHandler, courseHandler, healthHandler)

	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))
	expvar.Publish("rooms", expvar.Func(func() any {
		return directory.Rooms()
	}))
	expvar.Publish("connections", expvar.Func(func() any {
		return hub.ClientCount()
	}))

	mux := app.Mount()
	logger.Fatal(app.Run(mux))
}
