package api

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/tutormeet/signaling/internal/infrastructure/configs"
	"github.com/tutormeet/signaling/internal/infrastructure/ratelimiter"
	"github.com/tutormeet/signaling/internal/presentation/handler/courses"
	"github.com/tutormeet/signaling/internal/presentation/handler/health"
	"github.com/tutormeet/signaling/internal/presentation/handler/meetings"
	signalhandler "github.com/tutormeet/signaling/internal/presentation/handler/signal"
)

type Application struct {
	config      configs.Config
	logger      *zap.SugaredLogger
	ratelimiter *ratelimiter.FixedWindowRateLimiter

	signalHandler  *signalhandler.Handler
	meetingHandler *meetings.Handler
	courseHandler  *courses.Handler
	healthHandler  *health.Handler
}

func NewApplication(
	config configs.Config,
	logger *zap.SugaredLogger,
	rl *ratelimiter.FixedWindowRateLimiter,
	signalHandler *signalhandler.Handler,
	meetingHandler *meetings.Handler,
	courseHandler *courses.Handler,
	healthHandler *health.Handler,
) *Application {
	return &Application{
		config:         config,
		logger:         logger,
		ratelimiter:    rl,
		signalHandler:  signalHandler,
		meetingHandler: meetingHandler,
		courseHandler:  courseHandler,
		healthHandler:  healthHandler,
	}
}

func (app *Application) Mount() http.Handler {
	r := chi.NewRouter()

	r.Use(app.enableCors)
	r.Use(app.rateLimiterMiddleware)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", app.healthHandler.GetHealth)

		r.Route("/meetings", func(r chi.Router) {
			r.Post("/", app.meetingHandler.CreateMeetingHandler)
			r.Get("/", app.meetingHandler.ListMeetingsHandler)
			r.Get("/{meetingId}", app.meetingHandler.GetMeetingHandler)
			r.Delete("/{meetingId}", app.meetingHandler.DeleteMeetingHandler)
		})

		r.Route("/courses", func(r chi.Router) {
			r.Get("/", app.courseHandler.ListCoursesHandler)
			r.Get("/{courseId}", app.courseHandler.GetCourseHandler)
		})
	})

	// The socket endpoint; join-room and everything after it travels over
	// the upgraded connection.
	r.Get("/ws", app.signalHandler.ConnectHandler)

	r.Handle("/debug/vars", expvar.Handler())

	if app.config.Tracing.Enabled {
		return otelhttp.NewHandler(r, "signaling",
			otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
				return fmt.Sprintf("%s %s", r.Method, r.URL.Path)
			}))
	}

	return r
}

func (app *Application) Run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", app.config.HTTP.Host, app.config.HTTP.Port),
		Handler:      mux,
		ReadTimeout:  app.config.HTTP.ReadTimeout,
		WriteTimeout: app.config.HTTP.WriteTimeout,
		IdleTimeout:  app.config.HTTP.IdleTimeout,
	}

	shutdown := make(chan error)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Infow("shutting down", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server started", "addr", srv.Addr)

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return <-shutdown
}
