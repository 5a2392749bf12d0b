package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/attendance-gate/internal/config"
	"github.com/cmlabs-hris/attendance-gate/internal/domain/attendance"
	appHTTP "github.com/cmlabs-hris/attendance-gate/internal/handler/http"
	"github.com/cmlabs-hris/attendance-gate/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-gate/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-gate/internal/pkg/sink"
	"github.com/cmlabs-hris/attendance-gate/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-gate/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/attendance-gate/internal/service/attendance"
	"github.com/go-chi/httplog/v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-gate"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	var attendanceSink attendance.Sink
	switch cfg.Sink.Type {
	case config.SinkWebhook:
		attendanceSink = sink.NewWebhookSink(cfg.Sink.URL, nil)
	case config.SinkPostgres:
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), database.PoolOptions{MaxConns: cfg.Database.MaxConns})
		if err != nil {
			log.Fatal("Error connecting to database: ", err)
		}
		defer db.Close()
		attendanceSink = postgresql.NewSubmissionRepository(db)
	default:
		log.Fatal("Unsupported sink type: ", cfg.Sink.Type)
	}

	hub := sse.NewHub()
	flowService := attendanceService.NewFlowService(cfg.AttendanceFlow(), attendanceSink, hub, cfg.Flow.IdleTTL)
	flowHandler := appHTTP.NewFlowHandler(flowService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := cron.NewScheduler(ctx)
	scheduler.AddJob("flow-expiry", cfg.Flow.SweepInterval, flowService.ExpireIdle)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(logger, cfg.App.CORSAllowedOrigins, flowHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Event streams end when the process is asked to stop.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
	}()

	slog.Info("Server running",
		"addr", fmt.Sprintf("http://localhost%s", server.Addr),
		"sink", cfg.Sink.Type,
		"office_latitude", cfg.Office.Latitude,
		"office_longitude", cfg.Office.Longitude,
		"radius_meters", cfg.Office.RadiusMeters,
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
	}
}
