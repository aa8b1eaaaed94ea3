package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pdfstamp/internal/config"
	handlers "pdfstamp/internal/http/handler"
	"pdfstamp/internal/http/middleware"
	"pdfstamp/internal/metrics"
	"pdfstamp/internal/otel"
	"pdfstamp/internal/service"
	"pdfstamp/internal/stamp"
	"pdfstamp/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	// Initialize tracing (degrades to noop when no collector is configured)
	shutdown, err := otel.Init(context.Background(), time.UTC)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdown(ctx)
	}()

	// Overlay font is resolved once here; a missing TTF falls back to the
	// built-in font and the service keeps working.
	renderer := stamp.NewRenderer(cfg.Stamp.FontFile)
	stamper := stamp.NewStamper(renderer, cfg.Stamp.Label)
	batch := stamp.NewBatch(stamper)

	// Destination for persisted outputs
	var dest storage.Destination
	switch cfg.Output.Backend {
	case "s3":
		dest, err = storage.NewMinIO(cfg.MinIO)
		if err != nil {
			log.Fatalf("failed to initialize object storage: %v", err)
		}
	default:
		dest, err = storage.NewLocalDir(cfg.Output.Dir)
		if err != nil {
			log.Fatalf("failed to initialize output directory: %v", err)
		}
	}

	// Metrics registry shared by the HTTP middleware and the stamping service
	reg := prometheus.NewRegistry()
	promMw, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register http metrics: %v", err)
	}
	m, err := metrics.New(reg)
	if err != nil {
		log.Fatalf("failed to register stamp metrics: %v", err)
	}

	svc := service.NewStampService(batch, dest, m)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    64 * 1024 * 1024, // uploads are whole PDF batches
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	app.Use(promMw.Handler())
	app.Use(otelfiber.Middleware())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Register HTTP routes with injected service
	handlers.RegisterRoutes(app, svc, handlers.Options{
		DateFormat: cfg.Stamp.DateFormat,
		FontFamily: renderer.FontFamily(),
		Backend:    cfg.Output.Backend,
	})

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
