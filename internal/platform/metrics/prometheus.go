package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/campusnest/accommodation-service/internal/platform/logger"
)

// MetricsManager holds custom Prometheus metrics.
type MetricsManager struct {
	Registry                   *prometheus.Registry
	AccommodationsCreatedTotal prometheus.Counter
	AccommodationsDeletedTotal prometheus.Counter
	PhotosStoredTotal          prometheus.Counter
	APIErrorsTotal             *prometheus.CounterVec
	APILatency                 *prometheus.HistogramVec
}

// NewMetricsManager initializes and registers custom Prometheus metrics.
func NewMetricsManager(serviceName string) *MetricsManager {
	registry := prometheus.NewRegistry()

	accommodationsCreatedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "accommodations_created_total",
		Help:      "Total number of accommodations created.",
	})
	accommodationsDeletedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "accommodations_deleted_total",
		Help:      "Total number of accommodations deleted.",
	})
	photosStoredTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "photos_stored_total",
		Help:      "Total number of photo files written to the file store.",
	})
	apiErrorsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "api_errors_total",
		Help:      "Total number of API errors by route and error kind.",
	}, []string{"route", "error_type"})
	apiLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: serviceName,
		Name:      "api_request_latency_seconds",
		Help:      "Latency of API requests by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	registry.MustRegister(
		accommodationsCreatedTotal,
		accommodationsDeletedTotal,
		photosStoredTotal,
		apiErrorsTotal,
		apiLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &MetricsManager{
		Registry:                   registry,
		AccommodationsCreatedTotal: accommodationsCreatedTotal,
		AccommodationsDeletedTotal: accommodationsDeletedTotal,
		PhotosStoredTotal:          photosStoredTotal,
		APIErrorsTotal:             apiErrorsTotal,
		APILatency:                 apiLatency,
	}
}

// StartMetricsServer starts an HTTP server exposing Prometheus metrics.
func StartMetricsServer(port string, appLogger *logger.Logger, registry *prometheus.Registry) error {
	if port == "" {
		appLogger.Info("Prometheus metrics server port not configured, server will not start.")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	appLogger.Info("Prometheus metrics server starting", zap.String("port", port), zap.String("path", "/metrics"))

	server := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}

	return server.ListenAndServe()
}
