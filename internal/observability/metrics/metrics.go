package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	usageIngest        metric.Int64Counter
	chargebackRuns     metric.Int64Counter
	chargebackLines    metric.Int64Counter
	chargebackDuration metric.Float64Histogram
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "tollgate"
	}
	meter := provider.Meter(name)

	usageIngest, err := meter.Int64Counter("tollgate_usage_ingest_total")
	if err != nil {
		return nil, err
	}
	chargebackRuns, err := meter.Int64Counter("tollgate_chargeback_runs_total")
	if err != nil {
		return nil, err
	}
	chargebackLines, err := meter.Int64Counter("tollgate_chargeback_lines_total")
	if err != nil {
		return nil, err
	}
	chargebackDuration, err := meter.Float64Histogram("tollgate_chargeback_duration_seconds")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		usageIngest:        usageIngest,
		chargebackRuns:     chargebackRuns,
		chargebackLines:    chargebackLines,
		chargebackDuration: chargebackDuration,
	}, nil
}

// RecordUsageIngest increments usage ingest counts.
func (m *Metrics) RecordUsageIngest(ctx context.Context, apiID string) {
	if m == nil {
		return
	}
	m.usageIngest.Add(ctx, 1, metric.WithAttributes(
		attribute.String("api_id", strings.TrimSpace(apiID)),
	))
}

// RecordChargebackRun records one chargeback computation.
func (m *Metrics) RecordChargebackRun(ctx context.Context, period string, lines int, elapsed time.Duration, failed bool) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("period", strings.TrimSpace(period)),
		attribute.Bool("failed", failed),
	)
	m.chargebackRuns.Add(ctx, 1, attrs)
	m.chargebackLines.Add(ctx, int64(lines), attrs)
	m.chargebackDuration.Record(ctx, elapsed.Seconds(), attrs)
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "http", "http/protobuf":
		return otlpmetrichttp.New(context.Background(),
			otlpmetrichttp.WithEndpoint(endpoint),
			otlpmetrichttp.WithInsecure(),
		)
	case "", "grpc":
		return otlpmetricgrpc.New(context.Background(),
			otlpmetricgrpc.WithEndpoint(endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
	default:
		return nil, fmt.Errorf("unsupported otlp protocol %q", protocol)
	}
}
