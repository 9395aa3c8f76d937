package telemetry_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/bolplaza/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"Warning", zapcore.WarnLevel},
		{"WARN", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"info", zapcore.InfoLevel},
		{"chatty", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, telemetry.ParseLevel(tt.level))

			logger, err := telemetry.NewLogger(telemetry.LoggerConfig{Level: tt.level})
			require.NoError(t, err)

			core := logger.Core()
			assert.True(t, core.Enabled(tt.want))
			if tt.want > zapcore.DebugLevel {
				assert.False(t, core.Enabled(tt.want-1))
			}
		})
	}
}

func TestNewLogger_ServiceFieldsAndRedaction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.json")
	logger, err := telemetry.NewLogger(telemetry.LoggerConfig{
		Level:       "info",
		Service:     "bolplaza",
		Version:     "1.2.3",
		Secrets:     []string{"s3cr3t", ""},
		OutputPaths: []string{path},
	})
	require.NoError(t, err)

	logger.Info("signing with s3cr3t", zap.String("key", "private=s3cr3t"))
	_ = logger.Sync()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "s3cr3t")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(raw))), &entry))
	assert.Equal(t, "bolplaza", entry["logger"])
	assert.Equal(t, "bolplaza", entry["service"])
	assert.Equal(t, "1.2.3", entry["version"])
	assert.Equal(t, "signing with [REDACTED]", entry["msg"])
	assert.Equal(t, "private=[REDACTED]", entry["key"])
}

func TestRedact(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(telemetry.Redact(core, "hunter2")).With(zap.String("auth", "x:hunter2"))

	logger.Info("plain", zap.Error(errors.New("bad key hunter2")), zap.Int("n", 2))
	logger.Debug("dropped hunter2")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "x:[REDACTED]", fields["auth"])
	assert.Equal(t, "bad key [REDACTED]", fields["error"])
	assert.Equal(t, int64(2), fields["n"])
}

func TestRedact_NoSecrets(t *testing.T) {
	core, _ := observer.New(zapcore.InfoLevel)
	assert.Same(t, core, telemetry.Redact(core, ""))
}

func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		byName[f.GetName()] = f
	}
	return byName
}

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := telemetry.NewMetrics(reg)

	metrics.RecordRequest("orders", "200", 0.2)
	metrics.RecordRequest("orders", "200", 0.3)
	metrics.RecordRequest("offers-upsert", "202", 0.1)
	metrics.RecordPoll(4)
	metrics.RecordError("transport")

	families := gather(t, reg)

	requests := families["bolplaza_requests_total"]
	require.NotNil(t, requests)
	assert.Len(t, requests.GetMetric(), 2)

	var orders float64
	for _, m := range requests.GetMetric() {
		for _, l := range m.GetLabel() {
			if l.GetName() == "operation" && l.GetValue() == "orders" {
				orders = m.GetCounter().GetValue()
			}
		}
	}
	assert.Equal(t, 2.0, orders)

	duration := families["bolplaza_request_duration_seconds"]
	require.NotNil(t, duration)
	assert.Len(t, duration.GetMetric(), 2)

	open := families["bolplaza_open_orders"]
	require.NotNil(t, open)
	assert.Equal(t, 4.0, open.GetMetric()[0].GetGauge().GetValue())

	pollErrors := families["bolplaza_poll_errors_total"]
	require.NotNil(t, pollErrors)
	assert.Equal(t, 1.0, pollErrors.GetMetric()[0].GetCounter().GetValue())
}

func TestInitTracer(t *testing.T) {
	tracer, shutdown, err := telemetry.InitTracer(context.Background(), "localhost:4318", "bolplaza-test",
		attribute.String("service.name", "bolplaza-test"),
	)
	require.NoError(t, err)
	require.NotNil(t, tracer)

	_, span := tracer.Start(context.Background(), "test")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}
