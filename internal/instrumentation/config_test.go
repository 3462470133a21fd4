package instrumentation

import (
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("INSTRUMENTATION_ENABLED", "")
	t.Setenv("METRICS_EXPORTER", "")
	t.Setenv("TRACING_EXPORTER", "")
	t.Setenv("OTEL_SERVICE_NAME", "")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "")

	config := DefaultConfig()

	if config.ServiceName != "inboxsaver" {
		t.Errorf("expected service name 'inboxsaver', got %q", config.ServiceName)
	}
	if !config.Enabled {
		t.Error("expected instrumentation enabled by default")
	}
	if config.MetricsExporter != ExporterPrometheus {
		t.Errorf("expected metrics exporter %q, got %q", ExporterPrometheus, config.MetricsExporter)
	}
	if config.TracingExporter != ExporterNone {
		t.Errorf("expected tracing exporter %q, got %q", ExporterNone, config.TracingExporter)
	}
	if config.TraceSamplingRate != 0.1 {
		t.Errorf("expected sampling rate 0.1, got %f", config.TraceSamplingRate)
	}
}

func TestDefaultConfig_FromEnv(t *testing.T) {
	t.Setenv("INSTRUMENTATION_ENABLED", "false")
	t.Setenv("METRICS_EXPORTER", "stdout")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "not-a-number")

	config := DefaultConfig()

	if config.Enabled {
		t.Error("expected instrumentation disabled")
	}
	if config.MetricsExporter != ExporterStdout {
		t.Errorf("expected metrics exporter %q, got %q", ExporterStdout, config.MetricsExporter)
	}
	if config.TraceSamplingRate != 0.1 {
		t.Errorf("invalid float should fall back to default, got %f", config.TraceSamplingRate)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"valid defaults", Config{MetricsExporter: ExporterPrometheus, TracingExporter: ExporterNone, TraceSamplingRate: 0.1}, false},
		{"sampling rate too high", Config{TraceSamplingRate: 1.5}, true},
		{"sampling rate negative", Config{TraceSamplingRate: -0.1}, true},
		{"unknown metrics exporter", Config{MetricsExporter: "graphite"}, true},
		{"unknown tracing exporter", Config{TracingExporter: "zipkin"}, true},
		{"otlp tracing without endpoint", Config{TracingExporter: ExporterOTLP}, true},
		{"otlp metrics without endpoint", Config{MetricsExporter: ExporterOTLP}, true},
		{"otlp with endpoint", Config{MetricsExporter: ExporterOTLP, TracingExporter: ExporterOTLP, OTLPEndpoint: "localhost:4318"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
