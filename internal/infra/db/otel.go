package db

import (
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"
)

// RegisterOpenTelemetryPlugin traces queries with the global tracer provider.
func RegisterOpenTelemetryPlugin(d *gorm.DB) error {
	return d.Use(tracing.NewPlugin(tracing.WithoutMetrics()))
}
