// Package telemetry provides setup for reporting stats recorded while
// building and linearizing factor graphs.
package telemetry

import (
	"time"

	"go.viam.com/utils/perf"
)

// SetupTelemetry sets up telemetry so logs and stats can be reported.
func SetupTelemetry() (perf.Exporter, error) {
	exporter := perf.NewDevelopmentExporterWithOptions(perf.DevelopmentExporterOptions{
		ReportingInterval: 10 * time.Second,
	})
	if err := exporter.Start(); err != nil {
		return nil, err
	}

	return exporter, nil
}
