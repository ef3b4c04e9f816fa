// Package ports define contratos que conectam o domínio a implementações externas.
package ports

import "context"

// ErrorReport carries the context of an upstream failure for out-of-band
// reporting.
type ErrorReport struct {
	Err      error
	Query    string
	ClientID string
}

// Telemetry receives error reports. Implementations must never block the
// calling request nor alter control flow.
type Telemetry interface {
	ReportError(ctx context.Context, report ErrorReport)
}
