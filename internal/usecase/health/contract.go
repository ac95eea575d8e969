package health

import "context"

// Pinger checks store availability (catalog database, shared cache).
type Pinger interface {
	Ping(ctx context.Context) error
}

// ClassifierChecker checks external classifier availability.
type ClassifierChecker interface {
	HealthCheck(ctx context.Context) error
}
