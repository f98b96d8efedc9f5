package health

import "context"

// DBPinger reports whether the backing store is reachable.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// ProviderChecker reports whether the model provider is reachable.
type ProviderChecker interface {
	HealthCheck(ctx context.Context) error
}
