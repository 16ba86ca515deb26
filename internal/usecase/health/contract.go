package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// SnapshotChecker reports whether a fitted snapshot is available.
type SnapshotChecker interface {
	Current() error
}
