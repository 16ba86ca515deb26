package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db        DBPinger
	snapshots SnapshotChecker
}

// New creates a Service. snapshots can be nil.
func New(db DBPinger, snapshots SnapshotChecker) *Service {
	return &Service{db: db, snapshots: snapshots}
}

// Check runs health checks against the store and the fitted snapshot.
// A missing snapshot degrades but does not fail the service: the archive
// may legitimately be empty before the first refit.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.db.Ping(ctx); err != nil {
		checks["database"] = CheckError
	} else {
		checks["database"] = CheckOK
	}

	if s.snapshots != nil {
		if err := s.snapshots.Current(); err != nil {
			checks["snapshot"] = CheckError
		} else {
			checks["snapshot"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
