package health

import (
	"context"
	"slices"

	domview "github.com/kailas-cloud/sieve/internal/domain/view"
)

// Status is the aggregated health status.
type Status string

// Aggregated statuses.
const (
	Healthy  Status = "ok"
	Degraded Status = "degraded"
)

// CheckResult is one component's outcome.
type CheckResult string

// Check outcomes. CheckSkipped marks a check that could not run because a
// check it depends on failed.
const (
	CheckOK      CheckResult = "ok"
	CheckError   CheckResult = "error"
	CheckSkipped CheckResult = "skipped"
)

// Check names.
const (
	CheckDatabase = "database"
	CheckViews    = "views"
	CheckIndexes  = "indexes"
)

// Report aggregates health check results.
// MissingIndexes lists the indexes of served views the backend does not have.
type Report struct {
	Status         Status
	Checks         map[string]CheckResult
	Views          int
	MissingIndexes []string
}

// Service coordinates health checks.
type Service struct {
	backend Backend
	views   ViewCatalog
}

// New creates a Service. views can be nil, which skips the view checks.
func New(backend Backend, views ViewCatalog) *Service {
	return &Service{backend: backend, views: views}
}

// Check pings the backend and verifies every served view has its index.
// A server without views is degraded: every search would 404.
func (s *Service) Check(ctx context.Context) Report {
	r := Report{Status: Healthy, Checks: make(map[string]CheckResult, 3)}

	dbUp := s.backend.Ping(ctx) == nil
	r.Checks[CheckDatabase] = result(dbUp)

	if s.views != nil {
		views := s.views.All()
		r.Views = len(views)
		r.Checks[CheckViews] = result(len(views) > 0)

		switch {
		case !dbUp:
			r.Checks[CheckIndexes] = CheckSkipped
		default:
			r.MissingIndexes, r.Checks[CheckIndexes] = s.missingIndexes(ctx, views)
		}
	}

	for _, c := range r.Checks {
		if c != CheckOK {
			r.Status = Degraded
			break
		}
	}
	return r
}

func (s *Service) missingIndexes(ctx context.Context, views []domview.View) ([]string, CheckResult) {
	present, err := s.backend.ListIndexes(ctx)
	if err != nil {
		return nil, CheckError
	}

	var missing []string
	for _, v := range views {
		if !slices.Contains(present, v.Index()) && !slices.Contains(missing, v.Index()) {
			missing = append(missing, v.Index())
		}
	}
	slices.Sort(missing)
	return missing, result(len(missing) == 0)
}

func result(ok bool) CheckResult {
	if ok {
		return CheckOK
	}
	return CheckError
}
