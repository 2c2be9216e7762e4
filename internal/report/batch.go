// ABOUTME: Batch orchestrator for multi-course report submission.
// ABOUTME: Authenticates once, then folds per-course results into a BatchResult.

package report

import (
	"context"

	"github.com/nau-tools/edx-reportgen/internal/courses"
	"github.com/nau-tools/edx-reportgen/internal/lms"
)

// BatchResult aggregates one batch run. Total always equals SuccessCount
// plus FailedCount and the length of Results, which preserves input order.
type BatchResult struct {
	Total        int            `json:"total"`
	SuccessCount int            `json:"success"`
	FailedCount  int            `json:"failed"`
	Results      []CourseResult `json:"results"`
}

// Runner drives a whole batch: login, per-course submission, aggregation.
type Runner struct {
	// Login is swappable for tests; defaults to lms.Login.
	Login func(ctx context.Context, lmsURL string, creds lms.Credentials) (*lms.Session, error)

	// OnResult, when set, observes each course result as it is produced
	// (used by the CLI for progress output).
	OnResult func(done, total int, res CourseResult)
}

// NewRunner returns a Runner using the real LMS login.
func NewRunner() *Runner {
	return &Runner{Login: lms.Login}
}

// Run authenticates once and submits one report request per entry, in order.
// An authentication failure aborts the batch with no partial results. Once
// authenticated the batch always completes: per-course failures are folded
// into the result, never returned as errors.
func (r *Runner) Run(ctx context.Context, lmsURL string, creds lms.Credentials, kind Kind, entries []courses.Entry) (BatchResult, error) {
	session, err := r.Login(ctx, lmsURL, creds)
	if err != nil {
		return BatchResult{}, err
	}
	return r.submitAll(ctx, session, kind, entries), nil
}

func (r *Runner) submitAll(ctx context.Context, session FormPoster, kind Kind, entries []courses.Entry) BatchResult {
	batch := BatchResult{
		Total:   len(entries),
		Results: make([]CourseResult, 0, len(entries)),
	}

	for i, entry := range entries {
		res := Submit(ctx, session, kind, entry.CourseID, entry.AuxiliaryInfo)
		batch.Results = append(batch.Results, res)
		if res.Success {
			batch.SuccessCount++
		} else {
			batch.FailedCount++
		}
		if r.OnResult != nil {
			r.OnResult(i+1, len(entries), res)
		}
	}

	return batch
}
