package repository

import (
	"context"
	"time"

	"video-insight/internal/domain/model"
)

// AnalysisJobRepository is the persisted record of a job and its lifecycle.
// All writes to a given job id are serialized through CompareAndSetStatus:
// no two executions may hold processing ownership of the same id at once.
type AnalysisJobRepository interface {
	Save(ctx context.Context, tx Tx, job *model.AnalysisJob) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.AnalysisJob, error)
	FindAllByUser(ctx context.Context, userID string, offset, limit int) ([]*model.AnalysisJob, error)

	// CompareAndSetStatus transitions id from expected to next atomically.
	// It returns false (and no error) when the stored status is not expected,
	// which is how a losing claimant learns to back off.
	CompareAndSetStatus(ctx context.Context, id string, expected, next model.AnalysisStatus) (bool, error)

	// MarkCompleted attaches results and moves the job to completed.
	MarkCompleted(ctx context.Context, id string, results *model.AnalysisResults) error

	// MarkFailed records the failure message and moves the job to failed.
	MarkFailed(ctx context.Context, id string, message string) error

	// FindStaleQueued lists ids of jobs still queued after olderThan, oldest
	// first. Used by the dispatcher to re-enqueue work lost to a crash.
	FindStaleQueued(ctx context.Context, olderThan time.Duration, limit int) ([]string, error)
}
