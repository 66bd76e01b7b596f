package ports

import (
	"context"

	"tablesync/internal/core/domain/model/kernel"
	"tablesync/internal/core/domain/model/printjob"
)

// PrintQueue is the device-local durable list of print jobs. It survives
// process restarts and is only touched by its own process.
type PrintQueue interface {
	// Append stores job unless a non-reprint job for the same order already
	// exists. It returns the stored job and whether it was created.
	Append(ctx context.Context, job *printjob.PrintJob) (*printjob.PrintJob, bool, error)

	// Get returns the job with id or an errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*printjob.PrintJob, error)

	// List returns every job, oldest first.
	List(ctx context.Context) ([]*printjob.PrintJob, error)

	// ListPending returns unprocessed jobs without recorded errors, oldest first.
	ListPending(ctx context.Context) ([]*printjob.PrintJob, error)

	// ListFailed returns jobs that have at least one recorded error, oldest first.
	ListFailed(ctx context.Context) ([]*printjob.PrintJob, error)

	// MarkProcessed flips processed for job if it is still false and
	// reports whether this call changed it.
	MarkProcessed(ctx context.Context, job *printjob.PrintJob) (bool, error)

	// AppendError stores rec against job.
	AppendError(ctx context.Context, job *printjob.PrintJob, rec printjob.ErrorRecord) error

	// Clear removes every job and error record.
	Clear(ctx context.Context) (int64, error)
}
