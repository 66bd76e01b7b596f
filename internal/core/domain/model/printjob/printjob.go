// Package printjob models the device-local print queue entries.
//
// A PrintJob is owned by the device that queued it and carries a snapshot of
// the sub-order. Only the printing device executes jobs; processed moves from
// false to true exactly once and never back. Reprinting creates a new job.
package printjob

import (
	"errors"
	"math"
	"strings"
	"time"

	"tablesync/internal/core/domain/model/kernel"
	"tablesync/internal/core/domain/model/order"
	"tablesync/internal/pkg/errs"
)

var (
	ErrPrintJobIsNotConstructed = errors.New("PrintJob must be created via New or Restore")
	ErrAlreadyProcessed         = errors.New("print job already processed")
	ErrNotProcessed             = errors.New("print job has not been printed yet, retry it instead")
)

// ErrorRecord is one failed execution attempt.
type ErrorRecord struct {
	At      time.Time
	Message string
}

type PrintJob struct {
	id            kernel.UUID
	orderID       string
	kind          kernel.Kind
	snapshot      Snapshot
	ownerDeviceID string
	createdAt     time.Time
	processed     bool
	processedAt   *time.Time
	errors        []ErrorRecord
	attempts      int
	reprintOf     *kernel.UUID

	isConstructed bool
}

// New queues o on device ownerDeviceID.
func New(o *order.Order, ownerDeviceID string, now time.Time) (*PrintJob, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return Restore(RestoreParams{
		ID:            kernel.NewUUID(),
		Kind:          o.Kind(),
		Snapshot:      SnapshotOf(o),
		OwnerDeviceID: ownerDeviceID,
		CreatedAt:     now,
	})
}

// NewReprint queues the snapshot of an already printed job again under a new ID.
func NewReprint(original *PrintJob, ownerDeviceID string, now time.Time) (*PrintJob, error) {
	if err := original.Validate(); err != nil {
		return nil, err
	}
	if !original.processed {
		return nil, ErrNotProcessed
	}
	source := original.id
	return Restore(RestoreParams{
		ID:            kernel.NewUUID(),
		Kind:          original.kind,
		Snapshot:      original.snapshot,
		OwnerDeviceID: ownerDeviceID,
		CreatedAt:     now,
		ReprintOf:     &source,
	})
}

// RestoreParams holds the persisted state of a job.
type RestoreParams struct {
	ID            kernel.UUID
	Kind          kernel.Kind
	Snapshot      Snapshot
	OwnerDeviceID string
	CreatedAt     time.Time
	Processed     bool
	ProcessedAt   *time.Time
	Errors        []ErrorRecord
	Attempts      int
	ReprintOf     *kernel.UUID
}

func Restore(p RestoreParams) (*PrintJob, error) {
	var problems []error
	if err := p.ID.Validate(); err != nil {
		problems = append(problems, err)
	}
	if err := p.Kind.Validate(); err != nil {
		problems = append(problems, err)
	}
	if p.Snapshot.OrderID == "" {
		problems = append(problems, errs.NewValueIsRequiredError("snapshot order ID"))
	}
	if p.Attempts < 0 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("attempts", p.Attempts, 0, math.MaxInt))
	}
	if strings.TrimSpace(p.OwnerDeviceID) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("owner device ID"))
	}
	if err := errors.Join(problems...); err != nil {
		return nil, err
	}

	return &PrintJob{
		id:            p.ID,
		orderID:       p.Snapshot.OrderID,
		kind:          p.Kind,
		snapshot:      p.Snapshot,
		ownerDeviceID: p.OwnerDeviceID,
		createdAt:     p.CreatedAt.UTC(),
		processed:     p.Processed,
		processedAt:   p.ProcessedAt,
		errors:        append([]ErrorRecord(nil), p.Errors...),
		attempts:      p.Attempts,
		reprintOf:     p.ReprintOf,
		isConstructed: true,
	}, nil
}

func (j *PrintJob) Validate() error {
	if j == nil || !j.isConstructed {
		return ErrPrintJobIsNotConstructed
	}
	return nil
}

func (j *PrintJob) ID() kernel.UUID         { return j.id }
func (j *PrintJob) OrderID() string         { return j.orderID }
func (j *PrintJob) Kind() kernel.Kind       { return j.kind }
func (j *PrintJob) Snapshot() Snapshot      { return j.snapshot }
func (j *PrintJob) OwnerDeviceID() string   { return j.ownerDeviceID }
func (j *PrintJob) CreatedAt() time.Time    { return j.createdAt }
func (j *PrintJob) IsProcessed() bool       { return j.processed }
func (j *PrintJob) ProcessedAt() *time.Time { return j.processedAt }
func (j *PrintJob) ReprintOf() *kernel.UUID { return j.reprintOf }
func (j *PrintJob) Errors() []ErrorRecord   { return append([]ErrorRecord(nil), j.errors...) }
func (j *PrintJob) Attempts() int           { return j.attempts }
func (j *PrintJob) HasErrors() bool         { return len(j.errors) > 0 }

// IsAutoPrintable reports whether a drain pass may pick the job up. Failed
// jobs wait for a manual retry.
func (j *PrintJob) IsAutoPrintable() bool {
	return !j.processed && len(j.errors) == 0
}

// MarkProcessed records a successful print.
func (j *PrintJob) MarkProcessed(now time.Time) error {
	if j.processed {
		return ErrAlreadyProcessed
	}
	at := now.UTC()
	j.processed = true
	j.processedAt = &at
	j.attempts++
	return nil
}

// RecordFailure appends a timestamped error. processed stays false.
func (j *PrintJob) RecordFailure(cause error, now time.Time) ErrorRecord {
	rec := ErrorRecord{At: now.UTC(), Message: cause.Error()}
	j.errors = append(j.errors, rec)
	j.attempts++
	return rec
}
