package localstore

import (
	"context"
	"errors"

	"tablesync/internal/core/domain/model/kernel"
	"tablesync/internal/core/domain/model/printjob"
	"tablesync/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const hasErrors = "EXISTS (SELECT 1 FROM print_job_errors e WHERE e.job_id = print_jobs.id)"

// PrintQueue implements ports.PrintQueue on the local SQLite file.
type PrintQueue struct {
	db *gorm.DB
}

func NewPrintQueue(db *gorm.DB) *PrintQueue {
	return &PrintQueue{db: db}
}

// Append inserts job. A regular job for an order that already has one is
// not inserted and the stored job is returned instead.
func (q *PrintQueue) Append(ctx context.Context, job *printjob.PrintJob) (*printjob.PrintJob, bool, error) {
	if err := job.Validate(); err != nil {
		return nil, false, err
	}
	dto, err := fromDomain(job)
	if err != nil {
		return nil, false, err
	}

	result := q.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "unique_order_id"}}, DoNothing: true}).
		Create(&dto)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 1 {
		return job, true, nil
	}

	var existing PrintJobDTO
	err = q.preload(ctx).Where("unique_order_id = ?", job.OrderID()).First(&existing).Error
	if err != nil {
		return nil, false, err
	}
	stored, err := toDomain(existing)
	return stored, false, err
}

func (q *PrintQueue) Get(ctx context.Context, id kernel.UUID) (*printjob.PrintJob, error) {
	var dto PrintJobDTO
	err := q.preload(ctx).First(&dto, "id = ?", id.String()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundErrorWithCause("print job", id.String(), err)
	}
	if err != nil {
		return nil, err
	}
	return toDomain(dto)
}

func (q *PrintQueue) List(ctx context.Context) ([]*printjob.PrintJob, error) {
	return q.find(q.preload(ctx))
}

func (q *PrintQueue) ListPending(ctx context.Context) ([]*printjob.PrintJob, error) {
	return q.find(q.preload(ctx).Where("processed = ?", false).Where("NOT " + hasErrors))
}

func (q *PrintQueue) ListFailed(ctx context.Context) ([]*printjob.PrintJob, error) {
	return q.find(q.preload(ctx).Where(hasErrors))
}

// MarkProcessed stores the processed state of job only if the row is still
// unprocessed, so a second mark of the same job reports false.
func (q *PrintQueue) MarkProcessed(ctx context.Context, job *printjob.PrintJob) (bool, error) {
	result := q.db.WithContext(ctx).Model(&PrintJobDTO{}).
		Where("id = ? AND processed = ?", job.ID().String(), false).
		Updates(map[string]any{
			"processed":    true,
			"processed_at": job.ProcessedAt(),
			"attempts":     job.Attempts(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (q *PrintQueue) AppendError(ctx context.Context, job *printjob.PrintJob, rec printjob.ErrorRecord) error {
	return q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := PrintJobErrorDTO{JobID: job.ID().String(), At: rec.At, Message: rec.Message}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		result := tx.Model(&PrintJobDTO{}).Where("id = ?", job.ID().String()).Update("attempts", job.Attempts())
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errs.NewObjectNotFoundError("print job", job.ID().String())
		}
		return nil
	})
}

// Clear deletes every job and error record and returns the number of jobs.
func (q *PrintQueue) Clear(ctx context.Context) (int64, error) {
	var removed int64
	err := q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		global := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := global.Delete(&PrintJobErrorDTO{}).Error; err != nil {
			return err
		}
		result := global.Delete(&PrintJobDTO{})
		removed = result.RowsAffected
		return result.Error
	})
	return removed, err
}

func (q *PrintQueue) preload(ctx context.Context) *gorm.DB {
	return q.db.WithContext(ctx).Preload("Errors", func(db *gorm.DB) *gorm.DB {
		return db.Order("at, id")
	})
}

func (q *PrintQueue) find(query *gorm.DB) ([]*printjob.PrintJob, error) {
	var dtos []PrintJobDTO
	if err := query.Order("created_at, rowid").Find(&dtos).Error; err != nil {
		return nil, err
	}

	jobs := make([]*printjob.PrintJob, 0, len(dtos))
	for _, dto := range dtos {
		job, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}
