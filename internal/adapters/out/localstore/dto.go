// Package localstore keeps the device-local state in a SQLite file: the
// print queue and the device settings. Nothing here is shared between devices.
package localstore

import (
	"encoding/json"
	"time"

	"tablesync/internal/core/domain/model/kernel"
	"tablesync/internal/core/domain/model/printjob"
	"tablesync/internal/pkg/errs"
)

// PrintJobDTO is a row of print_jobs. UniqueOrderID repeats OrderID for
// regular jobs and is NULL for reprints, so the unique index allows any
// number of reprints per order and exactly one regular job.
type PrintJobDTO struct {
	ID            string    `gorm:"primaryKey;size:36"`
	OrderID       string    `gorm:"index;size:96;not null"`
	UniqueOrderID *string   `gorm:"column:unique_order_id;uniqueIndex;size:96"`
	Kind          string    `gorm:"size:16;not null"`
	Snapshot      string    `gorm:"type:text;not null"`
	OwnerDeviceID string    `gorm:"size:64;not null"`
	CreatedAt     time.Time `gorm:"index;autoCreateTime:false"`
	Processed     bool      `gorm:"index;not null;default:false"`
	ProcessedAt   *time.Time
	Attempts      int                `gorm:"not null;default:0"`
	ReprintOf     *string            `gorm:"size:36"`
	Errors        []PrintJobErrorDTO `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE"`
}

func (PrintJobDTO) TableName() string {
	return "print_jobs"
}

// PrintJobErrorDTO is one failed attempt of a print job.
type PrintJobErrorDTO struct {
	ID      uint      `gorm:"primaryKey"`
	JobID   string    `gorm:"index;size:36;not null"`
	At      time.Time `gorm:"not null"`
	Message string    `gorm:"type:text;not null"`
}

func (PrintJobErrorDTO) TableName() string {
	return "print_job_errors"
}

// SettingDTO is one device_settings entry.
type SettingDTO struct {
	Key       string `gorm:"column:name;primaryKey;size:64"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (SettingDTO) TableName() string {
	return "device_settings"
}

func fromDomain(job *printjob.PrintJob) (PrintJobDTO, error) {
	snapshot, err := json.Marshal(job.Snapshot())
	if err != nil {
		return PrintJobDTO{}, err
	}

	dto := PrintJobDTO{
		ID:            job.ID().String(),
		OrderID:       job.OrderID(),
		Kind:          job.Kind().String(),
		Snapshot:      string(snapshot),
		OwnerDeviceID: job.OwnerDeviceID(),
		CreatedAt:     job.CreatedAt().UTC(),
		Processed:     job.IsProcessed(),
		ProcessedAt:   job.ProcessedAt(),
		Attempts:      job.Attempts(),
	}
	if source := job.ReprintOf(); source != nil {
		id := source.String()
		dto.ReprintOf = &id
	} else {
		orderID := job.OrderID()
		dto.UniqueOrderID = &orderID
	}
	for _, rec := range job.Errors() {
		dto.Errors = append(dto.Errors, PrintJobErrorDTO{JobID: dto.ID, At: rec.At, Message: rec.Message})
	}
	return dto, nil
}

func toDomain(dto PrintJobDTO) (*printjob.PrintJob, error) {
	id, err := kernel.UUIDFromString(dto.ID)
	if err != nil {
		return nil, err
	}
	kind, err := kernel.ParseKind(dto.Kind)
	if err != nil {
		return nil, err
	}
	var snapshot printjob.Snapshot
	if err = json.Unmarshal([]byte(dto.Snapshot), &snapshot); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("print job snapshot", err)
	}

	var reprintOf *kernel.UUID
	if dto.ReprintOf != nil {
		source, err := kernel.UUIDFromString(*dto.ReprintOf)
		if err != nil {
			return nil, err
		}
		reprintOf = &source
	}

	records := make([]printjob.ErrorRecord, 0, len(dto.Errors))
	for _, e := range dto.Errors {
		records = append(records, printjob.ErrorRecord{At: e.At.UTC(), Message: e.Message})
	}

	return printjob.Restore(printjob.RestoreParams{
		ID:            id,
		Kind:          kind,
		Snapshot:      snapshot,
		OwnerDeviceID: dto.OwnerDeviceID,
		CreatedAt:     dto.CreatedAt,
		Processed:     dto.Processed,
		ProcessedAt:   dto.ProcessedAt,
		Errors:        records,
		Attempts:      dto.Attempts,
		ReprintOf:     reprintOf,
	})
}
