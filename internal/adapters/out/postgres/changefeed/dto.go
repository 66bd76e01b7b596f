// Package changefeed reads the remote store's append-only change log.
package changefeed

import "time"

// ChangeDTO is a row of the changes table. Payload holds the JSON row image
// after the change and is empty for deletes.
type ChangeDTO struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	Collection string    `gorm:"column:collection;size:32;not null"`
	RecordID   string    `gorm:"size:96;not null"`
	Action     string    `gorm:"size:16;not null"`
	Payload    string    `gorm:"type:text"`
	ChangedAt  time.Time `gorm:"not null"`
}

// TableName specifies the database table name for change records.
func (ChangeDTO) TableName() string {
	return "changes"
}
