package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"tablesync/internal/core/domain/model/printjob"
	"tablesync/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	keyPrintingDevice  = "printing_device"
	keyAutoPrintPolicy = "auto_print_policy"
	keyFeedCursor      = "feed_cursor"
	keyCookingOptions  = "cooking_options"
	keyDeviceID        = "device_id"
)

// DefaultCookingOptions is returned until the device stores its own list.
var DefaultCookingOptions = []string{"rare", "medium-rare", "medium", "well-done"}

// Settings implements ports.DeviceSettings on the device_settings table.
type Settings struct {
	db *gorm.DB
}

func NewSettings(db *gorm.DB) *Settings {
	return &Settings{db: db}
}

// DeviceID returns the identity of this device, generating and storing one
// on first use so that it survives restarts.
func (s *Settings) DeviceID(ctx context.Context) (string, error) {
	raw, ok, err := s.get(ctx, keyDeviceID)
	if err != nil || ok {
		return raw, err
	}

	row := SettingDTO{Key: keyDeviceID, Value: uuid.NewString(), UpdatedAt: time.Now().UTC()}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
	if err != nil {
		return "", err
	}
	raw, _, err = s.get(ctx, keyDeviceID)
	return raw, err
}

func (s *Settings) IsPrintingDevice(ctx context.Context) (bool, error) {
	raw, ok, err := s.get(ctx, keyPrintingDevice)
	if err != nil || !ok {
		return false, err
	}
	enabled, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errs.NewValueIsInvalidErrorWithCause(keyPrintingDevice, err)
	}
	return enabled, nil
}

func (s *Settings) SetPrintingDevice(ctx context.Context, enabled bool) error {
	return s.set(ctx, keyPrintingDevice, strconv.FormatBool(enabled))
}

func (s *Settings) AutoPrintPolicy(ctx context.Context) (printjob.Policy, error) {
	raw, ok, err := s.get(ctx, keyAutoPrintPolicy)
	if err != nil {
		return "", err
	}
	if !ok {
		return printjob.DefaultPolicy, nil
	}
	return printjob.ParsePolicy(raw)
}

func (s *Settings) SetAutoPrintPolicy(ctx context.Context, policy printjob.Policy) error {
	if err := policy.Validate(); err != nil {
		return err
	}
	return s.set(ctx, keyAutoPrintPolicy, string(policy))
}

func (s *Settings) FeedCursor(ctx context.Context) (int64, bool, error) {
	raw, ok, err := s.get(ctx, keyFeedCursor)
	if err != nil || !ok {
		return 0, false, err
	}
	cursor, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, errs.NewValueIsInvalidErrorWithCause(keyFeedCursor, err)
	}
	return cursor, true, nil
}

func (s *Settings) SetFeedCursor(ctx context.Context, id int64) error {
	return s.set(ctx, keyFeedCursor, strconv.FormatInt(id, 10))
}

func (s *Settings) CookingOptions(ctx context.Context) ([]string, error) {
	raw, ok, err := s.get(ctx, keyCookingOptions)
	if err != nil {
		return nil, err
	}
	if !ok {
		return append([]string(nil), DefaultCookingOptions...), nil
	}
	var options []string
	if err = json.Unmarshal([]byte(raw), &options); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause(keyCookingOptions, err)
	}
	return options, nil
}

func (s *Settings) SetCookingOptions(ctx context.Context, options []string) error {
	if len(options) == 0 {
		return errs.NewValueIsRequiredError("cooking options")
	}
	raw, err := json.Marshal(options)
	if err != nil {
		return err
	}
	return s.set(ctx, keyCookingOptions, string(raw))
}

func (s *Settings) get(ctx context.Context, key string) (string, bool, error) {
	var row SettingDTO
	err := s.db.WithContext(ctx).First(&row, "name = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return row.Value, true, nil
}

func (s *Settings) set(ctx context.Context, key, value string) error {
	row := SettingDTO{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}
