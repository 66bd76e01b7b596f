package printing

import (
	"context"
	"log/slog"

	"tablesync/internal/core/ports"
)

// DrainRequester schedules an asynchronous drain pass.
type DrainRequester interface {
	RequestDrain(ctx context.Context)
}

// Election holds this device's printing-device flag.
type Election struct {
	settings ports.DeviceSettings
	drains   DrainRequester
	logger   *slog.Logger
}

func NewElection(settings ports.DeviceSettings, drains DrainRequester, logger *slog.Logger) *Election {
	return &Election{
		settings: settings,
		drains:   drains,
		logger:   logger.With("component", "print_election"),
	}
}

// SetPrintingDevice persists the flag. Enabling it requests an immediate
// drain of everything already queued.
func (e *Election) SetPrintingDevice(ctx context.Context, enabled bool) error {
	if err := e.settings.SetPrintingDevice(ctx, enabled); err != nil {
		return err
	}
	e.logger.InfoContext(ctx, "Printing device flag changed", "enabled", enabled)
	if enabled && e.drains != nil {
		e.drains.RequestDrain(ctx)
	}
	return nil
}

func (e *Election) IsPrintingDevice(ctx context.Context) (bool, error) {
	return e.settings.IsPrintingDevice(ctx)
}
