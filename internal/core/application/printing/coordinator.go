package printing

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"tablesync/internal/core/domain/model/kernel"
	"tablesync/internal/core/domain/model/order"
	"tablesync/internal/core/domain/model/printjob"
	"tablesync/internal/core/domain/services"
	"tablesync/internal/core/ports"
	"tablesync/internal/pkg/errs"
)

var (
	// ErrPrintJobAlreadyProcessed is returned by Retry for a job that was printed.
	ErrPrintJobAlreadyProcessed = printjob.ErrAlreadyProcessed
	ErrNotPrintingDevice        = errors.New("this device is not the printing device")
)

// DrainReport summarises a Drain call.
type DrainReport struct {
	Printed int
	Failed  int
	// Deferred is set when another pass was running and picked the request up.
	Deferred bool
	// Idle is set when the device is not the printing device.
	Idle bool
}

// Coordinator owns this device's print queue and drains it when the device prints.
type Coordinator struct {
	deviceID string
	queue    ports.PrintQueue
	settings ports.DeviceSettings
	printer  ports.PrinterSink
	renderer services.TicketRenderer
	logger   *slog.Logger
	now      func() time.Time

	pass  sync.Mutex
	rerun atomic.Bool
}

func NewCoordinator(
	deviceID string,
	queue ports.PrintQueue,
	settings ports.DeviceSettings,
	printer ports.PrinterSink,
	renderer services.TicketRenderer,
	logger *slog.Logger,
) (*Coordinator, error) {
	var problems []error
	if deviceID == "" {
		problems = append(problems, errs.NewValueIsRequiredError("device ID"))
	}
	if queue == nil {
		problems = append(problems, errs.NewValueIsRequiredError("print queue"))
	}
	if settings == nil {
		problems = append(problems, errs.NewValueIsRequiredError("device settings"))
	}
	if printer == nil {
		problems = append(problems, errs.NewValueIsRequiredError("printer"))
	}
	if err := errors.Join(problems...); err != nil {
		return nil, err
	}

	return &Coordinator{
		deviceID: deviceID,
		queue:    queue,
		settings: settings,
		printer:  printer,
		renderer: renderer,
		logger:   logger.With("component", "print_coordinator"),
		now:      time.Now,
	}, nil
}

// Enqueue queues o when the auto-print policy matches its kind. It returns
// the queued job, or nil when the policy skipped the order. Enqueueing an
// order that is already queued returns the existing job.
func (c *Coordinator) Enqueue(ctx context.Context, o *order.Order) (*printjob.PrintJob, error) {
	policy, err := c.settings.AutoPrintPolicy(ctx)
	if err != nil {
		return nil, err
	}
	if !policy.Matches(o.Kind()) {
		return nil, nil
	}

	job, err := printjob.New(o, c.deviceID, c.now())
	if err != nil {
		return nil, err
	}
	stored, created, err := c.queue.Append(ctx, job)
	if err != nil {
		return nil, err
	}
	if created {
		c.logger.InfoContext(ctx, "Print job queued", "job_id", stored.ID().String(), "order_id", stored.OrderID())
	}
	return stored, nil
}

// Drain prints every pending job, oldest first, when this device is the
// printing device. A failing job gets an error record and the pass moves on.
func (c *Coordinator) Drain(ctx context.Context) (DrainReport, error) {
	var report DrainReport
	for {
		if !c.pass.TryLock() {
			c.rerun.Store(true)
			if !c.pass.TryLock() {
				report.Deferred = true
				return report, nil
			}
		}
		c.rerun.Store(false)
		err := c.drainOnce(ctx, &report)
		c.pass.Unlock()

		if err != nil || report.Idle || !c.rerun.Load() {
			return report, err
		}
	}
}

func (c *Coordinator) drainOnce(ctx context.Context, report *DrainReport) error {
	printing, err := c.settings.IsPrintingDevice(ctx)
	if err != nil {
		return err
	}
	if !printing {
		report.Idle = true
		return nil
	}

	jobs, err := c.queue.ListPending(ctx)
	if err != nil {
		return err
	}
	for _, job := range jobs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := c.execute(ctx, job); err != nil {
			report.Failed++
			c.logger.WarnContext(ctx, "Print job failed", "job_id", job.ID().String(), "order_id", job.OrderID(), "error", err)
			continue
		}
		report.Printed++
	}
	return nil
}

// Retry executes one job once. The device must be the printing device and
// the job must not be processed.
func (c *Coordinator) Retry(ctx context.Context, id kernel.UUID) (*printjob.PrintJob, error) {
	job, err := c.locked(ctx, func() (*printjob.PrintJob, error) {
		printing, err := c.settings.IsPrintingDevice(ctx)
		if err != nil {
			return nil, err
		}
		if !printing {
			return nil, ErrNotPrintingDevice
		}

		job, err := c.queue.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if job.IsProcessed() {
			return job, ErrPrintJobAlreadyProcessed
		}
		return job, c.execute(ctx, job)
	})
	return job, err
}

// Reprint queues a fresh copy of a printed job and drains.
func (c *Coordinator) Reprint(ctx context.Context, id kernel.UUID) (*printjob.PrintJob, error) {
	job, err := c.locked(ctx, func() (*printjob.PrintJob, error) {
		original, err := c.queue.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		again, err := printjob.NewReprint(original, c.deviceID, c.now())
		if err != nil {
			return nil, err
		}
		stored, _, err := c.queue.Append(ctx, again)
		if err != nil {
			return nil, err
		}
		c.logger.InfoContext(ctx, "Reprint queued", "job_id", stored.ID().String(), "reprint_of", id.String())
		return stored, nil
	})
	if err != nil {
		return nil, err
	}
	if _, err := c.Drain(ctx); err != nil {
		c.logger.WarnContext(ctx, "Drain after reprint failed", "error", err)
	}
	return job, nil
}

// Clear deletes every job. It is the only way jobs leave the queue.
func (c *Coordinator) Clear(ctx context.Context) (int64, error) {
	var removed int64
	_, err := c.locked(ctx, func() (*printjob.PrintJob, error) {
		n, err := c.queue.Clear(ctx)
		removed = n
		return nil, err
	})
	if err == nil {
		c.logger.InfoContext(ctx, "Print queue cleared", "removed", removed)
	}
	return removed, err
}

// Queue lists jobs that need attention: those with recorded errors.
func (c *Coordinator) Queue(ctx context.Context) ([]*printjob.PrintJob, error) {
	return c.queue.ListFailed(ctx)
}

// Jobs lists every job on this device.
func (c *Coordinator) Jobs(ctx context.Context) ([]*printjob.PrintJob, error) {
	return c.queue.List(ctx)
}

// locked runs fn while holding the pass lock and replays a drain that was
// requested meanwhile.
func (c *Coordinator) locked(ctx context.Context, fn func() (*printjob.PrintJob, error)) (*printjob.PrintJob, error) {
	c.pass.Lock()
	job, err := fn()
	c.pass.Unlock()

	if c.rerun.Load() {
		if _, derr := c.Drain(ctx); derr != nil {
			c.logger.WarnContext(ctx, "Deferred drain failed", "error", derr)
		}
	}
	return job, err
}

func (c *Coordinator) execute(ctx context.Context, job *printjob.PrintJob) error {
	ticket := c.renderer.Render(job)
	if err := c.printer.Print(ctx, ticket); err != nil {
		rec := job.RecordFailure(err, c.now())
		if qerr := c.queue.AppendError(ctx, job, rec); qerr != nil {
			return errors.Join(errs.NewPrintExecutionError(job.ID().String(), err), qerr)
		}
		return errs.NewPrintExecutionError(job.ID().String(), err)
	}

	if err := job.MarkProcessed(c.now()); err != nil {
		return err
	}
	changed, err := c.queue.MarkProcessed(ctx, job)
	if err != nil {
		return err
	}
	if !changed {
		c.logger.WarnContext(ctx, "Print job was already marked processed", "job_id", job.ID().String())
	}
	return nil
}
