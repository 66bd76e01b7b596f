package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	httpin "tablesync/internal/adapters/in/http"
	"tablesync/internal/adapters/in/ws"
	"tablesync/internal/adapters/out/localstore"
	"tablesync/internal/adapters/out/postgres"
	"tablesync/internal/adapters/out/postgres/changefeed"
	"tablesync/internal/adapters/out/printer"
	"tablesync/internal/adapters/out/redisfeed"
	"tablesync/internal/core/application/notify"
	"tablesync/internal/core/application/pipeline"
	"tablesync/internal/core/application/printing"
	"tablesync/internal/core/application/usecases/commands"
	"tablesync/internal/core/application/usecases/queries"
	"tablesync/internal/core/domain/services"
	"tablesync/internal/core/ports"
	"tablesync/internal/jobs"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const dispatcherBuffer = 256

// CompositionRoot builds every component of one device and owns the
// background goroutines.
type CompositionRoot struct {
	config Config
	logger *slog.Logger

	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	settings   *localstore.Settings

	hub          *ws.Hub
	coordinator  *printing.Coordinator
	election     *printing.Election
	deduplicator *notify.Deduplicator
	dispatcher   *pipeline.Dispatcher
	jobManager   *jobs.JobManager
	feedJob      *jobs.ChangeFeedJob

	redis    *redis.Client
	listener *redisfeed.Listener

	wg sync.WaitGroup
}

// NewCompositionRoot wires the device. gormDB is the shared remote store,
// localDB the device-local SQLite. rdb may be nil.
func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	localDB *gorm.DB,
	rdb *redis.Client,
	logger *slog.Logger,
) (*CompositionRoot, error) {
	c := &CompositionRoot{
		config:   config,
		logger:   logger,
		gormDB:   gormDB,
		settings: localstore.NewSettings(localDB),
		hub:      ws.NewHub(logger),
		redis:    rdb,
	}

	sink, err := newPrinterSink(config)
	if err != nil {
		return nil, err
	}
	renderer, err := services.NewTicketRenderer(config.TicketWidth, time.Local)
	if err != nil {
		return nil, err
	}
	c.coordinator, err = printing.NewCoordinator(
		config.DeviceID,
		localstore.NewPrintQueue(localDB),
		c.settings,
		sink,
		renderer,
		logger,
	)
	if err != nil {
		return nil, err
	}

	var hooks []postgres.AfterCommitHook
	if rdb != nil {
		hooks = append(hooks, redisfeed.NewPublisher(rdb, redisfeed.DefaultChannel, config.RemoteTimeout, logger).Notify)
	}
	c.uowFactory = postgres.NewGormUnitOfWorkFactory(gormDB, config.RemoteTimeout, hooks...)

	c.dispatcher = pipeline.NewDispatcher(dispatcherBuffer, c.settings, logger)
	c.election = printing.NewElection(c.settings, c.dispatcher, logger)
	c.deduplicator = notify.NewDeduplicator(c.uowFactory, c.hub, config.DeviceWaitress, logger)
	pipeline.RegisterDefaultRoutes(c.dispatcher, c.coordinator, c.deduplicator)

	c.feedJob = jobs.NewChangeFeedJob(
		changefeed.NewGormChangeFeed(gormDB, config.RemoteTimeout, logger),
		c.settings,
		c.dispatcher,
		config.FeedPollSpec,
		logger,
	)
	c.jobManager = jobs.NewJobManager(
		c.feedJob,
		jobs.NewNotificationPollJob(c.dispatcher, config.NotificationPollSpec, logger),
	)
	if rdb != nil {
		c.listener = redisfeed.NewListener(rdb, redisfeed.DefaultChannel, c.feedJob.Wake, logger)
	}
	return c, nil
}

func newPrinterSink(config Config) (ports.PrinterSink, error) {
	switch config.PrinterDriver {
	case "", printer.DriverStdout:
		return printer.NewWriterPrinter(os.Stdout), nil
	case printer.DriverFile:
		return printer.NewFilePrinter(config.PrinterFile)
	case printer.DriverNetwork:
		return printer.NewNetworkPrinter(config.PrinterAddress, config.RemoteTimeout)
	default:
		return nil, fmt.Errorf("unknown printer driver %q", config.PrinterDriver)
	}
}

// Start launches the hub, the dispatcher, the cron jobs and the redis
// listener. They stop when ctx is cancelled; Wait blocks until they have.
func (c *CompositionRoot) Start(ctx context.Context) error {
	c.goRun(func() { c.hub.Run(ctx) })
	c.goRun(func() { c.dispatcher.Run(ctx) })

	if err := c.jobManager.StartAll(); err != nil {
		return err
	}
	c.goRun(func() {
		<-ctx.Done()
		c.jobManager.StopAll()
	})

	if c.listener != nil {
		c.goRun(func() {
			if err := c.listener.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				c.logger.ErrorContext(ctx, "Redis listener stopped", "error", err)
			}
		})
	}

	// Catch up right away instead of waiting for the first tick, and print
	// whatever the durable queue still holds from before the restart.
	c.dispatcher.RequestDrain(ctx)
	c.goRun(func() { c.feedJob.Wake(ctx, 0) })
	return nil
}

// Wait blocks until every goroutine started by Start has returned.
func (c *CompositionRoot) Wait() {
	c.wg.Wait()
}

func (c *CompositionRoot) goRun(fn func()) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		fn()
	}()
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) uowFactoryForCommands() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateSubmitCartCommandHandler() commands.SubmitCartCommandHandler {
	return commands.NewSubmitCartCommandHandler(c.orderUoWFactory(), c.coordinator, c.dispatcher, services.NewOrderSplitter(), c.logger)
}

func (c *CompositionRoot) CreatePromoteStatusCommandHandler() commands.PromoteStatusCommandHandler {
	return commands.NewPromoteStatusCommandHandler(c.uowFactoryForCommands(), c.logger)
}

func (c *CompositionRoot) CreateCallWaitressCommandHandler() commands.CallWaitressCommandHandler {
	return commands.NewCallWaitressCommandHandler(c.uowFactoryForCommands())
}

func (c *CompositionRoot) CreateResetSystemCommandHandler() commands.ResetSystemCommandHandler {
	return commands.NewResetSystemCommandHandler(c.uowFactoryForCommands(), c.logger)
}

func (c *CompositionRoot) CreateGetActiveOrdersQueryHandler() queries.GetActiveOrdersQueryHandler {
	return queries.NewGetActiveOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetUnreadNotificationsQueryHandler() queries.GetUnreadNotificationsQueryHandler {
	return queries.NewGetUnreadNotificationsQueryHandler(c.gormDB)
}

// CreateServer assembles the HTTP adapter over the handlers above.
func (c *CompositionRoot) CreateServer() *httpin.Server {
	submitCart := c.CreateSubmitCartCommandHandler()
	promoteStatus := c.CreatePromoteStatusCommandHandler()
	callWaitress := c.CreateCallWaitressCommandHandler()
	resetSystem := c.CreateResetSystemCommandHandler()

	return httpin.NewServer(httpin.Dependencies{
		SubmitCart:          &submitCart,
		PromoteStatus:       &promoteStatus,
		CallWaitress:        &callWaitress,
		ResetSystem:         &resetSystem,
		ActiveOrders:        c.CreateGetActiveOrdersQueryHandler(),
		UnreadNotifications: c.CreateGetUnreadNotificationsQueryHandler(),
		PrintQueue:          c.coordinator,
		Election:            c.election,
		Notifications:       c.deduplicator,
		Settings:            c.settings,
		WebSocket:           c.hub.Serve,
	}, c.logger)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
