// Package http exposes the device operations over a JSON API on echo.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"tablesync/internal/core/application/usecases/commands"
	"tablesync/internal/core/application/usecases/queries"
	"tablesync/internal/core/domain/model/kernel"
	"tablesync/internal/core/domain/model/notification"
	"tablesync/internal/core/domain/model/printjob"
	"tablesync/internal/core/ports"
	"tablesync/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

type (
	CartSubmitter interface {
		Handle(ctx context.Context, cmd commands.SubmitCartCommand) (commands.SubmitCartResult, error)
	}
	StatusPromoter interface {
		Handle(ctx context.Context, cmd commands.PromoteStatusCommand) (commands.PromoteStatusResult, error)
	}
	WaitressCaller interface {
		Handle(ctx context.Context, cmd commands.CallWaitressCommand) ([]*notification.Notification, error)
	}
	SystemResetter interface {
		Handle(ctx context.Context) (commands.ResetSystemResult, error)
	}
	ActiveOrdersReader interface {
		Handle(ctx context.Context, query queries.GetActiveOrdersQuery) ([]queries.ActiveOrder, error)
	}
	UnreadNotificationsReader interface {
		Handle(ctx context.Context, query queries.GetUnreadNotificationsQuery) ([]queries.UnreadNotification, error)
	}

	// PrintQueue is the print coordinator as seen by the API.
	PrintQueue interface {
		Retry(ctx context.Context, id kernel.UUID) (*printjob.PrintJob, error)
		Reprint(ctx context.Context, id kernel.UUID) (*printjob.PrintJob, error)
		Clear(ctx context.Context) (int64, error)
		Queue(ctx context.Context) ([]*printjob.PrintJob, error)
		Jobs(ctx context.Context) ([]*printjob.PrintJob, error)
	}
	PrintingElection interface {
		SetPrintingDevice(ctx context.Context, enabled bool) error
		IsPrintingDevice(ctx context.Context) (bool, error)
	}
	NotificationSession interface {
		Session() string
		SetSession(waitress string)
		Acknowledge(ctx context.Context, id kernel.UUID) error
		AcknowledgeOrder(ctx context.Context, orderID string) (int, error)
	}
)

// Dependencies groups what Server needs. Every field is required except
// WebSocket, whose route is skipped when nil.
type Dependencies struct {
	SubmitCart          CartSubmitter
	PromoteStatus       StatusPromoter
	CallWaitress        WaitressCaller
	ResetSystem         SystemResetter
	ActiveOrders        ActiveOrdersReader
	UnreadNotifications UnreadNotificationsReader
	PrintQueue          PrintQueue
	Election            PrintingElection
	Notifications       NotificationSession
	Settings            ports.DeviceSettings
	WebSocket           echo.HandlerFunc
}

// Server maps HTTP requests onto commands, queries and the device services.
type Server struct {
	deps   Dependencies
	logger *slog.Logger
}

func NewServer(deps Dependencies, logger *slog.Logger) *Server {
	return &Server{deps: deps, logger: logger.With("component", "http")}
}

// RegisterRoutes mounts the API on e.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")
	api.POST("/carts", s.SubmitCart)
	api.GET("/orders", s.GetOrders)
	api.PATCH("/orders/:id/status", s.PromoteStatus)
	api.POST("/orders/:id/ack", s.AcknowledgeOrder)
	api.GET("/notifications", s.GetNotifications)
	api.POST("/notifications/:id/ack", s.AcknowledgeNotification)
	api.POST("/kitchen-calls", s.CallWaitress)

	api.GET("/device/printing", s.GetPrintingDevice)
	api.PUT("/device/printing", s.SetPrintingDevice)
	api.GET("/device/auto-print-policy", s.GetAutoPrintPolicy)
	api.PUT("/device/auto-print-policy", s.SetAutoPrintPolicy)
	api.PUT("/device/session", s.SetSession)
	api.GET("/device/cooking-options", s.GetCookingOptions)

	api.GET("/print-jobs", s.GetPrintJobs)
	api.DELETE("/print-jobs", s.ClearPrintJobs)
	api.POST("/print-jobs/:id/retry", s.RetryPrintJob)
	api.POST("/print-jobs/:id/reprint", s.ReprintPrintJob)

	api.POST("/admin/reset", s.ResetSystem)

	if s.deps.WebSocket != nil {
		api.GET("/ws", s.deps.WebSocket)
	}
}

func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// SubmitCart handles POST /api/v1/carts. Sub-orders that could not be
// persisted are still queued for printing, so a 503 carries the result too.
func (s *Server) SubmitCart(ctx echo.Context) error {
	var body NewCart
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	cart, err := body.ToDomain()
	if err != nil {
		return writeError(ctx, err)
	}
	cmd, err := commands.NewSubmitCartCommand(cart)
	if err != nil {
		return writeError(ctx, err)
	}

	result, err := s.deps.SubmitCart.Handle(ctx.Request().Context(), cmd)
	if err != nil && len(result.Orders)+len(result.Unsaved) == 0 {
		return s.fail(ctx, "submit cart", err)
	}

	response := CartSubmitted{Orders: make([]SubOrder, 0, len(result.Orders)+len(result.Unsaved))}
	for _, o := range result.Orders {
		response.Orders = append(response.Orders, subOrder(o, true))
	}
	for _, o := range result.Unsaved {
		response.Orders = append(response.Orders, subOrder(o, false))
	}
	if err != nil {
		s.logger.WarnContext(ctx.Request().Context(), "Cart partially persisted", "error", err)
		response.Warning = err.Error()
		return ctx.JSON(http.StatusServiceUnavailable, response)
	}
	return ctx.JSON(http.StatusCreated, response)
}

// GetOrders handles GET /api/v1/orders?table=&kind=&status=. status may repeat.
func (s *Server) GetOrders(ctx echo.Context) error {
	query, err := queries.NewGetActiveOrdersQuery(
		ctx.QueryParam("table"),
		ctx.QueryParam("kind"),
		ctx.QueryParams()["status"],
	)
	if err != nil {
		return writeError(ctx, err)
	}
	orders, err := s.deps.ActiveOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, "list orders", err)
	}
	return ctx.JSON(http.StatusOK, orders)
}

// PromoteStatus handles PATCH /api/v1/orders/:id/status.
func (s *Server) PromoteStatus(ctx echo.Context) error {
	var body StatusChange
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	cmd, err := commands.NewPromoteStatusCommand(ctx.Param("id"), body.Status)
	if err != nil {
		return writeError(ctx, err)
	}
	if _, err = s.deps.PromoteStatus.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, "promote status", err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// AcknowledgeOrder handles POST /api/v1/orders/:id/ack, sent when the
// signed-in waitress opens an order.
func (s *Server) AcknowledgeOrder(ctx echo.Context) error {
	n, err := s.deps.Notifications.AcknowledgeOrder(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return s.fail(ctx, "acknowledge order", err)
	}
	return ctx.JSON(http.StatusOK, Acknowledged{Acknowledged: n})
}

// GetNotifications handles GET /api/v1/notifications?waitress=. The session
// waitress is used when the parameter is absent.
func (s *Server) GetNotifications(ctx echo.Context) error {
	waitress := ctx.QueryParam("waitress")
	if waitress == "" {
		waitress = s.deps.Notifications.Session()
	}
	query, err := queries.NewGetUnreadNotificationsQuery(waitress)
	if err != nil {
		return writeError(ctx, err)
	}
	unread, err := s.deps.UnreadNotifications.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, "list notifications", err)
	}
	return ctx.JSON(http.StatusOK, unread)
}

func (s *Server) AcknowledgeNotification(ctx echo.Context) error {
	id, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}
	if err = s.deps.Notifications.Acknowledge(ctx.Request().Context(), id); err != nil {
		return s.fail(ctx, "acknowledge notification", err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// CallWaitress handles POST /api/v1/kitchen-calls.
func (s *Server) CallWaitress(ctx echo.Context) error {
	var body KitchenCall
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	cmd, err := commands.NewCallWaitressCommand(body.Table, body.Waitress, body.OrderID)
	if err != nil {
		return writeError(ctx, err)
	}
	created, err := s.deps.CallWaitress.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, "call waitress", err)
	}

	response := KitchenCallPlaced{Notified: make([]string, 0, len(created))}
	for _, n := range created {
		response.Notified = append(response.Notified, n.TargetWaitress())
	}
	return ctx.JSON(http.StatusCreated, response)
}

func (s *Server) GetPrintingDevice(ctx echo.Context) error {
	enabled, err := s.deps.Election.IsPrintingDevice(ctx.Request().Context())
	if err != nil {
		return s.fail(ctx, "read printing device", err)
	}
	return ctx.JSON(http.StatusOK, PrintingDevice{Enabled: enabled})
}

// SetPrintingDevice handles PUT /api/v1/device/printing. Enabling triggers a
// drain of the pending queue.
func (s *Server) SetPrintingDevice(ctx echo.Context) error {
	var body PrintingDevice
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err := s.deps.Election.SetPrintingDevice(ctx.Request().Context(), body.Enabled); err != nil {
		return s.fail(ctx, "set printing device", err)
	}
	return ctx.JSON(http.StatusOK, body)
}

func (s *Server) GetAutoPrintPolicy(ctx echo.Context) error {
	policy, err := s.deps.Settings.AutoPrintPolicy(ctx.Request().Context())
	if err != nil {
		return s.fail(ctx, "read auto-print policy", err)
	}
	return ctx.JSON(http.StatusOK, AutoPrintPolicy{Policy: string(policy)})
}

func (s *Server) SetAutoPrintPolicy(ctx echo.Context) error {
	var body AutoPrintPolicy
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	policy, err := printjob.ParsePolicy(body.Policy)
	if err != nil {
		return writeError(ctx, err)
	}
	if err = s.deps.Settings.SetAutoPrintPolicy(ctx.Request().Context(), policy); err != nil {
		return s.fail(ctx, "set auto-print policy", err)
	}
	return ctx.JSON(http.StatusOK, AutoPrintPolicy{Policy: string(policy)})
}

// SetSession handles PUT /api/v1/device/session. An empty waitress signs out.
func (s *Server) SetSession(ctx echo.Context) error {
	var body Session
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	s.deps.Notifications.SetSession(body.Waitress)
	return ctx.JSON(http.StatusOK, Session{Waitress: s.deps.Notifications.Session()})
}

func (s *Server) GetCookingOptions(ctx echo.Context) error {
	options, err := s.deps.Settings.CookingOptions(ctx.Request().Context())
	if err != nil {
		return s.fail(ctx, "read cooking options", err)
	}
	return ctx.JSON(http.StatusOK, options)
}

// GetPrintJobs handles GET /api/v1/print-jobs. With failed=true only jobs
// carrying errors are listed.
func (s *Server) GetPrintJobs(ctx echo.Context) error {
	failedOnly := false
	if raw := ctx.QueryParam("failed"); raw != "" {
		var err error
		if failedOnly, err = strconv.ParseBool(raw); err != nil {
			return badRequest(ctx, "failed must be a boolean")
		}
	}

	list := s.deps.PrintQueue.Jobs
	if failedOnly {
		list = s.deps.PrintQueue.Queue
	}
	jobs, err := list(ctx.Request().Context())
	if err != nil {
		return s.fail(ctx, "list print jobs", err)
	}
	return ctx.JSON(http.StatusOK, printJobs(jobs))
}

func (s *Server) ClearPrintJobs(ctx echo.Context) error {
	removed, err := s.deps.PrintQueue.Clear(ctx.Request().Context())
	if err != nil {
		return s.fail(ctx, "clear print jobs", err)
	}
	return ctx.JSON(http.StatusOK, Cleared{Removed: removed})
}

// RetryPrintJob handles POST /api/v1/print-jobs/:id/retry. A failed attempt
// answers 502 with the job and its recorded error.
func (s *Server) RetryPrintJob(ctx echo.Context) error {
	id, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}
	job, err := s.deps.PrintQueue.Retry(ctx.Request().Context(), id)
	if errors.Is(err, errs.ErrPrintExecution) && job != nil {
		s.logger.WarnContext(ctx.Request().Context(), "Print job retry failed", "job_id", id.String(), "error", err)
		return ctx.JSON(http.StatusBadGateway, printJob(job))
	}
	if err != nil {
		return s.fail(ctx, "retry print job", err)
	}
	return ctx.JSON(http.StatusOK, printJob(job))
}

func (s *Server) ReprintPrintJob(ctx echo.Context) error {
	id, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}
	job, err := s.deps.PrintQueue.Reprint(ctx.Request().Context(), id)
	if err != nil {
		return s.fail(ctx, "reprint print job", err)
	}
	return ctx.JSON(http.StatusCreated, printJob(job))
}

// ResetSystem handles POST /api/v1/admin/reset.
func (s *Server) ResetSystem(ctx echo.Context) error {
	result, err := s.deps.ResetSystem.Handle(ctx.Request().Context())
	if err != nil {
		return s.fail(ctx, "reset system", err)
	}
	return ctx.JSON(http.StatusOK, Reset{Orders: result.Orders, Notifications: result.Notifications})
}

func (s *Server) fail(ctx echo.Context, operation string, err error) error {
	if statusOf(err) >= http.StatusInternalServerError {
		s.logger.ErrorContext(ctx.Request().Context(), "Request failed", "operation", operation, "error", err)
	}
	return writeError(ctx, err)
}
