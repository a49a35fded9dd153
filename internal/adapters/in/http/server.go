// Package http exposes the fulfillment API over echo. Handlers translate
// requests into commands and queries and map domain errors onto HTTP codes;
// no business rules live here.
package http

import (
	"errors"
	"net/http"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const (
	headerIdempotencyKey = "Idempotency-Key"
	headerWorkerID       = "X-Worker-ID"
	headerAdminID        = "X-Admin-ID"
)

// Handlers bundles the command and query handlers the server dispatches to.
type Handlers struct {
	CreateOrder    commands.CreateOrderCommandHandler
	CancelOrder    commands.CancelOrderCommandHandler
	ConfirmPayment commands.ConfirmPaymentCommandHandler
	ClaimDelivery  commands.ClaimDeliveryCommandHandler
	UpdateDelivery commands.UpdateDeliveryStatusCommandHandler
	EditLog        commands.EditDeliveryLogCommandHandler
	Override       commands.OverrideDeliveryStatusCommandHandler
	CreateWorker   commands.CreateWorkerCommandHandler
	ReportPosition commands.ReportWorkerPositionCommandHandler

	GetTracking   queries.GetTrackingQueryHandler
	GetHistory    queries.GetDeliveryHistoryQueryHandler
	GetQueued     queries.GetQueuedDeliveriesQueryHandler
	GetAllWorkers queries.GetAllWorkersQueryHandler
}

// Server wires the REST surface to the application layer.
type Server struct {
	handlers Handlers
}

// NewServer creates the HTTP server facade.
func NewServer(handlers Handlers) *Server {
	return &Server{handlers: handlers}
}

// RegisterRoutes attaches all routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.createOrder)
	api.POST("/orders/:id/cancel", s.cancelOrder)
	api.POST("/invoices/:id/payment-confirmation", s.confirmPayment)

	api.GET("/deliveries/queued", s.getQueuedDeliveries)
	api.POST("/deliveries/:id/claim", s.claimDelivery)
	api.PATCH("/deliveries/:id", s.updateDelivery)

	api.POST("/admin/deliveries/:id/override", s.overrideDeliveryStatus)
	api.GET("/admin/deliveries/:id/history", s.getDeliveryHistory)

	api.POST("/workers", s.createWorker)
	api.GET("/workers", s.getWorkers)
	api.POST("/workers/:id/position", s.reportWorkerPosition)

	api.GET("/tracking/:trackingCode", s.getTracking)

	e.GET("/health", s.health)
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps domain and application errors onto the HTTP surface.
// Conflict sentinels become 409, ownership failures 403, missing objects
// 404, validation problems 400 and anything unrecognized 500.
func writeError(ctx echo.Context, err error) error {
	var notFound *errs.ObjectNotFoundError

	switch {
	case errors.Is(err, ports.ErrNotEnoughUnits):
		return ctx.JSON(http.StatusConflict, errorBody{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, delivery.ErrAlreadyClaimed):
		return ctx.JSON(http.StatusConflict, errorBody{Code: "ALREADY_CLAIMED", Message: err.Error()})
	case errors.Is(err, delivery.ErrEditWindowClosed):
		return ctx.JSON(http.StatusConflict, errorBody{Code: "EDIT_WINDOW_CLOSED", Message: err.Error()})
	case errors.Is(err, delivery.ErrDeliveryIsTerminal):
		return ctx.JSON(http.StatusConflict, errorBody{Code: "DELIVERY_TERMINAL", Message: err.Error()})
	case errors.Is(err, delivery.ErrIllegalTransition):
		return ctx.JSON(http.StatusConflict, errorBody{Code: "ILLEGAL_TRANSITION", Message: err.Error()})
	case errors.Is(err, delivery.ErrStaleDelivery):
		return ctx.JSON(http.StatusConflict, errorBody{Code: "CONCURRENT_UPDATE", Message: err.Error()})
	case errors.Is(err, ports.ErrIdempotencyKeyTaken):
		return ctx.JSON(http.StatusConflict, errorBody{Code: "IDEMPOTENCY_CONFLICT", Message: err.Error()})
	case errors.Is(err, delivery.ErrNotClaimOwner):
		return ctx.JSON(http.StatusForbidden, errorBody{Code: "NOT_CLAIM_OWNER", Message: err.Error()})
	case errors.Is(err, delivery.ErrNotLogAuthor):
		return ctx.JSON(http.StatusForbidden, errorBody{Code: "NOT_LOG_AUTHOR", Message: err.Error()})
	case errors.As(err, &notFound):
		return ctx.JSON(http.StatusNotFound, errorBody{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, commands.ErrOrderItemsAreRequired),
		errors.Is(err, commands.ErrNothingToUpdate):
		return ctx.JSON(http.StatusBadRequest, errorBody{Code: "INVALID_REQUEST", Message: err.Error()})
	default:
		return ctx.JSON(http.StatusInternalServerError, errorBody{Code: "INTERNAL", Message: "internal server error"})
	}
}

func badRequest(ctx echo.Context, code, message string) error {
	return ctx.JSON(http.StatusBadRequest, errorBody{Code: code, Message: message})
}

type customerRequest struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
}

type lineItemRequest struct {
	VariantID  string `json:"variantId"`
	Name       string `json:"name"`
	UnitPrice  int64  `json:"unitPrice"`
	Currency   string `json:"currency"`
	Quantity   int    `json:"quantity"`
	RentalDays int    `json:"rentalDays"`
}

type geoRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type createOrderRequest struct {
	Customer customerRequest   `json:"customer"`
	Address  string            `json:"address"`
	Geo      *geoRequest       `json:"geo"`
	Method   string            `json:"method"`
	Items    []lineItemRequest `json:"items"`
}

func (r createOrderRequest) customer() (order.Customer, error) {
	if r.Customer.UserID != "" {
		userID, err := parseUUID("userID", r.Customer.UserID)
		if err != nil {
			return order.Customer{}, err
		}
		return order.NewRegisteredCustomer(userID)
	}
	return order.NewGuestCustomer(r.Customer.Name, r.Customer.Email, r.Customer.Phone)
}

func (r createOrderRequest) lineItems() ([]order.LineItem, error) {
	items := make([]order.LineItem, 0, len(r.Items))
	for _, item := range r.Items {
		variantID, err := parseUUID("variantId", item.VariantID)
		if err != nil {
			return nil, err
		}
		price, err := kernel.NewMoney(item.UnitPrice, item.Currency)
		if err != nil {
			return nil, err
		}
		lineItem, err := order.NewLineItem(variantID, item.Name, price, item.Quantity, item.RentalDays)
		if err != nil {
			return nil, err
		}
		items = append(items, lineItem)
	}
	return items, nil
}

func (s *Server) createOrder(ctx echo.Context) error {
	var req createOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "INVALID_REQUEST", "invalid request body")
	}

	customer, err := req.customer()
	if err != nil {
		return badRequest(ctx, "MISSING_IDENTITY", "a registered user id or a complete guest identity is required")
	}

	method, err := delivery.MethodFromString(req.Method)
	if err != nil {
		return writeError(ctx, err)
	}

	var geo *kernel.GeoPoint
	if req.Geo != nil {
		point, pointErr := kernel.NewGeoPoint(req.Geo.Lat, req.Geo.Lng)
		if pointErr != nil {
			return writeError(ctx, pointErr)
		}
		geo = &point
	}

	items, err := req.lineItems()
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewCreateOrderCommand(
		ctx.Request().Header.Get(headerIdempotencyKey),
		customer,
		req.Address,
		geo,
		method,
		items,
	)
	if err != nil {
		return writeError(ctx, err)
	}

	result, err := s.handlers.CreateOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	if result.Replayed {
		return ctx.JSON(http.StatusOK, result.Response)
	}
	return ctx.JSON(http.StatusCreated, result.Response)
}

type cancelOrderRequest struct {
	Actor  string `json:"actor"`
	Reason string `json:"reason"`
}

func (s *Server) cancelOrder(ctx echo.Context) error {
	orderID, err := parseUUID("orderID", ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	var req cancelOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "INVALID_REQUEST", "invalid request body")
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, req.Actor, req.Reason)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.handlers.CancelOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *Server) confirmPayment(ctx echo.Context) error {
	invoiceID, err := parseUUID("invoiceID", ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewConfirmPaymentCommand(invoiceID)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.handlers.ConfirmPayment.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *Server) getQueuedDeliveries(ctx echo.Context) error {
	query := queries.NewGetQueuedDeliveriesQuery()

	board, err := s.handlers.GetQueued.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, board)
}

type claimDeliveryRequest struct {
	VehicleID string `json:"vehicleId"`
}

func (s *Server) claimDelivery(ctx echo.Context) error {
	deliveryID, err := parseUUID("deliveryID", ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	workerID, err := workerIdentity(ctx)
	if err != nil {
		return badRequest(ctx, "MISSING_IDENTITY", "X-Worker-ID header with a valid worker id is required")
	}

	var req claimDeliveryRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "INVALID_REQUEST", "invalid request body")
	}

	var vehicleID *kernel.UUID
	if req.VehicleID != "" {
		id, idErr := parseUUID("vehicleId", req.VehicleID)
		if idErr != nil {
			return writeError(ctx, idErr)
		}
		vehicleID = &id
	}

	cmd, err := commands.NewClaimDeliveryCommand(deliveryID, workerID, vehicleID)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.handlers.ClaimDelivery.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

const actionEditLog = "EDIT_LOG"

type updateDeliveryRequest struct {
	Action       string `json:"action"`
	Status       string `json:"status"`
	ETA          string `json:"eta"`
	DelayMinutes int    `json:"delayMinutes"`
	Notes        string `json:"notes"`

	// Fields for action=EDIT_LOG.
	LogID    string `json:"logId"`
	NewValue string `json:"newValue"`
	Reason   string `json:"reason"`
}

func (s *Server) updateDelivery(ctx echo.Context) error {
	deliveryID, err := parseUUID("deliveryID", ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	workerID, err := workerIdentity(ctx)
	if err != nil {
		return badRequest(ctx, "MISSING_IDENTITY", "X-Worker-ID header with a valid worker id is required")
	}

	var req updateDeliveryRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "INVALID_REQUEST", "invalid request body")
	}

	if req.Action == actionEditLog {
		return s.editDeliveryLog(ctx, deliveryID, workerID, req)
	}

	var target *delivery.Status
	if req.Status != "" {
		status, statusErr := delivery.StatusFromString(req.Status)
		if statusErr != nil {
			return writeError(ctx, statusErr)
		}
		target = &status
	}

	var eta *time.Time
	if req.ETA != "" {
		parsed, etaErr := time.Parse(time.RFC3339, req.ETA)
		if etaErr != nil {
			return badRequest(ctx, "INVALID_REQUEST", "eta must be an RFC 3339 timestamp")
		}
		eta = &parsed
	}

	cmd, err := commands.NewUpdateDeliveryStatusCommand(deliveryID, workerID, target, eta, req.DelayMinutes, req.Notes)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.handlers.UpdateDelivery.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *Server) editDeliveryLog(ctx echo.Context, deliveryID, workerID kernel.UUID, req updateDeliveryRequest) error {
	logID, err := parseUUID("logId", req.LogID)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewEditDeliveryLogCommand(deliveryID, logID, workerID, req.NewValue, req.Reason)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.handlers.EditLog.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

type overrideStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

func (s *Server) overrideDeliveryStatus(ctx echo.Context) error {
	deliveryID, err := parseUUID("deliveryID", ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	adminID := ctx.Request().Header.Get(headerAdminID)
	if adminID == "" {
		return badRequest(ctx, "MISSING_IDENTITY", "X-Admin-ID header is required")
	}

	var req overrideStatusRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "INVALID_REQUEST", "invalid request body")
	}

	target, err := delivery.StatusFromString(req.Status)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewOverrideDeliveryStatusCommand(deliveryID, adminID, target, req.Reason)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.handlers.Override.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *Server) getDeliveryHistory(ctx echo.Context) error {
	deliveryID, err := parseUUID("deliveryID", ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewGetDeliveryHistoryQuery(deliveryID)
	if err != nil {
		return writeError(ctx, err)
	}

	history, err := s.handlers.GetHistory.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, history)
}

type createWorkerRequest struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	VehicleName  string `json:"vehicleName"`
	VehiclePlate string `json:"vehiclePlate"`
}

type createWorkerResponse struct {
	ID string `json:"id"`
}

func (s *Server) createWorker(ctx echo.Context) error {
	var req createWorkerRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "INVALID_REQUEST", "invalid request body")
	}

	workerID := kernel.NewUUID()
	if req.ID != "" {
		parsed, err := parseUUID("id", req.ID)
		if err != nil {
			return writeError(ctx, err)
		}
		workerID = parsed
	}

	cmd, err := commands.NewCreateWorkerCommand(workerID, req.Name, req.VehicleName, req.VehiclePlate)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.handlers.CreateWorker.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, createWorkerResponse{ID: workerID.String()})
}

func (s *Server) getWorkers(ctx echo.Context) error {
	query := queries.NewGetAllWorkersQuery()

	workers, err := s.handlers.GetAllWorkers.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, workers)
}

type reportPositionRequest struct {
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	ReportedAt string  `json:"reportedAt"`
	DeliveryID string  `json:"deliveryId"`
}

func (s *Server) reportWorkerPosition(ctx echo.Context) error {
	workerID, err := parseUUID("workerID", ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	var req reportPositionRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "INVALID_REQUEST", "invalid request body")
	}

	position, err := kernel.NewGeoPoint(req.Lat, req.Lng)
	if err != nil {
		return writeError(ctx, err)
	}

	reportedAt := time.Now().UTC()
	if req.ReportedAt != "" {
		parsed, timeErr := time.Parse(time.RFC3339, req.ReportedAt)
		if timeErr != nil {
			return badRequest(ctx, "INVALID_REQUEST", "reportedAt must be an RFC 3339 timestamp")
		}
		reportedAt = parsed
	}

	var deliveryID *kernel.UUID
	if req.DeliveryID != "" {
		id, idErr := parseUUID("deliveryId", req.DeliveryID)
		if idErr != nil {
			return writeError(ctx, idErr)
		}
		deliveryID = &id
	}

	cmd, err := commands.NewReportWorkerPositionCommand(workerID, position, reportedAt, deliveryID)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.handlers.ReportPosition.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *Server) getTracking(ctx echo.Context) error {
	query, err := queries.NewGetTrackingQuery(ctx.Param("trackingCode"))
	if err != nil {
		return writeError(ctx, err)
	}

	tracking, err := s.handlers.GetTracking.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, tracking)
}

func (s *Server) health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func workerIdentity(ctx echo.Context) (kernel.UUID, error) {
	raw := ctx.Request().Header.Get(headerWorkerID)
	if raw == "" {
		return kernel.UUID{}, errs.NewValueIsRequiredError("workerID")
	}
	return parseUUID("workerID", raw)
}

// parseUUID wraps identifier parse failures in a validation error so the
// central mapping answers 400 instead of 500.
func parseUUID(name, raw string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}
