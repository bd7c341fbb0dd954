// Package http exposes the order API over echo.
package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"orderservice/internal/core/application/usecases/commands"
	"orderservice/internal/core/application/usecases/queries"
	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/core/domain/model/order"
	"orderservice/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// DefaultStalledThreshold applies when GET /api/v1/orders/stalled has no olderThan parameter.
const DefaultStalledThreshold = 5 * time.Minute

type (
	CreateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error)
	}
	CancelOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CancelOrderCommand) error
	}
	PickUpOrderHandler interface {
		Handle(ctx context.Context, cmd commands.PickUpOrderCommand) error
	}
	GetOrderHandler interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.OrderResponse, error)
	}
	GetStalledOrdersHandler interface {
		Handle(ctx context.Context, query queries.GetStalledOrdersQuery) ([]queries.StalledOrderResponse, error)
	}
)

// Server handles HTTP requests by dispatching to the application use cases.
type Server struct {
	// Command handlers
	createOrderHandler CreateOrderHandler
	cancelOrderHandler CancelOrderHandler
	pickUpOrderHandler PickUpOrderHandler

	// Query handlers
	getOrderHandler         GetOrderHandler
	getStalledOrdersHandler GetStalledOrdersHandler

	logger *zap.Logger
}

func NewServer(
	createOrderHandler CreateOrderHandler,
	cancelOrderHandler CancelOrderHandler,
	pickUpOrderHandler PickUpOrderHandler,
	getOrderHandler GetOrderHandler,
	getStalledOrdersHandler GetStalledOrdersHandler,
	logger *zap.Logger,
) *Server {
	return &Server{
		createOrderHandler:      createOrderHandler,
		cancelOrderHandler:      cancelOrderHandler,
		pickUpOrderHandler:      pickUpOrderHandler,
		getOrderHandler:         getOrderHandler,
		getStalledOrdersHandler: getStalledOrdersHandler,
		logger:                  logger.With(zap.String("component", "http-server")),
	}
}

// Register mounts the API and the health check on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/stalled", s.GetStalledOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.PUT("/orders/:id/cancel", s.CancelOrder)
	api.PUT("/orders/:id/pickup", s.PickUpOrder)
}

func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body NewOrder
	if err := ctx.Bind(&body); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid request body")
	}

	lines := make([]commands.CreateOrderLine, 0, len(body.Lines))
	for _, l := range body.Lines {
		lines = append(lines, commands.CreateOrderLine{ProductCode: l.ProductCode, Quantity: l.Quantity})
	}

	cmd, err := commands.NewCreateOrderCommand(body.CustomerRef, lines)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid order data: "+err.Error())
	}

	created, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		s.logger.Error("failed to create order", zap.Error(err))
		return errorResponse(ctx, http.StatusInternalServerError, "Failed to create order")
	}

	return ctx.JSON(http.StatusCreated, orderFromDomain(created))
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(ctx echo.Context) error {
	id, ok := s.orderID(ctx)
	if !ok {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid order id")
	}

	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid order id")
	}

	resp, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return errorResponse(ctx, http.StatusNotFound, "Order not found")
		}
		s.logger.Error("failed to get order", zap.String("order_id", id.String()), zap.Error(err))
		return errorResponse(ctx, http.StatusInternalServerError, "Failed to retrieve order")
	}

	return ctx.JSON(http.StatusOK, orderFromResponse(resp))
}

// GetStalledOrders handles GET /api/v1/orders/stalled?statuses=A,B&olderThan=10m.
func (s *Server) GetStalledOrders(ctx echo.Context) error {
	statuses := order.InFlight()
	if raw := ctx.QueryParam("statuses"); raw != "" {
		statuses = statuses[:0]
		for _, name := range strings.Split(raw, ",") {
			status, err := order.StatusFromString(strings.TrimSpace(name))
			if err != nil {
				return errorResponse(ctx, http.StatusBadRequest, "Invalid status: "+name)
			}
			statuses = append(statuses, status)
		}
	}

	threshold := DefaultStalledThreshold
	if raw := ctx.QueryParam("olderThan"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return errorResponse(ctx, http.StatusBadRequest, "Invalid olderThan duration")
		}
		threshold = parsed
	}

	query, err := queries.NewGetStalledOrdersQuery(statuses, threshold)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, err.Error())
	}

	stalled, err := s.getStalledOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		s.logger.Error("failed to get stalled orders", zap.Error(err))
		return errorResponse(ctx, http.StatusInternalServerError, "Failed to retrieve stalled orders")
	}

	response := make([]StalledOrder, len(stalled))
	for i, o := range stalled {
		response[i] = StalledOrder{ID: o.ID.Bytes(), Status: o.Status.String(), UpdatedAt: o.UpdatedAt}
	}
	return ctx.JSON(http.StatusOK, response)
}

// CancelOrder handles PUT /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	id, ok := s.orderID(ctx)
	if !ok {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid order id")
	}

	cmd, err := commands.NewCancelOrderCommand(id)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid order id")
	}

	return s.commandResult(ctx, id, "cancel", s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd))
}

// PickUpOrder handles PUT /api/v1/orders/:id/pickup.
func (s *Server) PickUpOrder(ctx echo.Context) error {
	id, ok := s.orderID(ctx)
	if !ok {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid order id")
	}

	cmd, err := commands.NewPickUpOrderCommand(id)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid order id")
	}

	return s.commandResult(ctx, id, "pick up", s.pickUpOrderHandler.Handle(ctx.Request().Context(), cmd))
}

func (s *Server) commandResult(ctx echo.Context, id kernel.UUID, operation string, err error) error {
	switch {
	case err == nil:
		return ctx.NoContent(http.StatusNoContent)
	case errors.Is(err, errs.ErrObjectNotFound):
		return errorResponse(ctx, http.StatusNotFound, "Order not found")
	case errors.Is(err, commands.ErrOrderStateConflict):
		return errorResponse(ctx, http.StatusConflict, "Order status does not allow "+operation)
	default:
		s.logger.Error("order command failed",
			zap.String("order_id", id.String()),
			zap.String("operation", operation),
			zap.Error(err),
		)
		return errorResponse(ctx, http.StatusInternalServerError, "Failed to "+operation+" order")
	}
}

func (s *Server) orderID(ctx echo.Context) (kernel.UUID, bool) {
	id, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return kernel.UUID{}, false
	}
	return id, id.Validate() == nil
}

func errorResponse(ctx echo.Context, code int, message string) error {
	return ctx.JSON(code, Error{Code: code, Message: message})
}
