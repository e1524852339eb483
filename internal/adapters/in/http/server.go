// Package http exposes the order lifecycle over a REST API built on echo.
package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/application/usecases/queries"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	createOrderHandler  commands.CreateOrderCommandHandler
	patchOrderHandler   commands.PatchOrderCommandHandler
	addItemsHandler     commands.AddItemsCommandHandler
	updateItemHandler   commands.UpdateItemCommandHandler
	removeItemHandler   commands.RemoveItemCommandHandler
	updateStatusHandler commands.UpdateStatusCommandHandler
	cancelOrderHandler  commands.CancelOrderCommandHandler
	deleteOrderHandler  commands.DeleteOrderCommandHandler

	getOrderHandler      queries.GetOrderQueryHandler
	listOrdersHandler    queries.ListOrdersQueryHandler
	getAuditTrailHandler queries.GetAuditTrailQueryHandler
}

func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	patchOrderHandler commands.PatchOrderCommandHandler,
	addItemsHandler commands.AddItemsCommandHandler,
	updateItemHandler commands.UpdateItemCommandHandler,
	removeItemHandler commands.RemoveItemCommandHandler,
	updateStatusHandler commands.UpdateStatusCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	deleteOrderHandler commands.DeleteOrderCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	listOrdersHandler queries.ListOrdersQueryHandler,
	getAuditTrailHandler queries.GetAuditTrailQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:   createOrderHandler,
		patchOrderHandler:    patchOrderHandler,
		addItemsHandler:      addItemsHandler,
		updateItemHandler:    updateItemHandler,
		removeItemHandler:    removeItemHandler,
		updateStatusHandler:  updateStatusHandler,
		cancelOrderHandler:   cancelOrderHandler,
		deleteOrderHandler:   deleteOrderHandler,
		getOrderHandler:      getOrderHandler,
		listOrdersHandler:    listOrdersHandler,
		getAuditTrailHandler: getAuditTrailHandler,
	}
}

// RegisterRoutes mounts every order endpoint under /api/v1.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders", s.ListOrders)
	api.GET("/orders/:orderId", s.GetOrder)
	api.PATCH("/orders/:orderId", s.PatchOrder)
	api.DELETE("/orders/:orderId", s.DeleteOrder)
	api.POST("/orders/:orderId/items", s.AddItems)
	api.PATCH("/orders/:orderId/items/:itemId", s.UpdateItem)
	api.DELETE("/orders/:orderId/items/:itemId", s.RemoveItem)
	api.POST("/orders/:orderId/status", s.ChangeStatus)
	api.POST("/orders/:orderId/cancel", s.CancelOrder)
	api.GET("/orders/:orderId/audit", s.GetAuditTrail)
}

// CreateOrder handles POST /api/v1/orders. A repeated Idempotency-Key header
// returns the previously created order with a 200 instead of a 201.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var request CreateOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(),
		itemInputsFromRequest(request.Items),
		order.Attributes{
			Reference:            request.Reference,
			CustomerID:           request.CustomerID,
			SalesChannel:         request.SalesChannel,
			ShippingAddress:      request.ShippingAddress,
			BillingInfo:          request.BillingInfo,
			Notes:                request.Notes,
			PreferredWarehouseID: request.PreferredWarehouseID,
		},
		request.reserveOnPlace(),
		ctx.Request().Header.Get("Idempotency-Key"),
	)
	if err != nil {
		return respondError(ctx, err)
	}

	result, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	status := http.StatusCreated
	if result.Existed {
		status = http.StatusOK
	}
	return ctx.JSON(status, orderToResponse(result.Order))
}

// ListOrders handles GET /api/v1/orders.
func (s *Server) ListOrders(ctx echo.Context) error {
	page, err := intQueryParam(ctx, "page")
	if err != nil {
		return respondError(ctx, err)
	}
	size, err := intQueryParam(ctx, "size")
	if err != nil {
		return respondError(ctx, err)
	}

	filter := queries.ListOrdersFilter{
		Status:       ctx.QueryParam("status"),
		CustomerID:   ctx.QueryParam("customer_id"),
		SalesChannel: ctx.QueryParam("sales_channel"),
	}
	if filter.CreatedFrom, err = timeQueryParam(ctx, "created_from"); err != nil {
		return respondError(ctx, err)
	}
	if filter.CreatedTo, err = timeQueryParam(ctx, "created_to"); err != nil {
		return respondError(ctx, err)
	}

	query, err := queries.NewListOrdersQuery(page, size, ctx.QueryParam("sort_by"), ctx.QueryParam("sort_dir"), filter)
	if err != nil {
		return respondError(ctx, err)
	}

	response, err := s.listOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetOrder handles GET /api/v1/orders/:orderId.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return respondError(ctx, err)
	}

	response, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, response)
}

// PatchOrder handles PATCH /api/v1/orders/:orderId.
func (s *Server) PatchOrder(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var request PatchOrderRequest
	if err = ctx.Bind(&request); err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	expectedVersion, err := expectedVersionFrom(ctx, request)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewPatchOrderCommand(orderID, order.Patch{
		ShippingAddress: request.ShippingAddress,
		Notes:           request.Notes,
	}, expectedVersion)
	if err != nil {
		return respondError(ctx, err)
	}

	updated, err := s.patchOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orderToResponse(updated))
}

// DeleteOrder handles DELETE /api/v1/orders/:orderId.
func (s *Server) DeleteOrder(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewDeleteOrderCommand(orderID)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.deleteOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// AddItems handles POST /api/v1/orders/:orderId/items.
func (s *Server) AddItems(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var request AddItemsRequest
	if err = ctx.Bind(&request); err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	cmd, err := commands.NewAddItemsCommand(orderID, itemInputsFromRequest(request.Items))
	if err != nil {
		return respondError(ctx, err)
	}

	updated, err := s.addItemsHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orderToResponse(updated))
}

// UpdateItem handles PATCH /api/v1/orders/:orderId/items/:itemId.
func (s *Server) UpdateItem(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	itemID, err := uuidParam(ctx, "itemId", "item_id")
	if err != nil {
		return respondError(ctx, err)
	}

	var request UpdateItemRequest
	if err = ctx.Bind(&request); err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	cmd, err := commands.NewUpdateItemCommand(orderID, itemID, order.ItemPatch{
		SKU:       request.SKU,
		ProductID: request.ProductID,
		Quantity:  request.Quantity,
		UnitPrice: request.UnitPrice,
		Meta:      request.Meta,
	})
	if err != nil {
		return respondError(ctx, err)
	}

	updated, err := s.updateItemHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orderToResponse(updated))
}

// RemoveItem handles DELETE /api/v1/orders/:orderId/items/:itemId.
func (s *Server) RemoveItem(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	itemID, err := uuidParam(ctx, "itemId", "item_id")
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewRemoveItemCommand(orderID, itemID)
	if err != nil {
		return respondError(ctx, err)
	}

	updated, err := s.removeItemHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orderToResponse(updated))
}

// ChangeStatus handles POST /api/v1/orders/:orderId/status.
func (s *Server) ChangeStatus(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var request ChangeStatusRequest
	if err = ctx.Bind(&request); err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	target, err := order.StatusFromString(request.Status)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewUpdateStatusCommand(orderID, target, order.TransitionDetails{
		Reason:         request.Reason,
		WarehouseID:    request.WarehouseID,
		TrackingNumber: request.TrackingNumber,
	})
	if err != nil {
		return respondError(ctx, err)
	}

	updated, err := s.updateStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orderToResponse(updated))
}

// CancelOrder handles POST /api/v1/orders/:orderId/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var request CancelOrderRequest
	if err = ctx.Bind(&request); err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, request.Reason)
	if err != nil {
		return respondError(ctx, err)
	}

	updated, err := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orderToResponse(updated))
}

// GetAuditTrail handles GET /api/v1/orders/:orderId/audit.
func (s *Server) GetAuditTrail(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	query, err := queries.NewGetAuditTrailQuery(orderID)
	if err != nil {
		return respondError(ctx, err)
	}

	response, err := s.getAuditTrailHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, response)
}

func orderIDParam(ctx echo.Context) (kernel.UUID, error) {
	return uuidParam(ctx, "orderId", "order_id")
}

func uuidParam(ctx echo.Context, param, name string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(ctx.Param(param))
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}

// expectedVersionFrom resolves the optimistic-concurrency token for a patch.
// The body field takes precedence; the If-Match header is the fallback for
// callers that pass the token the HTTP way.
func expectedVersionFrom(ctx echo.Context, request PatchOrderRequest) (*int64, error) {
	if request.ExpectedVersion != nil {
		return request.ExpectedVersion, nil
	}

	header := ctx.Request().Header.Get("If-Match")
	if header == "" {
		return nil, nil
	}
	version, err := strconv.ParseInt(strings.Trim(header, `"`), 10, 64)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("If-Match", err)
	}
	return &version, nil
}

func intQueryParam(ctx echo.Context, name string) (int, error) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return value, nil
}

func timeQueryParam(ctx echo.Context, name string) (*time.Time, error) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	value, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return &value, nil
}
