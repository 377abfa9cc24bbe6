package handlers

import (
	"context"
	"net/http"

	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/models"
	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/services"
	"github.com/labstack/echo/v4"
)

type OrderService interface {
	Create(ctx context.Context, caller models.Identity, in services.CreateOrderInput) (*models.Order, error)
	List(ctx context.Context, caller models.Identity, filter models.OrderFilter, page models.PageRequest) (models.Page[models.Order], error)
	ListAll(ctx context.Context, caller models.Identity, filter models.OrderFilter, page models.PageRequest) (models.Page[models.Order], error)
	Get(ctx context.Context, caller models.Identity, id string) (*models.Order, error)
	Update(ctx context.Context, caller models.Identity, id string, patch services.OrderPatch) (*models.Order, error)
	Delete(ctx context.Context, caller models.Identity, id string) error
}

type OrderHandler struct {
	orders OrderService
}

func NewOrderHandler(orders OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func orderFilter(c echo.Context) models.OrderFilter {
	return models.OrderFilter{
		Status: models.OrderStatus(c.QueryParam("status")),
		UserID: c.QueryParam("user_id"),
	}
}

func (h *OrderHandler) GetOrders(c echo.Context) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	page, err := pageRequest(c)
	if err != nil {
		return err
	}
	orders, err := h.orders.List(c.Request().Context(), identity, orderFilter(c), page)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Orders retrieved successfully", orders)
}

func (h *OrderHandler) GetAllOrders(c echo.Context) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	page, err := pageRequest(c)
	if err != nil {
		return err
	}
	orders, err := h.orders.ListAll(c.Request().Context(), identity, orderFilter(c), page)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "All orders retrieved successfully", orders)
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var in services.CreateOrderInput
	if err := bind(c, &in); err != nil {
		return err
	}
	order, err := h.orders.Create(c.Request().Context(), identity, in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Order created successfully", order)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	order, err := h.orders.Get(c.Request().Context(), identity, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Order retrieved successfully", order)
}

// GetOrderStatus is a light polling endpoint for clients waiting on payment.
func (h *OrderHandler) GetOrderStatus(c echo.Context) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	order, err := h.orders.Get(c.Request().Context(), identity, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Order status retrieved successfully", map[string]interface{}{
		"id":     order.ID,
		"status": order.Status,
	})
}

func (h *OrderHandler) UpdateOrder(c echo.Context) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var patch services.OrderPatch
	if err := bind(c, &patch); err != nil {
		return err
	}
	order, err := h.orders.Update(c.Request().Context(), identity, c.Param("id"), patch)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Order updated successfully", order)
}

func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.orders.Delete(c.Request().Context(), identity, c.Param("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Order deleted successfully", nil)
}
