package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/models"
	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/repository"
	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/utils"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type OrderItemInput struct {
	ProductID string           `json:"product_id" validate:"required"`
	Quantity  int              `json:"quantity" validate:"required,min=1"`
	Price     *decimal.Decimal `json:"price" validate:"required"`
}

type CreateOrderInput struct {
	Items           []OrderItemInput `json:"items" validate:"required,min=1,dive"`
	Subtotal        *decimal.Decimal `json:"subtotal" validate:"required"`
	ShippingCost    *decimal.Decimal `json:"shipping_cost"`
	Total           *decimal.Decimal `json:"total" validate:"required"`
	ShippingAddress string           `json:"shipping_address" validate:"required"`
	PaymentMethod   string           `json:"payment_method" validate:"required,max=50"`
}

// OrderPatch is the body of an order update. Customers may send the content
// fields; status and tracking_number are admin only.
type OrderPatch struct {
	Status          *string          `json:"status"`
	TrackingNumber  *string          `json:"tracking_number" validate:"omitnil,max=100"`
	Items           []OrderItemInput `json:"items" validate:"omitnil,min=1,dive"`
	ShippingAddress *string          `json:"shipping_address"`
	PaymentMethod   *string          `json:"payment_method" validate:"omitnil,max=50"`
}

type OrderService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	gateway  utils.PaymentGateway
	events   EventPublisher
	logger   echo.Logger
	now      func() time.Time
}

func NewOrderService(orders repository.OrderRepository, products repository.ProductRepository, gateway utils.PaymentGateway, events EventPublisher, logger echo.Logger) *OrderService {
	if events == nil {
		events = NopPublisher{}
	}
	return &OrderService{
		orders:   orders,
		products: products,
		gateway:  gateway,
		events:   events,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *OrderService) Create(ctx context.Context, caller models.Identity, in CreateOrderInput) (*models.Order, error) {
	in.ShippingAddress = strings.TrimSpace(in.ShippingAddress)
	in.PaymentMethod = strings.TrimSpace(in.PaymentMethod)

	fe := FieldErrors{}
	validateStruct(in, fe)
	checkNonNegative(fe, "subtotal", in.Subtotal)
	checkNonNegative(fe, "shipping_cost", in.ShippingCost)
	checkNonNegative(fe, "total", in.Total)
	checkItemPrices(fe, in.Items)

	shippingCost := decimal.Zero
	if in.ShippingCost != nil {
		shippingCost = *in.ShippingCost
	}
	if in.Subtotal != nil && in.Total != nil && !in.Total.Equal(in.Subtotal.Add(shippingCost)) {
		fe.Add("total", "The total field must equal subtotal plus shipping_cost.")
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	items, err := s.resolveItems(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	order := &models.Order{
		ID:              utils.GenerateOrderID(now),
		UserID:          caller.UserID,
		Status:          models.OrderStatusPendingPayment,
		Items:           items,
		Subtotal:        *in.Subtotal,
		ShippingCost:    shippingCost,
		Total:           *in.Total,
		OrderDate:       now,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		TrackingNumber:  utils.GenerateTrackingNumber(now),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	paymentKind := "cod"
	if !models.IsCashOnDelivery(order.PaymentMethod) {
		paymentKind = "gateway"
		customer := utils.Customer{Name: caller.Name, Email: caller.Email, Phone: caller.Phone}
		token, err := s.gateway.CreatePaymentSession(ctx, order.ID, order.Total.IntPart(), customer)
		if err != nil {
			paymentSessionFailures.Inc()
			s.logger.Errorf("payment session for order %s failed: %v", order.ID, err)
			return nil, PaymentError(err)
		}
		order.PaymentToken = token
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, Internal("Failed to create order", err)
	}
	ordersCreated.WithLabelValues(paymentKind).Inc()
	s.logger.Infof("order %s created for user %s", order.ID, caller.UserID)

	s.publish(ctx, EventOrderCreated, order, caller)
	return order, nil
}

func checkItemPrices(fe FieldErrors, items []OrderItemInput) {
	for i, item := range items {
		checkNonNegative(fe, fmt.Sprintf("items.%d.price", i), item.Price)
	}
}

// resolveItems checks that every item references a live, active product.
func (s *OrderService) resolveItems(ctx context.Context, in []OrderItemInput) ([]models.OrderItem, error) {
	ids := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, item := range in {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}

	found, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, Internal("Failed to load products", err)
	}

	fe := FieldErrors{}
	items := make([]models.OrderItem, 0, len(in))
	for i, item := range in {
		field := fmt.Sprintf("items.%d.product_id", i)
		product, ok := found[item.ProductID]
		switch {
		case !ok || product.IsDeleted():
			fe.Add(field, fmt.Sprintf("The selected %s is invalid.", field))
		case !product.IsActive:
			fe.Add(field, fmt.Sprintf("The selected %s is not available.", field))
		}
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     *item.Price,
		})
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// List returns a page of orders, newest first. Non-admin callers only ever see
// their own orders, whatever UserID the filter carries.
func (s *OrderService) List(ctx context.Context, caller models.Identity, filter models.OrderFilter, page models.PageRequest) (models.Page[models.Order], error) {
	if !caller.IsAdmin() {
		filter.UserID = caller.UserID
	}
	if filter.Status != "" {
		if _, ok := models.ParseOrderStatus(string(filter.Status)); !ok {
			return models.Page[models.Order]{}, ValidationError("status", "The selected status is invalid.")
		}
	}

	page = page.Normalize()
	orders, total, err := s.orders.List(ctx, filter, page)
	if err != nil {
		return models.Page[models.Order]{}, Internal("Failed to list orders", err)
	}
	return models.NewPage(orders, page, total), nil
}

// ListAll serves the admin listing across every user.
func (s *OrderService) ListAll(ctx context.Context, caller models.Identity, filter models.OrderFilter, page models.PageRequest) (models.Page[models.Order], error) {
	if err := RequireRole(caller, models.RoleAdmin); err != nil {
		return models.Page[models.Order]{}, err
	}
	return s.List(ctx, caller, filter, page)
}

func ownerScope(caller models.Identity) string {
	if caller.IsAdmin() {
		return ""
	}
	return caller.UserID
}

// Get returns NotFound, not Forbidden, for orders owned by someone else.
func (s *OrderService) Get(ctx context.Context, caller models.Identity, id string) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, id, ownerScope(caller))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFound("Order", "Order does not exist")
		}
		return nil, Internal("Failed to load order", err)
	}
	return order, nil
}

func (s *OrderService) Update(ctx context.Context, caller models.Identity, id string, patch OrderPatch) (*models.Order, error) {
	fe := FieldErrors{}
	if patch.ShippingAddress != nil {
		addr := strings.TrimSpace(*patch.ShippingAddress)
		patch.ShippingAddress = &addr
		if addr == "" {
			fe.Add("shipping_address", "The shipping_address field is required.")
		}
	}
	if patch.PaymentMethod != nil {
		method := strings.TrimSpace(*patch.PaymentMethod)
		patch.PaymentMethod = &method
		if method == "" {
			fe.Add("payment_method", "The payment_method field is required.")
		}
	}
	validateStruct(patch, fe)
	checkItemPrices(fe, patch.Items)

	if caller.IsAdmin() {
		if patch.Status != nil {
			if _, ok := models.ParseOrderStatus(*patch.Status); !ok {
				fe.Add("status", "The selected status is invalid.")
			}
		}
		if err := fe.Err(); err != nil {
			return nil, err
		}
		return s.adminUpdate(ctx, caller, id, patch)
	}

	if patch.Status != nil || patch.TrackingNumber != nil {
		return nil, Forbidden("Only admins can change order status or tracking number")
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}
	return s.customerUpdate(ctx, caller, id, patch)
}

func (s *OrderService) contentUpdate(ctx context.Context, patch OrderPatch) (models.OrderUpdate, error) {
	update := models.OrderUpdate{
		ShippingAddress: patch.ShippingAddress,
		PaymentMethod:   patch.PaymentMethod,
	}
	if patch.Items != nil {
		items, err := s.resolveItems(ctx, patch.Items)
		if err != nil {
			return update, err
		}
		update.Items = items
	}
	return update, nil
}

func (s *OrderService) customerUpdate(ctx context.Context, caller models.Identity, id string, patch OrderPatch) (*models.Order, error) {
	order, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.IsPending() {
		return nil, InvalidStatus("Order cannot be updated", "Only pending orders can be modified")
	}

	update, err := s.contentUpdate(ctx, patch)
	if err != nil {
		return nil, err
	}
	if update.IsEmpty() {
		return order, nil
	}

	updated, err := s.orders.UpdateIfStatus(ctx, id, caller.UserID, models.PendingStatuses, update)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, s.explainMiss(ctx, caller, id, true)
		}
		return nil, Internal("Failed to update order", err)
	}

	s.publish(ctx, EventOrderUpdated, updated, caller)
	return updated, nil
}

func (s *OrderService) adminUpdate(ctx context.Context, caller models.Identity, id string, patch OrderPatch) (*models.Order, error) {
	order, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	update, err := s.contentUpdate(ctx, patch)
	if err != nil {
		return nil, err
	}
	update.TrackingNumber = patch.TrackingNumber

	if patch.Status != nil {
		next := models.OrderStatus(*patch.Status)
		if next != order.Status && !(next.IsPending() && order.Status.IsPending()) {
			if !order.Status.CanTransitionTo(next) {
				return nil, InvalidTransition(string(order.Status), string(next))
			}
			update.Status = &next
		}
	}
	if update.IsEmpty() {
		return order, nil
	}

	updated, err := s.orders.UpdateIfStatus(ctx, id, "", []models.OrderStatus{order.Status}, update)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, s.explainMiss(ctx, caller, id, false)
		}
		return nil, Internal("Failed to update order", err)
	}

	if update.Status != nil {
		orderTransitions.WithLabelValues(string(*update.Status)).Inc()
		s.logger.Infof("order %s moved %s -> %s by %s", id, order.Status, *update.Status, caller.UserID)
	}
	s.publish(ctx, EventOrderUpdated, updated, caller)
	return updated, nil
}

// explainMiss re-reads an order after a conditional write matched nothing.
func (s *OrderService) explainMiss(ctx context.Context, caller models.Identity, id string, needPending bool) error {
	current, err := s.orders.FindByID(ctx, id, ownerScope(caller))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NotFound("Order", "Order does not exist")
		}
		return Internal("Failed to load order", err)
	}
	if needPending && !current.Status.IsPending() {
		return InvalidStatus("Order cannot be modified", "Only pending orders can be modified")
	}
	return Conflict("Order was modified concurrently, retry the request")
}

// Delete soft-deletes an order. Customers may only delete their own pending
// orders; admins may delete any order.
func (s *OrderService) Delete(ctx context.Context, caller models.Identity, id string) error {
	order, err := s.Get(ctx, caller, id)
	if err != nil {
		return err
	}

	var expected []models.OrderStatus
	if !caller.IsAdmin() {
		if !order.Status.IsPending() {
			return InvalidStatus("Order cannot be deleted", "Only pending orders can be deleted")
		}
		expected = models.PendingStatuses
	}

	if err := s.orders.SoftDeleteIfStatus(ctx, id, ownerScope(caller), expected, s.now().UTC()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return s.explainMiss(ctx, caller, id, !caller.IsAdmin())
		}
		return Internal("Failed to delete order", err)
	}

	s.publish(ctx, EventOrderDeleted, order, caller)
	return nil
}

func (s *OrderService) publish(ctx context.Context, eventType string, order *models.Order, caller models.Identity) {
	event := newOrderEvent(eventType, order, caller, s.now().UTC())
	if err := s.events.Publish(ctx, event); err != nil {
		eventPublishFailures.Inc()
		s.logger.Errorf("failed to publish %s for order %s: %v", eventType, order.ID, err)
	}
}
