package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ErDev77/pc-configurator-sub000/pkg/models"
)

// Store is the persistence surface the service needs. *Repository satisfies it.
type Store interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	ListSince(ctx context.Context, sinceID int64, limit int) ([]*models.Order, error)
	Update(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id int64) error
}

// maxNumberAttempts bounds the regenerate-and-retry loop on an
// order_number collision.
const maxNumberAttempts = 3

type Service struct {
	store  Store
	logger *logrus.Logger
}

func NewService(store Store, logger *logrus.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// CreateOrder validates the checkout payload and persists exactly one order.
// Validation happens before any write; a storage failure leaves nothing
// behind. Card details are reduced to the last four digits on the way in.
func (s *Service) CreateOrder(ctx context.Context, req *models.CheckoutRequest) (*models.Order, error) {
	if err := validateCheckout(req); err != nil {
		return nil, err
	}

	order := &models.Order{
		OrderNumber:   strings.TrimSpace(req.OrderNumber),
		Status:        models.StatusPending,
		Customer:      *req.Customer,
		Shipping:      req.Shipping,
		PaymentMethod: req.Payment.Method,
		CardLast4:     cardLast4(req.Payment.CardDetails),
		Totals:        *req.Totals,
		Items:         req.Items,
	}
	if order.OrderNumber == "" {
		order.OrderNumber = generateOrderNumber()
	}

	for attempt := 1; ; attempt++ {
		err := s.store.Create(ctx, order)
		if err == nil {
			return order, nil
		}
		if err != ErrDuplicateNumber || attempt >= maxNumberAttempts {
			return nil, fmt.Errorf("failed to persist order: %w", err)
		}
		s.logger.WithFields(logrus.Fields{
			"order_number": order.OrderNumber,
			"attempt":      attempt,
		}).Warn("Order number collision, regenerating")
		order.OrderNumber = generateOrderNumber()
	}
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	return s.store.GetByID(ctx, id)
}

func (s *Service) GetOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	return s.store.GetByNumber(ctx, orderNumber)
}

func (s *Service) ListOrdersSince(ctx context.Context, sinceID int64, limit int) ([]*models.Order, error) {
	return s.store.ListSince(ctx, sinceID, limit)
}

func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

// UpdateOrder applies any subset of status, customer, shipping and payment
// method to an existing order. Status targets are matched case-insensitively
// and must follow the lifecycle graph; a request carrying nothing applicable
// is a validation error.
func (s *Service) UpdateOrder(ctx context.Context, id int64, req *models.UpdateOrderRequest) (*models.Order, error) {
	order, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changed := false

	if req.Status != nil {
		target, ok := NormalizeStatus(*req.Status)
		if !ok {
			return nil, validationErrorf("invalid status %q", *req.Status)
		}
		if !CanTransition(order.Status, target) {
			return nil, validationErrorf("cannot change status from %s to %s", order.Status, target)
		}
		order.Status = target
		changed = true
	}

	if req.Customer != nil {
		if mergeCustomer(&order.Customer, req.Customer) {
			changed = true
		}
	}
	if req.Shipping != nil {
		if mergeShipping(&order.Shipping, req.Shipping) {
			changed = true
		}
	}
	if req.PaymentMethod != nil {
		method := strings.TrimSpace(*req.PaymentMethod)
		if method == "" {
			return nil, validationErrorf("payment method cannot be empty")
		}
		order.PaymentMethod = method
		changed = true
	}

	if !changed {
		return nil, validationErrorf("no valid fields to update")
	}

	if err := s.store.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func validateCheckout(req *models.CheckoutRequest) error {
	if req.Customer == nil {
		return validationErrorf("customer information is required")
	}
	if strings.TrimSpace(req.Customer.FirstName) == "" || strings.TrimSpace(req.Customer.Email) == "" {
		return validationErrorf("customer name and email are required")
	}
	if len(req.Items) == 0 {
		return validationErrorf("order must contain at least one item")
	}
	if req.Totals == nil {
		return validationErrorf("order totals are required")
	}
	return nil
}

// mergeCustomer copies non-empty fields only, so a partial PATCH never
// blanks data it did not mention.
func mergeCustomer(dst *models.Customer, src *models.Customer) bool {
	changed := false
	if v := strings.TrimSpace(src.FirstName); v != "" {
		dst.FirstName = v
		changed = true
	}
	if v := strings.TrimSpace(src.LastName); v != "" {
		dst.LastName = v
		changed = true
	}
	if v := strings.TrimSpace(src.Email); v != "" {
		dst.Email = v
		changed = true
	}
	if v := strings.TrimSpace(src.Phone); v != "" {
		dst.Phone = v
		changed = true
	}
	return changed
}

func mergeShipping(dst *models.Shipping, src *models.Shipping) bool {
	changed := false
	if v := strings.TrimSpace(src.Address); v != "" {
		dst.Address = v
		changed = true
	}
	if v := strings.TrimSpace(src.City); v != "" {
		dst.City = v
		changed = true
	}
	if v := strings.TrimSpace(src.State); v != "" {
		dst.State = v
		changed = true
	}
	if v := strings.TrimSpace(src.ZipCode); v != "" {
		dst.ZipCode = v
		changed = true
	}
	if v := strings.TrimSpace(src.Country); v != "" {
		dst.Country = v
		changed = true
	}
	return changed
}

// cardLast4 reduces card details to a non-sensitive fragment. The full
// number is never stored.
func cardLast4(details *models.CardDetails) string {
	if details == nil {
		return ""
	}
	digits := make([]rune, 0, len(details.CardNumber))
	for _, r := range details.CardNumber {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) < 4 {
		return ""
	}
	return string(digits[len(digits)-4:])
}

func generateOrderNumber() string {
	token := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "PC-" + token[:8]
}
