package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ErDev77/pc-configurator-sub000/pkg/models"
)

// fakeStore is an in-memory Store for service tests.
type fakeStore struct {
	orders    map[int64]*models.Order
	nextID    int64
	createErr error
	// numbers already taken; Create against one of these returns
	// ErrDuplicateNumber, like the unique index would.
	taken map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders: make(map[int64]*models.Order),
		nextID: 1,
		taken:  make(map[string]bool),
	}
}

func (f *fakeStore) Create(ctx context.Context, order *models.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	if f.taken[order.OrderNumber] {
		return ErrDuplicateNumber
	}
	order.ID = f.nextID
	f.nextID++
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	copied := *order
	f.orders[order.ID] = &copied
	f.taken[order.OrderNumber] = true
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *order
	return &copied, nil
}

func (f *fakeStore) GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	for _, order := range f.orders {
		if order.OrderNumber == orderNumber {
			copied := *order
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) ListSince(ctx context.Context, sinceID int64, limit int) ([]*models.Order, error) {
	var out []*models.Order
	for id := sinceID + 1; id < f.nextID && len(out) < limit; id++ {
		if order, ok := f.orders[id]; ok {
			copied := *order
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeStore) Update(ctx context.Context, order *models.Order) error {
	if _, ok := f.orders[order.ID]; !ok {
		return ErrNotFound
	}
	order.UpdatedAt = time.Now()
	copied := *order
	f.orders[order.ID] = &copied
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, id int64) error {
	if _, ok := f.orders[id]; !ok {
		return ErrNotFound
	}
	delete(f.orders, id)
	return nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func validCheckout() *models.CheckoutRequest {
	return &models.CheckoutRequest{
		OrderNumber: "PC-483920",
		Customer: &models.Customer{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
			Phone:     "+1 555 0100",
		},
		Shipping: models.Shipping{
			Address: "1 Analytical Way",
			City:    "London",
			State:   "LDN",
			ZipCode: "E1 6AN",
			Country: "UK",
		},
		Payment: models.Payment{Method: "credit-card"},
		Items: []models.LineItem{
			{Name: "GPU", Price: 100, Quantity: 1, TotalPrice: 100},
		},
		Totals: &models.Totals{Subtotal: 100, Shipping: 0, Tax: 10, Total: 110},
	}
}

func TestCreateOrderSuccess(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, testLogger())

	order, err := svc.CreateOrder(context.Background(), validCheckout())
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, order.Status)
	assert.NotZero(t, order.ID)
	assert.Equal(t, "PC-483920", order.OrderNumber)
	assert.Equal(t, 110.0, order.Totals.Total.Float64())

	// immediately retrievable by id and by number
	byID, err := svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, byID.OrderNumber)

	byNumber, err := svc.GetOrderByNumber(context.Background(), order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, order.ID, byNumber.ID)
}

func TestCreateOrderValidation(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, testLogger())

	tests := []struct {
		name   string
		mutate func(req *models.CheckoutRequest)
	}{
		{"missing customer", func(req *models.CheckoutRequest) { req.Customer = nil }},
		{"blank customer email", func(req *models.CheckoutRequest) { req.Customer.Email = " " }},
		{"empty items", func(req *models.CheckoutRequest) { req.Items = nil }},
		{"missing totals", func(req *models.CheckoutRequest) { req.Totals = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCheckout()
			tt.mutate(req)

			_, err := svc.CreateOrder(context.Background(), req)
			require.Error(t, err)
			assert.True(t, IsValidation(err), "expected validation error, got %v", err)
			assert.Empty(t, store.orders, "validation failure must not persist anything")
		})
	}
}

func TestCreateOrderMasksCardDetails(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, testLogger())

	req := validCheckout()
	req.Payment.CardDetails = &models.CardDetails{
		CardNumber: "4111 1111 1111 1234",
		CardName:   "ADA LOVELACE",
		ExpiryDate: "12/27",
	}

	order, err := svc.CreateOrder(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "1234", order.CardLast4)
	assert.Equal(t, "credit-card", order.PaymentMethod)
}

func TestCreateOrderRegeneratesNumberOnCollision(t *testing.T) {
	store := newFakeStore()
	store.taken["PC-483920"] = true
	svc := NewService(store, testLogger())

	order, err := svc.CreateOrder(context.Background(), validCheckout())
	require.NoError(t, err)
	assert.NotEqual(t, "PC-483920", order.OrderNumber)
	assert.Regexp(t, `^PC-[0-9A-F]{8}$`, order.OrderNumber)
}

func TestCreateOrderGeneratesNumberWhenMissing(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, testLogger())

	req := validCheckout()
	req.OrderNumber = ""

	order, err := svc.CreateOrder(context.Background(), req)
	require.NoError(t, err)
	assert.Regexp(t, `^PC-[0-9A-F]{8}$`, order.OrderNumber)
}

func TestCreateOrderPersistenceFailure(t *testing.T) {
	store := newFakeStore()
	store.createErr = errors.New("connection refused")
	svc := NewService(store, testLogger())

	_, err := svc.CreateOrder(context.Background(), validCheckout())
	require.Error(t, err)
	assert.False(t, IsValidation(err))
	assert.Empty(t, store.orders)
}

func TestUpdateOrderStatus(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, testLogger())

	order, err := svc.CreateOrder(context.Background(), validCheckout())
	require.NoError(t, err)

	// valid transition, any letter casing
	status := "SHIPPED"
	updated, err := svc.UpdateOrder(context.Background(), order.ID, &models.UpdateOrderRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, updated.Status)

	// unknown value is rejected with no mutation
	bad := "archived"
	_, err = svc.UpdateOrder(context.Background(), order.ID, &models.UpdateOrderRequest{Status: &bad})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	current, err := svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, current.Status)
}

func TestUpdateOrderForbiddenTransition(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, testLogger())

	order, err := svc.CreateOrder(context.Background(), validCheckout())
	require.NoError(t, err)

	delivered := "delivered"
	_, err = svc.UpdateOrder(context.Background(), order.ID, &models.UpdateOrderRequest{Status: &delivered})
	require.NoError(t, err)

	pending := "pending"
	_, err = svc.UpdateOrder(context.Background(), order.ID, &models.UpdateOrderRequest{Status: &pending})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestUpdateOrderNonStatusFields(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, testLogger())

	order, err := svc.CreateOrder(context.Background(), validCheckout())
	require.NoError(t, err)

	updated, err := svc.UpdateOrder(context.Background(), order.ID, &models.UpdateOrderRequest{
		Customer: &models.Customer{Phone: "+1 555 0199"},
		Shipping: &models.Shipping{City: "Cambridge"},
	})
	require.NoError(t, err)

	// supplied fields overwrite, omitted fields survive
	assert.Equal(t, "+1 555 0199", updated.Customer.Phone)
	assert.Equal(t, "ada@example.com", updated.Customer.Email)
	assert.Equal(t, "Cambridge", updated.Shipping.City)
	assert.Equal(t, "1 Analytical Way", updated.Shipping.Address)
}

func TestUpdateOrderNoValidFields(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, testLogger())

	order, err := svc.CreateOrder(context.Background(), validCheckout())
	require.NoError(t, err)

	_, err = svc.UpdateOrder(context.Background(), order.ID, &models.UpdateOrderRequest{})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestUpdateOrderNotFound(t *testing.T) {
	svc := NewService(newFakeStore(), testLogger())

	status := "shipped"
	_, err := svc.UpdateOrder(context.Background(), 42, &models.UpdateOrderRequest{Status: &status})
	assert.Equal(t, ErrNotFound, err)
}

func TestDeleteOrder(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, testLogger())

	order, err := svc.CreateOrder(context.Background(), validCheckout())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOrder(context.Background(), order.ID))
	assert.Equal(t, ErrNotFound, svc.DeleteOrder(context.Background(), order.ID))
}

func TestListOrdersSince(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, testLogger())

	for i := 0; i < 4; i++ {
		req := validCheckout()
		req.OrderNumber = ""
		_, err := svc.CreateOrder(context.Background(), req)
		require.NoError(t, err)
	}

	orders, err := svc.ListOrdersSince(context.Background(), 3, 10)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(4), orders[0].ID)
}
