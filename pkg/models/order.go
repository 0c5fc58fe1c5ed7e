package models

import (
	"time"
)

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

type Order struct {
	ID            int64      `json:"id"`
	OrderNumber   string     `json:"orderNumber"`
	Status        string     `json:"status"`
	Customer      Customer   `json:"customer"`
	Shipping      Shipping   `json:"shipping"`
	PaymentMethod string     `json:"paymentMethod"`
	CardLast4     string     `json:"cardLast4,omitempty"`
	Totals        Totals     `json:"totals"`
	Items         []LineItem `json:"items"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type Customer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type Shipping struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

type Totals struct {
	Subtotal Price `json:"subtotal"`
	Shipping Price `json:"shipping"`
	Tax      Price `json:"tax"`
	Total    Price `json:"total"`
}

// LineItem is a snapshot of one purchasable entry at checkout time. Items are
// persisted as an opaque blob on the order row on purpose: later catalog edits
// must never rewrite a historical order.
type LineItem struct {
	Name       string      `json:"name"`
	Price      Price       `json:"price"`
	Quantity   int         `json:"quantity"`
	TotalPrice Price       `json:"totalPrice"`
	Components []Component `json:"components,omitempty"`
}

// Component is one bundled part of a configuration-type line item.
type Component struct {
	Name  string `json:"name"`
	Price Price  `json:"price"`
}

// NotificationSettings is the global, admin-controlled per-channel toggle
// stored under the "notifications" settings key.
type NotificationSettings struct {
	Email    bool `json:"email"`
	Telegram bool `json:"telegram"`
}

// NotificationPreference is the per-submission wish supplied at checkout.
type NotificationPreference struct {
	Email    bool `json:"email"`
	Telegram bool `json:"telegram"`
}

// NotificationOutcome reports, per channel, whether a confirmation was
// actually delivered. A skipped or failed channel is false either way.
type NotificationOutcome struct {
	Email    bool `json:"email"`
	Telegram bool `json:"telegram"`
}

type CardDetails struct {
	CardNumber string `json:"cardNumber"`
	CardName   string `json:"cardName"`
	ExpiryDate string `json:"expiryDate"`
}

type Payment struct {
	Method      string       `json:"method"`
	CardDetails *CardDetails `json:"cardDetails,omitempty"`
}

// CheckoutRequest is the wire shape of POST /checkout/process-order.
// Customer and Totals are pointers so that an absent section is
// distinguishable from an empty one during validation.
type CheckoutRequest struct {
	OrderNumber   string                  `json:"orderNumber"`
	Customer      *Customer               `json:"customer"`
	Shipping      Shipping                `json:"shipping"`
	Payment       Payment                 `json:"payment"`
	Items         []LineItem              `json:"items"`
	Totals        *Totals                 `json:"totals"`
	Notifications *NotificationPreference `json:"notifications"`
	OrderedAt     string                  `json:"orderedAt"`
}

type CheckoutResponse struct {
	Success       bool                `json:"success"`
	OrderNumber   string              `json:"orderNumber"`
	OrderID       int64               `json:"orderId"`
	Notifications NotificationOutcome `json:"notifications"`
}

// UpdateOrderRequest carries any subset of the mutable order fields for
// PATCH /orders/{id}. Nil means "not supplied".
type UpdateOrderRequest struct {
	Status        *string   `json:"status"`
	Customer      *Customer `json:"customer"`
	Shipping      *Shipping `json:"shipping"`
	PaymentMethod *string   `json:"paymentMethod"`
}

type OrderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Order   *Order `json:"order,omitempty"`
}

type OrderListResponse struct {
	Success bool     `json:"success"`
	Orders  []*Order `json:"orders"`
	Count   int      `json:"count"`
}
