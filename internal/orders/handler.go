package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/ErDev77/pc-configurator-sub000/pkg/models"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Notifier fans an order-confirmation out to the configured channels.
// Its outcome never affects the HTTP result of order creation.
type Notifier interface {
	Dispatch(ctx context.Context, order *models.Order, pref models.NotificationPreference) models.NotificationOutcome
}

// EventPublisher mirrors newly created orders onto the event stream.
type EventPublisher interface {
	PublishOrderCreated(order *models.Order) error
}

// Broadcaster pushes live updates to connected admin clients.
type Broadcaster interface {
	Broadcast(messageType string, data interface{})
}

type Handler struct {
	service  *Service
	notifier Notifier
	producer EventPublisher
	hub      Broadcaster
	logger   *logrus.Logger
}

func NewHandler(service *Service, notifier Notifier, logger *logrus.Logger) *Handler {
	return &Handler{
		service:  service,
		notifier: notifier,
		logger:   logger,
	}
}

// SetEventPublisher wires the optional Kafka mirror.
func (h *Handler) SetEventPublisher(producer EventPublisher) {
	h.producer = producer
}

// SetBroadcaster wires the optional admin WebSocket hub.
func (h *Handler) SetBroadcaster(hub Broadcaster) {
	h.hub = hub
}

func (h *Handler) Register(router *mux.Router) {
	router.HandleFunc("/checkout/process-order", h.ProcessOrder).Methods("POST", "OPTIONS")
	router.HandleFunc("/orders", h.ListOrders).Methods("GET", "OPTIONS")
	router.HandleFunc("/orders/{id:[0-9]+}", h.GetOrder).Methods("GET", "OPTIONS")
	router.HandleFunc("/orders/{id:[0-9]+}", h.UpdateOrder).Methods("PATCH", "OPTIONS")
	router.HandleFunc("/orders/{id:[0-9]+}", h.DeleteOrder).Methods("DELETE", "OPTIONS")
}

// ProcessOrder handles a checkout submission. The order is committed first;
// notification dispatch runs afterwards and its failures only show up as
// false values in the response map.
func (h *Handler) ProcessOrder(w http.ResponseWriter, r *http.Request) {
	var req models.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithError(err).Error("Failed to decode checkout request")
		h.respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.service.CreateOrder(r.Context(), &req)
	if err != nil {
		if IsValidation(err) {
			h.respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.WithError(err).Error("Failed to create order")
		h.respondWithError(w, http.StatusInternalServerError, "failed to process order")
		return
	}

	h.logger.WithFields(logrus.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"total":        order.Totals.Total.Float64(),
		"items_count":  len(order.Items),
	}).Info("Order created successfully")

	if h.producer != nil {
		if err := h.producer.PublishOrderCreated(order); err != nil {
			h.logger.WithError(err).WithField("order_id", order.ID).Error("Failed to publish order created event")
		}
	}
	if h.hub != nil {
		h.hub.Broadcast("order_created", order)
	}

	pref := models.NotificationPreference{Email: true, Telegram: true}
	if req.Notifications != nil {
		pref = *req.Notifications
	}
	outcome := h.notifier.Dispatch(r.Context(), order, pref)

	h.respondWithJSON(w, http.StatusCreated, models.CheckoutResponse{
		Success:       true,
		OrderNumber:   order.OrderNumber,
		OrderID:       order.ID,
		Notifications: outcome,
	})
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	order, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		if err == ErrNotFound {
			h.respondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.WithError(err).WithField("order_id", id).Error("Failed to get order")
		h.respondWithError(w, http.StatusInternalServerError, "failed to get order")
		return
	}

	h.respondWithJSON(w, http.StatusOK, order)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	sinceID := int64(0)
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			h.respondWithError(w, http.StatusBadRequest, "invalid since parameter")
			return
		}
		sinceID = parsed
	}

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.respondWithError(w, http.StatusBadRequest, "invalid limit parameter")
			return
		}
		limit = parsed
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	orders, err := h.service.ListOrdersSince(r.Context(), sinceID, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list orders")
		h.respondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	h.respondWithJSON(w, http.StatusOK, models.OrderListResponse{
		Success: true,
		Orders:  orders,
		Count:   len(orders),
	})
}

func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	var req models.UpdateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithError(err).Error("Failed to decode update request")
		h.respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.service.UpdateOrder(r.Context(), id, &req)
	if err != nil {
		switch {
		case err == ErrNotFound:
			h.respondWithError(w, http.StatusNotFound, "order not found")
		case IsValidation(err):
			h.respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.WithError(err).WithField("order_id", id).Error("Failed to update order")
			h.respondWithError(w, http.StatusInternalServerError, "failed to update order")
		}
		return
	}

	h.logger.WithFields(logrus.Fields{
		"order_id": order.ID,
		"status":   order.Status,
	}).Info("Order updated")

	h.respondWithJSON(w, http.StatusOK, models.OrderResponse{
		Success: true,
		Message: "order updated",
		Order:   order,
	})
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteOrder(r.Context(), id); err != nil {
		if err == ErrNotFound {
			h.respondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.WithError(err).WithField("order_id", id).Error("Failed to delete order")
		h.respondWithError(w, http.StatusInternalServerError, "failed to delete order")
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *Handler) orderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid order id")
		return 0, false
	}
	return id, true
}

func (h *Handler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func (h *Handler) respondWithError(w http.ResponseWriter, code int, message string) {
	h.respondWithJSON(w, code, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
