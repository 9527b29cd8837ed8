package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"orderflow/internal/domain"
	"orderflow/internal/infra/webhook"
	"orderflow/internal/repository"
	"orderflow/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// statusRetryAttempts is how often a staff status update is retried with a
// fresh read before a conflict surfaces to the caller.
const statusRetryAttempts = 3

type Handler struct {
	orders    *services.OrderService
	reconcile *services.ReconcileService
	kitchen   *services.KitchenService
	quota     *services.QuotaService
	resources repository.ResourceRepository

	jwtSecret     string
	webhookSecret string
}

func NewHandler(
	orders *services.OrderService,
	reconcile *services.ReconcileService,
	kitchen *services.KitchenService,
	quota *services.QuotaService,
	resources repository.ResourceRepository,
	jwtSecret, webhookSecret string,
) *Handler {
	return &Handler{
		orders:        orders,
		reconcile:     reconcile,
		kitchen:       kitchen,
		quota:         quota,
		resources:     resources,
		jwtSecret:     jwtSecret,
		webhookSecret: webhookSecret,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/webhooks/payment", h.PaymentWebhook)
	r.POST("/orders", h.Checkout)

	staff := r.Group("/", AuthMiddleware(h.jwtSecret, "staff", "manager", "owner"))
	staff.GET("/locations/:id/orders", h.ListActiveOrders)
	staff.PATCH("/orders/:id/status", h.UpdateOrderStatus)
	staff.PATCH("/orders/:id/estimate", h.UpdateEstimate)

	managers := r.Group("/", AuthMiddleware(h.jwtSecret, "manager", "owner"))
	managers.PUT("/locations/:id/eta-offset", h.UpdateLocationOffset)

	owners := r.Group("/", AuthMiddleware(h.jwtSecret, "owner"))
	owners.POST("/locations", h.CreateLocation)
	owners.POST("/staff", h.CreateStaffAccount)
	owners.POST("/meals", h.CreateMeal)
}

// PaymentWebhook receives processor notifications. Signature failures are
// the only 4xx; store failures 5xx so the processor retries; every other
// outcome acknowledges, duplicates included.
func (h *Handler) PaymentWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	sig := c.GetHeader("X-Webhook-Signature")
	if !webhook.Verify(h.webhookSecret, body, sig) {
		log.Warn().Str("remote", c.ClientIP()).Msg("rejected webhook with bad signature")
		c.JSON(http.StatusUnauthorized, gin.H{"error": services.ErrUnauthenticatedEvent.Error()})
		return
	}

	var evt domain.PaymentEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unparseable event"})
		return
	}

	if err := h.reconcile.ApplyPaymentEvent(c.Request.Context(), evt); err != nil {
		log.Error().Err(err).Str("event_id", evt.EventID).Msg("reconciliation hit store failure")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *Handler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, url, err := h.orders.Checkout(c.Request.Context(), services.CheckoutInput{
		RestaurantID: req.RestaurantID,
		LocationID:   req.LocationID,
		TotalPrice:   req.TotalPrice,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, CheckoutResponse{
		ID:          order.ID,
		PaymentRef:  order.PaymentRef,
		CheckoutURL: url,
	})
}

func (h *Handler) ListActiveOrders(c *gin.Context) {
	locationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	views, err := h.kitchen.ListActiveOrders(c.Request.Context(), currentRestaurantID(c), locationID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var (
		order *domain.Order
		err   error
	)
	for attempt := 0; attempt < statusRetryAttempts; attempt++ {
		order, err = h.orders.Transition(c.Request.Context(), currentRestaurantID(c), orderID, domain.OrderStatus(req.Status))
		if !errors.Is(err, services.ErrConcurrentModification) {
			break
		}
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) UpdateEstimate(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.kitchen.SetEstimate(c.Request.Context(), currentRestaurantID(c), orderID, *req.Minutes); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) UpdateLocationOffset(c *gin.Context) {
	locationID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateOffsetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.kitchen.SetLocationOffset(c.Request.Context(), currentRestaurantID(c), locationID, *req.Minutes); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) CreateLocation(c *gin.Context) {
	var req CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rid := currentRestaurantID(c)
	loc := &domain.Location{
		RestaurantID: rid,
		Name:         req.Name,
		Address:      req.Address,
		IsActive:     true,
	}
	err := h.quota.CheckAndReserve(c.Request.Context(), rid, domain.ResourceLocation, func() error {
		return h.resources.CreateLocation(loc)
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, loc)
}

func (h *Handler) CreateStaffAccount(c *gin.Context) {
	var req CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := req.Role
	if role == "" {
		role = "staff"
	}
	rid := currentRestaurantID(c)
	sa := &domain.StaffAccount{
		RestaurantID: rid,
		LocationID:   req.LocationID,
		Name:         req.Name,
		Email:        req.Email,
		Role:         role,
		IsActive:     true,
	}
	err := h.quota.CheckAndReserve(c.Request.Context(), rid, domain.ResourceStaffAccount, func() error {
		return h.resources.CreateStaffAccount(sa)
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sa)
}

func (h *Handler) CreateMeal(c *gin.Context) {
	var req CreateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rid := currentRestaurantID(c)
	meal := &domain.Meal{
		RestaurantID: rid,
		Name:         req.Name,
		Price:        req.Price,
		IsActive:     true,
	}
	err := h.quota.CheckAndReserve(c.Request.Context(), rid, domain.ResourceMeal, func() error {
		return h.resources.CreateMeal(meal)
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, meal)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrOrderNotFound), errors.Is(err, services.ErrLocationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrConcurrentModification),
		errors.Is(err, services.ErrQuotaExceeded):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidEstimate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a positive integer"})
		return 0, false
	}
	return id, true
}
