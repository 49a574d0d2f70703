package payments

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eventhub/internal/shared/middleware"
	"eventhub/internal/shared/utils/response"
)

// Controller handles payment HTTP requests
type Controller struct {
	service Service
}

// NewController creates a new payment controller
func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateIntent handles POST /payments/create-intent
func (ctrl *Controller) CreateIntent(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "authentication required", nil, nil)
		return
	}

	var req CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	intent, err := ctrl.service.CreateIntent(c.Request.Context(), userID, &req)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Payment intent created", intent, nil)
}

// ConfirmPayment handles POST /payments/confirm
func (ctrl *Controller) ConfirmPayment(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "authentication required", nil, nil)
		return
	}

	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	payment, err := ctrl.service.ConfirmPayment(c.Request.Context(), userID, &req)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Payment confirmed", payment, nil)
}

// ListMyPayments handles GET /payments/my
func (ctrl *Controller) ListMyPayments(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "authentication required", nil, nil)
		return
	}

	payments, err := ctrl.service.ListMyPayments(c.Request.Context(), userID)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Payments fetched", payments, nil)
}

// ListAllPayments handles GET /payments (admin)
func (ctrl *Controller) ListAllPayments(c *gin.Context) {
	records, err := ctrl.service.ListAllPayments(c.Request.Context())
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Payments fetched", records, nil)
}
