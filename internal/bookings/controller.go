package bookings

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eventhub/internal/shared/middleware"
	"eventhub/internal/shared/utils/response"
)

// Controller handles booking HTTP requests
type Controller struct {
	service Service
}

// NewController creates a new booking controller
func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateBooking handles POST /bookings. Returns 201 for a new booking,
// 200 when the caller already held one for the event.
func (ctrl *Controller) CreateBooking(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "authentication required", nil, nil)
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	result, err := ctrl.service.CreateBooking(c.Request.Context(), userID, &req)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	if result.Created {
		response.RespondJSON(c, "success", http.StatusCreated, "Booking created", result, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Booking already exists for this event", result, nil)
}

// CancelBooking handles DELETE /bookings/:id
func (ctrl *Controller) CancelBooking(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "authentication required", nil, nil)
		return
	}

	err := ctrl.service.CancelBooking(c.Request.Context(), c.Param("id"), userID, middleware.IsAdmin(c))
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking cancelled", nil, nil)
}

// GetBooking handles GET /bookings/:id
func (ctrl *Controller) GetBooking(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "authentication required", nil, nil)
		return
	}

	booking, err := ctrl.service.GetBooking(c.Request.Context(), c.Param("id"), userID, middleware.IsAdmin(c))
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking fetched", booking, nil)
}

// ListBookings handles GET /bookings
func (ctrl *Controller) ListBookings(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "authentication required", nil, nil)
		return
	}

	bookings, err := ctrl.service.ListBookings(c.Request.Context(), userID)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Bookings fetched", bookings, nil)
}
