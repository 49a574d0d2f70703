package events

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"eventhub/internal/shared/middleware"
	"eventhub/internal/shared/utils/response"
)

// Controller handles event HTTP requests
type Controller struct {
	service Service
}

// NewController creates a new event controller
func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// ListEvents handles GET /events
func (ctrl *Controller) ListEvents(c *gin.Context) {
	var query EventListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	result, err := ctrl.service.ListEvents(c.Request.Context(), &query)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Events fetched", result, nil)
}

// GetEvent handles GET /events/:id
func (ctrl *Controller) GetEvent(c *gin.Context) {
	event, err := ctrl.service.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event fetched", event, nil)
}

// CreateEvent handles POST /events
func (ctrl *Controller) CreateEvent(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "authentication required", nil, nil)
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	event, err := ctrl.service.CreateEvent(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, ErrLocationRequired) || errors.Is(err, ErrMeetingLinkRequired) {
			response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
			return
		}
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Event created", event, nil)
}

// UpdateEvent handles PUT /events/:id
func (ctrl *Controller) UpdateEvent(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "authentication required", nil, nil)
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	event, err := ctrl.service.UpdateEvent(c.Request.Context(), c.Param("id"), userID, middleware.IsAdmin(c), &req)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event updated", event, nil)
}

// DeleteEvent handles DELETE /events/:id
func (ctrl *Controller) DeleteEvent(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "authentication required", nil, nil)
		return
	}

	err := ctrl.service.DeleteEvent(c.Request.Context(), c.Param("id"), userID, middleware.IsAdmin(c))
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event deleted", nil, nil)
}

// GetMyEvents handles GET /events/my
func (ctrl *Controller) GetMyEvents(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "authentication required", nil, nil)
		return
	}

	events, err := ctrl.service.GetMyEvents(c.Request.Context(), userID)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Events fetched", events, nil)
}

// GetAttendees handles GET /events/:id/attendees
func (ctrl *Controller) GetAttendees(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "authentication required", nil, nil)
		return
	}

	result, err := ctrl.service.GetAttendees(c.Request.Context(), c.Param("id"), userID, middleware.IsAdmin(c))
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Attendees fetched", result, nil)
}
