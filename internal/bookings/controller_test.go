package bookings

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhub/internal/shared/apperrors"
)

// stubService returns canned responses so the controller can be tested
// in isolation.
type stubService struct {
	createResult *BookingResult
	createErr    error
	cancelErr    error
	booking      *Booking
	getErr       error
	summaries    []BookingSummary
	listErr      error
}

func (s *stubService) CreateBooking(ctx context.Context, userID string, req *CreateBookingRequest) (*BookingResult, error) {
	return s.createResult, s.createErr
}

func (s *stubService) CancelBooking(ctx context.Context, bookingID, callerID string, isAdmin bool) error {
	return s.cancelErr
}

func (s *stubService) GetBooking(ctx context.Context, bookingID, callerID string, isAdmin bool) (*Booking, error) {
	return s.booking, s.getErr
}

func (s *stubService) ListBookings(ctx context.Context, userID string) ([]BookingSummary, error) {
	return s.summaries, s.listErr
}

func setupTestRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	// Stand-in for the JWT middleware.
	engine.Use(func(c *gin.Context) {
		c.Set("user_id", uuid.NewString())
		c.Set("user_role", "ATTENDEE")
	})

	ctrl := NewController(svc)
	engine.POST("/bookings", ctrl.CreateBooking)
	engine.GET("/bookings", ctrl.ListBookings)
	engine.GET("/bookings/:id", ctrl.GetBooking)
	engine.DELETE("/bookings/:id", ctrl.CancelBooking)
	return engine
}

func performRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateBookingEndpoint(t *testing.T) {
	t.Run("new booking returns 201", func(t *testing.T) {
		svc := &stubService{
			createResult: &BookingResult{BookingID: uuid.NewString(), Created: true, Status: StatusPending},
		}
		router := setupTestRouter(svc)

		w := performRequest(router, http.MethodPost, "/bookings",
			CreateBookingRequest{EventID: uuid.NewString()})

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("existing booking returns 200", func(t *testing.T) {
		svc := &stubService{
			createResult: &BookingResult{BookingID: uuid.NewString(), Created: false, Status: StatusPending},
		}
		router := setupTestRouter(svc)

		w := performRequest(router, http.MethodPost, "/bookings",
			CreateBookingRequest{EventID: uuid.NewString()})

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("sold out returns 409 with stable code", func(t *testing.T) {
		svc := &stubService{createErr: apperrors.ErrCapacityExceeded}
		router := setupTestRouter(svc)

		w := performRequest(router, http.MethodPost, "/bookings",
			CreateBookingRequest{EventID: uuid.NewString()})

		assert.Equal(t, http.StatusConflict, w.Code)

		var body struct {
			Errors struct {
				Code string `json:"code"`
			} `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "CAPACITY_EXCEEDED", body.Errors.Code)
	})

	t.Run("missing event id returns 400", func(t *testing.T) {
		svc := &stubService{}
		router := setupTestRouter(svc)

		w := performRequest(router, http.MethodPost, "/bookings", gin.H{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCancelBookingEndpoint(t *testing.T) {
	t.Run("success returns 200", func(t *testing.T) {
		router := setupTestRouter(&stubService{})
		w := performRequest(router, http.MethodDelete, "/bookings/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("too close to event returns 400", func(t *testing.T) {
		router := setupTestRouter(&stubService{cancelErr: apperrors.ErrTooCloseToEvent})
		w := performRequest(router, http.MethodDelete, "/bookings/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("already cancelled returns 409", func(t *testing.T) {
		router := setupTestRouter(&stubService{cancelErr: apperrors.ErrAlreadyCancelled})
		w := performRequest(router, http.MethodDelete, "/bookings/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("foreign booking returns 403", func(t *testing.T) {
		router := setupTestRouter(&stubService{cancelErr: apperrors.ErrForbidden})
		w := performRequest(router, http.MethodDelete, "/bookings/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestGetBookingEndpoint(t *testing.T) {
	t.Run("unknown booking returns 404", func(t *testing.T) {
		router := setupTestRouter(&stubService{getErr: apperrors.ErrBookingNotFound})
		w := performRequest(router, http.MethodGet, "/bookings/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
