package booking

import (
	"errors"
	"net/http"
	"strconv"

	"staybook/internal/api"
	"staybook/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

var conflictErrors = map[string]string{
	"startDate": "Start date conflicts with an existing booking",
	"endDate":   "End date conflicts with an existing booking",
}

func writeBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSpotNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "Spot couldn't be found"})
	case errors.Is(err, ErrBookingNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "Booking couldn't be found"})
	case errors.Is(err, ErrOwnSpot):
		c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "Cannot book your own spot"})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "Forbidden"})
	case errors.Is(err, ErrPastBooking):
		c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "Past bookings can't be modified"})
	case errors.Is(err, ErrAlreadyStarted):
		c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "Bookings that have been started can't be deleted"})
	case errors.Is(err, ErrConflict):
		// Both boundaries are reported regardless of which one collided.
		c.JSON(http.StatusForbidden, api.ValidationErrorResponse{
			Message: "Sorry, this spot is already booked for the specified dates",
			Errors:  conflictErrors,
		})
	case errors.Is(err, ErrInvalidStart):
		c.JSON(http.StatusBadRequest, api.ValidationErrorResponse{
			Message: "Bad Request",
			Errors:  map[string]string{"startDate": "Start date is required"},
		})
	case errors.Is(err, ErrInvalidEnd):
		c.JSON(http.StatusBadRequest, api.ValidationErrorResponse{
			Message: "Bad Request",
			Errors:  map[string]string{"endDate": "End date is required"},
		})
	case errors.Is(err, ErrInvalidRange):
		c.JSON(http.StatusBadRequest, api.ValidationErrorResponse{
			Message: "Bad Request",
			Errors:  map[string]string{"endDate": "endDate cannot be on or before startDate"},
		})
	case errors.Is(err, ErrPastStart):
		c.JSON(http.StatusBadRequest, api.ValidationErrorResponse{
			Message: "Bad Request",
			Errors:  map[string]string{"startDate": "startDate cannot be in the past"},
		})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "Internal server error"})
	}
}

// Create godoc
// @Summary      Book a spot
// @Description  Creates a booking for the given date range if the spot is available.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        spotID   path      int      true  "Spot ID"
// @Param        request  body      Request  true  "Booking dates"
// @Success      201      {object}  Response
// @Failure      400      {object}  api.ValidationErrorResponse
// @Failure      403      {object}  api.ValidationErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /spots/{spotID}/bookings [post]
func (h *Handler) Create(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "Authentication required"})
		return
	}

	spotID, err := strconv.Atoi(c.Param("spotID"))
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "Spot couldn't be found"})
		return
	}

	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "Bad Request"})
		return
	}

	b, err := h.service.Create(c.Request.Context(), userID, spotID, req)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewResponse(*b))
}

// ListBySpot godoc
// @Summary      List a spot's bookings
// @Description  Owners see who booked; everyone else only sees the booked ranges.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        spotID  path      int  true  "Spot ID"
// @Success      200     {object}  map[string]interface{}
// @Failure      404     {object}  api.ErrorResponse
// @Router       /spots/{spotID}/bookings [get]
func (h *Handler) ListBySpot(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "Authentication required"})
		return
	}

	spotID, err := strconv.Atoi(c.Param("spotID"))
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "Spot couldn't be found"})
		return
	}

	bookings, isOwner, err := h.service.ListBySpot(c.Request.Context(), spotID, userID)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	if isOwner {
		formatted := make([]WithUserResponse, 0, len(bookings))
		for _, b := range bookings {
			formatted = append(formatted, NewWithUserResponse(b))
		}
		c.JSON(http.StatusOK, gin.H{"Bookings": formatted})
		return
	}

	formatted := make([]TrimmedResponse, 0, len(bookings))
	for _, b := range bookings {
		formatted = append(formatted, NewTrimmedResponse(b.Booking))
	}
	c.JSON(http.StatusOK, gin.H{"Bookings": formatted})
}

// ListCurrent godoc
// @Summary      List current user's bookings
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  api.ErrorResponse
// @Router       /bookings/current [get]
func (h *Handler) ListCurrent(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "Authentication required"})
		return
	}

	bookings, err := h.service.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "Failed to fetch bookings"})
		return
	}

	formatted := make([]WithSpotResponse, 0, len(bookings))
	for _, b := range bookings {
		formatted = append(formatted, NewWithSpotResponse(b))
	}
	c.JSON(http.StatusOK, gin.H{"Bookings": formatted})
}

// Update godoc
// @Summary      Reschedule a booking
// @Description  Changes the booking's date range. Only the renter may reschedule, and only before the booking ends.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        bookingID  path      int      true  "Booking ID"
// @Param        request    body      Request  true  "New booking dates"
// @Success      200        {object}  Response
// @Failure      400        {object}  api.ValidationErrorResponse
// @Failure      403        {object}  api.ValidationErrorResponse
// @Failure      404        {object}  api.ErrorResponse
// @Router       /bookings/{bookingID} [put]
func (h *Handler) Update(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "Authentication required"})
		return
	}

	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "Booking couldn't be found"})
		return
	}

	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "Bad Request"})
		return
	}

	b, err := h.service.Update(c.Request.Context(), bookingID, userID, req)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(*b))
}

// Delete godoc
// @Summary      Cancel a booking
// @Description  The renter or the spot owner may cancel, as long as the stay has not started.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200        {object}  api.MessageResponse
// @Failure      403        {object}  api.ErrorResponse
// @Failure      404        {object}  api.ErrorResponse
// @Router       /bookings/{bookingID} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "Authentication required"})
		return
	}

	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "Booking couldn't be found"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), bookingID, userID); err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Successfully deleted"})
}
