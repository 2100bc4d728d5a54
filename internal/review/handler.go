package review

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

func validateReview(req CreateRequest) map[string]string {
	return api.Validate([]api.Rule{
		{Field: "review", OK: req.Review != "", Message: "Review text is required"},
		{Field: "stars", OK: req.Stars != nil && *req.Stars >= 1 && *req.Stars <= 5, Message: "Stars must be an integer from 1 to 5"},
	})
}

// ListBySpot godoc
// @Summary      List a spot's reviews
// @Tags         reviews
// @Produce      json
// @Param        spotID  path      int  true  "Spot ID"
// @Success      200     {object}  map[string]interface{}
// @Failure      404     {object}  api.ErrorResponse
// @Router       /spots/{spotID}/reviews [get]
func (h *Handler) ListBySpot(c *gin.Context) {
	spotID, err := strconv.Atoi(c.Param("spotID"))
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "Spot couldn't be found"})
		return
	}

	reviews, err := h.service.ListBySpot(c.Request.Context(), spotID)
	if err != nil {
		if errors.Is(err, ErrSpotNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "Spot couldn't be found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "Failed to fetch reviews"})
		return
	}

	formatted := make([]WithUserResponse, 0, len(reviews))
	for _, r := range reviews {
		formatted = append(formatted, NewWithUserResponse(r))
	}
	c.JSON(http.StatusOK, gin.H{"Reviews": formatted})
}

// ListCurrent godoc
// @Summary      List current user's reviews
// @Tags         reviews
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  api.ErrorResponse
// @Router       /reviews/current [get]
func (h *Handler) ListCurrent(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "Authentication required"})
		return
	}

	reviews, err := h.service.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "Failed to fetch reviews"})
		return
	}

	formatted := make([]WithSpotResponse, 0, len(reviews))
	for _, r := range reviews {
		formatted = append(formatted, NewWithSpotResponse(r))
	}
	c.JSON(http.StatusOK, gin.H{"Reviews": formatted})
}

// Create godoc
// @Summary      Review a spot
// @Tags         reviews
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        spotID   path      int            true  "Spot ID"
// @Param        request  body      CreateRequest  true  "Review data"
// @Success      201      {object}  Response
// @Failure      400      {object}  api.ValidationErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /spots/{spotID}/reviews [post]
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

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "Bad Request"})
		return
	}

	if errs := validateReview(req); errs != nil {
		c.JSON(http.StatusBadRequest, api.ValidationErrorResponse{Message: "Bad Request", Errors: errs})
		return
	}

	rv, err := h.service.Create(c.Request.Context(), spotID, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSpotNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "Spot couldn't be found"})
		case errors.Is(err, ErrAlreadyExists):
			// 500 matches the original API contract for duplicate reviews
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "User already has a review for this spot"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "Failed to create review"})
		}
		return
	}

	c.JSON(http.StatusCreated, NewResponse(*rv))
}

// Update godoc
// @Summary      Edit a review
// @Tags         reviews
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        reviewID  path      int            true  "Review ID"
// @Param        request   body      CreateRequest  true  "Review data"
// @Success      200       {object}  Response
// @Failure      400       {object}  api.ValidationErrorResponse
// @Failure      403       {object}  api.ErrorResponse
// @Failure      404       {object}  api.ErrorResponse
// @Router       /reviews/{reviewID} [put]
func (h *Handler) Update(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "Authentication required"})
		return
	}

	reviewID, err := strconv.Atoi(c.Param("reviewID"))
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "Review couldn't be found"})
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "Bad Request"})
		return
	}

	if errs := validateReview(req); errs != nil {
		c.JSON(http.StatusBadRequest, api.ValidationErrorResponse{Message: "Bad Request", Errors: errs})
		return
	}

	rv, err := h.service.Update(c.Request.Context(), reviewID, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrReviewNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "Review couldn't be found"})
		case errors.Is(err, ErrNotAuthor):
			c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "Forbidden"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "Failed to update review"})
		}
		return
	}

	c.JSON(http.StatusOK, NewResponse(*rv))
}

// Delete godoc
// @Summary      Delete a review
// @Tags         reviews
// @Security     BearerAuth
// @Produce      json
// @Param        reviewID  path      int  true  "Review ID"
// @Success      200       {object}  api.MessageResponse
// @Failure      403       {object}  api.ErrorResponse
// @Failure      404       {object}  api.ErrorResponse
// @Router       /reviews/{reviewID} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "Authentication required"})
		return
	}

	reviewID, err := strconv.Atoi(c.Param("reviewID"))
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "Review couldn't be found"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), reviewID, userID); err != nil {
		switch {
		case errors.Is(err, ErrReviewNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "Review couldn't be found"})
		case errors.Is(err, ErrNotAuthor):
			c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "Forbidden"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "Failed to delete review"})
		}
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Successfully deleted"})
}

// AddImage godoc
// @Summary      Add an image to a review
// @Tags         reviews
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        reviewID  path      int              true  "Review ID"
// @Param        request   body      AddImageRequest  true  "Image data"
// @Success      201       {object}  Image
// @Failure      403       {object}  api.ErrorResponse
// @Failure      404       {object}  api.ErrorResponse
// @Router       /reviews/{reviewID}/images [post]
func (h *Handler) AddImage(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "Authentication required"})
		return
	}

	reviewID, err := strconv.Atoi(c.Param("reviewID"))
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "Review couldn't be found"})
		return
	}

	var req AddImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "Bad Request"})
		return
	}

	image, err := h.service.AddImage(c.Request.Context(), reviewID, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrReviewNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "Review couldn't be found"})
		case errors.Is(err, ErrNotAuthor):
			c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "Forbidden"})
		case errors.Is(err, ErrTooManyImages):
			c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "Maximum number of images for this resource was reached"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "Failed to add image"})
		}
		return
	}

	c.JSON(http.StatusCreated, image)
}

// DeleteImage godoc
// @Summary      Delete a review image
// @Tags         reviews
// @Security     BearerAuth
// @Produce      json
// @Param        imageID  path      int  true  "Image ID"
// @Success      200      {object}  api.MessageResponse
// @Failure      403      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /review-images/{imageID} [delete]
func (h *Handler) DeleteImage(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "Authentication required"})
		return
	}

	imageID, err := strconv.Atoi(c.Param("imageID"))
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "Review Image couldn't be found"})
		return
	}

	if err := h.service.DeleteImage(c.Request.Context(), imageID, userID); err != nil {
		switch {
		case errors.Is(err, ErrImageNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "Review Image couldn't be found"})
		case errors.Is(err, ErrNotAuthor):
			c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "Forbidden"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "Failed to delete image"})
		}
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Successfully deleted"})
}
