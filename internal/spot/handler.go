package spot

import (
	"errors"
	"net/http"
	"strconv"
	"unicode/utf8"

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

func validateSpot(req CreateSpotRequest) map[string]string {
	return api.Validate([]api.Rule{
		{Field: "address", OK: req.Address != "", Message: "Street address is required"},
		{Field: "city", OK: req.City != "", Message: "City is required"},
		{Field: "state", OK: req.State != "", Message: "State is required"},
		{Field: "country", OK: req.Country != "", Message: "Country is required"},
		{Field: "lat", OK: req.Lat != nil && *req.Lat >= -90 && *req.Lat <= 90, Message: "Latitude must be within -90 and 90"},
		{Field: "lng", OK: req.Lng != nil && *req.Lng >= -180 && *req.Lng <= 180, Message: "Longitude must be within -180 and 180"},
		{Field: "name", OK: req.Name != "" && utf8.RuneCountInString(req.Name) <= 50, Message: "Name must be less than 50 characters"},
		{Field: "description", OK: req.Description != "", Message: "Description is required"},
		{Field: "price", OK: req.Price != nil && *req.Price >= 0, Message: "Price per day must be a positive number"},
	})
}

// List godoc
// @Summary      List spots
// @Description  Returns all spots with optional pagination and lat/lng/price filters.
// @Tags         spots
// @Produce      json
// @Param        page      query     int     false  "Page number"
// @Param        size      query     int     false  "Page size (1-20)"
// @Param        minLat    query     number  false  "Minimum latitude"
// @Param        maxLat    query     number  false  "Maximum latitude"
// @Param        minLng    query     number  false  "Minimum longitude"
// @Param        maxLng    query     number  false  "Maximum longitude"
// @Param        minPrice  query     number  false  "Minimum price"
// @Param        maxPrice  query     number  false  "Maximum price"
// @Success      200       {object}  map[string]interface{}
// @Failure      400       {object}  api.ValidationErrorResponse
// @Router       /spots [get]
func (h *Handler) List(c *gin.Context) {
	var filters Filters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "Bad Request"})
		return
	}

	if errs := api.ValidateStruct(filters, filterMessages); errs != nil {
		c.JSON(http.StatusBadRequest, api.ValidationErrorResponse{Message: "Bad Request", Errors: errs})
		return
	}

	spots, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "Failed to fetch spots"})
		return
	}

	formatted := make([]ListResponse, 0, len(spots))
	for _, s := range spots {
		formatted = append(formatted, NewListResponse(s))
	}

	response := gin.H{"Spots": formatted}
	// pagination is echoed back only when the client filtered or paged
	if len(c.Request.URL.Query()) > 0 {
		page, size := filters.Pagination()
		response["page"] = page
		response["size"] = size
	}

	c.JSON(http.StatusOK, response)
}

// ListCurrent godoc
// @Summary      List current user's spots
// @Tags         spots
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  api.ErrorResponse
// @Router       /spots/current [get]
func (h *Handler) ListCurrent(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "Authentication required"})
		return
	}

	spots, err := h.service.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "Failed to fetch spots"})
		return
	}

	formatted := make([]ListResponse, 0, len(spots))
	for _, s := range spots {
		formatted = append(formatted, NewListResponse(s))
	}

	c.JSON(http.StatusOK, gin.H{"Spots": formatted})
}

// Get godoc
// @Summary      Get spot details
// @Tags         spots
// @Produce      json
// @Param        spotID  path      int  true  "Spot ID"
// @Success      200     {object}  DetailResponse
// @Failure      404     {object}  api.ErrorResponse
// @Router       /spots/{spotID} [get]
func (h *Handler) Get(c *gin.Context) {
	spotID, err := strconv.Atoi(c.Param("spotID"))
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "Spot couldn't be found"})
		return
	}

	detail, err := h.service.Get(c.Request.Context(), spotID)
	if err != nil {
		if errors.Is(err, ErrSpotNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "Spot couldn't be found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "Failed to fetch spot"})
		return
	}

	c.JSON(http.StatusOK, NewDetailResponse(*detail))
}

// Create godoc
// @Summary      Create a spot
// @Tags         spots
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateSpotRequest  true  "Spot data"
// @Success      201      {object}  Response
// @Failure      400      {object}  api.ValidationErrorResponse
// @Failure      401      {object}  api.ErrorResponse
// @Router       /spots [post]
func (h *Handler) Create(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "Authentication required"})
		return
	}

	var req CreateSpotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "Bad Request"})
		return
	}

	if errs := validateSpot(req); errs != nil {
		c.JSON(http.StatusBadRequest, api.ValidationErrorResponse{Message: "Bad Request", Errors: errs})
		return
	}

	spot, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "Failed to create spot"})
		return
	}

	c.JSON(http.StatusCreated, NewResponse(*spot))
}

// Update godoc
// @Summary      Update a spot
// @Description  Replaces all spot fields. Only the owner may update.
// @Tags         spots
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        spotID   path      int                true  "Spot ID"
// @Param        request  body      CreateSpotRequest  true  "Spot data"
// @Success      200      {object}  Response
// @Failure      400      {object}  api.ValidationErrorResponse
// @Failure      403      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /spots/{spotID} [put]
func (h *Handler) Update(c *gin.Context) {
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

	var req CreateSpotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "Bad Request"})
		return
	}

	if errs := validateSpot(req); errs != nil {
		c.JSON(http.StatusBadRequest, api.ValidationErrorResponse{Message: "Bad Request", Errors: errs})
		return
	}

	spot, err := h.service.Update(c.Request.Context(), spotID, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSpotNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "Spot couldn't be found"})
		case errors.Is(err, ErrNotOwner):
			c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "Forbidden"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "Failed to update spot"})
		}
		return
	}

	c.JSON(http.StatusOK, NewResponse(*spot))
}

// Delete godoc
// @Summary      Delete a spot
// @Description  Removes the spot along with its images, reviews and bookings.
// @Tags         spots
// @Security     BearerAuth
// @Produce      json
// @Param        spotID  path      int  true  "Spot ID"
// @Success      200     {object}  api.MessageResponse
// @Failure      403     {object}  api.ErrorResponse
// @Failure      404     {object}  api.ErrorResponse
// @Router       /spots/{spotID} [delete]
func (h *Handler) Delete(c *gin.Context) {
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

	if err := h.service.Delete(c.Request.Context(), spotID, userID); err != nil {
		switch {
		case errors.Is(err, ErrSpotNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "Spot couldn't be found"})
		case errors.Is(err, ErrNotOwner):
			c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "Forbidden"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "Failed to delete spot"})
		}
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Successfully deleted"})
}

// AddImage godoc
// @Summary      Add an image to a spot
// @Tags         spots
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        spotID   path      int              true  "Spot ID"
// @Param        request  body      AddImageRequest  true  "Image data"
// @Success      201      {object}  Image
// @Failure      403      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /spots/{spotID}/images [post]
func (h *Handler) AddImage(c *gin.Context) {
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

	var req AddImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "Bad Request"})
		return
	}

	image, err := h.service.AddImage(c.Request.Context(), spotID, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSpotNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "Spot couldn't be found"})
		case errors.Is(err, ErrNotOwner):
			c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "Forbidden"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "Failed to add image"})
		}
		return
	}

	c.JSON(http.StatusCreated, image)
}

// DeleteImage godoc
// @Summary      Delete a spot image
// @Tags         spots
// @Security     BearerAuth
// @Produce      json
// @Param        imageID  path      int  true  "Image ID"
// @Success      200      {object}  api.MessageResponse
// @Failure      403      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /spot-images/{imageID} [delete]
func (h *Handler) DeleteImage(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "Authentication required"})
		return
	}

	imageID, err := strconv.Atoi(c.Param("imageID"))
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "Spot Image couldn't be found"})
		return
	}

	if err := h.service.DeleteImage(c.Request.Context(), imageID, userID); err != nil {
		switch {
		case errors.Is(err, ErrImageNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "Spot Image couldn't be found"})
		case errors.Is(err, ErrNotOwner):
			c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "Forbidden"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "Failed to delete image"})
		}
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Successfully deleted"})
}
