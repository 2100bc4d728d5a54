package user

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"staybook/internal/api"
	"staybook/internal/auth"

	"github.com/gin-gonic/gin"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func validateSignup(req RegisterRequest) map[string]string {
	return api.Validate([]api.Rule{
		{Field: "email", OK: emailPattern.MatchString(req.Email), Message: "Please provide a valid email."},
		{Field: "username", OK: len(req.Username) >= 4, Message: "Please provide a username with at least 4 characters."},
		{Field: "username", OK: !strings.Contains(req.Username, "@"), Message: "Username cannot be an email."},
		{Field: "firstName", OK: req.FirstName != "", Message: "First Name is required"},
		{Field: "lastName", OK: req.LastName != "", Message: "Last Name is required"},
		{Field: "password", OK: len(req.Password) >= 6, Message: "Password must be 6 characters or more."},
	})
}

// Register godoc
// @Summary      Sign up
// @Description  Creates a new user and returns access & refresh tokens.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      RegisterRequest  true  "User registration data"
// @Success      201      {object}  LoginResponse
// @Failure      400      {object}  api.ValidationErrorResponse
// @Failure      500      {object}  api.ValidationErrorResponse
// @Router       /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "Bad Request"})
		return
	}

	if errs := validateSignup(req); errs != nil {
		c.JSON(http.StatusBadRequest, api.ValidationErrorResponse{Message: "Bad Request", Errors: errs})
		return
	}

	user, accessToken, refreshToken, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailExists):
			// 500 matches the original API contract for duplicate users
			c.JSON(http.StatusInternalServerError, api.ValidationErrorResponse{
				Message: "User already exists",
				Errors:  map[string]string{"email": "User with that email already exists"},
			})
		case errors.Is(err, ErrUsernameExists):
			c.JSON(http.StatusInternalServerError, api.ValidationErrorResponse{
				Message: "User already exists",
				Errors:  map[string]string{"username": "User with that username already exists"},
			})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "Failed to create user"})
		}
		return
	}

	c.JSON(http.StatusCreated, LoginResponse{
		User:         *user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// Login godoc
// @Summary      Log in
// @Description  Authenticates a user by username or email plus password.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "User credentials"
// @Success      200      {object}  LoginResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      401      {object}  api.ErrorResponse
// @Router       /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "Bad Request"})
		return
	}

	user, accessToken, refreshToken, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "Invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		User:         *user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// GetMe godoc
// @Summary      Current user
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  User
// @Failure      401  {object}  api.ErrorResponse
// @Router       /me [get]
func (h *Handler) GetMe(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "Authentication required"})
		return
	}

	user, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "User couldn't be found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
