package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"blog-backend/internal/domains/user"
	"blog-backend/internal/shared/response"
	"blog-backend/pkg/logger"
)

// UserHandler handles HTTP requests for the user domain.
// Stateless - only holds dependencies.
type UserHandler struct {
	service user.Service
}

// NewUserHandler creates the handler instance
func NewUserHandler(service user.Service) *UserHandler {
	return &UserHandler{service: service}
}

// ========================================
// AUTHENTICATION ENDPOINTS
// ========================================

// Register handles POST /auth/register
func (h *UserHandler) Register(c *gin.Context) {
	// STEP 1: PARSE REQUEST BODY
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	// STEP 2: VALIDATE
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// STEP 3: CALL SERVICE LAYER
	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	// STEP 4: SUCCESS
	// 201 Created + Location of the new resource
	c.Header("Location", "/api/v1/users/"+res.User.ID.String())
	response.Success(c, http.StatusCreated, res)
}

// Login handles POST /auth/login
func (h *UserHandler) Login(c *gin.Context) {
	// STEP 1: PARSE REQUEST
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	// STEP 2: VALIDATE
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// STEP 3: AUTHENTICATE
	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	// STEP 4: SUCCESS
	// The bearer token in the body is all the client keeps
	response.Success(c, http.StatusOK, res)
}

// ========================================
// PROFILE ENDPOINTS (PROTECTED)
// ========================================
// AuthMiddleware has validated the JWT and set user_id in context.

// GetProfile handles GET /users/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "unauthorized")
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, profile)
}

// UpdateProfile handles PUT /users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	// STEP 1: GET USER ID
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "unauthorized")
		return
	}

	// STEP 2: PARSE REQUEST
	var req user.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	// STEP 3: VALIDATE
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// STEP 4: UPDATE
	updated, err := h.service.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, updated)
}

// ========================================
// HELPERS
// ========================================

// getUserIDFromContext reads the acting user's ID set by AuthMiddleware
func getUserIDFromContext(c *gin.Context) (uuid.UUID, error) {
	value, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, errors.New("user ID not found in context")
	}

	userID, ok := value.(uuid.UUID)
	if !ok {
		return uuid.Nil, errors.New("invalid user ID type in context")
	}

	return userID, nil
}

// handleError maps domain errors onto HTTP responses.
// Centralized so every endpoint reports consistently.
func (h *UserHandler) handleError(c *gin.Context, err error) {
	switch {
	// 401 Unauthorized - authentication failed
	case errors.Is(err, user.ErrInvalidCredentials):
		response.Unauthorized(c, err.Error())

	// 404 Not Found
	case errors.Is(err, user.ErrUserNotFound):
		response.NotFound(c, err.Error())

	// 409 Conflict - duplicate email/username
	case errors.Is(err, user.ErrEmailAlreadyExists),
		errors.Is(err, user.ErrUsernameAlreadyExists):
		response.Conflict(c, err.Error())

	// 500 - unexpected; never expose internals
	default:
		logger.Error("user handler: internal error", err)
		response.InternalServerError(c, "internal server error")
	}
}
