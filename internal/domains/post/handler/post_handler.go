package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"blog-backend/internal/domains/post"
	"blog-backend/internal/domains/user"
	"blog-backend/internal/shared/response"
	"blog-backend/pkg/logger"
)

// 5MB is plenty for a cover image
const maxCoverSize = 5 << 20

// PostHandler handles HTTP requests for the post domain
type PostHandler struct {
	service post.Service
}

// NewPostHandler creates the handler instance
func NewPostHandler(service post.Service) *PostHandler {
	return &PostHandler{service: service}
}

// ========================================
// PUBLIC READS
// ========================================

// List handles GET /posts - newest first, no auth required
func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.service.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, posts)
}

// Get handles GET /posts/:id
func (h *PostHandler) Get(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid post ID")
		return
	}

	p, err := h.service.Get(c.Request.Context(), postID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, p)
}

// ========================================
// PROTECTED MUTATIONS
// ========================================

// Create handles POST /posts
func (h *PostHandler) Create(c *gin.Context) {
	// STEP 1: GET ACTING USER
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "unauthorized")
		return
	}

	// STEP 2: PARSE REQUEST
	var req post.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	// STEP 3: VALIDATE
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	// STEP 4: CREATE
	p, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Location", "/api/v1/posts/"+p.ID.String())
	response.Success(c, http.StatusCreated, p)
}

// Update handles PUT /posts/:id - author only
func (h *PostHandler) Update(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "unauthorized")
		return
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid post ID")
		return
	}

	var req post.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	p, err := h.service.Update(c.Request.Context(), userID, postID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, p)
}

// Delete handles DELETE /posts/:id - author only
func (h *PostHandler) Delete(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "unauthorized")
		return
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid post ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, postID); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AddComment handles POST /posts/:id/comments
func (h *PostHandler) AddComment(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "unauthorized")
		return
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid post ID")
		return
	}

	var req post.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	comment, err := h.service.AddComment(c.Request.Context(), userID, postID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, comment)
}

// Like handles POST /posts/:id/like.
// Increments unconditionally; there is no per-user dedup.
func (h *PostHandler) Like(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid post ID")
		return
	}

	p, err := h.service.Like(c.Request.Context(), postID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, p)
}

// UploadCover handles POST /posts/:id/cover - author only, multipart
func (h *PostHandler) UploadCover(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "unauthorized")
		return
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid post ID")
		return
	}

	fileHeader, err := c.FormFile("cover")
	if err != nil {
		response.BadRequest(c, "cover file is required")
		return
	}
	if fileHeader.Size > maxCoverSize {
		response.BadRequest(c, "cover file too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "could not read cover file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(c, "could not read cover file")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	p, err := h.service.UploadCover(c.Request.Context(), userID, postID, data, contentType)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, p)
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

// handleError maps domain errors onto HTTP responses
func (h *PostHandler) handleError(c *gin.Context, err error) {
	switch {
	// 400 Bad Request - upload failed decode-based validation
	case errors.Is(err, post.ErrInvalidCoverImage):
		response.BadRequest(c, err.Error())

	// 403 Forbidden - ownership check failed
	case errors.Is(err, post.ErrNotPostAuthor):
		response.Forbidden(c, err.Error())

	// 404 Not Found
	case errors.Is(err, post.ErrPostNotFound),
		errors.Is(err, post.ErrCommentNotFound),
		errors.Is(err, user.ErrUserNotFound):
		response.NotFound(c, err.Error())

	// 500 - unexpected; never expose internals
	default:
		logger.Error("post handler: internal error", err)
		response.InternalServerError(c, "internal server error")
	}
}
