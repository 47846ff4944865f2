package post

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// ========================================
// POST DTOs
// ========================================

// CreatePostRequest - new post payload.
// Title defaults to "Untitled" when blank; Excerpt is derived from
// Content when not supplied. Both defaults applied by the service.
type CreatePostRequest struct {
	Title      string   `json:"title"`
	Content    string   `json:"content" binding:"required"`
	Excerpt    string   `json:"excerpt,omitempty"`
	CoverImage string   `json:"cover_image,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

func (r CreatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content,
			validation.Required.Error("content is required"),
		),
		validation.Field(&r.Title, validation.Length(0, 200)),
		validation.Field(&r.CoverImage,
			validation.When(r.CoverImage != "", is.URL.Error("cover image must be a valid URL")),
		),
		validation.Field(&r.Tags, validation.Each(validation.Length(1, 50))),
	)
}

// UpdatePostRequest - partial update, only non-nil fields change
type UpdatePostRequest struct {
	Title      *string   `json:"title,omitempty"`
	Content    *string   `json:"content,omitempty"`
	Excerpt    *string   `json:"excerpt,omitempty"`
	CoverImage *string   `json:"cover_image,omitempty"`
	Tags       *[]string `json:"tags,omitempty"`
}

func (r UpdatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.When(r.Title != nil, validation.Length(1, 200)),
		),
		validation.Field(&r.Content,
			validation.When(r.Content != nil, validation.Length(1, 0)),
		),
	)
}

// ========================================
// COMMENT DTOs
// ========================================

// AddCommentRequest - append a comment to a post
type AddCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

func (r AddCommentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content,
			validation.Required.Error("content is required"),
			validation.Length(1, 2000),
		),
	)
}
