package post

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the business logic contract for the post domain
type Service interface {
	// Reads (no authentication required)
	List(ctx context.Context) ([]Post, error)
	Get(ctx context.Context, id uuid.UUID) (*Post, error)

	// Mutations (authenticated; update/delete are author-only)
	Create(ctx context.Context, authorID uuid.UUID, req CreatePostRequest) (*Post, error)
	Update(ctx context.Context, actorID, postID uuid.UUID, req UpdatePostRequest) (*Post, error)
	Delete(ctx context.Context, actorID, postID uuid.UUID) error
	AddComment(ctx context.Context, authorID, postID uuid.UUID, req AddCommentRequest) (*Comment, error)
	Like(ctx context.Context, postID uuid.UUID) (*Post, error)
	UploadCover(ctx context.Context, actorID, postID uuid.UUID, data []byte, contentType string) (*Post, error)
}

// CoverStorage is the slice of object storage the post domain needs
type CoverStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Download(ctx context.Context, key string) ([]byte, error)
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// CoverProcessor validates cover uploads and renders display variants
type CoverProcessor interface {
	ValidateImage(data []byte) error
	ProcessImage(data []byte) (map[string][]byte, error)
}
