package post

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the data access contract for posts and comments.
// Read methods fill Author/Comment.Author snapshots by joining the
// users table at read time - nothing denormalized at rest.
type Repository interface {
	// Create inserts a new post
	Create(ctx context.Context, p *Post) error

	// List returns every post, newest first, comments included
	List(ctx context.Context) ([]Post, error)

	// FindByID returns one post with its comments in creation order
	// Returns: ErrPostNotFound when missing
	FindByID(ctx context.Context, id uuid.UUID) (*Post, error)

	// Update persists title/content/excerpt/cover/tags/updated_at
	Update(ctx context.Context, p *Post) error

	// Delete removes the post and its comments
	Delete(ctx context.Context, id uuid.UUID) error

	// AddComment appends a comment to a post
	AddComment(ctx context.Context, c *Comment) error

	// IncrementLikes bumps the like counter atomically and returns
	// the new count. No per-user tracking.
	IncrementLikes(ctx context.Context, id uuid.UUID) (int, error)

	// SetCoverImage updates only the cover image URL
	SetCoverImage(ctx context.Context, id uuid.UUID, url string) error
}
