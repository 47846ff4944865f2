package post

import "github.com/google/uuid"

// Asynq task type names
const (
	TaskDeleteCoverImages = "post:delete_cover_images"
	TaskProcessCoverImage = "post:process_cover_image"
)

// DeleteCoverImagesPayload for removing a deleted post's cover uploads
// from object storage
type DeleteCoverImagesPayload struct {
	PostID uuid.UUID `json:"post_id"`
}

// ProcessCoverImagePayload for rendering the resized variants of a
// freshly uploaded cover
type ProcessCoverImagePayload struct {
	PostID uuid.UUID `json:"post_id"`
	Key    string    `json:"key"`
}
