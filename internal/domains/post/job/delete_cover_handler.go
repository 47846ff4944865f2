package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"blog-backend/internal/domains/post"
)

// DeleteCoverImagesHandler removes a deleted post's cover uploads
// from object storage
type DeleteCoverImagesHandler struct {
	storage post.CoverStorage
}

func NewDeleteCoverImagesHandler(storage post.CoverStorage) *DeleteCoverImagesHandler {
	return &DeleteCoverImagesHandler{storage: storage}
}

// ProcessTask deletes every object under the post's cover prefix
func (h *DeleteCoverImagesHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload post.DeleteCoverImagesPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal DeleteCoverImages payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	log.Info().
		Str("post_id", payload.PostID.String()).
		Msg("Deleting post cover images")

	prefix := fmt.Sprintf("covers/%s/", payload.PostID.String())
	if err := h.storage.DeleteByPrefix(ctx, prefix); err != nil {
		log.Error().
			Err(err).
			Str("post_id", payload.PostID.String()).
			Msg("Failed to delete post cover images")
		return fmt.Errorf("delete cover images: %w", err)
	}

	return nil
}
