package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"blog-backend/internal/domains/post"
)

// ProcessCoverImageHandler renders the resized variants of an uploaded
// cover next to the original object
type ProcessCoverImageHandler struct {
	storage   post.CoverStorage
	processor post.CoverProcessor
}

func NewProcessCoverImageHandler(storage post.CoverStorage, processor post.CoverProcessor) *ProcessCoverImageHandler {
	return &ProcessCoverImageHandler{
		storage:   storage,
		processor: processor,
	}
}

// ProcessTask downloads the original, resizes it, and uploads each
// variant as <key>_<name>.jpg
func (h *ProcessCoverImageHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload post.ProcessCoverImagePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal ProcessCoverImage payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	log.Info().
		Str("post_id", payload.PostID.String()).
		Str("key", payload.Key).
		Msg("Rendering cover image variants")

	data, err := h.storage.Download(ctx, payload.Key)
	if err != nil {
		log.Error().
			Err(err).
			Str("key", payload.Key).
			Msg("Failed to download cover original")
		return fmt.Errorf("download cover: %w", err)
	}

	variants, err := h.processor.ProcessImage(data)
	if err != nil {
		log.Error().
			Err(err).
			Str("key", payload.Key).
			Msg("Failed to render cover variants")
		return fmt.Errorf("process cover: %w", err)
	}

	for name, variant := range variants {
		variantKey := fmt.Sprintf("%s_%s.jpg", payload.Key, name)
		if _, err := h.storage.Upload(ctx, variantKey, variant, "image/jpeg"); err != nil {
			return fmt.Errorf("upload variant %s: %w", name, err)
		}
	}

	log.Info().
		Str("post_id", payload.PostID.String()).
		Int("variants", len(variants)).
		Msg("Cover image variants rendered")

	return nil
}
