package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-backend/internal/domains/post"
)

type fakeCoverStorage struct {
	objects map[string][]byte
}

func (s *fakeCoverStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	s.objects[key] = data
	return "http://storage/" + key, nil
}

func (s *fakeCoverStorage) Download(ctx context.Context, key string) ([]byte, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, errors.New("object not found")
	}
	return data, nil
}

func (s *fakeCoverStorage) DeleteByPrefix(ctx context.Context, prefix string) error {
	return nil
}

type fakeProcessor struct{}

func (p *fakeProcessor) ValidateImage(data []byte) error { return nil }

func (p *fakeProcessor) ProcessImage(data []byte) (map[string][]byte, error) {
	return map[string][]byte{
		"large":     data,
		"medium":    data,
		"thumbnail": data,
	}, nil
}

func TestProcessCoverUploadsVariantsNextToOriginal(t *testing.T) {
	key := "covers/abc/123"
	storage := &fakeCoverStorage{objects: map[string][]byte{key: []byte("original")}}
	handler := NewProcessCoverImageHandler(storage, &fakeProcessor{})

	payload, err := json.Marshal(post.ProcessCoverImagePayload{PostID: uuid.New(), Key: key})
	require.NoError(t, err)

	err = handler.ProcessTask(context.Background(), asynq.NewTask(post.TaskProcessCoverImage, payload))
	require.NoError(t, err)

	require.Len(t, storage.objects, 4)
	for _, name := range []string{"large", "medium", "thumbnail"} {
		assert.Contains(t, storage.objects, key+"_"+name+".jpg")
	}
}

func TestProcessCoverFailsWhenOriginalMissing(t *testing.T) {
	storage := &fakeCoverStorage{objects: map[string][]byte{}}
	handler := NewProcessCoverImageHandler(storage, &fakeProcessor{})

	payload, err := json.Marshal(post.ProcessCoverImagePayload{PostID: uuid.New(), Key: "covers/missing/1"})
	require.NoError(t, err)

	err = handler.ProcessTask(context.Background(), asynq.NewTask(post.TaskProcessCoverImage, payload))
	assert.Error(t, err)
}

func TestProcessCoverRejectsBadPayload(t *testing.T) {
	storage := &fakeCoverStorage{objects: map[string][]byte{}}
	handler := NewProcessCoverImageHandler(storage, &fakeProcessor{})

	err := handler.ProcessTask(context.Background(), asynq.NewTask(post.TaskProcessCoverImage, []byte("{broken")))
	assert.Error(t, err)
}
