package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"blog-backend/internal/domains/post"
	"blog-backend/internal/domains/user"
	"blog-backend/pkg/logger"
)

// TaskEnqueuer is the slice of asynq.Client the service needs.
// Nil is allowed: background cleanup is then skipped.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// postService implements post.Service
type postService struct {
	repo      post.Repository
	users     user.Repository
	storage   post.CoverStorage
	processor post.CoverProcessor
	enqueuer  TaskEnqueuer
}

// NewPostService creates the service instance
func NewPostService(repo post.Repository, users user.Repository, storage post.CoverStorage, processor post.CoverProcessor, enqueuer TaskEnqueuer) post.Service {
	return &postService{
		repo:      repo,
		users:     users,
		storage:   storage,
		processor: processor,
		enqueuer:  enqueuer,
	}
}

// ========================================
// READS
// ========================================

func (s *postService) List(ctx context.Context) ([]post.Post, error) {
	return s.repo.List(ctx)
}

func (s *postService) Get(ctx context.Context, id uuid.UUID) (*post.Post, error) {
	return s.repo.FindByID(ctx, id)
}

// ========================================
// MUTATIONS
// ========================================

// Create stores a new post for the acting user.
// Defaults: blank title becomes "Untitled", missing excerpt is the
// first 150 characters of content.
func (s *postService) Create(ctx context.Context, authorID uuid.UUID, req post.CreatePostRequest) (*post.Post, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. RESOLVE AUTHOR (also proves the account exists)
	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	// 3. APPLY CREATE DEFAULTS
	title := req.Title
	if title == "" {
		title = post.DefaultTitle
	}
	excerpt := req.Excerpt
	if excerpt == "" {
		excerpt = post.DeriveExcerpt(req.Content)
	}
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	// 4. BUILD ENTITY
	now := time.Now()
	p := &post.Post{
		ID:         uuid.New(),
		Title:      title,
		Content:    req.Content,
		Excerpt:    excerpt,
		CoverImage: req.CoverImage,
		AuthorID:   author.ID,
		Author: post.AuthorSnapshot{
			ID:       author.ID,
			Username: author.Username,
			Avatar:   author.Avatar,
		},
		Tags:      tags,
		Likes:     0,
		Comments:  []post.Comment{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	// 5. PERSIST
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	return p, nil
}

// Update mutates a post after the ownership check
func (s *postService) Update(ctx context.Context, actorID, postID uuid.UUID, req post.UpdatePostRequest) (*post.Post, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. LOAD POST
	p, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	// 3. OWNERSHIP CHECK
	if p.AuthorID != actorID {
		return nil, post.ErrNotPostAuthor
	}

	// 4. APPLY CHANGES (only fields that were sent)
	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Content != nil {
		p.Content = *req.Content
		// Re-derive the excerpt unless one was supplied explicitly
		if req.Excerpt == nil {
			p.Excerpt = post.DeriveExcerpt(p.Content)
		}
	}
	if req.Excerpt != nil {
		p.Excerpt = *req.Excerpt
	}
	if req.CoverImage != nil {
		p.CoverImage = *req.CoverImage
	}
	if req.Tags != nil {
		p.Tags = *req.Tags
	}
	p.UpdatedAt = time.Now()

	// 5. PERSIST
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	return p, nil
}

// Delete removes a post after the ownership check and schedules
// cover image cleanup in the background
func (s *postService) Delete(ctx context.Context, actorID, postID uuid.UUID) error {
	// 1. LOAD POST
	p, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return err
	}

	// 2. OWNERSHIP CHECK
	if p.AuthorID != actorID {
		return post.ErrNotPostAuthor
	}

	// 3. DELETE
	if err := s.repo.Delete(ctx, postID); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	// 4. SCHEDULE COVER CLEANUP (fire-and-forget)
	// The post is already gone; a failed enqueue only leaves
	// orphaned objects in the bucket.
	s.enqueueCoverCleanup(postID)

	return nil
}

// AddComment appends a comment carrying the commenter's snapshot
func (s *postService) AddComment(ctx context.Context, authorID, postID uuid.UUID, req post.AddCommentRequest) (*post.Comment, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. POST MUST EXIST
	if _, err := s.repo.FindByID(ctx, postID); err != nil {
		return nil, err
	}

	// 3. RESOLVE COMMENT AUTHOR
	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	// 4. BUILD + PERSIST
	c := &post.Comment{
		ID:       uuid.New(),
		PostID:   postID,
		AuthorID: author.ID,
		Author: post.AuthorSnapshot{
			ID:       author.ID,
			Username: author.Username,
			Avatar:   author.Avatar,
		},
		Content:   req.Content,
		CreatedAt: time.Now(),
	}

	if err := s.repo.AddComment(ctx, c); err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}

	return c, nil
}

// Like bumps the like counter and returns the updated post.
// Unconditional increment: repeated calls keep counting, there is
// no per-user tracking.
func (s *postService) Like(ctx context.Context, postID uuid.UUID) (*post.Post, error) {
	if _, err := s.repo.IncrementLikes(ctx, postID); err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, postID)
}

// UploadCover stores a cover image in object storage and points the
// post at it. Author-only. The payload must decode as JPEG/PNG; the
// Content-Type header alone proves nothing.
func (s *postService) UploadCover(ctx context.Context, actorID, postID uuid.UUID, data []byte, contentType string) (*post.Post, error) {
	// 1. LOAD POST + OWNERSHIP CHECK
	p, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p.AuthorID != actorID {
		return nil, post.ErrNotPostAuthor
	}

	// 2. VALIDATE BY DECODING
	if err := s.processor.ValidateImage(data); err != nil {
		return nil, fmt.Errorf("%w: %s", post.ErrInvalidCoverImage, err)
	}

	// 3. UPLOAD ORIGINAL
	key := fmt.Sprintf("covers/%s/%d", postID.String(), time.Now().UnixNano())
	url, err := s.storage.Upload(ctx, key, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload cover: %w", err)
	}

	// 4. POINT POST AT THE NEW COVER
	if err := s.repo.SetCoverImage(ctx, postID, url); err != nil {
		return nil, fmt.Errorf("set cover image: %w", err)
	}

	// 5. SCHEDULE VARIANT RENDERING (fire-and-forget)
	// The original is already live; missing variants only cost bandwidth.
	s.enqueueCoverProcessing(postID, key)

	p.CoverImage = url
	return p, nil
}

// enqueueCoverCleanup schedules the background deletion of a removed
// post's cover uploads
func (s *postService) enqueueCoverCleanup(postID uuid.UUID) {
	if s.enqueuer == nil {
		return
	}

	payload, err := json.Marshal(post.DeleteCoverImagesPayload{PostID: postID})
	if err != nil {
		logger.Error("marshal cover cleanup payload", err)
		return
	}

	task := asynq.NewTask(post.TaskDeleteCoverImages, payload)
	if _, err := s.enqueuer.Enqueue(task, asynq.MaxRetry(3)); err != nil {
		logger.Error("enqueue cover cleanup", err)
	}
}

// enqueueCoverProcessing schedules the background rendering of a new
// cover's resized variants
func (s *postService) enqueueCoverProcessing(postID uuid.UUID, key string) {
	if s.enqueuer == nil {
		return
	}

	payload, err := json.Marshal(post.ProcessCoverImagePayload{PostID: postID, Key: key})
	if err != nil {
		logger.Error("marshal cover processing payload", err)
		return
	}

	task := asynq.NewTask(post.TaskProcessCoverImage, payload)
	if _, err := s.enqueuer.Enqueue(task, asynq.MaxRetry(3)); err != nil {
		logger.Error("enqueue cover processing", err)
	}
}
