package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"blog-backend/internal/domains/post"
	"blog-backend/pkg/cache"
)

const (
	listCacheKey = "posts:list"
	postCacheTTL = 5 * time.Minute
)

// postgresRepository is the concrete implementation of post.Repository
type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

// NewPostgresRepository creates the repository
func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) post.Repository {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

// Create inserts a new post row. The author snapshot is NOT stored;
// reads join it from the users table.
func (r *postgresRepository) Create(ctx context.Context, p *post.Post) error {
	query := `
		INSERT INTO posts (
			id, title, content, excerpt, cover_image, author_id,
			tags, likes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.Title,
		p.Content,
		p.Excerpt,
		p.CoverImage,
		p.AuthorID,
		p.Tags,
		p.Likes,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	r.invalidate(ctx)
	return nil
}

// List returns every post, newest first, with author snapshots and
// comments joined in. Cache-aside on the whole listing.
func (r *postgresRepository) List(ctx context.Context) ([]post.Post, error) {
	// STEP 1: CHECK CACHE
	var cached []post.Post
	found, err := r.cache.Get(ctx, listCacheKey, &cached)
	if err == nil && found {
		return cached, nil
	}

	// STEP 2: QUERY POSTS, NEWEST FIRST
	query := `
		SELECT p.id, p.title, p.content, p.excerpt, p.cover_image,
		       p.author_id, u.username, u.avatar,
		       p.tags, p.likes, p.created_at, p.updated_at
		FROM posts p
		JOIN users u ON u.id = p.author_id
		ORDER BY p.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []post.Post{}
	ids := []uuid.UUID{}
	for rows.Next() {
		var p post.Post
		if err := scanPost(rows, &p); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	// STEP 3: ATTACH COMMENTS IN ONE ROUND TRIP
	byPost, err := r.commentsForPosts(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].Comments = byPost[posts[i].ID]
		if posts[i].Comments == nil {
			posts[i].Comments = []post.Comment{}
		}
	}

	// STEP 4: FILL CACHE
	_ = r.cache.Set(ctx, listCacheKey, posts, postCacheTTL)

	return posts, nil
}

// FindByID returns one post with comments in creation order
func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*post.Post, error) {
	cacheKey := fmt.Sprintf("posts:%s", id.String())

	var cached post.Post
	found, err := r.cache.Get(ctx, cacheKey, &cached)
	if err == nil && found {
		return &cached, nil
	}

	query := `
		SELECT p.id, p.title, p.content, p.excerpt, p.cover_image,
		       p.author_id, u.username, u.avatar,
		       p.tags, p.likes, p.created_at, p.updated_at
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.id = $1
	`

	var p post.Post
	row := r.pool.QueryRow(ctx, query, id)
	if err := scanPost(row, &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, post.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post by id: %w", err)
	}

	byPost, err := r.commentsForPosts(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	p.Comments = byPost[id]
	if p.Comments == nil {
		p.Comments = []post.Comment{}
	}

	_ = r.cache.Set(ctx, cacheKey, &p, postCacheTTL)

	return &p, nil
}

// Update persists the mutable post fields
func (r *postgresRepository) Update(ctx context.Context, p *post.Post) error {
	query := `
		UPDATE posts
		SET title = $2, content = $3, excerpt = $4, cover_image = $5,
		    tags = $6, updated_at = $7
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		p.ID, p.Title, p.Content, p.Excerpt, p.CoverImage, p.Tags, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return post.ErrPostNotFound
	}

	r.invalidate(ctx)
	return nil
}

// Delete removes the post; comments go with it via ON DELETE CASCADE
func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return post.ErrPostNotFound
	}

	r.invalidate(ctx)
	return nil
}

// AddComment appends a comment row
func (r *postgresRepository) AddComment(ctx context.Context, c *post.Comment) error {
	query := `
		INSERT INTO comments (id, post_id, author_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query, c.ID, c.PostID, c.AuthorID, c.Content, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}

	r.invalidate(ctx)
	return nil
}

// IncrementLikes bumps the counter in a single atomic statement
func (r *postgresRepository) IncrementLikes(ctx context.Context, id uuid.UUID) (int, error) {
	var likes int
	err := r.pool.QueryRow(ctx,
		`UPDATE posts SET likes = likes + 1 WHERE id = $1 RETURNING likes`, id,
	).Scan(&likes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, post.ErrPostNotFound
		}
		return 0, fmt.Errorf("increment likes: %w", err)
	}

	r.invalidate(ctx)
	return likes, nil
}

// SetCoverImage updates only the cover image URL
func (r *postgresRepository) SetCoverImage(ctx context.Context, id uuid.UUID, url string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE posts SET cover_image = $2, updated_at = $3 WHERE id = $1`,
		id, url, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("set cover image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return post.ErrPostNotFound
	}

	r.invalidate(ctx)
	return nil
}

// ========================================
// HELPERS
// ========================================

// commentsForPosts loads comments for a set of posts in one query,
// oldest first, with comment-author snapshots joined in
func (r *postgresRepository) commentsForPosts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]post.Comment, error) {
	byPost := make(map[uuid.UUID][]post.Comment, len(ids))
	if len(ids) == 0 {
		return byPost, nil
	}

	query := `
		SELECT c.id, c.post_id, c.author_id, u.username, u.avatar,
		       c.content, c.created_at
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = ANY($1)
		ORDER BY c.created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c post.Comment
		err := rows.Scan(
			&c.ID,
			&c.PostID,
			&c.AuthorID,
			&c.Author.Username,
			&c.Author.Avatar,
			&c.Content,
			&c.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		c.Author.ID = c.AuthorID
		byPost[c.PostID] = append(byPost[c.PostID], c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	return byPost, nil
}

// scanPost maps one joined post row onto the entity
func scanPost(row pgx.Row, p *post.Post) error {
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Content,
		&p.Excerpt,
		&p.CoverImage,
		&p.AuthorID,
		&p.Author.Username,
		&p.Author.Avatar,
		&p.Tags,
		&p.Likes,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	p.Author.ID = p.AuthorID
	return nil
}

// invalidate drops every cached post view after a mutation
func (r *postgresRepository) invalidate(ctx context.Context) {
	_ = r.cache.DeletePattern(ctx, "posts:*")
}
