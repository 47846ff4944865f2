package post

import (
	"time"

	"github.com/google/uuid"
)

// ExcerptLength is how many characters of content make up a derived excerpt
const ExcerptLength = 150

// DefaultTitle is used when a post is created with a blank title
const DefaultTitle = "Untitled"

// AuthorSnapshot is a denormalized copy of the author's public identity,
// captured when the post/comment is created. It does not follow later
// profile edits.
type AuthorSnapshot struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Avatar   string    `json:"avatar"`
}

// Post entity. AuthorID is the stored reference; Author is the
// snapshot joined in at read time.
type Post struct {
	ID         uuid.UUID      `json:"id"`
	Title      string         `json:"title"`
	Content    string         `json:"content"`
	Excerpt    string         `json:"excerpt"`
	CoverImage string         `json:"cover_image,omitempty"`
	AuthorID   uuid.UUID      `json:"-"`
	Author     AuthorSnapshot `json:"author"`
	Tags       []string       `json:"tags"`
	Likes      int            `json:"likes"`
	Comments   []Comment      `json:"comments"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Comment entity. Owned by exactly one post, append only.
type Comment struct {
	ID        uuid.UUID      `json:"id"`
	PostID    uuid.UUID      `json:"-"`
	AuthorID  uuid.UUID      `json:"-"`
	Author    AuthorSnapshot `json:"author"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"created_at"`
}

// DeriveExcerpt returns the first ExcerptLength characters of content.
// Counting is by rune so multi-byte content is not cut mid-character.
func DeriveExcerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= ExcerptLength {
		return content
	}
	return string(runes[:ExcerptLength])
}
