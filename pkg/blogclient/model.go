package blogclient

import "time"

// User is the profile shape returned by both backends. There is no
// password field on purpose; credentials never leave the store.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Bio       string    `json:"bio"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Author is the denormalized id/username/avatar snapshot stored on posts
// and comments at creation time. It does not follow later profile edits.
type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

type Post struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Excerpt    string    `json:"excerpt"`
	CoverImage string    `json:"cover_image,omitempty"`
	Author     Author    `json:"author"`
	Tags       []string  `json:"tags"`
	Likes      int       `json:"likes"`
	Comments   []Comment `json:"comments"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Comment struct {
	ID        string    `json:"id"`
	Author    Author    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is the result of a successful register or login.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// PostDraft carries the fields for a new post. Title defaults to
// "Untitled" when blank; excerpt is derived from content when empty.
type PostDraft struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Excerpt    string   `json:"excerpt,omitempty"`
	CoverImage string   `json:"cover_image,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// PostUpdate carries a partial post update. Nil fields are left untouched.
type PostUpdate struct {
	Title      *string  `json:"title,omitempty"`
	Content    *string  `json:"content,omitempty"`
	Excerpt    *string  `json:"excerpt,omitempty"`
	CoverImage *string  `json:"cover_image,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// ProfileUpdate carries a partial profile update. Nil fields are left
// untouched.
type ProfileUpdate struct {
	Bio    *string `json:"bio,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}
