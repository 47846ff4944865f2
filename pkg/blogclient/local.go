package blogclient

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// =====================================================
// LOCAL FALLBACK STORE IMPLEMENTATION
// =====================================================

const (
	usersFile   = "users.json"
	sessionFile = "session.json"
	postsFile   = "posts.json"

	excerptLength = 150
	defaultTitle  = "Untitled"
)

// storedUser is the on-disk user record. The password is kept in
// plaintext; this store has no server to hash against and makes no
// security claims.
type storedUser struct {
	User
	Password string `json:"password"`
}

// localStore reproduces the remote contract against three JSON files in
// a data directory: registered users, the single authenticated session,
// and posts embedding their comments. Every write serializes the whole
// record; there is no partial update. Single-writer by design: the mutex
// covers this process only, not concurrent processes on the same
// directory.
type localStore struct {
	dir     string
	mu      sync.Mutex
	session *Session
}

// NewLocal creates the fallback store rooted at dir, creating the
// directory if needed and restoring any persisted session.
func NewLocal(dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	l := &localStore{dir: dir}

	var session Session
	found, err := l.readRecord(sessionFile, &session)
	if err != nil {
		return nil, err
	}
	if found && session.Token != "" {
		l.session = &session
	}

	return l, nil
}

// =====================================================
// AUTH
// =====================================================

func (l *localStore) Register(ctx context.Context, username, email, password string) (*Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if username == "" || email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	users, err := l.loadUsers()
	if err != nil {
		return nil, err
	}

	// Email check first, then username
	for _, u := range users {
		if u.Email == email {
			return nil, ErrEmailAlreadyExists
		}
	}
	for _, u := range users {
		if u.Username == username {
			return nil, ErrUsernameAlreadyExists
		}
	}

	now := time.Now()
	user := User{
		ID:        uuid.NewString(),
		Username:  username,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	users = append(users, storedUser{User: user, Password: password})
	if err := l.saveUsers(users); err != nil {
		return nil, err
	}

	return l.openSession(user)
}

func (l *localStore) Login(ctx context.Context, email, password string) (*Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	users, err := l.loadUsers()
	if err != nil {
		return nil, err
	}

	// Exact email+password match
	for _, u := range users {
		if u.Email == email && u.Password == password {
			return l.openSession(u.User)
		}
	}

	return nil, ErrInvalidCredentials
}

func (l *localStore) Logout(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.session = nil
	return l.writeRecord(sessionFile, &Session{})
}

// =====================================================
// PROFILE
// =====================================================

func (l *localStore) UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	session, err := l.requireSession()
	if err != nil {
		return nil, err
	}

	users, err := l.loadUsers()
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, u := range users {
		if u.ID == session.User.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrUserNotFound
	}

	if update.Bio != nil {
		users[idx].Bio = *update.Bio
	}
	if update.Avatar != nil {
		users[idx].Avatar = *update.Avatar
	}
	users[idx].UpdatedAt = time.Now()

	if err := l.saveUsers(users); err != nil {
		return nil, err
	}

	// Author snapshots on existing posts stay as they were at write time
	session.User = users[idx].User
	if err := l.writeRecord(sessionFile, session); err != nil {
		return nil, err
	}

	updated := users[idx].User
	return &updated, nil
}

// =====================================================
// POSTS
// =====================================================

func (l *localStore) ListPosts(ctx context.Context) ([]Post, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	posts, err := l.loadPosts()
	if err != nil {
		return nil, err
	}

	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	return posts, nil
}

func (l *localStore) GetPost(ctx context.Context, id string) (*Post, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	posts, err := l.loadPosts()
	if err != nil {
		return nil, err
	}

	for _, p := range posts {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}

	return nil, ErrPostNotFound
}

func (l *localStore) CreatePost(ctx context.Context, draft PostDraft) (*Post, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	session, err := l.requireSession()
	if err != nil {
		return nil, err
	}

	if draft.Content == "" {
		return nil, ErrInvalidInput
	}

	title := strings.TrimSpace(draft.Title)
	if title == "" {
		title = defaultTitle
	}

	excerpt := draft.Excerpt
	if excerpt == "" {
		excerpt = deriveExcerpt(draft.Content)
	}

	tags := draft.Tags
	if tags == nil {
		tags = []string{}
	}

	now := time.Now()
	p := Post{
		ID:         uuid.NewString(),
		Title:      title,
		Content:    draft.Content,
		Excerpt:    excerpt,
		CoverImage: draft.CoverImage,
		Author:     snapshotOf(session.User),
		Tags:       tags,
		Comments:   []Comment{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	posts, err := l.loadPosts()
	if err != nil {
		return nil, err
	}

	posts = append(posts, p)
	if err := l.savePosts(posts); err != nil {
		return nil, err
	}

	return &p, nil
}

func (l *localStore) UpdatePost(ctx context.Context, id string, update PostUpdate) (*Post, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	session, err := l.requireSession()
	if err != nil {
		return nil, err
	}

	posts, idx, err := l.findPost(id)
	if err != nil {
		return nil, err
	}
	if posts[idx].Author.ID != session.User.ID {
		return nil, ErrNotPostAuthor
	}

	p := &posts[idx]
	if update.Title != nil {
		p.Title = *update.Title
	}
	if update.Content != nil {
		p.Content = *update.Content
		// Follow the new content unless the caller supplied an excerpt
		if update.Excerpt == nil {
			p.Excerpt = deriveExcerpt(*update.Content)
		}
	}
	if update.Excerpt != nil {
		p.Excerpt = *update.Excerpt
	}
	if update.CoverImage != nil {
		p.CoverImage = *update.CoverImage
	}
	if update.Tags != nil {
		p.Tags = update.Tags
	}
	p.UpdatedAt = time.Now()

	if err := l.savePosts(posts); err != nil {
		return nil, err
	}

	updated := *p
	return &updated, nil
}

func (l *localStore) DeletePost(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	session, err := l.requireSession()
	if err != nil {
		return err
	}

	posts, idx, err := l.findPost(id)
	if err != nil {
		return err
	}
	if posts[idx].Author.ID != session.User.ID {
		return ErrNotPostAuthor
	}

	posts = append(posts[:idx], posts[idx+1:]...)
	return l.savePosts(posts)
}

// =====================================================
// COMMENTS & LIKES
// =====================================================

func (l *localStore) AddComment(ctx context.Context, postID, content string) (*Comment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	session, err := l.requireSession()
	if err != nil {
		return nil, err
	}

	if content == "" {
		return nil, ErrInvalidInput
	}

	posts, idx, err := l.findPost(postID)
	if err != nil {
		return nil, err
	}

	comment := Comment{
		ID:        uuid.NewString(),
		Author:    snapshotOf(session.User),
		Content:   content,
		CreatedAt: time.Now(),
	}

	posts[idx].Comments = append(posts[idx].Comments, comment)
	if err := l.savePosts(posts); err != nil {
		return nil, err
	}

	return &comment, nil
}

// LikePost increments the counter unconditionally. Nothing tracks which
// users have liked a post, so repeated calls keep incrementing.
func (l *localStore) LikePost(ctx context.Context, postID string) (*Post, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.requireSession(); err != nil {
		return nil, err
	}

	posts, idx, err := l.findPost(postID)
	if err != nil {
		return nil, err
	}

	posts[idx].Likes++
	if err := l.savePosts(posts); err != nil {
		return nil, err
	}

	liked := posts[idx]
	return &liked, nil
}

// =====================================================
// HELPERS
// =====================================================

// openSession mints a fresh opaque token and persists the session
// record. The token is timestamp-derived and carries no cryptographic
// guarantee.
func (l *localStore) openSession(user User) (*Session, error) {
	session := &Session{
		User:  user,
		Token: "local-" + strconv.FormatInt(time.Now().UnixNano(), 36),
	}

	if err := l.writeRecord(sessionFile, session); err != nil {
		return nil, err
	}

	l.session = session
	copied := *session
	return &copied, nil
}

func (l *localStore) requireSession() (*Session, error) {
	if l.session == nil {
		return nil, ErrNotAuthenticated
	}
	return l.session, nil
}

// findPost loads all posts and returns the slice plus the index of the
// post with the given id.
func (l *localStore) findPost(id string) ([]Post, int, error) {
	posts, err := l.loadPosts()
	if err != nil {
		return nil, 0, err
	}

	for i, p := range posts {
		if p.ID == id {
			return posts, i, nil
		}
	}

	return nil, 0, ErrPostNotFound
}

func (l *localStore) loadUsers() ([]storedUser, error) {
	var users []storedUser
	if _, err := l.readRecord(usersFile, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (l *localStore) saveUsers(users []storedUser) error {
	return l.writeRecord(usersFile, users)
}

func (l *localStore) loadPosts() ([]Post, error) {
	var posts []Post
	if _, err := l.readRecord(postsFile, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (l *localStore) savePosts(posts []Post) error {
	return l.writeRecord(postsFile, posts)
}

// readRecord decodes one named JSON record. A missing file is not an
// error; it reports found=false and leaves dest untouched.
func (l *localStore) readRecord(name string, dest interface{}) (bool, error) {
	data, err := os.ReadFile(filepath.Join(l.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", name, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", name, err)
	}

	return true, nil
}

// writeRecord serializes the whole record and replaces the file.
func (l *localStore) writeRecord(name string, value interface{}) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	if err := os.WriteFile(filepath.Join(l.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	return nil
}

func snapshotOf(u User) Author {
	return Author{ID: u.ID, Username: u.Username, Avatar: u.Avatar}
}

// deriveExcerpt takes the first 150 characters of content, counted in
// runes so multi-byte text is never split mid-character.
func deriveExcerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= excerptLength {
		return content
	}
	return string(runes[:excerptLength])
}
