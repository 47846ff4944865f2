package blogclient

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocal(t *testing.T) (Store, string) {
	t.Helper()

	dir := t.TempDir()
	store, err := NewLocal(dir)
	require.NoError(t, err)
	return store, dir
}

func TestLocalRegisterAndLogin(t *testing.T) {
	store, dir := newTestLocal(t)
	ctx := context.Background()

	session, err := store.Register(ctx, "alice", "alice@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "alice", session.User.Username)
	assert.NotEmpty(t, session.User.ID)
	assert.True(t, strings.HasPrefix(session.Token, "local-"))

	// The returned user never carries the password
	payload, err := json.Marshal(session.User)
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "password")
	assert.NotContains(t, string(payload), "pw1")

	// The on-disk record does, in plaintext
	raw, err := os.ReadFile(filepath.Join(dir, usersFile))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"password": "pw1"`)

	require.NoError(t, store.Logout(ctx))

	relogin, err := store.Login(ctx, "alice@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, relogin.User.ID)

	_, err = store.Login(ctx, "alice@x.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLocalRegisterDuplicates(t *testing.T) {
	store, _ := newTestLocal(t)
	ctx := context.Background()

	_, err := store.Register(ctx, "alice", "alice@x.com", "pw1")
	require.NoError(t, err)

	// Email collision beats username collision
	_, err = store.Register(ctx, "alice", "alice@x.com", "pw2")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)

	_, err = store.Register(ctx, "alice", "other@x.com", "pw2")
	assert.ErrorIs(t, err, ErrUsernameAlreadyExists)
}

func TestLocalCreatePostDefaults(t *testing.T) {
	store, _ := newTestLocal(t)
	ctx := context.Background()

	_, err := store.Register(ctx, "alice", "alice@x.com", "pw1")
	require.NoError(t, err)

	content := strings.Repeat("A", 200)
	p, err := store.CreatePost(ctx, PostDraft{Content: content})
	require.NoError(t, err)

	assert.Equal(t, "Untitled", p.Title)
	assert.Len(t, []rune(p.Excerpt), 150)
	assert.Equal(t, content[:150], p.Excerpt)
	assert.Equal(t, "alice", p.Author.Username)
	assert.NotNil(t, p.Tags)
	assert.NotNil(t, p.Comments)

	// Explicit excerpt wins over derivation
	p2, err := store.CreatePost(ctx, PostDraft{Title: "Hi", Content: content, Excerpt: "custom"})
	require.NoError(t, err)
	assert.Equal(t, "custom", p2.Excerpt)
	assert.Equal(t, "Hi", p2.Title)

	// A supplied excerpt is not capped at 150, same as the backend
	long := strings.Repeat("E", 200)
	p3, err := store.CreatePost(ctx, PostDraft{Content: content, Excerpt: long})
	require.NoError(t, err)
	assert.Equal(t, long, p3.Excerpt)
}

func TestLocalOwnership(t *testing.T) {
	store, _ := newTestLocal(t)
	ctx := context.Background()

	_, err := store.Register(ctx, "alice", "alice@x.com", "pw1")
	require.NoError(t, err)

	p, err := store.CreatePost(ctx, PostDraft{Title: "Hi", Content: strings.Repeat("A", 200)})
	require.NoError(t, err)
	assert.Len(t, []rune(p.Excerpt), 150)

	// bob is authenticated but not the author
	_, err = store.Register(ctx, "bob", "bob@x.com", "pw2")
	require.NoError(t, err)

	title := "stolen"
	_, err = store.UpdatePost(ctx, p.ID, PostUpdate{Title: &title})
	assert.ErrorIs(t, err, ErrNotPostAuthor)
	assert.ErrorIs(t, store.DeletePost(ctx, p.ID), ErrNotPostAuthor)

	// Unauthenticated callers fail earlier
	require.NoError(t, store.Logout(ctx))
	_, err = store.UpdatePost(ctx, p.ID, PostUpdate{Title: &title})
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	// alice updates her own post
	_, err = store.Login(ctx, "alice@x.com", "pw1")
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)
	newTitle := "Hello"
	newContent := "fresh content"
	updated, err := store.UpdatePost(ctx, p.ID, PostUpdate{Title: &newTitle, Content: &newContent})
	require.NoError(t, err)
	assert.Equal(t, "Hello", updated.Title)
	assert.Equal(t, "fresh content", updated.Content)
	assert.Equal(t, "fresh content", updated.Excerpt)
	assert.True(t, updated.UpdatedAt.After(p.UpdatedAt))
}

func TestLocalLikeIncrementsUnconditionally(t *testing.T) {
	store, _ := newTestLocal(t)
	ctx := context.Background()

	_, err := store.Register(ctx, "alice", "alice@x.com", "pw1")
	require.NoError(t, err)

	p, err := store.CreatePost(ctx, PostDraft{Title: "Hi", Content: "body"})
	require.NoError(t, err)
	require.Equal(t, 0, p.Likes)

	_, err = store.LikePost(ctx, p.ID)
	require.NoError(t, err)
	liked, err := store.LikePost(ctx, p.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, liked.Likes)
}

func TestLocalComments(t *testing.T) {
	store, _ := newTestLocal(t)
	ctx := context.Background()

	_, err := store.Register(ctx, "alice", "alice@x.com", "pw1")
	require.NoError(t, err)

	p, err := store.CreatePost(ctx, PostDraft{Title: "Hi", Content: "body"})
	require.NoError(t, err)

	comment, err := store.AddComment(ctx, p.ID, "nice post")
	require.NoError(t, err)
	assert.Equal(t, "alice", comment.Author.Username)

	fetched, err := store.GetPost(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Comments, 1)
	assert.Equal(t, "nice post", fetched.Comments[0].Content)

	_, err = store.AddComment(ctx, "no-such-post", "hello")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestLocalDeleteRemovesPost(t *testing.T) {
	store, _ := newTestLocal(t)
	ctx := context.Background()

	_, err := store.Register(ctx, "alice", "alice@x.com", "pw1")
	require.NoError(t, err)

	p1, err := store.CreatePost(ctx, PostDraft{Title: "first", Content: "body"})
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	p2, err := store.CreatePost(ctx, PostDraft{Title: "second", Content: "body"})
	require.NoError(t, err)

	// Newest first
	posts, err := store.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, p2.ID, posts[0].ID)

	require.NoError(t, store.DeletePost(ctx, p1.ID))

	posts, err = store.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, p2.ID, posts[0].ID)

	_, err = store.GetPost(ctx, p1.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestLocalProfileUpdateKeepsSnapshots(t *testing.T) {
	store, _ := newTestLocal(t)
	ctx := context.Background()

	_, err := store.Register(ctx, "alice", "alice@x.com", "pw1")
	require.NoError(t, err)

	p, err := store.CreatePost(ctx, PostDraft{Title: "Hi", Content: "body"})
	require.NoError(t, err)

	bio := "writer"
	avatar := "http://img/alice.png"
	updated, err := store.UpdateProfile(ctx, ProfileUpdate{Bio: &bio, Avatar: &avatar})
	require.NoError(t, err)
	assert.Equal(t, "writer", updated.Bio)
	assert.Equal(t, "http://img/alice.png", updated.Avatar)

	// The post keeps the snapshot taken at creation time
	fetched, err := store.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, fetched.Author.Avatar)
}

func TestLocalSessionSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewLocal(dir)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Register(ctx, "alice", "alice@x.com", "pw1")
	require.NoError(t, err)
	_, err = store.CreatePost(ctx, PostDraft{Title: "Hi", Content: "body"})
	require.NoError(t, err)

	// A second store over the same directory picks up session and posts
	reopened, err := NewLocal(dir)
	require.NoError(t, err)

	posts, err := reopened.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)

	// Still authenticated: mutations are allowed without a fresh login
	_, err = reopened.CreatePost(ctx, PostDraft{Title: "Again", Content: "body"})
	require.NoError(t, err)
}

func TestDeriveExcerptRuneSafe(t *testing.T) {
	short := "hello"
	assert.Equal(t, short, deriveExcerpt(short))

	long := strings.Repeat("é", 300)
	excerpt := deriveExcerpt(long)
	assert.Equal(t, 150, len([]rune(excerpt)))
	assert.Equal(t, strings.Repeat("é", 150), excerpt)
}
