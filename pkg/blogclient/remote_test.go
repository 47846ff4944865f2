package blogclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestRemoteAttachesBearerToken(t *testing.T) {
	var gotAuth []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/auth/register":
			writeJSON(w, http.StatusCreated, Session{
				User:  User{ID: "u1", Username: "alice", Email: "alice@x.com"},
				Token: "tok123",
			})
		case r.Method == http.MethodPost && r.URL.Path == "/posts":
			gotAuth = append(gotAuth, r.Header.Get("Authorization"))
			writeJSON(w, http.StatusCreated, Post{ID: "p1", Title: "Hi"})
		default:
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
		}
	}))
	defer srv.Close()

	store := NewRemote(srv.URL, nil)
	ctx := context.Background()

	session, err := store.Register(ctx, "alice", "alice@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "tok123", session.Token)

	_, err = store.CreatePost(ctx, PostDraft{Title: "Hi", Content: "body"})
	require.NoError(t, err)
	require.Len(t, gotAuth, 1)
	assert.Equal(t, "Bearer tok123", gotAuth[0])

	// Logout drops the token; the next call goes out bare
	require.NoError(t, store.Logout(ctx))
	_, err = store.CreatePost(ctx, PostDraft{Title: "Hi", Content: "body"})
	require.NoError(t, err)
	require.Len(t, gotAuth, 2)
	assert.Empty(t, gotAuth[1])
}

func TestRemoteSurfacesBackendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "post not found"})
	}))
	defer srv.Close()

	store := NewRemote(srv.URL, nil)

	_, err := store.GetPost(context.Background(), "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPostNotFound)
	assert.Equal(t, "post not found", err.Error())

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestRemoteGenericFallbackMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := NewRemote(srv.URL, nil)

	_, err := store.ListPosts(context.Background())
	require.Error(t, err)
	assert.Equal(t, "request failed", err.Error())
}

func TestRemoteErrorTaxonomy(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		message string
		call    func(s Store) error
		want    error
	}{
		{
			name: "forbidden maps to not author", status: http.StatusForbidden,
			message: "only the author can modify this post",
			call: func(s Store) error {
				err := s.DeletePost(context.Background(), "p1")
				return err
			},
			want: ErrNotPostAuthor,
		},
		{
			name: "unauthorized maps to not authenticated", status: http.StatusUnauthorized,
			message: "unauthorized",
			call: func(s Store) error {
				_, err := s.CreatePost(context.Background(), PostDraft{Content: "body"})
				return err
			},
			want: ErrNotAuthenticated,
		},
		{
			name: "conflict on email", status: http.StatusConflict,
			message: "email already exists",
			call: func(s Store) error {
				_, err := s.Register(context.Background(), "alice", "alice@x.com", "pw1")
				return err
			},
			want: ErrEmailAlreadyExists,
		},
		{
			name: "conflict on username", status: http.StatusConflict,
			message: "username already exists",
			call: func(s Store) error {
				_, err := s.Register(context.Background(), "alice", "other@x.com", "pw1")
				return err
			},
			want: ErrUsernameAlreadyExists,
		},
		{
			name: "unauthorized login means bad credentials", status: http.StatusUnauthorized,
			message: "invalid email or password",
			call: func(s Store) error {
				_, err := s.Login(context.Background(), "alice@x.com", "wrong")
				return err
			},
			want: ErrInvalidCredentials,
		},
		{
			name: "bad request maps to invalid input", status: http.StatusBadRequest,
			message: "content: cannot be blank.",
			call: func(s Store) error {
				_, err := s.CreatePost(context.Background(), PostDraft{})
				return err
			},
			want: ErrInvalidInput,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tc.status, map[string]string{"message": tc.message})
			}))
			defer srv.Close()

			err := tc.call(NewRemote(srv.URL, nil))
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, tc.message, err.Error())
		})
	}
}

func TestRemoteDecodesEntities(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/posts" && r.Method == http.MethodGet:
			writeJSON(w, http.StatusOK, []Post{
				{ID: "p2", Title: "second"},
				{ID: "p1", Title: "first"},
			})
		case r.URL.Path == "/posts/p1/like":
			writeJSON(w, http.StatusOK, Post{ID: "p1", Title: "first", Likes: 3})
		case r.URL.Path == "/posts/p1/comments":
			writeJSON(w, http.StatusCreated, Comment{
				ID:      "c1",
				Author:  Author{ID: "u1", Username: "alice"},
				Content: "nice post",
			})
		default:
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
		}
	}))
	defer srv.Close()

	store := NewRemote(srv.URL, nil)
	ctx := context.Background()

	posts, err := store.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "second", posts[0].Title)

	liked, err := store.LikePost(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, liked.Likes)

	comment, err := store.AddComment(ctx, "p1", "nice post")
	require.NoError(t, err)
	assert.Equal(t, "c1", comment.ID)
	assert.Equal(t, "alice", comment.Author.Username)
}
