package blogclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// =====================================================
// REMOTE CLIENT IMPLEMENTATION
// =====================================================

// remoteStore translates every Store operation into one HTTP
// request/response pair against the REST backend. It holds only the
// current bearer token in memory, set after register/login and cleared
// on logout. Failures are never retried.
type remoteStore struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// NewRemote creates the remote client. httpClient may be nil, in which
// case a default client with a 30s timeout is used.
func NewRemote(baseURL string, httpClient *http.Client) Store {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &remoteStore{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// =====================================================
// AUTH
// =====================================================

func (r *remoteStore) Register(ctx context.Context, username, email, password string) (*Session, error) {
	body := map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}

	var session Session
	if err := r.do(ctx, http.MethodPost, "/auth/register", body, false, &session, ErrUserNotFound); err != nil {
		return nil, err
	}

	r.token = session.Token
	return &session, nil
}

func (r *remoteStore) Login(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var session Session
	if err := r.do(ctx, http.MethodPost, "/auth/login", body, false, &session, ErrUserNotFound); err != nil {
		// A 401 on login means the credentials were wrong, not that the
		// caller forgot to authenticate.
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			apiErr.kind = ErrInvalidCredentials
		}
		return nil, err
	}

	r.token = session.Token
	return &session, nil
}

// Logout drops the in-memory bearer token. The backend keeps no session
// state, so there is nothing to call.
func (r *remoteStore) Logout(ctx context.Context) error {
	r.token = ""
	return nil
}

// =====================================================
// PROFILE
// =====================================================

func (r *remoteStore) UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error) {
	var u User
	if err := r.do(ctx, http.MethodPut, "/users/profile", update, true, &u, ErrUserNotFound); err != nil {
		return nil, err
	}
	return &u, nil
}

// =====================================================
// POSTS
// =====================================================

func (r *remoteStore) ListPosts(ctx context.Context) ([]Post, error) {
	var posts []Post
	if err := r.do(ctx, http.MethodGet, "/posts", nil, false, &posts, ErrPostNotFound); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *remoteStore) GetPost(ctx context.Context, id string) (*Post, error) {
	var p Post
	if err := r.do(ctx, http.MethodGet, "/posts/"+url.PathEscape(id), nil, false, &p, ErrPostNotFound); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *remoteStore) CreatePost(ctx context.Context, draft PostDraft) (*Post, error) {
	var p Post
	if err := r.do(ctx, http.MethodPost, "/posts", draft, true, &p, ErrPostNotFound); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *remoteStore) UpdatePost(ctx context.Context, id string, update PostUpdate) (*Post, error) {
	var p Post
	if err := r.do(ctx, http.MethodPut, "/posts/"+url.PathEscape(id), update, true, &p, ErrPostNotFound); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *remoteStore) DeletePost(ctx context.Context, id string) error {
	return r.do(ctx, http.MethodDelete, "/posts/"+url.PathEscape(id), nil, true, nil, ErrPostNotFound)
}

// =====================================================
// COMMENTS & LIKES
// =====================================================

func (r *remoteStore) AddComment(ctx context.Context, postID, content string) (*Comment, error) {
	body := map[string]string{"content": content}

	var comment Comment
	if err := r.do(ctx, http.MethodPost, "/posts/"+url.PathEscape(postID)+"/comments", body, true, &comment, ErrPostNotFound); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *remoteStore) LikePost(ctx context.Context, postID string) (*Post, error) {
	var p Post
	if err := r.do(ctx, http.MethodPost, "/posts/"+url.PathEscape(postID)+"/like", nil, true, &p, ErrPostNotFound); err != nil {
		return nil, err
	}
	return &p, nil
}

// =====================================================
// HELPERS
// =====================================================

// do performs one request/response pair. out, when non-nil, receives the
// decoded 2xx body. notFound is the sentinel a 404 maps onto for this
// operation.
func (r *remoteStore) do(ctx context.Context, method, path string, body interface{}, authed bool, out interface{}, notFound error) error {
	// Step 1: Encode body
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	// Step 2: Build request
	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed && r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	// Step 3: Execute
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	// Step 4: Map non-success onto the error taxonomy
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, data, notFound)
	}

	// Step 5: Decode entity
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}

// newAPIError extracts the backend's { "message": string } body and maps
// the status code onto a package sentinel.
func newAPIError(status int, body []byte, notFound error) error {
	var payload struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &payload)

	message := payload.Message
	if message == "" {
		message = "request failed"
	}

	var kind error
	switch status {
	case http.StatusBadRequest:
		kind = ErrInvalidInput
	case http.StatusUnauthorized:
		kind = ErrNotAuthenticated
	case http.StatusForbidden:
		kind = ErrNotPostAuthor
	case http.StatusNotFound:
		kind = notFound
	case http.StatusConflict:
		if strings.Contains(message, "username") {
			kind = ErrUsernameAlreadyExists
		} else {
			kind = ErrEmailAlreadyExists
		}
	}

	return &Error{Status: status, Message: message, kind: kind}
}
