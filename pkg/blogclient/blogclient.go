// Package blogclient is the data-access layer used by blog frontends.
//
// It exposes one Store contract with two implementations: a remote client
// that talks to the REST backend, and a local fallback store that keeps
// everything on disk so the application keeps working when no backend is
// reachable. The mode is picked exactly once when the client is built and
// never changes for the lifetime of the Store.
package blogclient

import (
	"context"
	"net/http"
	"time"
)

const defaultProbeTimeout = 3 * time.Second

// Store is the operation contract shared by both backends. Callers never
// learn which implementation serves them.
type Store interface {
	// Auth
	Register(ctx context.Context, username, email, password string) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Logout(ctx context.Context) error

	// Profile
	UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error)

	// Posts
	ListPosts(ctx context.Context) ([]Post, error)
	GetPost(ctx context.Context, id string) (*Post, error)
	CreatePost(ctx context.Context, draft PostDraft) (*Post, error)
	UpdatePost(ctx context.Context, id string, update PostUpdate) (*Post, error)
	DeletePost(ctx context.Context, id string) error

	// Comments & likes
	AddComment(ctx context.Context, postID, content string) (*Comment, error)
	LikePost(ctx context.Context, postID string) (*Post, error)
}

// Config controls mode selection and the two backends.
type Config struct {
	BaseURL      string        // API root, e.g. http://localhost:8080/api/v1
	DataDir      string        // directory for local fallback files
	ProbeTimeout time.Duration // health probe timeout, default 3s
	HTTPClient   *http.Client  // optional, default client with 30s timeout
}

// New probes the backend's health endpoint once and returns the remote
// client when it answers 2xx, or the local fallback store for any network
// error, timeout, or non-success status. There is no re-probe: a session
// that starts local stays local.
func New(cfg Config) (Store, error) {
	if probeHealth(cfg) {
		return NewRemote(cfg.BaseURL, cfg.HTTPClient), nil
	}
	return NewLocal(cfg.DataDir)
}

// probeHealth issues the single startup reachability check.
func probeHealth(cfg Config) bool {
	timeout := cfg.ProbeTimeout
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.BaseURL+"/health", nil)
	if err != nil {
		return false
	}

	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
