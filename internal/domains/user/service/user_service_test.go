package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"blog-backend/internal/domains/user"
	"blog-backend/pkg/jwt"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*user.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	stored := *u
	r.users[u.ID] = &stored
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	found := *u
	return &found, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			found := *u
			return &found, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, u *user.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return user.ErrUserNotFound
	}
	stored := *u
	r.users[u.ID] = &stored
	return nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	return err == nil, nil
}

func (r *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func newTestUserService(t *testing.T) (user.Service, *fakeUserRepo) {
	t.Helper()

	repo := newFakeUserRepo()
	svc := NewUserService(repo, jwt.NewManager("test-secret", 1))
	return svc, repo
}

func TestRegister(t *testing.T) {
	svc, repo := newTestUserService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, user.RegisterRequest{
		Username: "alice",
		Email:    "alice@x.com",
		Password: "pw1234",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", resp.User.Username)
	assert.NotEmpty(t, resp.Token)

	// The stored hash verifies against the plaintext password
	stored, err := repo.FindByID(ctx, resp.User.ID)
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pw1234")))

	// Neither the plaintext nor the hash leaks through the DTO
	payload, err := json.Marshal(resp.User)
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "password")
	assert.NotContains(t, string(payload), "pw1234")
}

func TestRegisterDuplicateEmailBeatsUsername(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, user.RegisterRequest{Username: "alice", Email: "alice@x.com", Password: "pw1234"})
	require.NoError(t, err)

	// Both fields collide, the email conflict wins
	_, err = svc.Register(ctx, user.RegisterRequest{Username: "alice", Email: "alice@x.com", Password: "pw5678"})
	assert.ErrorIs(t, err, user.ErrEmailAlreadyExists)

	// Only the username collides
	_, err = svc.Register(ctx, user.RegisterRequest{Username: "alice", Email: "other@x.com", Password: "pw5678"})
	assert.ErrorIs(t, err, user.ErrUsernameAlreadyExists)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, user.RegisterRequest{Username: "alice", Email: "alice@x.com", Password: "pw1234"})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, user.LoginRequest{Email: "alice@x.com", Password: "pw1234"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, resp.User.ID)
	assert.NotEmpty(t, resp.Token)

	_, err = svc.Login(ctx, user.LoginRequest{Email: "alice@x.com", Password: "wrong"})
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)

	// Unknown email reports the same failure as a bad password
	_, err = svc.Login(ctx, user.LoginRequest{Email: "ghost@x.com", Password: "pw1234"})
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, user.RegisterRequest{Username: "alice", Email: "alice@x.com", Password: "pw1234"})
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)
	bio := "writer"
	updated, err := svc.UpdateProfile(ctx, registered.User.ID, user.UpdateProfileRequest{Bio: &bio})
	require.NoError(t, err)

	assert.Equal(t, "writer", updated.Bio)
	assert.Empty(t, updated.Avatar, "untouched field stays as it was")
	assert.True(t, updated.UpdatedAt.After(registered.User.UpdatedAt))

	_, err = svc.UpdateProfile(ctx, uuid.New(), user.UpdateProfileRequest{Bio: &bio})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestGetProfile(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, user.RegisterRequest{Username: "alice", Email: "alice@x.com", Password: "pw1234"})
	require.NoError(t, err)

	profile, err := svc.GetProfile(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", profile.Email)

	_, err = svc.GetProfile(ctx, uuid.New())
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
