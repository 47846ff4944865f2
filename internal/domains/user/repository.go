package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the data access contract for users.
// Interface at the domain root, implementation in repository/.
type Repository interface {
	// Create inserts a new user
	// Returns: ErrEmailAlreadyExists / ErrUsernameAlreadyExists on conflict
	Create(ctx context.Context, user *User) error

	// FindByID looks a user up by ID
	// Returns: ErrUserNotFound when missing
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail looks a user up by email (login path)
	// Returns: ErrUserNotFound when missing
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Update persists bio/avatar/updated_at changes
	Update(ctx context.Context, user *User) error

	// ExistsByEmail reports whether the email is already registered
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// ExistsByUsername reports whether the username is already taken
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}
