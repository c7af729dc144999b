package storage

import (
	"context"

	"github.com/EncryptEx/ichack26/internal"
)

type UserRepository interface {
	ListUsers(ctx context.Context) ([]internal.User, error)
	GetUser(ctx context.Context, id string) (*internal.User, error)
	GetUserByToken(ctx context.Context, token string) (*internal.User, error)
	RenameUser(ctx context.Context, id, name string) (*internal.User, error)
	// EnsureUser stores u if its id is unknown and returns the stored user.
	// Existing users are left as they are. Tokens are never stored.
	EnsureUser(ctx context.Context, u *internal.User) (*internal.User, error)
}

type DreamRepository interface {
	SaveDream(ctx context.Context, dream *internal.Dream) error
	GetDream(ctx context.Context, id string) (*internal.Dream, error)
	// ListDreams returns dreams newest first. An empty userID lists everyone's.
	ListDreams(ctx context.Context, userID string, limit int) ([]internal.Dream, error)
}

type CommentRepository interface {
	AddComment(ctx context.Context, c *internal.Comment) error
	ListComments(ctx context.Context, recordID string) ([]internal.Comment, error)
}

type OverrideRepository interface {
	SetOverride(ctx context.Context, o *internal.TimeOverride) error
	// GetOverride returns nil, nil when the night has no override.
	GetOverride(ctx context.Context, userID, date string) (*internal.TimeOverride, error)
}

// Store bundles every repository a backend provides.
type Store interface {
	UserRepository
	DreamRepository
	CommentRepository
	OverrideRepository
	Close() error
}
