package auth

import (
	"context"

	"github.com/EncryptEx/ichack26/internal"
)

// Provider resolves a bearer token to the user it belongs to.
type Provider interface {
	ValidateTokenLocal(ctx context.Context, token string) (*internal.User, error)
	ValidateTokenRemote(ctx context.Context, token string) (*internal.User, error)
}
