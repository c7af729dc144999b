package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/EncryptEx/ichack26/internal"
	"github.com/EncryptEx/ichack26/internal/storage"
)

// LocalAuthProvider checks tokens against the user roster in storage.
type LocalAuthProvider struct {
	users  storage.UserRepository
	logger internal.Logger
}

func (a *LocalAuthProvider) ValidateTokenLocal(ctx context.Context, token string) (*internal.User, error) {
	if token == "" {
		return nil, internal.ErrUnauthorized
	}
	user, err := a.users.GetUserByToken(ctx, token)
	if errors.Is(err, internal.ErrNotFound) {
		a.logger.Warnf("auth: unknown token")
		return nil, fmt.Errorf("auth: %w", internal.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (a *LocalAuthProvider) ValidateTokenRemote(ctx context.Context, token string) (*internal.User, error) {
	a.logger.Warnf("ValidateTokenRemote not implemented in LocalAuthProvider")
	return nil, errors.New("not implemented in LocalAuthProvider")
}

func NewLocalAuthProvider(users storage.UserRepository, logger internal.Logger) *LocalAuthProvider {
	return &LocalAuthProvider{users: users, logger: logger}
}
