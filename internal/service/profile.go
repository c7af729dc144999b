package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/EncryptEx/ichack26/internal"
	"github.com/EncryptEx/ichack26/internal/storage"
)

type Profile struct {
	User       internal.User `json:"user"`
	Handle     string        `json:"handle"`
	Friends    int           `json:"friends"`
	GlobalRank int           `json:"global_rank"`
}

// Handle is the display name lowercased with all whitespace removed.
func Handle(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, name)
}

// GetProfile builds the profile card. Global rank is the viewer's place on
// this week's leaderboard.
func GetProfile(ctx context.Context, users storage.UserRepository, boards *Leaderboards, user *internal.User, today time.Time) (*Profile, error) {
	all, err := users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	board, err := boards.Weekly(ctx, user, today)
	if err != nil {
		return nil, err
	}

	friends := len(all) - 1
	if friends < 0 {
		friends = 0
	}
	return &Profile{
		User:       user.Public(),
		Handle:     "@" + Handle(user.Name),
		Friends:    friends,
		GlobalRank: board.ViewerRank,
	}, nil
}

type RenameRequest struct {
	Name string `json:"name" validate:"required,max=64"`
}

// RenameProfile persists a new display name for the user.
func RenameProfile(ctx context.Context, users storage.UserRepository, user *internal.User, req *RenameRequest) (*internal.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	updated, err := users.RenameUser(ctx, user.ID, req.Name)
	if err != nil {
		return nil, fmt.Errorf("rename %s: %w", user.ID, err)
	}
	pub := updated.Public()
	return &pub, nil
}
