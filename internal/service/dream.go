package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/EncryptEx/ichack26/internal"
	"github.com/EncryptEx/ichack26/internal/storage"
)

const (
	DefaultFeedLimit = 50
	MaxFeedLimit     = 100

	titleFromContent = 40
)

type DreamRequest struct {
	Title   string  `json:"title" validate:"max=120"`
	Content string  `json:"content" validate:"required,max=5000"`
	Mood    *string `json:"mood" validate:"omitempty,max=32"`
}

func ValidateDreamRequest(req *DreamRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	return validateStruct(req)
}

// defaultTitle uses the opening words of the content when no title is given.
func defaultTitle(content string) string {
	if utf8.RuneCountInString(content) <= titleFromContent {
		return content
	}
	cut := string([]rune(content)[:titleFromContent])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut) + "..."
}

// CreateDream stores a new journal entry. Dreams are immutable once written.
func CreateDream(ctx context.Context, dreams storage.DreamRepository, user *internal.User, req *DreamRequest) (*internal.Dream, error) {
	title := req.Title
	if title == "" {
		title = defaultTitle(req.Content)
	}
	var mood *string
	if req.Mood != nil && strings.TrimSpace(*req.Mood) != "" {
		m := strings.TrimSpace(*req.Mood)
		mood = &m
	}

	d := &internal.Dream{
		ID:       uuid.New().String(),
		UserID:   user.ID,
		Username: user.Name,
		Title:    title,
		Content:  req.Content,
		Mood:     mood,
		Date:     time.Now().UTC(),
	}
	if err := dreams.SaveDream(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// FeedLimit clamps a requested page size; non-positive means the default.
func FeedLimit(n int) int {
	switch {
	case n <= 0:
		return DefaultFeedLimit
	case n > MaxFeedLimit:
		return MaxFeedLimit
	}
	return n
}

func DreamFeed(ctx context.Context, dreams storage.DreamRepository, limit int) ([]internal.Dream, error) {
	list, err := dreams.ListDreams(ctx, "", FeedLimit(limit))
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []internal.Dream{}
	}
	return list, nil
}

func MyDreams(ctx context.Context, dreams storage.DreamRepository, user *internal.User, limit int) ([]internal.Dream, error) {
	list, err := dreams.ListDreams(ctx, user.ID, FeedLimit(limit))
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []internal.Dream{}
	}
	return list, nil
}

func GetDream(ctx context.Context, dreams storage.DreamRepository, id string) (*internal.Dream, error) {
	return dreams.GetDream(ctx, id)
}
