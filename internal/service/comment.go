package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/EncryptEx/ichack26/internal"
	"github.com/EncryptEx/ichack26/internal/storage"
)

type CommentRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Text string `json:"text" validate:"required,max=500"`
}

func ValidateCommentRequest(req *CommentRequest) error {
	req.Text = strings.TrimSpace(req.Text)
	return validateStruct(req)
}

// AddComment appends a comment from author to ownerID's night on req.Date.
// The owner must exist.
func AddComment(ctx context.Context, users storage.UserRepository, comments storage.CommentRepository, author *internal.User, ownerID string, req *CommentRequest) (*internal.Comment, error) {
	if _, err := users.GetUser(ctx, ownerID); err != nil {
		return nil, err
	}
	day, err := time.Parse(internal.DateLayout, req.Date)
	if err != nil {
		return nil, err
	}

	c := &internal.Comment{
		ID:        uuid.New().String(),
		RecordID:  internal.RecordID(ownerID, day),
		UserID:    author.ID,
		Username:  author.Name,
		Text:      req.Text,
		Timestamp: time.Now().UTC(),
	}
	if err := comments.AddComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListComments returns the thread on ownerID's night, oldest first.
func ListComments(ctx context.Context, users storage.UserRepository, comments storage.CommentRepository, ownerID string, day time.Time) ([]internal.Comment, error) {
	if _, err := users.GetUser(ctx, ownerID); err != nil {
		return nil, err
	}
	list, err := comments.ListComments(ctx, internal.RecordID(ownerID, day))
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []internal.Comment{}
	}
	return list, nil
}
