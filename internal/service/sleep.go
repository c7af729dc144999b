package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/EncryptEx/ichack26/internal"
	"github.com/EncryptEx/ichack26/internal/seed"
	"github.com/EncryptEx/ichack26/internal/storage"
)

var validate = validator.New()

// validateStruct runs tag validation and marks failures as invalid input.
func validateStruct(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", internal.ErrInvalidInput, err)
	}
	return nil
}

// Today returns the current calendar day as a UTC midnight.
func Today(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay parses YYYY-MM-DD; an empty string means today.
func ParseDay(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return Today(now), nil
	}
	d, err := time.Parse(internal.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", internal.ErrInvalidInput)
	}
	return d, nil
}

// RecordFor generates a user's night and applies any stored time override.
func RecordFor(ctx context.Context, gen *seed.Generator, overrides storage.OverrideRepository, userID string, date time.Time) (internal.SleepRecord, error) {
	rec := gen.Generate(userID, date)
	o, err := overrides.GetOverride(ctx, userID, date.Format(internal.DateLayout))
	if err != nil {
		return rec, err
	}
	if o != nil {
		rec.BedTime = o.BedTime
		rec.WakeTime = o.WakeTime
	}
	return rec, nil
}

type DayEntry struct {
	Rank     int                  `json:"rank"`
	User     internal.User        `json:"user"`
	Record   internal.SleepRecord `json:"record"`
	IsViewer bool                 `json:"is_viewer"`
}

// DayView lists every user's night for date: the viewer first, then
// everyone else by points, highest first.
func DayView(ctx context.Context, gen *seed.Generator, users storage.UserRepository, overrides storage.OverrideRepository, viewer *internal.User, date time.Time) ([]DayEntry, error) {
	all, err := users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]DayEntry, 0, len(all))
	for _, u := range all {
		rec, err := RecordFor(ctx, gen, overrides, u.ID, date)
		if err != nil {
			return nil, err
		}
		entries = append(entries, DayEntry{User: u.Public(), Record: rec, IsViewer: u.ID == viewer.ID})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsViewer != entries[j].IsViewer {
			return entries[i].IsViewer
		}
		return entries[i].Record.Points > entries[j].Record.Points
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

type TimesRequest struct {
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	BedTime  string `json:"bed_time" validate:"required,datetime=15:04"`
	WakeTime string `json:"wake_time" validate:"required,datetime=15:04"`
}

func ValidateTimesRequest(req *TimesRequest) error {
	return validateStruct(req)
}

// SetTimes stores the viewer's corrected bed and wake time for one night.
func SetTimes(ctx context.Context, overrides storage.OverrideRepository, user *internal.User, req *TimesRequest) (*internal.TimeOverride, error) {
	o := &internal.TimeOverride{
		UserID:    user.ID,
		Date:      req.Date,
		BedTime:   req.BedTime,
		WakeTime:  req.WakeTime,
		UpdatedAt: time.Now().UTC(),
	}
	if err := overrides.SetOverride(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Meridiem appends AM or PM to an HH:MM clock by its hour.
func Meridiem(clock string) string {
	h, err := strconv.Atoi(strings.SplitN(clock, ":", 2)[0])
	if err != nil {
		return clock
	}
	if h >= 12 {
		return clock + " PM"
	}
	return clock + " AM"
}
