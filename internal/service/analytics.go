package service

import (
	"context"
	"fmt"
	"time"

	"github.com/EncryptEx/ichack26/internal"
	"github.com/EncryptEx/ichack26/internal/ring"
	"github.com/EncryptEx/ichack26/internal/seed"
	"github.com/EncryptEx/ichack26/internal/storage"
)

type Range string

const (
	RangeToday Range = "today"
	RangeWeek  Range = "week"
	RangeMonth Range = "month"
)

func ParseRange(s string) (Range, error) {
	switch Range(s) {
	case "":
		return RangeToday, nil
	case RangeToday, RangeWeek, RangeMonth:
		return Range(s), nil
	}
	return "", fmt.Errorf("%w: range must be today, week or month", internal.ErrInvalidInput)
}

func (r Range) Days() int {
	switch r {
	case RangeWeek:
		return 7
	case RangeMonth:
		return 30
	default:
		return 1
	}
}

type AnalyticsView struct {
	Date       string               `json:"date"`
	Range      Range                `json:"range"`
	Record     internal.SleepRecord `json:"record"`
	FallAsleep string               `json:"fall_asleep"`
	WakeUp     string               `json:"wake_up"`
	Breakdown  ring.Breakdown       `json:"breakdown"`
	Chart      ring.Chart           `json:"chart"`
	Bars       []ring.Bar           `json:"bars"`
}

// Analytics builds the stats screen for one user: the selected night in
// full plus a stage breakdown averaged over the range ending at date.
func Analytics(ctx context.Context, gen *seed.Generator, overrides storage.OverrideRepository, user *internal.User, date time.Time, rng Range) (*AnalyticsView, error) {
	daily, err := RecordFor(ctx, gen, overrides, user.ID, date)
	if err != nil {
		return nil, err
	}

	history := []internal.SleepRecord{daily}
	if rng != RangeToday {
		history = gen.Window(user.ID, date, rng.Days())
	}
	breakdown := ring.Aggregate(history)

	return &AnalyticsView{
		Date:       date.Format(internal.DateLayout),
		Range:      rng,
		Record:     daily,
		FallAsleep: Meridiem(daily.BedTime),
		WakeUp:     daily.WakeTime + " AM",
		Breakdown:  breakdown,
		Chart:      ring.Layout(breakdown),
		Bars:       ring.Bars(history),
	}, nil
}
