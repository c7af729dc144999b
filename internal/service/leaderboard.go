package service

import (
	"context"
	"sort"
	"time"

	"github.com/EncryptEx/ichack26/internal"
	"github.com/EncryptEx/ichack26/internal/cache"
	"github.com/EncryptEx/ichack26/internal/seed"
	"github.com/EncryptEx/ichack26/internal/storage"
)

// WeekDays is the number of nights summed into a weekly score.
const WeekDays = 7

type Badge string

const (
	BadgeCrown  Badge = "crown"
	BadgeSilver Badge = "silver"
	BadgeBronze Badge = "bronze"
)

var podiumBadges = []Badge{BadgeCrown, BadgeSilver, BadgeBronze}

type Standing struct {
	Rank   int           `json:"rank"`
	User   internal.User `json:"user"`
	Points int           `json:"points"`
	Badge  Badge         `json:"badge,omitempty"`
}

type Leaderboard struct {
	Date       string     `json:"date"`
	Standings  []Standing `json:"standings"`
	Podium     []Standing `json:"podium"`
	ViewerRank int        `json:"viewer_rank"`
}

// Leaderboards computes weekly standings. Only user ids and points are
// cached, per day, so randomly jittered points stay stable while the entry
// lives and names always come from the user repository.
type Leaderboards struct {
	Gen    *seed.Generator
	Users  storage.UserRepository
	Cache  cache.Cache
	TTL    time.Duration
	Logger internal.Logger
}

// weeklyScore is the cached part of a standing.
type weeklyScore struct {
	UserID string `json:"user_id"`
	Points int    `json:"points"`
}

func leaderboardKey(day time.Time) string {
	return "leaderboard:weekly:" + day.Format(internal.DateLayout)
}

// Weekly ranks every user by the sum of points over today and the six
// previous nights. Ties keep user id order.
func (l *Leaderboards) Weekly(ctx context.Context, viewer *internal.User, today time.Time) (*Leaderboard, error) {
	users, err := l.Users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	points := l.scores(ctx, users, today)

	standings := make([]Standing, 0, len(users))
	for _, u := range users {
		standings = append(standings, Standing{User: u.Public(), Points: points[u.ID]})
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Points > standings[j].Points
	})

	board := &Leaderboard{Date: today.Format(internal.DateLayout)}
	for i := range standings {
		standings[i].Rank = i + 1
		if i < len(podiumBadges) {
			standings[i].Badge = podiumBadges[i]
		}
		if standings[i].User.ID == viewer.ID {
			board.ViewerRank = standings[i].Rank
		}
	}
	n := min(len(podiumBadges), len(standings))
	board.Standings = standings
	board.Podium = append([]Standing(nil), standings[:n]...)
	return board, nil
}

// scores returns weekly points by user id, computing and caching any user
// the day's cache entry does not hold yet. Cache errors are logged only.
func (l *Leaderboards) scores(ctx context.Context, users []internal.User, today time.Time) map[string]int {
	key := leaderboardKey(today)
	var cached []weeklyScore
	if l.Cache != nil {
		if _, err := l.Cache.Get(ctx, key, &cached); err != nil {
			l.Logger.Warnf("leaderboard: cache get %s: %v", key, err)
			cached = nil
		}
	}

	points := make(map[string]int, len(users))
	for _, s := range cached {
		points[s.UserID] = s.Points
	}

	missing := false
	for _, u := range users {
		if _, ok := points[u.ID]; ok {
			continue
		}
		p := l.Gen.TotalPoints(u.ID, today, WeekDays)
		points[u.ID] = p
		cached = append(cached, weeklyScore{UserID: u.ID, Points: p})
		missing = true
	}

	if missing && l.Cache != nil {
		if err := l.Cache.Set(ctx, key, cached, l.TTL); err != nil {
			l.Logger.Warnf("leaderboard: cache set %s: %v", key, err)
		}
	}
	return points
}
