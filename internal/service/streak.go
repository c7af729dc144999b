package service

import "github.com/EncryptEx/ichack26/internal"

// Streak is the bare body of GET /api/analytics/streak.
type Streak struct {
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
}

func StreakOf(user *internal.User) Streak {
	longest := user.LongestStreak
	if longest < user.Streak {
		longest = user.Streak
	}
	return Streak{CurrentStreak: user.Streak, LongestStreak: longest}
}
