package internal

import "time"

// DateLayout is the calendar-day format used in ids and query params.
const DateLayout = "2006-01-02"

type User struct {
	ID            string `json:"id" yaml:"id"`
	Token         string `json:"token,omitempty" yaml:"token"`
	Name          string `json:"name" yaml:"name"`
	Avatar        string `json:"avatar" yaml:"avatar"`
	Streak        int    `json:"streak" yaml:"streak"`
	LongestStreak int    `json:"longest_streak" yaml:"longest_streak"`
}

// Public returns the user without credentials.
func (u User) Public() User {
	u.Token = ""
	return u
}

type PointsChange string

const (
	PointsUp   PointsChange = "up"
	PointsDown PointsChange = "down"
)

// SleepRecord is a generated night of sleep for one user on one calendar day.
type SleepRecord struct {
	UserID       string       `json:"user_id"`
	Date         time.Time    `json:"date"`
	SleepHours   float64      `json:"sleep_hours"`
	SleepQuality int          `json:"sleep_quality"` // 0-100
	Points       int          `json:"points"`
	PointsChange PointsChange `json:"points_change"`
	BedTime      string       `json:"bed_time"`  // HH:MM
	WakeTime     string       `json:"wake_time"` // HH:MM
	DeepSleep    float64      `json:"deep_sleep"`
	RemSleep     float64      `json:"rem_sleep"`
	LightSleep   float64      `json:"light_sleep"`
}

// RecordID is the composite key comments use to reference a record.
func RecordID(userID string, date time.Time) string {
	return userID + "-" + date.Format(DateLayout)
}

type Dream struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	Username string    `json:"username"`
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	Mood     *string   `json:"mood"`
	Date     time.Time `json:"date"`
}

type Comment struct {
	ID        string    `json:"id"`
	RecordID  string    `json:"sleep_record_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// TimeOverride replaces the generated bed and wake time of one night.
type TimeOverride struct {
	UserID    string    `json:"user_id"`
	Date      string    `json:"date"` // YYYY-MM-DD
	BedTime   string    `json:"bed_time"`
	WakeTime  string    `json:"wake_time"`
	UpdatedAt time.Time `json:"updated_at"`
}
