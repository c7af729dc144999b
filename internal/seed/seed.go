// Package seed fabricates nightly sleep records from a user id and a
// calendar date.
//
// The seed itself is fully determined by its inputs. Duration and quality
// additionally mix in jitter, which in ModeRandom comes from the process
// wide random source, so two calls for the same night can differ. In
// ModeDeterministic the jitter source is keyed by the seed and every call
// for the same night returns the same record.
package seed

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"
	"unicode/utf16"

	"github.com/EncryptEx/ichack26/internal"
)

// charOffset is the position in the user id whose UTF-16 code unit feeds the seed.
const charOffset = 4

type Mode string

const (
	ModeRandom        Mode = "random"
	ModeDeterministic Mode = "deterministic"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeRandom, ModeDeterministic:
		return Mode(s), nil
	case "":
		return ModeRandom, nil
	}
	return "", fmt.Errorf("seed: unknown mode %q", s)
}

// Jitter is the entropy a generator consumes. *rand.Rand satisfies it.
type Jitter interface {
	Float64() float64
	IntN(n int) int
}

type globalJitter struct{}

func (globalJitter) Float64() float64 { return rand.Float64() }
func (globalJitter) IntN(n int) int   { return rand.IntN(n) }

type Generator struct {
	mode   Mode
	jitter func(seed int) Jitter
}

func NewGenerator(mode Mode) *Generator {
	g := &Generator{mode: mode}
	if mode == ModeDeterministic {
		g.jitter = func(seed int) Jitter {
			return rand.New(rand.NewPCG(uint64(seed), uint64(seed)*0x9e3779b97f4a7c15))
		}
	} else {
		g.jitter = func(int) Jitter { return globalJitter{} }
	}
	return g
}

// WithJitter returns a generator that draws all jitter from j.
func WithJitter(j Jitter) *Generator {
	return &Generator{mode: ModeRandom, jitter: func(int) Jitter { return j }}
}

func (g *Generator) Mode() Mode { return g.mode }

// Seed derives the integer seed for a user and a calendar date. Day and
// month are read in the date's own location. Ids shorter than five code
// units contribute zero.
func Seed(userID string, date time.Time) int {
	units := utf16.Encode([]rune(userID))
	code := 0
	if len(units) > charOffset {
		code = int(units[charOffset])
	}
	return code + date.Day() + int(date.Month()) - 1
}

// Generate produces the record for one user on one night.
func (g *Generator) Generate(userID string, date time.Time) internal.SleepRecord {
	s := Seed(userID, date)
	j := g.jitter(s)

	// Points and stages come from the unrounded duration; only the
	// published hours are rounded.
	raw := 5 + float64(s%5) + j.Float64()*2
	quality := min(100, 40+s%50+j.IntN(10))

	change := internal.PointsUp
	if s%3 == 0 {
		change = internal.PointsDown
	}

	return internal.SleepRecord{
		UserID:       userID,
		Date:         date,
		SleepHours:   round1(raw),
		SleepQuality: quality,
		Points:       Points(raw, quality),
		PointsChange: change,
		BedTime:      clock((22+s%3)%24, (s*7)%60),
		WakeTime:     clock(6+s%3, (s*11)%60),
		DeepSleep:    round1(raw * 0.20),
		RemSleep:     round1(raw * 0.25),
		LightSleep:   round1(raw * 0.55),
	}
}

// Window returns days records ending at end, oldest first.
func (g *Generator) Window(userID string, end time.Time, days int) []internal.SleepRecord {
	out := make([]internal.SleepRecord, 0, days)
	for i := days - 1; i >= 0; i-- {
		out = append(out, g.Generate(userID, end.AddDate(0, 0, -i)))
	}
	return out
}

// TotalPoints sums the points of the trailing window of days ending at end.
func (g *Generator) TotalPoints(userID string, end time.Time, days int) int {
	total := 0
	for _, r := range g.Window(userID, end, days) {
		total += r.Points
	}
	return total
}

func Points(hours float64, quality int) int {
	return int(math.Floor(hours*10 + float64(quality)*0.5))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clock(h, m int) string {
	return fmt.Sprintf("%02d:%02d", h, m)
}
