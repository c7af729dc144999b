package seed

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EncryptEx/ichack26/internal"
)

type fixedJitter struct {
	f float64
	n int
}

func (j fixedJitter) Float64() float64 { return j.f }
func (j fixedJitter) IntN(int) int     { return j.n }

var clockRe = regexp.MustCompile(`^(\d{2}):(\d{2})$`)

func sampleNights() []struct {
	user string
	date time.Time
} {
	var out []struct {
		user string
		date time.Time
	}
	start := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	for u := 1; u <= 8; u++ {
		for d := 0; d < 90; d++ {
			out = append(out, struct {
				user string
				date time.Time
			}{fmt.Sprintf("user%d", u), start.AddDate(0, 0, d)})
		}
	}
	return out
}

func TestSeed_User3(t *testing.T) {
	date := time.Date(2026, 1, 27, 0, 0, 0, 0, time.UTC)
	// '3' is 51, day 27, zero-based month 0.
	assert.Equal(t, 78, Seed("user3", date))
}

func TestSeed_ShortID(t *testing.T) {
	date := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 5+2, Seed("ab", date))
}

func TestGenerate_User3Scenario(t *testing.T) {
	date := time.Date(2026, 1, 27, 0, 0, 0, 0, time.UTC)
	rec := NewGenerator(ModeRandom).Generate("user3", date)

	assert.Equal(t, "22:06", rec.BedTime)
	assert.Equal(t, "06:18", rec.WakeTime)
	assert.Equal(t, internal.PointsDown, rec.PointsChange)
	assert.Equal(t, "user3", rec.UserID)
	assert.True(t, rec.Date.Equal(date))
	assert.GreaterOrEqual(t, rec.SleepHours, 8.0)
	assert.LessOrEqual(t, rec.SleepHours, 10.0)
	assert.GreaterOrEqual(t, rec.SleepQuality, 68)
	assert.LessOrEqual(t, rec.SleepQuality, 77)
}

func TestGenerate_FixedJitter(t *testing.T) {
	date := time.Date(2026, 1, 27, 0, 0, 0, 0, time.UTC)
	rec := WithJitter(fixedJitter{f: 0.5, n: 3}).Generate("user3", date)

	assert.Equal(t, 9.0, rec.SleepHours)
	assert.Equal(t, 71, rec.SleepQuality)
	assert.Equal(t, 125, rec.Points)
	assert.Equal(t, 1.8, rec.DeepSleep)
	assert.Equal(t, 2.3, rec.RemSleep)
	assert.Equal(t, 5.0, rec.LightSleep)
}

func TestGenerate_Properties(t *testing.T) {
	gen := NewGenerator(ModeRandom)
	for _, n := range sampleNights() {
		rec := gen.Generate(n.user, n.date)

		assert.LessOrEqual(t, rec.SleepQuality, 100)
		assert.GreaterOrEqual(t, rec.Points, 0)
		// Points use the unrounded duration, so they sit within one of the
		// value recomputed from the published hours.
		assert.InDelta(t, math.Floor(rec.SleepHours*10+float64(rec.SleepQuality)*0.5), float64(rec.Points), 1)

		for _, c := range []string{rec.BedTime, rec.WakeTime} {
			m := clockRe.FindStringSubmatch(c)
			require.NotNil(t, m, "clock %q", c)
			h, _ := strconv.Atoi(m[1])
			min, _ := strconv.Atoi(m[2])
			assert.True(t, h >= 0 && h <= 23, "hour %d", h)
			assert.True(t, min >= 0 && min <= 59, "minute %d", min)
		}

		// Four one-decimal roundings drift by at most 0.2h.
		assert.InDelta(t, rec.SleepHours, rec.DeepSleep+rec.RemSleep+rec.LightSleep, 0.2)
	}
}

func TestGenerate_PointsIdentityOnExactDuration(t *testing.T) {
	// Float64 of 0.5 adds exactly one hour, so the duration needs no rounding.
	for n := 0; n < 10; n++ {
		gen := WithJitter(fixedJitter{f: 0.5, n: n})
		for _, night := range sampleNights()[:90] {
			rec := gen.Generate(night.user, night.date)
			assert.Equal(t, int(math.Floor(rec.SleepHours*10+float64(rec.SleepQuality)*0.5)), rec.Points)
		}
	}
}

func TestGenerate_DerivesFromUnroundedDuration(t *testing.T) {
	date := time.Date(2026, 1, 27, 0, 0, 0, 0, time.UTC)
	// 5 + 78%5 + 0.48*2 = 8.96 hours, quality 40 + 28 + 2 = 70.
	rec := WithJitter(fixedJitter{f: 0.48, n: 2}).Generate("user3", date)

	assert.Equal(t, 9.0, rec.SleepHours)
	assert.Equal(t, 70, rec.SleepQuality)
	assert.Equal(t, 124, rec.Points)
	assert.Equal(t, 1.8, rec.DeepSleep)
	assert.Equal(t, 2.2, rec.RemSleep)
	assert.Equal(t, 4.9, rec.LightSleep)
}

func TestGenerate_DeterministicMode(t *testing.T) {
	gen := NewGenerator(ModeDeterministic)
	for _, n := range sampleNights()[:60] {
		assert.Equal(t, gen.Generate(n.user, n.date), gen.Generate(n.user, n.date))
	}
}

func TestTotalPoints_SumsTrailingWeek(t *testing.T) {
	gen := NewGenerator(ModeDeterministic)
	today := time.Date(2026, 1, 27, 0, 0, 0, 0, time.UTC)

	want := 0
	for i := 0; i < 7; i++ {
		want += gen.Generate("user2", today.AddDate(0, 0, -i)).Points
	}
	assert.Equal(t, want, gen.TotalPoints("user2", today, 7))
}

func TestWindow_OldestFirst(t *testing.T) {
	end := time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)
	w := NewGenerator(ModeDeterministic).Window("user1", end, 7)

	require.Len(t, w, 7)
	assert.Equal(t, "2025-12-28", w[0].Date.Format(internal.DateLayout))
	assert.Equal(t, "2026-01-03", w[6].Date.Format(internal.DateLayout))
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeRandom, m)

	m, err = ParseMode("deterministic")
	require.NoError(t, err)
	assert.Equal(t, ModeDeterministic, m)

	_, err = ParseMode("chaotic")
	assert.Error(t, err)
}
