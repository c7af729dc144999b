package ring

import (
	"fmt"
	"math"

	"github.com/EncryptEx/ichack26/internal"
)

const (
	ColorAwake = "#7E7E7E"
	ColorLight = "#97AF68"
	ColorDeep  = "#EA8323"

	// Share of a night counted as awake time. Records carry no awake figure.
	awakeShare = 0.15
)

// FormatDuration renders hours as "N min" below one hour and "HH:MM h" otherwise.
func FormatDuration(hours float64) string {
	h := int(math.Floor(hours))
	m := int(math.Round((hours - float64(h)) * 60))
	if m == 60 {
		h++
		m = 0
	}
	if h == 0 {
		return fmt.Sprintf("%d min", m)
	}
	return fmt.Sprintf("%02d:%02d h", h, m)
}

// Aggregate averages a set of records into an awake/light/deep breakdown.
// Light includes REM. An empty set yields zero fractions.
func Aggregate(records []internal.SleepRecord) Breakdown {
	if len(records) == 0 {
		return Breakdown{
			Awake: Segment{Time: FormatDuration(0), Color: ColorAwake},
			Light: Segment{Time: FormatDuration(0), Color: ColorLight},
			Deep:  Segment{Time: FormatDuration(0), Color: ColorDeep},
		}
	}

	var deep, light, awake float64
	for _, r := range records {
		deep += r.DeepSleep
		light += r.LightSleep + r.RemSleep
		awake += r.SleepHours * awakeShare
	}
	n := float64(len(records))
	deep, light, awake = deep/n, light/n, awake/n

	total := deep + light + awake
	frac := func(v float64) float64 {
		if total == 0 {
			return 0
		}
		return v / total
	}

	return Breakdown{
		Awake: Segment{Time: FormatDuration(awake), Fraction: frac(awake), Color: ColorAwake},
		Light: Segment{Time: FormatDuration(light), Fraction: frac(light), Color: ColorLight},
		Deep:  Segment{Time: FormatDuration(deep), Fraction: frac(deep), Color: ColorDeep},
	}
}

type Bar struct {
	Date   string  `json:"date"`
	Height float64 `json:"height"` // percent of a 10h night, capped at 100
	Color  string  `json:"color"`
}

// Bars builds one bar per record for the history chart.
func Bars(records []internal.SleepRecord) []Bar {
	bars := make([]Bar, 0, len(records))
	for _, r := range records {
		bars = append(bars, Bar{
			Date:   r.Date.Format(internal.DateLayout),
			Height: math.Min(r.SleepHours/10*100, 100),
			Color:  barColor(r.SleepHours),
		})
	}
	return bars
}

func barColor(hours float64) string {
	switch {
	case hours > 7:
		return ColorLight
	case hours > 5:
		return ColorDeep
	default:
		return ColorAwake
	}
}
