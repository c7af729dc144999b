package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/EncryptEx/ichack26/internal"
	"github.com/EncryptEx/ichack26/internal/ring"
	"github.com/EncryptEx/ichack26/internal/service"
)

var (
	accent = lipgloss.Color("#EA8323")
	green  = lipgloss.Color("#97AF68")
	muted  = lipgloss.Color("#7E7E7E")

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(accent).
			Bold(true).
			Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 2)

	keyStyle = lipgloss.NewStyle().
			Foreground(muted).
			Width(14)

	valueStyle = lipgloss.NewStyle().Bold(true)

	mutedStyle = lipgloss.NewStyle().Foreground(muted)

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF1744"))
)

func row(key, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, keyStyle.Render(key), valueStyle.Render(value))
}

func changeArrow(c internal.PointsChange) string {
	if c == internal.PointsUp {
		return lipgloss.NewStyle().Foreground(green).Render("▲")
	}
	return lipgloss.NewStyle().Foreground(accent).Render("▼")
}

func renderRecord(r internal.SleepRecord) string {
	rows := []string{
		headerStyle.Render(fmt.Sprintf("%s  %s", r.UserID, r.Date.Format(internal.DateLayout))),
		row("Points", fmt.Sprintf("%d %s", r.Points, changeArrow(r.PointsChange))),
		row("Duration", ring.FormatDuration(r.SleepHours)),
		row("Quality", fmt.Sprintf("%d%%", r.SleepQuality)),
		row("Bed", service.Meridiem(r.BedTime)),
		row("Wake", r.WakeTime+" AM"),
		row("Deep", ring.FormatDuration(r.DeepSleep)),
		row("REM", ring.FormatDuration(r.RemSleep)),
		row("Light", ring.FormatDuration(r.LightSleep)),
	}
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func renderChart(b ring.Breakdown, ch ring.Chart) string {
	segments := map[ring.Stage]ring.Segment{
		ring.StageAwake: b.Awake,
		ring.StageLight: b.Light,
		ring.StageDeep:  b.Deep,
	}
	rows := []string{headerStyle.Render(fmt.Sprintf("%gx%g  stroke %g", ch.Size, ch.Size, ch.StrokeWidth))}
	for _, r := range ch.Rings {
		seg := segments[r.Stage]
		rows = append(rows, row(string(r.Stage), fmt.Sprintf("%-9s %3.0f%%  r=%g dash=%q anchor=(%.1f, %.1f) %s",
			seg.Time, seg.Fraction*100, r.Radius, r.DashArray, r.Anchor.X, r.Anchor.Y, r.Icon)))
	}
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func renderStreak(s service.Streak) string {
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render("Streak"),
		row("Current", fmt.Sprintf("%d nights", s.CurrentStreak)),
		row("Longest", fmt.Sprintf("%d nights", s.LongestStreak)),
	))
}

func renderDream(d internal.Dream) string {
	title := d.Title
	if d.Mood != nil {
		title += "  " + mutedStyle.Render("("+*d.Mood+")")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		valueStyle.Render(title),
		mutedStyle.Render(d.Username+" · "+d.Date.Format("Jan 2 15:04")),
		d.Content,
	)
}

func renderFeed(feed []internal.Dream) string {
	if len(feed) == 0 {
		return mutedStyle.Render("No dreams yet.")
	}
	parts := make([]string, 0, len(feed))
	for _, d := range feed {
		parts = append(parts, renderDream(d))
	}
	return strings.Join(parts, "\n\n")
}

func renderLeaderboard(b *service.Leaderboard) string {
	rows := []string{headerStyle.Render("Week ending " + b.Date)}
	for _, s := range b.Standings {
		line := fmt.Sprintf("%d. %s", s.Rank, s.User.Name)
		if s.Badge != "" {
			line += " [" + string(s.Badge) + "]"
		}
		if s.Rank == b.ViewerRank {
			line += " (you)"
		}
		line = fmt.Sprintf("%-32s %5d pts", line, s.Points)
		if s.Rank == b.ViewerRank {
			line = valueStyle.Render(line)
		}
		rows = append(rows, line)
	}
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
