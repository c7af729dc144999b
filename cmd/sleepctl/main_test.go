package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EncryptEx/ichack26/internal"
	"github.com/EncryptEx/ichack26/internal/service"
)

func run(t *testing.T, args ...string) string {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestRecordCommand(t *testing.T) {
	out := run(t, "record", "--user", "user3", "--date", "2026-01-27", "--seed-mode", "deterministic")
	assert.Contains(t, out, "user3")
	assert.Contains(t, out, "22:06 PM")
	assert.Contains(t, out, "06:18 AM")
}

func TestRingsCommand(t *testing.T) {
	out := run(t, "rings", "--user", "user2", "--date", "2026-01-27", "--range", "week", "--seed-mode", "deterministic")
	assert.Contains(t, out, "awake")
	assert.Contains(t, out, "light")
	assert.Contains(t, out, "deep")
	assert.Contains(t, out, "brain")
}

func TestStreakAndFeedCommands(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/analytics/streak":
			w.Write([]byte(`{"current_streak":16,"longest_streak":21}`))
		case "/api/dreams/feed":
			w.Write([]byte(`[]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	out := run(t, "streak", "--api", srv.URL, "--token", "MOCK-TOKEN")
	assert.Contains(t, out, "16 nights")
	assert.Contains(t, out, "21 nights")

	out = run(t, "home", "--api", srv.URL, "--token", "MOCK-TOKEN")
	assert.Contains(t, out, "No dreams yet.")
}

func TestRenderDream(t *testing.T) {
	mood := "eerie"
	out := renderDream(internal.Dream{
		Title:    "Hallway",
		Username: "Mia",
		Content:  "Doors that kept moving",
		Mood:     &mood,
		Date:     time.Date(2026, 1, 27, 7, 30, 0, 0, time.UTC),
	})
	assert.Contains(t, out, "Hallway")
	assert.Contains(t, out, "eerie")
	assert.Contains(t, out, "Mia")
	assert.Contains(t, out, "Doors that kept moving")
}

func TestRenderLeaderboard_MarksViewer(t *testing.T) {
	out := renderLeaderboard(&service.Leaderboard{
		Date: "2026-01-27",
		Standings: []service.Standing{
			{Rank: 1, User: internal.User{Name: "Alex"}, Points: 900, Badge: service.BadgeCrown},
			{Rank: 2, User: internal.User{Name: "Emma"}, Points: 850, Badge: service.BadgeSilver},
		},
		ViewerRank: 2,
	})
	assert.Contains(t, out, "[crown]")
	assert.Contains(t, out, "Emma [silver] (you)")
	assert.Contains(t, out, "850 pts")
}
