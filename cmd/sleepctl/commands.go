package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/EncryptEx/ichack26/internal/ring"
	"github.com/EncryptEx/ichack26/internal/service"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Show the generated night for a user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		gen, err := generator()
		if err != nil {
			return err
		}
		day, err := parseDayFlag(cmd)
		if err != nil {
			return err
		}
		user, _ := cmd.Flags().GetString("user")
		fmt.Fprintln(cmd.OutOrStdout(), renderRecord(gen.Generate(user, day)))
		return nil
	},
}

var ringsCmd = &cobra.Command{
	Use:   "rings",
	Short: "Show the stage breakdown and ring geometry over a range",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		gen, err := generator()
		if err != nil {
			return err
		}
		day, err := parseDayFlag(cmd)
		if err != nil {
			return err
		}
		rs, _ := cmd.Flags().GetString("range")
		rng, err := service.ParseRange(rs)
		if err != nil {
			return err
		}
		user, _ := cmd.Flags().GetString("user")

		breakdown := ring.Aggregate(gen.Window(user, day, rng.Days()))
		fmt.Fprintln(cmd.OutOrStdout(), renderChart(breakdown, ring.Layout(breakdown)))
		return nil
	},
}

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Show your current and longest streak",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newClient().Streak(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderStreak(*s))
		return nil
	},
}

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Show the latest dreams from everyone",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		feed, err := newClient().DreamFeed(cmd.Context())
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		if limit > 0 && len(feed) > limit {
			feed = feed[:limit]
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderFeed(feed))
		return nil
	},
}

var dreamCmd = &cobra.Command{
	Use:   "dream [content]",
	Short: "Log a dream",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		mood, _ := cmd.Flags().GetString("mood")

		req := service.DreamRequest{Title: title, Content: strings.Join(args, " ")}
		if mood != "" {
			req.Mood = &mood
		}
		d, err := newClient().CreateDream(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderDream(*d))
		return nil
	},
}

var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "Show your streak and the dream feed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		home := newClient().LoadHome(cmd.Context())
		fmt.Fprintln(cmd.OutOrStdout(), renderStreak(home.Streak))
		fmt.Fprintln(cmd.OutOrStdout(), renderFeed(home.Feed))
		return nil
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show this week's standings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := newClient().Leaderboard(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderLeaderboard(b))
		return nil
	},
}
