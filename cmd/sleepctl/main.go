// Command sleepctl inspects generated nights locally and talks to the
// sleep API as a signed-in user.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/EncryptEx/ichack26/internal"
	"github.com/EncryptEx/ichack26/internal/client"
	"github.com/EncryptEx/ichack26/internal/config"
	"github.com/EncryptEx/ichack26/internal/seed"
	"github.com/EncryptEx/ichack26/internal/service"
)

var (
	apiURL   string
	token    string
	verbose  bool
	timeout  time.Duration
	seedMode string

	logger internal.Logger = internal.NopLogger()
)

var rootCmd = &cobra.Command{
	Use:          "sleepctl",
	Short:        "Inspect sleep records and dreams",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "warn"
		if verbose {
			level = "debug"
		}
		l, err := internal.NewLogger("development", level)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	// Flags fall back to API_BASE_URL / API_TOKEN from the environment or .env.
	defaults := &config.Config{APIBaseURL: "http://localhost:8000"}
	if cfg, err := config.Load(); err == nil {
		defaults = cfg
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api", defaults.APIBaseURL, "API base URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", defaults.APIToken, "bearer token")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")
	rootCmd.PersistentFlags().StringVar(&seedMode, "seed-mode", string(seed.ModeDeterministic), "record generation mode (random or deterministic)")

	recordCmd.Flags().String("user", "user1", "user id")
	recordCmd.Flags().String("date", "", "night as YYYY-MM-DD (default today)")
	ringsCmd.Flags().String("user", "user1", "user id")
	ringsCmd.Flags().String("date", "", "last night of the range as YYYY-MM-DD (default today)")
	ringsCmd.Flags().String("range", "today", "today, week or month")
	feedCmd.Flags().Int("limit", 10, "dreams to show")
	dreamCmd.Flags().String("title", "", "dream title")
	dreamCmd.Flags().String("mood", "", "mood tag")

	rootCmd.AddCommand(recordCmd, ringsCmd, streakCmd, feedCmd, dreamCmd, homeCmd, leaderboardCmd)
}

func newClient() *client.Client {
	c := client.New(apiURL, token, logger)
	c.HTTP.Timeout = timeout
	return c
}

func generator() (*seed.Generator, error) {
	mode, err := seed.ParseMode(seedMode)
	if err != nil {
		return nil, err
	}
	return seed.NewGenerator(mode), nil
}

func parseDayFlag(cmd *cobra.Command) (time.Time, error) {
	s, _ := cmd.Flags().GetString("date")
	return service.ParseDay(s, time.Now())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}
