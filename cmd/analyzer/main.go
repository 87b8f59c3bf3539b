package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/spacesedan/replyradar/config"
	"github.com/spacesedan/replyradar/internal/analyzer"
	"github.com/spacesedan/replyradar/internal/clients"
	"github.com/spacesedan/replyradar/internal/logging"
	"github.com/spacesedan/replyradar/internal/models"
)

var (
	configPath   string
	cronSchedule string
	dryRun       bool
)

var rootCmd = &cobra.Command{
	Use:   "analyzer",
	Short: "Scans Reddit communities for posts worth replying to",
	Long: `Fetches posts from the configured communities, filters and scores them
for reply potential, generates candidate replies and delivers a Discord
card with the top finalists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env := os.Getenv("APP_ENV")
		if env == "" {
			env = "dev"
		}
		config.LoadEnv(env)
		logging.InitLogger()

		if err := config.EnsureSettingsExist(configPath); err != nil {
			return fmt.Errorf("failed to create default settings: %w", err)
		}
		settings, err := config.LoadSettings(configPath)
		if err != nil {
			return err
		}

		if cronSchedule == "" {
			return runOnce(cmd.Context(), settings)
		}
		return runScheduled(settings)
	},
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", ".replyradar/settings.yaml", "Path to the YAML settings file")
	rootCmd.Flags().StringVar(&cronSchedule, "cron", "", "Cron expression for scheduled runs (default: run once and exit)")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the report instead of delivering it")
}

func runOnce(ctx context.Context, settings *config.Settings) error {
	a := analyzer.New(settings,
		clients.GetRedditClient(),
		clients.NewOpenAIGenerator(settings.Generation.Model, settings.Generation.Temperature))

	report, err := a.Run(ctx)
	if err != nil {
		return fmt.Errorf("analyzer run failed: %w", err)
	}

	return deliver(ctx, report)
}

func runScheduled(settings *config.Settings) error {
	c := cron.New()
	_, err := c.AddFunc(cronSchedule, func() {
		if err := runOnce(context.Background(), settings); err != nil {
			slog.Error("Scheduled run failed", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", cronSchedule, err)
	}

	slog.Info("Starting scheduler", slog.String("schedule", cronSchedule))
	c.Start()

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM)
	<-stopChan

	slog.Info("Shutting down scheduler gracefully...")
	<-c.Stop().Done()
	return nil
}

func deliver(ctx context.Context, report *analyzer.Report) error {
	webhookURL := os.Getenv("DISCORD_WEBHOOK_URL")

	if dryRun || webhookURL == "" {
		out, err := json.MarshalIndent(report.Embed, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		fmt.Println(report.Digest)
		return nil
	}

	webhook := clients.NewDiscordWebhook(webhookURL)
	if err := webhook.Send(ctx, models.WebhookPayload{Embeds: []models.Embed{report.Embed}}); err != nil {
		// Delivery failure degrades to the plain-text digest on stdout.
		slog.Error("Failed to deliver notification", slog.String("error", err.Error()))
		fmt.Println(report.Digest)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
