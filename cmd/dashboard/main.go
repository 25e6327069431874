package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/BerylCAtieno/gtm-studio/cmd/dashboard/ui"
	"github.com/BerylCAtieno/gtm-studio/internal/config"
	"github.com/BerylCAtieno/gtm-studio/internal/flow"
	"github.com/BerylCAtieno/gtm-studio/internal/logger"
	"github.com/BerylCAtieno/gtm-studio/internal/profiler"
)

var (
	configPath string
	logFile    string
	model      string
)

var rootCmd = &cobra.Command{
	Use:   "gtm-dashboard",
	Short: "GTM Studio terminal dashboard",
	Long: `GTM Studio in the terminal.

Pulse shows pipeline telemetry, Prism generates an Ideal Customer Profile,
Echo critiques creative assets against that profile and Flux shows the lead board.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard()
	},
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to config.yaml (default: ./configs or .)")
	rootCmd.Flags().StringVar(&logFile, "log-file", "gtm-dashboard.log", "file to write logs to while the UI owns the terminal")
	rootCmd.Flags().StringVar(&model, "model", "", "override gemini.model")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load()
}

func runDashboard() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if model != "" {
		cfg.Gemini.Model = model
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// The UI owns stdout, so logs go to a file.
	log, err := logger.NewFile(cfg.Logging.Level, logFile)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	client, err := profiler.NewGeminiClient(cfg.Gemini.APIKey, profiler.GeminiOptions{
		Model:           cfg.Gemini.Model,
		Temperature:     cfg.Gemini.Temperature,
		TopP:            cfg.Gemini.TopP,
		MaxOutputTokens: cfg.Gemini.MaxOutputTokens,
		Timeout:         cfg.Gemini.Timeout,
	})
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gateway := profiler.NewGateway(client, log)
	shell := flow.NewShell(gateway, log)

	log.Info("dashboard starting", "model", client.Model())
	p := tea.NewProgram(ui.New(ctx, shell, log), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}
