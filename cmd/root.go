package cmd

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kataras/golog"
	"github.com/spf13/cobra"

	"github.com/hstiawan/visit-tracker/internal/app"
	"github.com/hstiawan/visit-tracker/internal/model"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "visit-tracker",
	Short: "Terminal client for caregiver visit tracking",
	Long: `visit-tracker is a terminal client for caregivers: today's
schedule, clock-in and clock-out with location capture, and per-visit
task checklists.

Run without a subcommand to open the interactive dashboard.`,
	RunE: runTUI,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&configPath, "config", model.DefaultConfigPath(),
		"path to the configuration file",
	)

	rootCmd.AddCommand(schedulesCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(clockInCmd)
	rootCmd.AddCommand(clockOutCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig reads the configuration for any command.
func loadConfig() (*model.AppConfig, error) {
	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf(
			"api.base_url is not set; edit %s or set VISIT_TRACKER_API_BASE_URL",
			configPath,
		)
	}
	return cfg, nil
}

// newLogger builds the application logger. Interactive mode must not
// write to the terminal, so without a log file everything is dropped.
func newLogger(cfg model.LogConfig, interactive bool) *golog.Logger {
	log := golog.New()
	log.SetLevel(cfg.Level)

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err == nil {
			log.SetOutput(f)
			return log
		}
		fmt.Fprintf(os.Stderr, "cannot open log file %s: %v\n", cfg.File, err)
	}

	if interactive {
		log.SetOutput(io.Discard)
	} else {
		log.SetOutput(os.Stderr)
	}
	return log
}

// runTUI opens the interactive dashboard.
func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg.Log, true)

	m, err := app.New(cfg, log)
	if err != nil {
		return err
	}
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus())
	_, err = p.Run()
	return err
}
