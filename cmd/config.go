package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hstiawan/visit-tracker/internal/model"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Write a starter configuration file",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")
}

func runConfig(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(configPath); err == nil && !configForce {
		return fmt.Errorf("%s already exists; use --force to overwrite", configPath)
	}

	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if err := model.SaveConfig(configPath, cfg); err != nil {
		return err
	}

	fmt.Printf("wrote %s\n", configPath)
	fmt.Println("set api.base_url before running the client")
	return nil
}
