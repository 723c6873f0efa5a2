package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/myslide/leavebot/internal/config"
)

func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize Leavebot configuration",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := config.ConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("Config already exists: %s\n", configPath)
		return nil
	}

	cfg := config.DefaultConfig()

	if err := os.MkdirAll(config.ConfigDir(), 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", config.ConfigDir(), err)
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("Leavebot initialized!\n")
	fmt.Printf("Config: %s\n", configPath)
	fmt.Printf("Database: %s\n", cfg.Storage.Path)
	fmt.Printf("\nNext steps:\n")
	fmt.Printf("1. Set LEAVEBOT_TELEGRAM_TOKEN or edit %s\n", configPath)
	fmt.Printf("2. Add your employees under \"directory\" with their Telegram ids\n")
	fmt.Printf("3. Run 'leavebot run' to start the bot\n")

	return nil
}
