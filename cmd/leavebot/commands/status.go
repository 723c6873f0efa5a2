package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/myslide/leavebot/internal/config"
	"github.com/myslide/leavebot/internal/store"
)

func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show Leavebot configuration and queue status",
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println("=== Leavebot Status ===")
	fmt.Println()

	fmt.Printf("Config: %s\n", config.ConfigPath())
	if _, err := os.Stat(config.ConfigPath()); err == nil {
		fmt.Println("  Status: OK")
	} else {
		fmt.Println("  Status: Not found (run 'leavebot init')")
	}

	fmt.Printf("\nTelegram token: ")
	if cfg.Telegram.Token != "" {
		fmt.Println("Configured")
	} else {
		fmt.Println("Not configured")
	}

	fmt.Printf("\nDatabase: %s\n", cfg.Storage.Path)
	st, err := store.Open(cfg.Storage.Path)
	if err != nil {
		fmt.Printf("  Status: %v\n", err)
		return nil
	}
	defer st.Close()

	ctx := cmd.Context()
	pendingFD, err := st.ListFullDay(ctx, store.StatusPending)
	if err != nil {
		return fmt.Errorf("querying full-day requests: %w", err)
	}
	pendingH, err := st.ListHourly(ctx, store.StatusPending)
	if err != nil {
		return fmt.Errorf("querying hourly requests: %w", err)
	}
	users, err := st.ListUsers(ctx, "")
	if err != nil {
		return fmt.Errorf("querying users: %w", err)
	}
	fmt.Printf("  Pending full-day requests: %d\n", len(pendingFD))
	fmt.Printf("  Pending hourly requests: %d\n", len(pendingH))
	fmt.Printf("  Directory users: %d\n", len(users))

	fmt.Printf("\nReminders: ")
	if cfg.Reminder.Enabled {
		fmt.Printf("Enabled (%s)\n", cfg.Reminder.Cron)
	} else {
		fmt.Println("Disabled")
	}

	fmt.Printf("Gateway: ")
	if cfg.Gateway.Enabled {
		fmt.Printf("Enabled (%s:%d)\n", cfg.Gateway.Host, cfg.Gateway.Port)
	} else {
		fmt.Println("Disabled")
	}

	return nil
}
