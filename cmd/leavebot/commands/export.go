package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/myslide/leavebot/internal/config"
	"github.com/myslide/leavebot/internal/report"
	"github.com/myslide/leavebot/internal/store"
)

func NewExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export leave requests and suggestions to an Excel workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			st, err := store.Open(cfg.Storage.Path)
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer st.Close()

			if err := report.Write(cmd.Context(), st, output); err != nil {
				return err
			}
			fmt.Printf("Exported to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "leaves.xlsx", "Output file path")
	return cmd
}
