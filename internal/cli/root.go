package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewRootCmd собирает rentalctl
func NewRootCmd(logger *zap.Logger) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "rentalctl",
		Short:        "Rental desk maintenance tool",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		MigrateCmd(logger),
		QuoteCmd(),
		CheckCmd(logger),
		CalendarCmd(logger),
	)

	return rootCmd
}
