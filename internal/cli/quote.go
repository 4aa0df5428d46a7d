package cli

import (
	"fmt"

	"github.com/Freeeeeet/rental_desk/internal/daterange"
	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/Freeeeeet/rental_desk/internal/reservation"
	"github.com/spf13/cobra"
)

// QuoteCmd предварительная стоимость аренды без обращения к бэкенду
func QuoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "quote",
		Short:   "Estimate the cost of a rental period",
		Example: "  rentalctl quote --rate 250 --from 2030-05-01 --to 2030-05-05",
		RunE: func(cmd *cobra.Command, args []string) error {
			rateFlag, _ := cmd.Flags().GetString("rate")
			fromFlag, _ := cmd.Flags().GetString("from")
			toFlag, _ := cmd.Flags().GetString("to")

			rate, err := model.ParseMoney(rateFlag)
			if err != nil {
				return fmt.Errorf("invalid --rate: %w", err)
			}
			if rate < 0 {
				return fmt.Errorf("invalid --rate: must not be negative")
			}

			from, err := daterange.Parse(fromFlag)
			if err != nil {
				return fmt.Errorf("invalid --from: %w", err)
			}
			to, err := daterange.Parse(toFlag)
			if err != nil {
				return fmt.Errorf("invalid --to: %w", err)
			}

			period, err := daterange.NewRange(from, to)
			if err != nil {
				return err
			}
			total, err := reservation.EstimateCost(rate, from, to)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d day(s) x %s = %s\n", period, period.Days(), rate, total)
			return nil
		},
	}

	cmd.Flags().String("rate", "", "daily rate, e.g. 250 or 250.50")
	cmd.Flags().String("from", "", "first rental day (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "last rental day (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("rate")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
