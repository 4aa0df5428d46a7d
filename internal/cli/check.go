package cli

import (
	"errors"
	"fmt"

	"github.com/Freeeeeet/rental_desk/internal/daterange"
	"github.com/Freeeeeet/rental_desk/internal/reservation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// CheckCmd проверяет период для машины по актуальному списку бронирований
func CheckCmd(logger *zap.Logger) *cobra.Command {
	var opts remoteOptions

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check whether a car is free for a period",
		Example: "  RENTAL_PASSWORD=... rentalctl check --car <car-id> --from 2030-05-01 --to 2030-05-05\n" +
			"  rentalctl check --car <car-id> --from 2030-05-01 --to 2030-05-07 --exclude <reservation-id>",
		RunE: func(cmd *cobra.Command, args []string) error {
			carID, _ := cmd.Flags().GetString("car")
			from, _ := cmd.Flags().GetString("from")
			to, _ := cmd.Flags().GetString("to")
			excludeID, _ := cmd.Flags().GetString("exclude")

			loc, err := opts.location()
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)
			client, err := opts.connect(ctx, logger)
			if err != nil {
				return err
			}

			list, err := client.ListReservations(ctx)
			if err != nil {
				return fmt.Errorf("list reservations: %w", err)
			}

			var originalFrom *daterange.Date
			if excludeID != "" {
				found := false
				for _, r := range list {
					if r.ID == excludeID {
						start := r.StartDate
						originalFrom = &start
						found = true
						break
					}
				}
				if !found {
					return fmt.Errorf("reservation %q not found", excludeID)
				}
			}

			out := cmd.OutOrStdout()
			blocked := reservation.BlockedPeriods(carID, excludeID, list)
			fmt.Fprintf(out, "blocked periods for car %s: %d\n", carID, len(blocked))
			for _, p := range blocked {
				fmt.Fprintf(out, "  %s\n", p)
			}

			period, err := reservation.Validate(reservation.Check{
				From:         from,
				To:           to,
				Blocked:      blocked,
				Today:        daterange.Today(loc),
				OriginalFrom: originalFrom,
			})
			if err != nil {
				if conflict, ok := reservation.ConflictOf(err); ok {
					fmt.Fprintf(out, "conflict with %s\n", conflict)
				}
				return err
			}

			fmt.Fprintf(out, "ok: %s (%d day(s)) is free\n", period, period.Days())
			return nil
		},
	}

	addRemoteFlags(cmd, &opts)
	cmd.Flags().String("car", "", "car id")
	cmd.Flags().String("from", "", "first rental day (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "last rental day (YYYY-MM-DD)")
	cmd.Flags().String("exclude", "", "reservation being edited, its own period is ignored")
	_ = cmd.MarkFlagRequired("car")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

// IsConflict ошибка check из-за пересечения, а не из-за сбоя
func IsConflict(err error) bool {
	return errors.Is(err, reservation.ErrDateConflict)
}
