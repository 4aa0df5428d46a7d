package cli

import (
	"fmt"
	"os"

	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common"
	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/rental_desk/internal/daterange"
	"github.com/Freeeeeet/rental_desk/internal/reservation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// CalendarCmd рисует ту же картинку занятости, что бот, в PNG-файл
func CalendarCmd(logger *zap.Logger) *cobra.Command {
	var opts remoteOptions

	cmd := &cobra.Command{
		Use:     "calendar",
		Short:   "Render a car availability calendar to a PNG file",
		Example: "  rentalctl calendar --car <car-id> --month 2030-05 --out may.png",
		RunE: func(cmd *cobra.Command, args []string) error {
			carID, _ := cmd.Flags().GetString("car")
			monthFlag, _ := cmd.Flags().GetString("month")
			outPath, _ := cmd.Flags().GetString("out")

			loc, err := opts.location()
			if err != nil {
				return err
			}
			today := daterange.Today(loc)

			if monthFlag == "" {
				monthFlag = keyboard.MonthKey(today.Year(), today.Month())
			}
			year, month, err := keyboard.ParseMonthKey(monthFlag)
			if err != nil {
				return fmt.Errorf("invalid --month: %w", err)
			}
			if outPath == "" {
				outPath = fmt.Sprintf("calendar_%s_%s.png", carID, monthFlag)
			}

			ctx := commandContext(cmd)
			client, err := opts.connect(ctx, logger)
			if err != nil {
				return err
			}

			car, err := client.GetCar(ctx, carID)
			if err != nil {
				return fmt.Errorf("get car: %w", err)
			}
			list, err := client.ListReservations(ctx)
			if err != nil {
				return fmt.Errorf("list reservations: %w", err)
			}

			blocked := reservation.BlockedDays(
				reservation.BlockedPeriods(car.ID, "", list),
				reservation.MonthWindow(year, month),
			)

			png, err := common.GenerateCalendarImage(common.CalendarMonth{
				Title:   car.Title(),
				Year:    year,
				Month:   month,
				Blocked: blocked,
				Today:   today,
			})
			if err != nil {
				return err
			}

			if err := os.WriteFile(outPath, png, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d blocked day(s) in %s, saved to %s\n",
				car.Title(), len(blocked), monthFlag, outPath)
			return nil
		},
	}

	addRemoteFlags(cmd, &opts)
	cmd.Flags().String("car", "", "car id")
	cmd.Flags().String("month", "", "month as YYYY-MM (default current)")
	cmd.Flags().String("out", "", "output file (default calendar_<car>_<month>.png)")
	_ = cmd.MarkFlagRequired("car")

	return cmd
}
