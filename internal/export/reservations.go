// Package export выгрузка бронирований в XLSX.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/xuri/excelize/v2"
)

// SheetName лист с бронированиями
const SheetName = "Бронирования"

var headers = []string{
	"Номер", "Машина", "Госномер", "Клиент", "Телефон",
	"Начало", "Конец", "Дней", "Статус",
	"Расчётная стоимость", "Итоговая стоимость", "Оплачено", "Остаток", "Заметки",
}

// Lookup справочники для подстановки названий машин и имён клиентов
type Lookup struct {
	Cars    map[string]model.Car
	Clients map[string]model.Client
}

// WriteReservations пишет книгу с одним листом в w
func WriteReservations(w io.Writer, reservations []model.Reservation, lookup Lookup) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(SheetName, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, r := range reservations {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetName, cell, &[]interface{}{
			r.ReservationNumber,
			carTitle(r, lookup),
			plate(r, lookup),
			clientName(r, lookup),
			clientPhone(r, lookup),
			r.StartDate.String(),
			r.EndDate.String(),
			r.Period().Days(),
			r.Status.Label(),
			r.EstimatedTotalCost.Float(),
			finalCost(r),
			r.PaymentDetails.AmountPaid.Float(),
			r.PaymentDetails.RemainingBalance.Float(),
			r.Notes,
		}); err != nil {
			return fmt.Errorf("write reservation %s: %w", r.ReservationNumber, err)
		}
	}

	if len(reservations) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(headers), len(reservations)+1)
		if err := f.AutoFilter(SheetName, "A1:"+last, nil); err != nil {
			return fmt.Errorf("set auto filter: %w", err)
		}
	}

	_ = f.SetColWidth(SheetName, "B", "D", 24)
	_ = f.SetColWidth(SheetName, "J", "M", 18)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func carTitle(r model.Reservation, lookup Lookup) string {
	if car, ok := lookup.Cars[r.CarID]; ok {
		return car.Make + " " + car.Model
	}
	if r.CarDetails != nil {
		return strings.TrimSpace(r.CarDetails.Make + " " + r.CarDetails.Model)
	}
	return r.CarID
}

func plate(r model.Reservation, lookup Lookup) string {
	if car, ok := lookup.Cars[r.CarID]; ok {
		return car.LicensePlate
	}
	if r.CarDetails != nil {
		return r.CarDetails.LicensePlate
	}
	return ""
}

func clientName(r model.Reservation, lookup Lookup) string {
	if c, ok := lookup.Clients[r.ClientID]; ok {
		return c.FullName()
	}
	if r.ClientDetails != nil {
		return strings.TrimSpace(r.ClientDetails.FirstName + " " + r.ClientDetails.LastName)
	}
	return r.ClientID
}

func clientPhone(r model.Reservation, lookup Lookup) string {
	if c, ok := lookup.Clients[r.ClientID]; ok {
		return c.Phone
	}
	if r.ClientDetails != nil {
		return r.ClientDetails.Phone
	}
	return ""
}

// пустая ячейка, пока аренда не завершена
func finalCost(r model.Reservation) interface{} {
	if r.FinalTotalCost == nil {
		return ""
	}
	return r.FinalTotalCost.Float()
}
