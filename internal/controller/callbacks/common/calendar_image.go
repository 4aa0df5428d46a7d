package common

import (
	"bytes"
	"fmt"
	"image/color"
	"strconv"
	"sync"
	"time"

	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/rental_desk/internal/daterange"
	"github.com/Freeeeeet/rental_desk/internal/reservation"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Константы размеров и отступов
const (
	calendarWidth   = 770
	calendarHeight  = 660
	calendarHeader  = 100
	weekdayRowH     = 40
	legendRowH      = 50
	calendarPadding = 15
	calendarRows    = 6
	daysInWeek      = 7
	cellInset       = 3.0
	cellRadius      = 8.0
)

// Константы шрифтов
const (
	titleFontSize   = 26.0
	subtitleSize    = 18.0
	weekdayFontSize = 18.0
	dayFontSize     = 26.0
	legendFontSize  = 15.0
)

// Цветовая схема
var (
	calendarBgColor = color.RGBA{245, 246, 248, 255}
	titleColor      = color.RGBA{60, 64, 70, 255}
	subtitleColor   = color.RGBA{110, 115, 120, 255}
	weekdayColor    = color.RGBA{110, 115, 120, 255}
	weekendColor    = color.RGBA{200, 70, 70, 255}

	freeDayColor    = color.RGBA{102, 187, 106, 255}
	blockedDayColor = color.RGBA{229, 83, 80, 255}
	pastDayColor    = color.RGBA{205, 208, 212, 255}
	dayTextColor    = color.RGBA{255, 255, 255, 255}
	pastTextColor   = color.RGBA{120, 124, 130, 255}
	todayRingColor  = color.RGBA{40, 44, 52, 255}
)

// CalendarMonth данные для картинки занятости машины за месяц
type CalendarMonth struct {
	Title   string
	Year    int
	Month   time.Month
	Blocked map[daterange.Date]bool
	Today   daterange.Date
}

var (
	fontsOnce   sync.Once
	regularFont *opentype.Font
	boldFont    *opentype.Font
)

func parseFonts() {
	fontsOnce.Do(func() {
		if f, err := opentype.Parse(goregular.TTF); err == nil {
			regularFont = f
		}
		if f, err := opentype.Parse(gobold.TTF); err == nil {
			boldFont = f
		}
	})
}

// setFont выбирает шрифт нужного размера, basicfont если шрифт не разобрался
func setFont(dc *gg.Context, size float64, bold bool) {
	parseFonts()

	f := regularFont
	if bold {
		f = boldFont
	}
	if f == nil {
		dc.SetFontFace(basicfont.Face7x13)
		return
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		dc.SetFontFace(basicfont.Face7x13)
		return
	}
	dc.SetFontFace(face)
}

// GenerateCalendarImage рисует месяц: занятые дни красные, свободные зелёные,
// прошедшие серые, сегодня обведено
func GenerateCalendarImage(cal CalendarMonth) ([]byte, error) {
	window := reservation.MonthWindow(cal.Year, cal.Month)
	offset := mondayOffset(window.From.Weekday())

	dc := gg.NewContext(calendarWidth, calendarHeight)
	dc.SetColor(calendarBgColor)
	dc.Clear()

	drawCalendarHeader(dc, cal)
	drawWeekdays(dc)

	for day := window.From; !day.After(window.To); day = day.AddDays(1) {
		drawDayCell(dc, offset+day.Day()-1, day, cal)
	}

	drawCalendarLegend(dc)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}

// mondayOffset номер колонки дня недели, неделя начинается с понедельника
func mondayOffset(w time.Weekday) int {
	return (int(w) + 6) % daysInWeek
}

func cellSize() (float64, float64) {
	w := float64(calendarWidth-2*calendarPadding) / daysInWeek
	h := float64(calendarHeight-calendarHeader-weekdayRowH-legendRowH-calendarPadding) / calendarRows
	return w, h
}

// cellBounds левый верхний угол и размер клетки с порядковым номером index
func cellBounds(index int) (x, y, w, h float64) {
	w, h = cellSize()
	row, col := index/daysInWeek, index%daysInWeek
	x = calendarPadding + float64(col)*w
	y = calendarHeader + weekdayRowH + float64(row)*h
	return x, y, w, h
}

func drawCalendarHeader(dc *gg.Context, cal CalendarMonth) {
	title := formatting.MonthName(cal.Month) + " " + strconv.Itoa(cal.Year)

	setFont(dc, titleFontSize, true)
	dc.SetColor(titleColor)
	dc.DrawStringAnchored(title, calendarWidth/2, calendarHeader*0.35, 0.5, 0.5)

	if cal.Title != "" {
		setFont(dc, subtitleSize, false)
		dc.SetColor(subtitleColor)
		dc.DrawStringAnchored(cal.Title, calendarWidth/2, calendarHeader*0.75, 0.5, 0.5)
	}
}

func drawWeekdays(dc *gg.Context) {
	setFont(dc, weekdayFontSize, true)
	w, _ := cellSize()

	for col := 0; col < daysInWeek; col++ {
		weekday := time.Weekday((col + 1) % daysInWeek)
		if weekday == time.Saturday || weekday == time.Sunday {
			dc.SetColor(weekendColor)
		} else {
			dc.SetColor(weekdayColor)
		}
		x := calendarPadding + float64(col)*w + w/2
		dc.DrawStringAnchored(formatting.WeekdayShort(weekday), x, calendarHeader+weekdayRowH/2, 0.5, 0.5)
	}
}

func drawDayCell(dc *gg.Context, index int, day daterange.Date, cal CalendarMonth) {
	x, y, w, h := cellBounds(index)

	past := !cal.Today.IsZero() && day.Before(cal.Today)
	fill, text := freeDayColor, dayTextColor
	switch {
	case cal.Blocked[day]:
		fill = blockedDayColor
	case past:
		fill, text = pastDayColor, pastTextColor
	}

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x+cellInset, y+cellInset, w-2*cellInset, h-2*cellInset, cellRadius)
	dc.Fill()

	if day.Equal(cal.Today) {
		dc.SetColor(todayRingColor)
		dc.SetLineWidth(4)
		dc.DrawRoundedRectangle(x+cellInset, y+cellInset, w-2*cellInset, h-2*cellInset, cellRadius)
		dc.Stroke()
	}

	setFont(dc, dayFontSize, true)
	dc.SetColor(text)
	dc.DrawStringAnchored(strconv.Itoa(day.Day()), x+w/2, y+h/2, 0.5, 0.5)
}

func drawCalendarLegend(dc *gg.Context) {
	items := []struct {
		label string
		clr   color.Color
	}{
		{"Свободно", freeDayColor},
		{"Занято", blockedDayColor},
		{"Прошло", pastDayColor},
	}

	setFont(dc, legendFontSize, false)
	x := float64(calendarPadding) + 10
	y := float64(calendarHeight-legendRowH) + 10

	for _, item := range items {
		dc.SetColor(item.clr)
		dc.DrawRoundedRectangle(x, y, 22, 16, 3)
		dc.Fill()

		dc.SetColor(subtitleColor)
		dc.DrawStringAnchored(item.label, x+30, y+8, 0, 0.5)
		w, _ := dc.MeasureString(item.label)
		x += 30 + w + 30
	}
}
