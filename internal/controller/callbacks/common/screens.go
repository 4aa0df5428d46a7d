package common

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/Freeeeeet/rental_desk/internal/service"
	"github.com/go-telegram/bot/models"
)

const (
	reservationsPerPage = 8
	carsPerPage         = 8
	clientsPerPage      = 10
	bookChoicesLimit    = 10
)

// Screen текст сообщения и его кнопки
type Screen struct {
	Text     string
	Keyboard *models.InlineKeyboardMarkup
}

// BuildMainMenuScreen главное меню по роли оператора
func BuildMainMenuScreen(user *model.User) Screen {
	text := fmt.Sprintf("🏠 <b>Главное меню</b>\n\n👤 %s (%s)",
		html.EscapeString(displayName(user)), roleName(user.Role))

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("📊 Панель", DashboardShow)).
		Row(
			keyboard.Button("📋 Бронирования", ReservationsPage+"0"),
			keyboard.Button("➕ Бронь", BookStart),
		).
		Row(
			keyboard.Button("🚗 Парк", CarsPage+"0"),
			keyboard.Button("👥 Клиенты", ClientsPage+"0"),
		)

	if user.Role == model.RoleAdmin {
		kb.Row(
			keyboard.Button("👔 Менеджеры", ManagersList),
			keyboard.Button("📜 Журнал", AuditPage+"0"),
		)
	}

	return Screen{Text: text, Keyboard: kb.Build()}
}

// BuildManagerDashboardScreen панель менеджера
func BuildManagerDashboardScreen(user *model.User, d *service.ManagerDashboard) Screen {
	s := d.Stats

	var b strings.Builder
	fmt.Fprintf(&b, "📊 <b>Панель менеджера</b>\n👤 %s\n\n", html.EscapeString(displayName(user)))
	fmt.Fprintf(&b, "🚗 Машин: %d (свободно %d, в аренде %d, на обслуживании %d)\n",
		s.TotalCars, s.AvailableCars, s.RentedCars, s.MaintenanceCars)
	fmt.Fprintf(&b, "👥 Клиентов: %d\n", s.TotalClients)
	fmt.Fprintf(&b, "📋 Активных броней: %d, ожидают подтверждения: %d\n", s.ActiveReservations, s.PendingReservations)
	fmt.Fprintf(&b, "💰 Выручка за месяц: %s\n", formatting.FormatMoney(s.MonthlyRevenue))

	if len(d.RecentReservations) > 0 {
		b.WriteString("\n<b>Последние бронирования</b>\n")
		for _, r := range d.RecentReservations {
			status := formatting.GetReservationStatusDisplay(r.Status)
			fmt.Fprintf(&b, "%s %s, %s, с %s\n", status.Emoji,
				html.EscapeString(r.ClientName), html.EscapeString(r.CarModel), html.EscapeString(r.StartDate))
		}
	}

	if len(d.RecentClients) > 0 {
		b.WriteString("\n<b>Новые клиенты</b>\n")
		for _, c := range d.RecentClients {
			fmt.Fprintf(&b, "• %s\n", html.EscapeString(c.Name))
		}
	}

	kb := keyboard.NewBuilder().
		Row(
			keyboard.Button("📋 Бронирования", ReservationsPage+"0"),
			keyboard.Button("➕ Бронь", BookStart),
		).
		Row(keyboard.Button("🔄 Обновить", DashboardShow)).
		AddBackToMainButton()

	return Screen{Text: b.String(), Keyboard: kb.Build()}
}

// BuildAdminDashboardScreen панель администратора
func BuildAdminDashboardScreen(user *model.User, d *service.AdminDashboard, loc *time.Location) Screen {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 <b>Панель администратора</b>\n👤 %s\n\n", html.EscapeString(displayName(user)))
	fmt.Fprintf(&b, "👔 Менеджеров: %d\n", d.Stats.TotalManagers)
	fmt.Fprintf(&b, "👥 Пользователей системы: %d\n", d.Stats.TotalSystemUsers)

	b.WriteString("\n<b>Последние действия</b>\n")
	if len(d.Activities) == 0 {
		b.WriteString("пока ничего\n")
	}
	for _, a := range d.Activities {
		fmt.Fprintf(&b, "• %s <i>%s</i>\n", html.EscapeString(a.Message), formatting.FormatDateTime(a.At, loc))
	}

	kb := keyboard.NewBuilder().
		Row(
			keyboard.Button("👔 Менеджеры", ManagersList),
			keyboard.Button("📜 Журнал", AuditPage+"0"),
		).
		Row(keyboard.Button("🔄 Обновить", DashboardShow)).
		AddBackToMainButton()

	return Screen{Text: b.String(), Keyboard: kb.Build()}
}

// BuildReservationsScreen список бронирований постранично
func BuildReservationsScreen(list []model.Reservation, page int) Screen {
	items, page, totalPages := keyboard.Paginate(list, page, reservationsPerPage)

	kb := keyboard.NewBuilder()
	if len(items) == 0 {
		kb.Row(keyboard.Button("➕ Новое бронирование", BookStart)).AddBackToMainButton()
		return Screen{Text: "📋 Бронирований пока нет", Keyboard: kb.Build()}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 <b>Бронирования</b> (%s)\n\n", formatting.Reservations(len(list)))
	for _, r := range items {
		b.WriteString(html.EscapeString(formatting.ReservationLine(r)))
		b.WriteString("\n")
		kb.Row(keyboard.Button(formatting.ReservationButton(r), ReservationView+r.ID))
	}

	kb.AddPagination(ReservationsPage, page, totalPages).
		Row(keyboard.Button("➕ Новое бронирование", BookStart)).
		AddBackToMainButton()

	return Screen{Text: b.String(), Keyboard: kb.Build()}
}

// BuildReservationScreen карточка бронирования с действиями
func BuildReservationScreen(r model.Reservation, car *model.Car, client *model.Client, loc *time.Location, canChangeStatus bool) Screen {
	kb := keyboard.NewBuilder()
	if canChangeStatus {
		kb.Row(keyboard.Button("🔄 Сменить статус", ReservationStatus+r.ID))
	}
	kb.Row(
		keyboard.EditButton("Даты", ReservationDates+r.ID),
		keyboard.EditButton("Заметки", ReservationNotes+r.ID),
	).
		Row(keyboard.Button("🗓 Занятость машины", fmt.Sprintf("%s%s:%s",
			ReservationCal, r.ID, keyboard.MonthKey(r.StartDate.Year(), r.StartDate.Month())))).
		Row(keyboard.DeleteButton(ReservationDelete + r.ID)).
		AddBackButton(ReservationsPage + "0")

	return Screen{
		Text:     formatting.ReservationCard(r, car, client, loc),
		Keyboard: kb.Build(),
	}
}

// BuildStatusScreen выбор нового статуса. Кнопка несёт индекс в targets.
func BuildStatusScreen(r model.Reservation, targets []model.ReservationStatus) Screen {
	current := formatting.GetReservationStatusDisplay(r.Status)
	text := fmt.Sprintf("🔄 <b>%s</b>\n\nТекущий статус: %s\nВыберите новый статус:",
		html.EscapeString(r.ReservationNumber), current)

	kb := keyboard.NewBuilder()
	for i, s := range targets {
		label := formatting.GetReservationStatusDisplay(s).String()
		if s == r.Status {
			label = "• " + label
		}
		kb.Row(keyboard.Button(label, fmt.Sprintf("%s%s:%d", ReservationSetSt, r.ID, i)))
	}
	kb.AddBackButton(ReservationView + r.ID)

	return Screen{Text: text, Keyboard: kb.Build()}
}

// BuildDeleteReservationScreen подтверждение удаления
func BuildDeleteReservationScreen(r model.Reservation) Screen {
	text := fmt.Sprintf("🗑 Удалить бронирование <b>%s</b>?\n\n%s\n\nДействие необратимо.",
		html.EscapeString(r.ReservationNumber), html.EscapeString(formatting.ReservationLine(r)))

	kb := keyboard.NewBuilder().
		Row(keyboard.ConfirmCancelRow(ReservationDelOK+r.ID, ReservationView+r.ID)...)

	return Screen{Text: text, Keyboard: kb.Build()}
}

// BuildCarsScreen парк машин; кнопка открывает карточку машины
func BuildCarsScreen(cars []model.Car, page int, canManage bool) Screen {
	items, page, totalPages := keyboard.Paginate(cars, page, carsPerPage)

	kb := keyboard.NewBuilder()
	if len(items) == 0 {
		if canManage {
			kb.Row(keyboard.Button("➕ Добавить машину", CarAdd))
		}
		return Screen{Text: "🚗 В парке нет машин", Keyboard: kb.AddBackToMainButton().Build()}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🚗 <b>Парк</b> (%d)\n\n", len(cars))
	for _, c := range items {
		status := formatting.GetCarStatusDisplay(c.Status)
		fmt.Fprintf(&b, "%s %s, %d · %s\n", status.Emoji,
			html.EscapeString(c.Title()), c.Year, formatting.FormatRate(c.DailyRate))
		kb.Row(keyboard.Button(status.Emoji+" "+c.Title(), CarView+c.ID))
	}
	b.WriteString("\nНажмите на машину, чтобы открыть карточку.")

	kb.AddPagination(CarsPage, page, totalPages)
	if canManage {
		kb.Row(keyboard.Button("➕ Добавить машину", CarAdd))
	}
	kb.AddBackToMainButton()
	return Screen{Text: b.String(), Keyboard: kb.Build()}
}

// BuildCarScreen карточка машины; правка и удаление только для администратора
func BuildCarScreen(car model.Car, month string, canManage bool, loc *time.Location) Screen {
	kb := keyboard.NewBuilder().
		Row(keyboard.Button("🗓 Занятость", CarCalendar+car.ID+":"+month))
	if canManage {
		kb.Row(
			keyboard.EditButton("Изменить", CarEdit+car.ID),
			keyboard.Button("🔄 Статус", CarStatusMenu+car.ID),
		).
			Row(keyboard.DeleteButton(CarDelete + car.ID))
	}
	kb.AddBackButton(CarsPage + "0")

	return Screen{Text: formatting.CarCard(car, loc), Keyboard: kb.Build()}
}

// BuildCarStatusScreen выбор статуса машины. Кнопка несёт индекс в model.CarStatuses.
func BuildCarStatusScreen(car model.Car) Screen {
	text := fmt.Sprintf("🔄 <b>%s</b>\n\nТекущий статус: %s\nВыберите новый статус:",
		html.EscapeString(car.Title()), formatting.GetCarStatusDisplay(car.Status))

	kb := keyboard.NewBuilder()
	for i, st := range model.CarStatuses {
		label := formatting.GetCarStatusDisplay(st).String()
		if st == car.Status {
			label = "• " + label
		}
		kb.Row(keyboard.Button(label, fmt.Sprintf("%s%s:%d", CarSetStatus, car.ID, i)))
	}
	kb.AddBackButton(CarView + car.ID)

	return Screen{Text: text, Keyboard: kb.Build()}
}

// BuildDeleteCarScreen подтверждение удаления машины
func BuildDeleteCarScreen(car model.Car) Screen {
	text := fmt.Sprintf("🗑 Удалить машину <b>%s</b>?\n\nБронирования этой машины останутся в истории. Действие необратимо.",
		html.EscapeString(car.Title()))

	kb := keyboard.NewBuilder().
		Row(keyboard.ConfirmCancelRow(CarDeleteOK+car.ID, CarView+car.ID)...)

	return Screen{Text: text, Keyboard: kb.Build()}
}

// BuildClientsScreen список клиентов (или результат поиска)
func BuildClientsScreen(clients []model.Client, page int, query string) Screen {
	items, page, totalPages := keyboard.Paginate(clients, page, clientsPerPage)

	var b strings.Builder
	if query != "" {
		fmt.Fprintf(&b, "🔎 Поиск «%s»: найдено %d\n\n", html.EscapeString(query), len(clients))
	} else {
		fmt.Fprintf(&b, "👥 <b>Клиенты</b> (%d)\n\n", len(clients))
	}
	if len(items) == 0 {
		b.WriteString("Никого не нашлось.")
	}

	kb := keyboard.NewBuilder()
	for _, c := range items {
		fmt.Fprintf(&b, "• %s, %s, %s\n", html.EscapeString(c.FullName()),
			html.EscapeString(c.Phone), html.EscapeString(c.Email))
		kb.Row(keyboard.Button("👤 "+c.FullName(), ClientView+c.ID))
	}

	if query == "" {
		kb.AddPagination(ClientsPage, page, totalPages)
	}
	kb.Row(
		keyboard.Button("🔎 Поиск", ClientSearch),
		keyboard.Button("➕ Добавить", ClientAdd),
	).AddBackToMainButton()

	return Screen{Text: b.String(), Keyboard: kb.Build()}
}

// BuildClientScreen карточка клиента; удаление только для администратора
func BuildClientScreen(client model.Client, canDelete bool, loc *time.Location) Screen {
	kb := keyboard.NewBuilder().
		Row(keyboard.EditButton("Изменить", ClientEdit+client.ID))
	if canDelete {
		kb.Row(keyboard.DeleteButton(ClientDelete + client.ID))
	}
	kb.AddBackButton(ClientsPage + "0")

	return Screen{Text: formatting.ClientCard(client, loc), Keyboard: kb.Build()}
}

// BuildDeleteClientScreen подтверждение удаления клиента
func BuildDeleteClientScreen(client model.Client) Screen {
	text := fmt.Sprintf("🗑 Удалить клиента <b>%s</b> (%s)?\n\nДействие необратимо.",
		html.EscapeString(client.FullName()), html.EscapeString(client.Email))

	kb := keyboard.NewBuilder().
		Row(keyboard.ConfirmCancelRow(ClientDeleteOK+client.ID, ClientView+client.ID)...)

	return Screen{Text: text, Keyboard: kb.Build()}
}

// BuildAuditScreen страница журнала; page с нуля
func BuildAuditScreen(result *model.AuditLogPage, page int, loc *time.Location) Screen {
	var b strings.Builder
	fmt.Fprintf(&b, "📜 <b>Журнал действий</b> (всего %d)\n\n", result.Total)
	if len(result.Logs) == 0 {
		b.WriteString("Записей нет.")
	}
	for _, log := range result.Logs {
		mark := "•"
		if log.Status != "" && log.Status != "success" {
			mark = "⚠️"
		}
		fmt.Fprintf(&b, "%s <i>%s</i> %s\n", mark, formatting.FormatDateTime(log.Timestamp, loc),
			html.EscapeString(service.ActivityMessage(log)))
	}

	kb := keyboard.NewBuilder().
		AddPagination(AuditPage, page, result.TotalPages).
		AddBackToMainButton()

	return Screen{Text: b.String(), Keyboard: kb.Build()}
}

// BuildManagersScreen список менеджеров с действиями
func BuildManagersScreen(managers []model.Manager) Screen {
	var b strings.Builder
	fmt.Fprintf(&b, "👔 <b>Менеджеры</b> (%d)\n\n", len(managers))
	if len(managers) == 0 {
		b.WriteString("Менеджеров пока нет.")
	}

	kb := keyboard.NewBuilder()
	for _, m := range managers {
		fmt.Fprintf(&b, "• %s (@%s)\n", html.EscapeString(m.FullName), html.EscapeString(m.Username))
		kb.Row(
			keyboard.Button("🔑 "+m.Username, ManagerResetPass+m.ID),
			keyboard.Button("🗑", ManagerDelete+m.ID),
		)
	}

	kb.Row(keyboard.Button("➕ Добавить менеджера", ManagerAdd)).AddBackToMainButton()
	return Screen{Text: b.String(), Keyboard: kb.Build()}
}

// BuildDeleteManagerScreen подтверждение удаления менеджера
func BuildDeleteManagerScreen(m model.Manager) Screen {
	text := fmt.Sprintf("🗑 Удалить менеджера <b>%s</b> (@%s)?",
		html.EscapeString(m.FullName), html.EscapeString(m.Username))

	kb := keyboard.NewBuilder().
		Row(keyboard.ConfirmCancelRow(ManagerDeleteOK+m.ID, ManagersList)...)

	return Screen{Text: text, Keyboard: kb.Build()}
}

// BuildBookCarScreen первый шаг бронирования: свободные машины
func BuildBookCarScreen(cars []model.Car) Screen {
	kb := keyboard.NewBuilder()
	if len(cars) == 0 {
		kb.Row(keyboard.CancelButton(BookCancel))
		return Screen{Text: "🚗 Нет свободных машин", Keyboard: kb.Build()}
	}

	for _, c := range cars {
		kb.Row(keyboard.Button(fmt.Sprintf("%s · %s", c.Title(), formatting.FormatRate(c.DailyRate)), BookCar+c.ID))
	}
	kb.Row(keyboard.CancelButton(BookCancel))

	return Screen{Text: "➕ <b>Новое бронирование</b>\n\nШаг 1: выберите машину", Keyboard: kb.Build()}
}

// BuildBookClientScreen выбор клиента из результатов поиска
func BuildBookClientScreen(clients []model.Client, query string) Screen {
	kb := keyboard.NewBuilder()
	if len(clients) > bookChoicesLimit {
		clients = clients[:bookChoicesLimit]
	}
	for _, c := range clients {
		kb.Row(keyboard.Button(c.FullName()+" · "+c.Phone, BookClient+c.ID))
	}
	kb.Row(keyboard.CancelButton(BookCancel))

	text := fmt.Sprintf("🔎 «%s»\n\nВыберите клиента или отправьте другой запрос:", html.EscapeString(query))
	if len(clients) == 0 {
		text = fmt.Sprintf("🔎 По запросу «%s» никого нет. Попробуйте ещё раз:", html.EscapeString(query))
	}
	return Screen{Text: text, Keyboard: kb.Build()}
}

// BuildBookConfirmScreen предпросмотр перед созданием
func BuildBookConfirmScreen(preview string, client model.Client, paid model.Money, notes string) Screen {
	var b strings.Builder
	b.WriteString("➕ <b>Проверьте бронирование</b>\n\n")
	fmt.Fprintf(&b, "👤 %s\n", html.EscapeString(client.FullName()))
	b.WriteString(preview)
	fmt.Fprintf(&b, "\n\n💵 Оплачено: %s", formatting.FormatMoney(paid))
	if notes != "" {
		fmt.Fprintf(&b, "\n📝 %s", html.EscapeString(notes))
	}

	kb := keyboard.NewBuilder().
		Row(keyboard.ConfirmCancelRow(BookConfirm, BookCancel)...)

	return Screen{Text: b.String(), Keyboard: kb.Build()}
}

// CalendarKeyboard листание месяцев под картинкой календаря
func CalendarKeyboard(prefix string, year int, month time.Month, back string) *models.InlineKeyboardMarkup {
	title := formatting.MonthName(month) + fmt.Sprintf(" %d", year)
	return keyboard.NewBuilder().
		Row(keyboard.MonthPagination(prefix, year, month, title)...).
		AddBackButton(back).
		Build()
}

func displayName(user *model.User) string {
	if user.FullName != "" {
		return user.FullName
	}
	return user.Username
}

func roleName(role model.Role) string {
	if role == model.RoleAdmin {
		return "администратор"
	}
	return "менеджер"
}
