package common

// Форматы callback data. Telegram ограничивает их 64 байтами,
// поэтому статус передаётся индексом в списке допустимых переходов.
const (
	BackToMain    = "back_to_main"
	Noop          = "noop"
	DashboardShow = "dashboard"

	// Бронирования
	ReservationsPage  = "res_page:"       // res_page:0
	ReservationView   = "res_view:"       // res_view:<id>
	ReservationStatus = "res_statuses:"   // res_statuses:<id>
	ReservationSetSt  = "res_st:"         // res_st:<id>:<index>
	ReservationDates  = "res_edit_dates:" // res_edit_dates:<id>
	ReservationNotes  = "res_edit_notes:" // res_edit_notes:<id>
	ReservationCal    = "res_cal:"        // res_cal:<id>:2030-05
	ReservationDelete = "res_delete:"     // res_delete:<id>
	ReservationDelOK  = "res_delete_ok:"  // res_delete_ok:<id>

	// Новое бронирование
	BookStart   = "book_start"
	BookCar     = "book_car:"    // book_car:<carID>
	BookClient  = "book_client:" // book_client:<clientID>
	BookConfirm = "book_confirm"
	BookCancel  = "book_cancel"

	// Парк
	CarsPage      = "cars_page:" // cars_page:0
	CarView       = "car_view:"  // car_view:<id>
	CarCalendar   = "car_cal:"   // car_cal:<id>:2030-05
	CarAdd        = "car_add"
	CarEdit       = "car_edit:"      // car_edit:<id>
	CarStatusMenu = "car_statuses:"  // car_statuses:<id>
	CarSetStatus  = "car_st:"        // car_st:<id>:<index в model.CarStatuses>
	CarDelete     = "car_delete:"    // car_delete:<id>
	CarDeleteOK   = "car_delete_ok:" // car_delete_ok:<id>

	// Клиенты
	ClientsPage    = "clients_page:" // clients_page:0
	ClientSearch   = "client_search"
	ClientView     = "client_view:" // client_view:<id>
	ClientAdd      = "client_add"
	ClientEdit     = "client_edit:"      // client_edit:<id>
	ClientDelete   = "client_delete:"    // client_delete:<id>
	ClientDeleteOK = "client_delete_ok:" // client_delete_ok:<id>

	// Администрирование
	AuditPage        = "audit_page:" // audit_page:0 (у бэкенда страницы с 1)
	ManagersList     = "mgr_list"
	ManagerAdd       = "mgr_add"
	ManagerDelete    = "mgr_delete:"    // mgr_delete:<id>
	ManagerDeleteOK  = "mgr_delete_ok:" // mgr_delete_ok:<id>
	ManagerResetPass = "mgr_password:"  // mgr_password:<id>
)
