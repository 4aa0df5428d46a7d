package state

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Вход
	StateLoginUsername UserState = "login_username"
	StateLoginPassword UserState = "login_password"

	// Новое бронирование: машина выбирается кнопкой, дальше текстом
	StateBookClientSearch UserState = "book_client_search"
	StateBookDates        UserState = "book_dates"
	StateBookPayment      UserState = "book_payment"
	StateBookNotes        UserState = "book_notes"
	StateBookConfirm      UserState = "book_confirm"

	// Редактирование бронирования
	StateEditDates UserState = "edit_dates"
	StateEditNotes UserState = "edit_notes"

	// Завершение аренды
	StateCompleteReturnTime UserState = "complete_return_time"
	StateCompleteCharges    UserState = "complete_charges"
	StateCompletePaid       UserState = "complete_paid"
	StateCompleteNotes      UserState = "complete_notes"

	// Новый менеджер (администратор)
	StateManagerUsername UserState = "manager_username"
	StateManagerFullName UserState = "manager_full_name"
	StateManagerPassword UserState = "manager_password"
	StateManagerNewPass  UserState = "manager_new_password"

	// Поиск клиента
	StateClientSearch UserState = "client_search"

	// Карточки машины и клиента: все поля одним сообщением
	StateCarForm    UserState = "car_form"
	StateClientForm UserState = "client_form"
)

// Ключи данных диалога
const (
	KeyUsername      = "username"
	KeyReservationID = "reservation_id"
	KeyCarID         = "car_id"
	KeyClientID      = "client_id"
	KeyFrom          = "from"
	KeyTo            = "to"
	KeyAmountPaid    = "amount_paid"
	KeyReturnTime    = "return_time"
	KeyCharges       = "charges"
	KeyFullName      = "full_name"
	KeyNotes         = "notes"
	KeyStatus        = "status"
	KeyManagerID     = "manager_id"
)

// UserData хранит временные данные пользователя во время диалога
type UserData struct {
	State UserState
	Data  map[string]interface{} // Временные данные для текущего диалога
}
