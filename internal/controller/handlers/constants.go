package handlers

// Ограничения ввода в диалогах
const (
	// Логин менеджера
	UsernameMinLength = 3
	UsernameMaxLength = 50

	FullNameMaxLength = 100
	PasswordMinLength = 8

	// Заметки к бронированию и к завершению
	NotesMaxLength = 1000

	// Поиск клиента
	SearchMinLength = 2
)

// skipInput ответ «пропустить» на необязательном шаге
const skipInput = "-"
