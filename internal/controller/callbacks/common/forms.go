package common

import (
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/go-playground/validator/v10"
)

// Карточки машины и клиента вводятся одним сообщением: одно поле на строку.
// Необязательное поле можно пропустить знаком "-".

var formValidator = validator.New()

// FormError поле формы, которое не прошло проверку
type FormError struct {
	Field string
	Hint  string
}

func (e *FormError) Error() string {
	return fmt.Sprintf("form field %q: %s", e.Field, e.Hint)
}

var carFields = []string{"Марка", "Модель", "Год", "Госномер", "VIN", "Ставка в день", "Цвет", "Описание"}

const carRequiredLines = 6

var carFieldLabels = map[string]string{
	"Make":         "Марка",
	"Model":        "Модель",
	"Year":         "Год",
	"LicensePlate": "Госномер",
	"VIN":          "VIN",
	"Color":        "Цвет",
	"Status":       "Статус",
	"DailyRate":    "Ставка в день",
	"Description":  "Описание",
}

var clientFields = []string{"Имя", "Фамилия", "Email", "Телефон", "Номер прав"}

var clientFieldLabels = map[string]string{
	"FirstName":           "Имя",
	"LastName":            "Фамилия",
	"Email":               "Email",
	"Phone":               "Телефон",
	"DriverLicenseNumber": "Номер прав",
}

// ParseCarForm разбирает карточку машины. Статус в форму не входит.
func ParseCarForm(text string, status model.CarStatus) (model.CarInput, error) {
	lines := formLines(text)
	if len(lines) < carRequiredLines {
		return model.CarInput{}, &FormError{Field: carFields[len(lines)], Hint: "не заполнено"}
	}

	year, err := strconv.Atoi(lines[2])
	if err != nil {
		return model.CarInput{}, &FormError{Field: "Год", Hint: "нужно число, например 2022"}
	}

	rate, err := model.ParseMoney(lines[5])
	if err != nil {
		return model.CarInput{}, &FormError{Field: "Ставка в день", Hint: "нужна сумма, например 350 или 349.90"}
	}

	input := model.CarInput{
		Make:         lines[0],
		Model:        lines[1],
		Year:         year,
		LicensePlate: strings.ToUpper(lines[3]),
		VIN:          strings.ToUpper(lines[4]),
		Status:       status,
		DailyRate:    rate,
	}
	if len(lines) > 6 {
		input.Color = optionalLine(lines[6])
	}
	if len(lines) > 7 {
		// описание может занимать несколько строк
		input.Description = optionalLine(strings.Join(lines[7:], "\n"))
	}

	if err := checkForm(input, carFieldLabels); err != nil {
		return model.CarInput{}, err
	}
	return input, nil
}

// ParseClientForm разбирает карточку клиента
func ParseClientForm(text string) (model.ClientInput, error) {
	lines := formLines(text)
	if len(lines) < len(clientFields) {
		return model.ClientInput{}, &FormError{Field: clientFields[len(lines)], Hint: "не заполнено"}
	}
	if len(lines) > len(clientFields) {
		return model.ClientInput{}, &FormError{Field: "Номер прав", Hint: "лишние строки после последнего поля"}
	}

	input := model.ClientInput{
		FirstName:           lines[0],
		LastName:            lines[1],
		Email:               strings.ToLower(lines[2]),
		Phone:               lines[3],
		DriverLicenseNumber: lines[4],
	}

	if err := checkForm(input, clientFieldLabels); err != nil {
		return model.ClientInput{}, err
	}
	return input, nil
}

// CarFormPrompt приглашение заполнить карточку; car == nil для новой машины
func CarFormPrompt(car *model.Car) string {
	var b strings.Builder
	if car == nil {
		b.WriteString("🚗 <b>Новая машина</b>\n\n")
	} else {
		fmt.Fprintf(&b, "✏️ <b>%s</b>\n\n", html.EscapeString(car.Title()))
	}
	b.WriteString("Отправьте одним сообщением, каждое поле с новой строки:\n")
	b.WriteString(strings.Join(carFields, ", "))
	b.WriteString(".\nЦвет и описание можно пропустить знаком «-».\n")
	if car != nil {
		b.WriteString("VIN и цвет после создания не меняются.\n")
	}

	sample := []string{"Toyota", "Yaris", "2022", "WW-123-AB", "JTDKB20U993000000", "350", "белый", "-"}
	if car != nil {
		sample = []string{
			car.Make, car.Model, strconv.Itoa(car.Year), car.LicensePlate, car.VIN,
			car.DailyRate.String(), dashIfEmpty(car.Color), dashIfEmpty(car.Description),
		}
	}
	fmt.Fprintf(&b, "\n<pre>%s</pre>\n\nДля отмены используйте /cancel", html.EscapeString(strings.Join(sample, "\n")))
	return b.String()
}

// ClientFormPrompt приглашение заполнить карточку; client == nil для нового клиента
func ClientFormPrompt(client *model.Client) string {
	var b strings.Builder
	if client == nil {
		b.WriteString("👤 <b>Новый клиент</b>\n\n")
	} else {
		fmt.Fprintf(&b, "✏️ <b>%s</b>\n\n", html.EscapeString(client.FullName()))
	}
	b.WriteString("Отправьте одним сообщением, каждое поле с новой строки:\n")
	b.WriteString(strings.Join(clientFields, ", "))
	b.WriteString(".\n")

	sample := []string{"Nadia", "Tazi", "nadia@example.com", "+212600000000", "B-123456"}
	if client != nil {
		sample = []string{client.FirstName, client.LastName, client.Email, client.Phone, client.DriverLicenseNumber}
	}
	fmt.Fprintf(&b, "\n<pre>%s</pre>\n\nДля отмены используйте /cancel", html.EscapeString(strings.Join(sample, "\n")))
	return b.String()
}

func formLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func optionalLine(s string) string {
	if s == "-" || s == "—" {
		return ""
	}
	return s
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// checkForm переводит первую ошибку валидатора в FormError
func checkForm(input interface{}, labels map[string]string) error {
	err := formValidator.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	label, ok := labels[fe.Field()]
	if !ok {
		label = fe.Field()
	}
	return &FormError{Field: label, Hint: validationHint(fe)}
}

func validationHint(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "не заполнено"
	case "max":
		return fmt.Sprintf("не длиннее %s символов", fe.Param())
	case "min":
		return fmt.Sprintf("не короче %s символов", fe.Param())
	case "len":
		return fmt.Sprintf("ровно %s символов", fe.Param())
	case "gte":
		return fmt.Sprintf("не меньше %s", fe.Param())
	case "lte":
		return fmt.Sprintf("не больше %s", fe.Param())
	case "gt":
		return "должна быть больше нуля"
	case "email":
		return "неверный адрес"
	case "oneof":
		return "неизвестное значение"
	default:
		return "неверное значение"
	}
}
