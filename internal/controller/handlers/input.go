package handlers

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common"
	"github.com/Freeeeeet/rental_desk/internal/model"
)

// parseAmount сумма, введённая оператором
func parseAmount(text string) (model.Money, error) {
	m, err := model.ParseMoney(text)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrBadAmount, err)
	}
	return m, nil
}

// optionalText необязательный текст: «-» означает пусто
func optionalText(text string) string {
	text = strings.TrimSpace(text)
	if text == skipInput {
		return ""
	}
	return text
}

// isSkip «-» или «0» на шаге с суммой
func isSkip(text string) bool {
	text = strings.TrimSpace(text)
	return text == skipInput || text == "0"
}

func tooLong(text string, max int) bool {
	return utf8.RuneCountInString(text) > max
}

func tooShort(text string, min int) bool {
	return utf8.RuneCountInString(text) < min
}
