package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrRemoteRejection бэкенд ответил не-2xx; сообщение показывается оператору как есть
	ErrRemoteRejection = errors.New("remote rejection")
	// ErrNetworkFailure запрос не дошёл или ответ не прочитан
	ErrNetworkFailure = errors.New("network failure")
	// ErrUnauthorized сессия на бэкенде отсутствует или истекла (401)
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden роли не хватает прав (403)
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound сущность не найдена (404)
	ErrNotFound = errors.New("not found")
	// ErrConflict запись противоречит существующей (409)
	ErrConflict = errors.New("conflict")
	// ErrInvalidPayload тело запроса не прошло проверку, запрос не отправлялся
	ErrInvalidPayload = errors.New("invalid payload")
)

// RemoteError отказ бэкенда
type RemoteError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// Is позволяет проверять errors.Is(err, ErrRemoteRejection) и коды 401/403/404/409
func (e *RemoteError) Is(target error) bool {
	switch target {
	case ErrRemoteRejection:
		return true
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrConflict:
		return e.StatusCode == http.StatusConflict
	}
	return false
}

// NetworkError сбой транспорта
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func (e *NetworkError) Is(target error) bool {
	return target == ErrNetworkFailure
}

// remoteMessage сообщение для не-2xx ответа: поле message из JSON,
// иначе код и текст статуса
func remoteMessage(statusCode int, message string) string {
	if message != "" {
		return message
	}
	return fmt.Sprintf("Error: %d %s", statusCode, http.StatusText(statusCode))
}
