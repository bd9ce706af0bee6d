package errors

import (
	"fmt"
	"net/http"
)

var (
	// JWT и токены
	ErrInvalidSigningMethod = fmt.Errorf("неверный метод подписи токена")
	ErrInvalidToken         = fmt.Errorf("недопустимый токен")
	ErrTokenExpired         = fmt.Errorf("срок действия токена истёк")
	ErrTokenNotYetValid     = fmt.Errorf("токен ещё не активен")
	ErrTokenIsNotRefresh    = fmt.Errorf("токен не является refresh-токеном")
	ErrTokenIsNotAccess     = fmt.Errorf("токен не является access-токеном")

	// Авторизация
	ErrEmptyAuthHeader    = fmt.Errorf("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader  = fmt.Errorf("неверный формат заголовка авторизации")
	ErrInvalidCredentials = fmt.Errorf("неверные учётные данные")
	ErrUnauthorized       = fmt.Errorf("неавторизован")

	// Контекст
	ErrOperatorIDNotFoundInContext = fmt.Errorf("OperatorID не найден в контексте запроса")
	ErrOperatorNotFound            = fmt.Errorf("оператор не найден")

	// Общие
	ErrNotFound   = fmt.Errorf("запись не найдена")
	ErrBadRequest = fmt.Errorf("неверный запрос")
	ErrConflict   = fmt.Errorf("конфликт данных")

	// Сессии
	ErrNoOpenSession = fmt.Errorf("у оператора нет открытой стадии")
)

// HttpError — ошибка с HTTP-кодом и раздельными сообщениями:
// Message уходит пользователю, Err и Context остаются в логах.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error {
	return e.Err
}

func NewHttpError(code int, message string, err error, context map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: context}
}

// NewValidationError — ошибка ввода оператора: показывается сразу, без повтора.
func NewValidationError(message string, err error) *HttpError {
	return &HttpError{Code: http.StatusBadRequest, Message: message, Err: err}
}

// NewConflictError — конфликт состояния (открытая сессия, исчерпанное количество).
// Details уходит на фронт: из него строится диалог принудительного завершения.
func NewConflictError(message string, details interface{}) *HttpError {
	return &HttpError{Code: http.StatusConflict, Message: message, Details: details}
}

// NewTransientError — сбой хранилища при start/finish: состояние не изменилось,
// действие можно повторить тем же запросом.
func NewTransientError(message string, err error) *HttpError {
	return &HttpError{Code: http.StatusServiceUnavailable, Message: message, Err: err}
}

func NewInternalError(message string) *HttpError {
	return &HttpError{Code: http.StatusInternalServerError, Message: message}
}
