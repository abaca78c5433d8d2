package domain

import (
	"errors"
	"fmt"
)

// ValidationError - некорректный ввод. Текст показывается пользователю
// как есть, без повторных попыток.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ErrNoActiveShift - операция требует открытую смену.
var ErrNoActiveShift = errors.New("Нет активной смены. Сначала откройте смену.")

// ErrForbidden - действие доступно только админу.
var ErrForbidden = errors.New("Недостаточно прав для выполнения действия.")

// IsDomain сообщает, можно ли показать текст ошибки пользователю.
// Всё остальное считается сбоем инфраструктуры и наружу не уходит.
func IsDomain(err error) bool {
	var v *ValidationError
	return errors.As(err, &v) ||
		errors.Is(err, ErrNoActiveShift) ||
		errors.Is(err, ErrForbidden)
}
