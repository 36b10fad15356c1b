package homework

import (
	"errors"
	"fmt"
)

// ErrEmptyList is returned by Extract when the homeworks list is present but empty.
var ErrEmptyList = errors.New("Список работ пуст")

// MissingFieldError reports an expected JSON key that is absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("Отсутствует ключ %q", e.Field)
}

// UnknownStatusError reports a status outside the recognized set.
type UnknownStatusError struct {
	Status Status
	Name   string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("Неизвестный статус работы %q: %q", e.Name, string(e.Status))
}

// AsMissingField attempts to unwrap err into a MissingFieldError.
func AsMissingField(err error) (*MissingFieldError, bool) {
	var mf *MissingFieldError
	if errors.As(err, &mf) {
		return mf, true
	}
	return nil, false
}
