package homework

import "fmt"

// Extract returns the most recent homework (index 0) unchanged.
func Extract(resp StatusResponse) (Record, error) {
	if resp.Homeworks == nil {
		return Record{}, &MissingFieldError{Field: "homeworks"}
	}
	if len(resp.Homeworks) == 0 {
		return Record{}, ErrEmptyList
	}
	return resp.Homeworks[0], nil
}

// Describe renders the status-change message for rec. It is pure: the same
// record always yields the same text.
func Describe(rec Record) (string, error) {
	if rec.Name == "" {
		return "", &MissingFieldError{Field: "homework_name"}
	}
	if rec.Status == "" {
		return "", &MissingFieldError{Field: "status"}
	}
	verdict, ok := rec.Status.Verdict()
	if !ok {
		return "", &UnknownStatusError{Status: rec.Status, Name: rec.Name}
	}
	return fmt.Sprintf("Изменился статус проверки работы \"%s\". %s", rec.Name, verdict), nil
}

// FailureMessage renders the user-facing text for a failed poll iteration.
func FailureMessage(err error) string {
	return "Сбой в работе программы: " + err.Error()
}
