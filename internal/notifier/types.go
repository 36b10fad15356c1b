package notifier

import (
	"fmt"
	"time"

	kit "homeworkbot/internal/transport"
)

// Config controls delivery.
type Config struct {
	Target     kit.ChatTarget
	RatePerSec  int
	HistorySize int
	Options     kit.SendOptions
}

type HistoryItem struct {
	At   time.Time
	Text string
}

// NotificationError wraps a failed chat delivery.
type NotificationError struct {
	Target kit.ChatTarget
	Err    error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("Не удалось отправить сообщение в Telegram (chat %d): %v", e.Target.ChatID, e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }
