package notifier

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"

	kit "homeworkbot/internal/transport"
	logx "homeworkbot/pkg/logx"
)

var ErrEmptyText = errors.New("notifier: empty text")

// Service sends messages to one chat target. It is owned by the poll loop and
// is not safe for concurrent use.
type Service struct {
	log    logx.Logger
	sender kit.Sender

	cfg     Config
	limiter *rate.Limiter

	history []HistoryItem
}

func New(cfg Config, sender kit.Sender, log logx.Logger) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 1
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = 50
	}
	return &Service{
		log:    log,
		sender: sender,
		cfg:    cfg,
		// Token bucket: burst = rate per sec, so short spikes don't block too hard.
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.RatePerSec),
	}
}

// Notify delivers text and reports whether it succeeded. Failures are logged
// as NotificationError and swallowed.
func (s *Service) Notify(ctx context.Context, text string) bool {
	if err := s.send(ctx, text); err != nil {
		s.log.Error("telegram send failed", logx.Err(err))
		return false
	}
	s.log.Info("message sent", logx.Int64("chat_id", s.cfg.Target.ChatID))
	return true
}

func (s *Service) send(ctx context.Context, text string) error {
	if text == "" {
		return &NotificationError{Target: s.cfg.Target, Err: ErrEmptyText}
	}
	if s.sender == nil {
		return &NotificationError{Target: s.cfg.Target, Err: errors.New("no sender configured")}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	// Rate limit (honor cancellation).
	if err := s.limiter.Wait(ctx); err != nil {
		return &NotificationError{Target: s.cfg.Target, Err: err}
	}

	opt := s.cfg.Options
	if _, err := s.sender.SendText(ctx, s.cfg.Target, text, &opt); err != nil {
		return &NotificationError{Target: s.cfg.Target, Err: err}
	}
	s.appendHistory(text)
	return nil
}

// Snapshot returns the recently delivered messages, oldest first.
func (s *Service) Snapshot() []HistoryItem {
	return append([]HistoryItem(nil), s.history...)
}

func (s *Service) appendHistory(text string) {
	s.history = append(s.history, HistoryItem{At: time.Now(), Text: text})
	if len(s.history) > s.cfg.HistorySize {
		s.history = s.history[len(s.history)-s.cfg.HistorySize:]
	}
}
