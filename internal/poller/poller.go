package poller

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"homeworkbot/internal/homework"
	"homeworkbot/internal/practicum"
	logx "homeworkbot/pkg/logx"
	"homeworkbot/pkg/systemd"
)

const defaultInterval = 60 * time.Second

// Fetcher returns every homework updated since fromDate (unix seconds).
type Fetcher interface {
	Fetch(ctx context.Context, fromDate int64) (homework.StatusResponse, error)
}

// Notifier delivers a message and reports whether it got through.
type Notifier interface {
	Notify(ctx context.Context, text string) bool
}

// Config controls the loop.
type Config struct {
	Interval time.Duration
	// FromDate is the initial lower bound. Zero means process start time.
	FromDate int64
}

// ObservedState is what the user has already been told. It lives only as long
// as the process.
type ObservedState struct {
	Key       homework.Key
	Message   string
	LastError string
	notified  bool
}

// Status describes the recent health of the poll loop.
type Status struct {
	Iterations          int
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
}

// Result is the outcome of one iteration.
type Result struct {
	// Message is the rendered status or failure text.
	Message string
	// Err is the Fetch/Extract/Describe failure, if any.
	Err error
	// Notified is true when a message was delivered in this iteration.
	Notified bool
}

// Poller watches the latest homework and notifies on status changes and on new
// kinds of failure.
type Poller struct {
	fetcher  Fetcher
	notifier Notifier
	log      logx.Logger
	interval time.Duration

	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
	sdNotify func(state string) (bool, error)

	fromDate int64
	state    ObservedState
	status   Status
}

func New(cfg Config, fetcher Fetcher, notifier Notifier, log logx.Logger) *Poller {
	if log.IsZero() {
		log = logx.Nop()
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	p := &Poller{
		fetcher:  fetcher,
		notifier: notifier,
		log:      log,
		interval: interval,
		now:      time.Now,
		sleep:    sleepCtx,
		sdNotify: systemd.Notify,
		fromDate: cfg.FromDate,
	}
	if p.fromDate == 0 {
		p.fromDate = p.now().Unix()
	}
	return p
}

// Run polls until ctx is cancelled. The wait between iterations is fixed and
// applied after every iteration, successful or not.
func (p *Poller) Run(ctx context.Context) error {
	p.log.Info("poller started", logx.Duration("interval", p.interval), logx.Int64("from_date", p.fromDate))
	if wd := systemd.WatchdogInterval(); wd > 0 && wd < p.interval {
		p.log.Warn("watchdog shorter than poll interval", logx.Duration("watchdog", wd))
	}
	p.notifySystemd(systemd.StateReady)

	for {
		p.RunOnce(ctx)
		p.notifySystemd(systemd.StateWatchdog)

		if err := p.sleep(ctx, p.interval); err != nil {
			p.notifySystemd(systemd.StateStopping)
			p.log.Info("poller stopped", logx.Int("iterations", p.status.Iterations))
			return nil
		}
	}
}

// RunOnce performs a single fetch/extract/describe/compare/notify pass.
func (p *Poller) RunOnce(ctx context.Context) Result {
	start := p.now()
	p.status.Iterations++
	p.status.LastAttempt = start
	log := p.log.With(logx.String("poll_id", uuid.NewString()))

	resp, err := p.fetcher.Fetch(ctx, p.fromDate)
	if err != nil && ctx.Err() != nil {
		// Shutting down; the request was cut short, nothing new to report.
		log.Debug("fetch aborted", logx.Err(err))
		return Result{Err: err}
	}
	var rec homework.Record
	if err == nil {
		rec, err = homework.Extract(resp)
	}
	var msg string
	if err == nil {
		msg, err = homework.Describe(rec)
	}
	if err != nil {
		return p.handleFailure(ctx, log, err)
	}

	p.recordSuccess(start)
	if resp.CurrentDate != 0 {
		p.fromDate = resp.CurrentDate
	}

	log = log.With(logx.String("homework", rec.Name), logx.String("status", string(rec.Status)))
	if p.state.notified && rec.Key() == p.state.Key && msg == p.state.Message {
		log.Debug("status unchanged")
		return Result{Message: msg}
	}

	log.Info("status changed", logx.String("lesson", rec.LessonName), logx.String("updated", rec.DateUpdated))
	if !p.notifier.Notify(ctx, msg) {
		// ObservedState only advances on delivery, so the next pass retries.
		return Result{Message: msg}
	}
	p.state.Key = rec.Key()
	p.state.Message = msg
	p.state.notified = true
	return Result{Message: msg, Notified: true}
}

func (p *Poller) handleFailure(ctx context.Context, log logx.Logger, err error) Result {
	p.recordFailure(err)
	msg := homework.FailureMessage(err)
	log.Error("poll failed", logx.String("kind", errorKind(err)), logx.Err(err),
		logx.Int("consecutive_failures", p.status.ConsecutiveFailures))

	if msg == p.state.LastError {
		log.Debug("failure already reported")
		return Result{Message: msg, Err: err}
	}
	if !p.notifier.Notify(ctx, msg) {
		return Result{Message: msg, Err: err}
	}
	p.state.LastError = msg
	return Result{Message: msg, Err: err, Notified: true}
}

// State returns a copy of what has been reported so far.
func (p *Poller) State() ObservedState { return p.state }

// Status returns a snapshot of the loop's recent health.
func (p *Poller) Status() Status { return p.status }

// FromDate is the lower bound the next fetch will use.
func (p *Poller) FromDate() int64 { return p.fromDate }

func (p *Poller) recordSuccess(at time.Time) {
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
	p.status.LastSuccess = at
}

func (p *Poller) recordFailure(err error) {
	p.status.ConsecutiveFailures++
	p.status.LastError = err.Error()
}

func (p *Poller) notifySystemd(state string) {
	if p.sdNotify == nil {
		return
	}
	if _, err := p.sdNotify(state); err != nil {
		p.log.Debug("systemd notify failed", logx.String("state", state), logx.Err(err))
	}
}

func errorKind(err error) string {
	var us *homework.UnknownStatusError
	if errors.Is(err, homework.ErrEmptyList) {
		return "empty_list"
	}
	if errors.As(err, &us) {
		return "unknown_status"
	}
	if _, ok := homework.AsMissingField(err); ok {
		return "missing_field"
	}
	if _, ok := practicum.AsTransportError(err); ok {
		return "transport"
	}
	if _, ok := practicum.AsUpstreamError(err); ok {
		return "upstream"
	}
	return "other"
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
