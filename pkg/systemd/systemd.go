// Package systemd reports service state to the systemd manager over the
// sd_notify socket. Every call is a no-op when the process is not run by a
// unit with NOTIFY_SOCKET set.
package systemd

import (
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
)

// Notify sends a raw state string such as "READY=1". It reports whether the
// message was delivered.
func Notify(state string) (bool, error) {
	return daemon.SdNotify(false, state)
}

// States understood by Notify.
const (
	StateReady    = daemon.SdNotifyReady
	StateWatchdog = daemon.SdNotifyWatchdog
	StateStopping = daemon.SdNotifyStopping
)

// WatchdogInterval returns the unit's WatchdogSec, or zero when the watchdog
// is not enabled for this process.
func WatchdogInterval() time.Duration {
	d, err := daemon.SdWatchdogEnabled(false)
	if err != nil {
		return 0
	}
	return d
}
