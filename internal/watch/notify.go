package watch

import (
	"fmt"
	"os/exec"

	"golang.org/x/time/rate"

	"github.com/cuggino/cuggino/internal/storage"
)

// Notifier dispatches a desktop notification for a watch sub-state
// transition. Implementations are best-effort: a failed dispatch is
// never surfaced as a Watch Supervisor error.
type Notifier interface {
	Notify(title, body string)
}

type noopNotifier struct{}

func (noopNotifier) Notify(string, string) {}

// osxNotifier shells out to osascript to post a macOS notification
// banner.
type osxNotifier struct{}

func (osxNotifier) Notify(title, body string) {
	script := fmt.Sprintf("display notification %q with title %q", body, title)
	_ = exec.Command("osascript", "-e", script).Run()
}

// NewNotifier returns the Notifier selected by mode. An unrecognized or
// NotifyNone mode is a no-op.
func NewNotifier(mode storage.NotifyMode) Notifier {
	switch mode {
	case storage.NotifyOSXNotif:
		return osxNotifier{}
	default:
		return noopNotifier{}
	}
}

// throttledNotifier rate-limits an underlying Notifier so a flapping
// idle/work transition can't spam the notification channel.
type throttledNotifier struct {
	inner   Notifier
	limiter *rate.Limiter
}

// NewThrottledNotifier wraps inner with limiter, dropping notifications
// that exceed the allowed rate rather than queuing them.
func NewThrottledNotifier(inner Notifier, limiter *rate.Limiter) Notifier {
	return &throttledNotifier{inner: inner, limiter: limiter}
}

func (t *throttledNotifier) Notify(title, body string) {
	if !t.limiter.Allow() {
		return
	}
	t.inner.Notify(title, body)
}
