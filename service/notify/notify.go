// Package notify provides notification sinks: one writing to the log and one
// recording notifications for later inspection.
package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/viant/kuriosity/host"
	"github.com/viant/kuriosity/internal/ksptime"
	"github.com/viant/kuriosity/model"
	"go.uber.org/zap"
)

// Logger writes notifications to a zap logger at info level.
type Logger struct {
	logger *zap.Logger
}

var _ host.Notifier = (*Logger)(nil)

// NewLogger creates a logging notifier.
func NewLogger(logger *zap.Logger) *Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Logger{logger: logger}
}

// Notify logs the notification.
func (l *Logger) Notify(_ context.Context, notification *model.Notification) {
	l.logger.Info("notification",
		zap.String("title", notification.TitleKey),
		zap.String("params", formatParams(notification.Params)),
		zap.String("firstLine", notification.FirstLine),
		zap.String("date", ksptime.Format(notification.Timestamp)))
}

func formatParams(params []any) string {
	ret := ""
	for i, param := range params {
		if i > 0 {
			ret += ", "
		}
		ret += fmt.Sprint(param)
	}
	return ret
}

// Recorder keeps every notification.
type Recorder struct {
	notifications []*model.Notification
	next          host.Notifier
	mux           sync.Mutex
}

var _ host.Notifier = (*Recorder)(nil)

// NewRecorder creates a recorder forwarding to next when not nil.
func NewRecorder(next host.Notifier) *Recorder {
	return &Recorder{next: next}
}

// Notify records the notification.
func (r *Recorder) Notify(ctx context.Context, notification *model.Notification) {
	r.mux.Lock()
	r.notifications = append(r.notifications, notification)
	r.mux.Unlock()
	if r.next != nil {
		r.next.Notify(ctx, notification)
	}
}

// Notifications returns the recorded notifications.
func (r *Recorder) Notifications() []*model.Notification {
	r.mux.Lock()
	defer r.mux.Unlock()
	return append([]*model.Notification(nil), r.notifications...)
}
