// Package notify is the toast boundary: engines publish human-readable
// messages here and the presentation layer decides how to surface them.
package notify

import (
	"context"
	"sync"

	"github.com/alexim39/marketspase-engine/pkg/enums"
	"github.com/alexim39/marketspase-engine/pkg/logger"
)

// Sink accepts a user-visible notification.
type Sink interface {
	Publish(ctx context.Context, severity enums.Severity, message string)
}

// LogSink routes notifications into the structured log, the default when no UI
// is attached.
type LogSink struct {
	logg *logger.Logger
}

func NewLogSink(logg *logger.Logger) *LogSink {
	return &LogSink{logg: logg}
}

func (s *LogSink) Publish(ctx context.Context, severity enums.Severity, message string) {
	if s == nil || s.logg == nil {
		return
	}
	ctx = s.logg.WithField(ctx, "severity", severity.String())
	switch severity {
	case enums.SeverityError:
		s.logg.Error(ctx, message, nil)
	case enums.SeverityWarning:
		s.logg.Warn(ctx, message)
	default:
		s.logg.Info(ctx, message)
	}
}

// Notification is a captured toast, used in tests and the HTTP facade.
type Notification struct {
	Severity enums.Severity `json:"severity"`
	Message  string         `json:"message"`
}

// CaptureSink records notifications for later inspection.
type CaptureSink struct {
	mu            sync.Mutex
	notifications []Notification
}

func NewCaptureSink() *CaptureSink {
	return &CaptureSink{}
}

func (s *CaptureSink) Publish(_ context.Context, severity enums.Severity, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, Notification{Severity: severity, Message: message})
}

// Notifications returns a copy of everything published so far.
func (s *CaptureSink) Notifications() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]Notification, len(s.notifications))
	copy(copied, s.notifications)
	return copied
}

// Drain returns the captured notifications and clears the buffer.
func (s *CaptureSink) Drain() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	drained := s.notifications
	s.notifications = nil
	return drained
}
