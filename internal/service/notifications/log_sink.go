package notifications

import "context"

// LogSink пишет уведомления в журнал, используется при выключенном сервисе уведомлений
type LogSink struct {
	logger Logger
}

// NewLogSink создает LogSink
func NewLogSink(logger Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Push реализует Sink
func (s *LogSink) Push(_ context.Context, userID int64, notificationType, title, message string) error {
	s.logger.Info("Notification: user=%d, type=%s, title=%q, message=%q", userID, notificationType, title, message)
	return nil
}
