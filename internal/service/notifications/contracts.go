package notifications

import "context"

// Sink получатель уведомлений (сервис уведомлений или журнал)
type Sink interface {
	Push(ctx context.Context, userID int64, notificationType, title, message string) error
}

// MetricsCollector счетчик отправок
type MetricsCollector interface {
	IncNotification(notificationType, result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
