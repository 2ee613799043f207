package notifications

import (
	"context"
	"sync"
	"time"
)

const (
	resultSent   = "sent"
	resultFailed = "failed"
)

// DefaultTimeout ограничение на одну отправку
const DefaultTimeout = 5 * time.Second

// Dispatcher отправляет уведомления в фоне.
// Dispatch никогда не блокирует и не возвращает ошибку: неудачная отправка
// только логируется и учитывается в метриках.
type Dispatcher struct {
	sink    Sink
	timeout time.Duration
	metrics MetricsCollector
	logger  Logger
	wg      sync.WaitGroup
}

// NewDispatcher создает диспетчер уведомлений
// metrics может быть nil
func NewDispatcher(sink Sink, timeout time.Duration, metrics MetricsCollector, logger Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Dispatcher{
		sink:    sink,
		timeout: timeout,
		metrics: metrics,
		logger:  logger,
	}
}

// Dispatch отправляет уведомления, каждое в своей горутине
func (d *Dispatcher) Dispatch(notifications ...Notification) {
	for _, n := range notifications {
		d.wg.Add(1)
		go d.push(n)
	}
}

// Wait дожидается завершения уже запущенных отправок (graceful shutdown, тесты)
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) push(n Notification) {
	defer d.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Dispatch: panic while pushing notification type=%s to user=%d: %v", n.Type, n.UserID, r)
			d.observe(n.Type, resultFailed)
		}
	}()

	// Контекст запроса к этому моменту может быть уже отменён
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.sink.Push(ctx, n.UserID, string(n.Type), n.Title, n.Message); err != nil {
		d.logger.Error("Dispatch: failed to push notification type=%s to user=%d: %v", n.Type, n.UserID, err)
		d.observe(n.Type, resultFailed)
		return
	}

	d.observe(n.Type, resultSent)
}

func (d *Dispatcher) observe(t Type, result string) {
	if d.metrics != nil {
		d.metrics.IncNotification(string(t), result)
	}
}
