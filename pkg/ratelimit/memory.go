package ratelimit

import (
	"context"
	"sync"
	"time"
)

// defaultPurgeThreshold количество ключей, после которого при обращении
// из карты выбрасываются истёкшие окна
const defaultPurgeThreshold = 10000

type counter struct {
	start  time.Time
	window time.Duration
	count  int
}

// Memory лимитер в памяти процесса
// Состояние не разделяется между экземплярами сервиса, для нескольких
// экземпляров используется реализация на общем хранилище
type Memory struct {
	mu             sync.Mutex
	counters       map[string]*counter
	now            func() time.Time
	purgeThreshold int
}

// NewMemory создает лимитер в памяти
func NewMemory() *Memory {
	return &Memory{
		counters:       make(map[string]*counter),
		now:            time.Now,
		purgeThreshold: defaultPurgeThreshold,
	}
}

// WithClock подменяет источник времени (для тестов)
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

// CheckAndIncrement реализует Limiter
func (m *Memory) CheckAndIncrement(_ context.Context, key string, window time.Duration, maxRequests int) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()

	c, ok := m.counters[key]
	if !ok {
		if len(m.counters) >= m.purgeThreshold {
			m.purgeExpired(now)
		}
		c = &counter{}
		m.counters[key] = c
	}

	// Истёкшее окно сбрасывается при следующем обращении к ключу
	if c.window != window || !now.Before(c.start.Add(c.window)) {
		c.start = now
		c.window = window
		c.count = 0
	}

	c.count++

	return BuildResult(c.count, maxRequests, c.start.Add(c.window))
}

// Len количество ключей в памяти
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.counters)
}

func (m *Memory) purgeExpired(now time.Time) {
	for key, c := range m.counters {
		if !now.Before(c.start.Add(c.window)) {
			delete(m.counters, key)
		}
	}
}
