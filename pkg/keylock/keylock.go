package keylock

import (
	"context"
	"sync"
)

// KeyLock набор мьютексов по ключу. Записи удаляются, когда их никто не держит и не ждёт.
type KeyLock[K comparable] struct {
	mu    sync.Mutex
	locks map[K]*entry
}

type entry struct {
	ch   chan struct{}
	refs int
}

// New создает пустой KeyLock
func New[K comparable]() *KeyLock[K] {
	return &KeyLock[K]{locks: make(map[K]*entry)}
}

// Lock захватывает блокировку ключа, ожидая не дольше, чем живёт ctx
// Возвращает функцию освобождения
func (l *KeyLock[K]) Lock(ctx context.Context, key K) (func(), error) {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
		return func() { l.unlock(key, e) }, nil
	case <-ctx.Done():
		l.release(key, e)
		return nil, ctx.Err()
	}
}

func (l *KeyLock[K]) unlock(key K, e *entry) {
	<-e.ch
	l.release(key, e)
}

func (l *KeyLock[K]) release(key K, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}

// Len количество ключей, которые сейчас удерживаются или ожидаются
func (l *KeyLock[K]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
