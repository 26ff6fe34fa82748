package keylock

import (
	"context"
	"sync"
)

// Registry выдает взаимоисключающие блокировки по строковому ключу
// Блокировки разных ключей друг другу не мешают. Записи удаляются, как только ключ никто не держит и не ждет
type Registry struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	ch   chan struct{}
	refs int
}

// New создает пустой реестр блокировок
func New() *Registry {
	return &Registry{locks: make(map[string]*entry)}
}

// Lock захватывает блокировку ключа и возвращает функцию освобождения
// Ожидание прерывается отменой контекста
func (r *Registry) Lock(ctx context.Context, key string) (func(), error) {
	r.mu.Lock()
	e, ok := r.locks[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		r.locks[key] = e
	}
	e.refs++
	r.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		r.done(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			r.done(key, e)
		})
	}, nil
}

func (r *Registry) done(key string, e *entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(r.locks, key)
	}
}

// Len возвращает количество ключей, которые сейчас удерживаются или ожидаются
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.locks)
}
