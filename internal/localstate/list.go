package localstate

import (
	"context"
	"sync"
)

// List локальная копия списка с бэкенда (бронирования одного оператора).
// Изменения применяются оптимистично и откатываются, если бэкенд отказал.
//
// generation меняется при Reset: ответы на запросы, отправленные до сброса,
// больше не применяются. version меняется при любом изменении списка.
type List[T any] struct {
	mu         sync.Mutex
	items      []T
	loaded     bool
	generation uint64
	version    uint64
}

// New создаёт пустой список
func New[T any]() *List[T] {
	return &List[T]{}
}

// Items копия текущего содержимого
func (l *List[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()

	return clone(l.items)
}

// Loaded был ли список хоть раз загружен после последнего Reset
func (l *List[T]) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.loaded
}

// Generation текущее поколение; запоминается перед запросом и передаётся в Replace
func (l *List[T]) Generation() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.generation
}

// Replace заменяет содержимое ответом бэкенда.
// Если с момента запроса список сбросили, ответ отбрасывается и возвращается false.
func (l *List[T]) Replace(generation uint64, items []T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if generation != l.generation {
		return false
	}

	l.items = clone(items)
	l.loaded = true
	l.version++
	return true
}

// Reset очищает список (выход, повторный вход)
func (l *List[T]) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = nil
	l.loaded = false
	l.generation++
	l.version++
}

// Find первый элемент, подходящий под условие
func (l *List[T]) Find(match func(T) bool) (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, item := range l.items {
		if match(item) {
			return item, true
		}
	}

	var zero T
	return zero, false
}

// Mutate снимок -> apply -> commit.
// apply получает копию и возвращает новое содержимое, оно сразу видно через Items.
// Если commit вернул ошибку, снимок восстанавливается и ошибка возвращается как есть.
// Восстановление пропускается, если список успел измениться другим путём:
// после любой мутации вызывающий всё равно перезагружает список.
func (l *List[T]) Mutate(ctx context.Context, apply func([]T) []T, commit func(ctx context.Context) error) error {
	l.mu.Lock()
	snapshot := clone(l.items)
	l.items = apply(clone(l.items))
	l.version++
	version := l.version
	l.mu.Unlock()

	if err := commit(ctx); err != nil {
		l.mu.Lock()
		if l.version == version {
			l.items = snapshot
			l.version++
		}
		l.mu.Unlock()
		return err
	}

	return nil
}

func clone[T any](items []T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	copy(out, items)
	return out
}
