// Package collection provides the keyed, insertion-ordered record list that
// every feature store keeps in memory.
package collection

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrAmbiguous = errors.New("ambiguous id prefix")
)

// List holds records by id and remembers their order.
type List[T any] struct {
	byID  map[string]T
	order []string
	id    func(T) string
}

// New builds a List from items in order. Later records with a duplicate id are dropped.
func New[T any](id func(T) string, items []T) *List[T] {
	l := &List[T]{
		byID:  make(map[string]T, len(items)),
		order: make([]string, 0, len(items)),
		id:    id,
	}
	for _, item := range items {
		key := id(item)
		if _, dup := l.byID[key]; dup {
			continue
		}
		l.byID[key] = item
		l.order = append(l.order, key)
	}
	return l
}

func (l *List[T]) Len() int {
	return len(l.order)
}

func (l *List[T]) Get(id string) (T, bool) {
	item, ok := l.byID[id]
	return item, ok
}

// Items returns a copy of the records in order.
func (l *List[T]) Items() []T {
	out := make([]T, len(l.order))
	for i, id := range l.order {
		out[i] = l.byID[id]
	}
	return out
}

// First returns the first record in order.
func (l *List[T]) First() (T, bool) {
	if len(l.order) == 0 {
		var zero T
		return zero, false
	}
	return l.byID[l.order[0]], true
}

func (l *List[T]) Prepend(item T) {
	key := l.id(item)
	if _, exists := l.byID[key]; exists {
		l.Replace(item)
		return
	}
	l.byID[key] = item
	l.order = append([]string{key}, l.order...)
}

func (l *List[T]) Append(item T) {
	key := l.id(item)
	if _, exists := l.byID[key]; exists {
		l.Replace(item)
		return
	}
	l.byID[key] = item
	l.order = append(l.order, key)
}

// Replace swaps the stored record with the same id, keeping its position.
func (l *List[T]) Replace(item T) bool {
	key := l.id(item)
	if _, ok := l.byID[key]; !ok {
		return false
	}
	l.byID[key] = item
	return true
}

func (l *List[T]) Remove(id string) bool {
	if _, ok := l.byID[id]; !ok {
		return false
	}
	delete(l.byID, id)
	for i, key := range l.order {
		if key == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return true
}

// Resolve maps an exact id or a unique id prefix to the full id.
func (l *List[T]) Resolve(prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", ErrNotFound
	}
	if _, ok := l.byID[prefix]; ok {
		return prefix, nil
	}

	var match string
	for _, id := range l.order {
		if strings.HasPrefix(id, prefix) {
			if match != "" {
				return "", fmt.Errorf("%w: %q matches more than one record", ErrAmbiguous, prefix)
			}
			match = id
		}
	}
	if match == "" {
		return "", ErrNotFound
	}
	return match, nil
}
