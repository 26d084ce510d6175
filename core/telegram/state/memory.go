package state

import (
	"sort"
	"sync"
)

type entry[S any] struct {
	mu    sync.Mutex
	value S
}

// Memory stores one value of type S per chat. Calls for the same chat are
// serialized; different chats proceed in parallel.
type Memory[S any] struct {
	mu      sync.RWMutex
	newFn   func() S
	entries map[int64]*entry[S]
}

// NewMemory constructs an empty store. newFn builds the value for a chat seen for the first time.
func NewMemory[S any](newFn func() S) *Memory[S] {
	if newFn == nil {
		newFn = func() S {
			var zero S
			return zero
		}
	}
	return &Memory[S]{
		newFn:   newFn,
		entries: make(map[int64]*entry[S]),
	}
}

func (m *Memory[S]) lookup(key int64, create bool) *entry[S] {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if ok || !create {
		return e
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok = m.entries[key]; ok {
		return e
	}
	e = &entry[S]{value: m.newFn()}
	m.entries[key] = e
	return e
}

// Update runs fn with exclusive access to the value of key, creating it if needed.
func (m *Memory[S]) Update(key int64, fn func(*S) error) error {
	e := m.lookup(key, true)
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(&e.value)
}

// View runs fn with the value of key. It reports false without calling fn when the chat is unknown.
// fn must not retain or modify the pointer.
func (m *Memory[S]) View(key int64, fn func(*S)) bool {
	e := m.lookup(key, false)
	if e == nil {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.value)
	return true
}

// Delete forgets the value of key.
func (m *Memory[S]) Delete(key int64) {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
}

// Len returns the number of known chats.
func (m *Memory[S]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Range calls fn for every chat in ascending key order until fn returns false.
// Each value is locked only while fn runs for it.
func (m *Memory[S]) Range(fn func(key int64, value *S) bool) {
	m.mu.RLock()
	keys := make([]int64, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	m.mu.RUnlock()
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, k := range keys {
		e := m.lookup(k, false)
		if e == nil {
			continue
		}
		e.mu.Lock()
		cont := fn(k, &e.value)
		e.mu.Unlock()
		if !cont {
			return
		}
	}
}
