// Package storage is the durable client-side key-value store that survives
// restarts. It holds session markers and the UI language preference.
package storage

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrNotFound is returned by GetItem for a missing key.
var ErrNotFound = errors.New("storage: key not found")

// Storage is a string key-value store.
type Storage interface {
	GetItem(key string) (string, error)
	SetItem(key, value string) error
	RemoveItem(key string) error
	Clear() error
	Keys() ([]string, error)
	Close() error
}

// Open returns the storage for a config driver name.
//
//	sqlite3 - SQLite through mattn/go-sqlite3 (cgo)
//	sqlite  - SQLite through modernc.org/sqlite (pure Go)
//	file    - a JSON file
//	memory  - process memory only
func Open(driver, path string) (Storage, error) {
	switch driver {
	case "sqlite3", "sqlite":
		return OpenSQL(driver, path)
	case "file":
		return OpenFile(path)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", driver)
	}
}

// Memory is an in-process Storage.
type Memory struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{items: make(map[string]string)}
}

func (m *Memory) GetItem(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) SetItem(key, value string) error {
	m.mu.Lock()
	m.items[key] = value
	m.mu.Unlock()
	return nil
}

func (m *Memory) RemoveItem(key string) error {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	m.items = make(map[string]string)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Keys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *Memory) Close() error { return nil }
