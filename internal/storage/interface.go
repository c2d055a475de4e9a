package storage

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotInitialized is returned by Load when the backing store has never been created.
var ErrNotInitialized = errors.New("storage not initialized, run 'studyflow init' first")

// Provider is a key-value persistence backend. Every feature store keeps one
// JSON-encoded collection under a fixed key.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Key-value access
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
	Delete(key string) error
	Keys() ([]string, error)

	// Utils
	GetConfigPath() string
}

// GetJSON decodes the value stored under key into v. It reports false when
// the key is absent, leaving v untouched.
func GetJSON(p Provider, key string, v any) (bool, error) {
	data, ok, err := p.Get(key)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return true, nil
}

// PutJSON encodes v and stores it under key.
func PutJSON(p Provider, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", key, err)
	}
	return p.Put(key, data)
}

// Copy transfers every key from src to dst, returning how many were copied.
func Copy(dst, src Provider) (int, error) {
	keys, err := src.Keys()
	if err != nil {
		return 0, fmt.Errorf("failed to list source keys: %w", err)
	}

	copied := 0
	for _, key := range keys {
		data, ok, err := src.Get(key)
		if err != nil {
			return copied, fmt.Errorf("failed to read %s: %w", key, err)
		}
		if !ok {
			continue
		}
		if err := dst.Put(key, data); err != nil {
			return copied, fmt.Errorf("failed to write %s: %w", key, err)
		}
		copied++
	}
	return copied, nil
}
