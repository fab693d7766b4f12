package memstore

import (
	"context"
	"sync"
)

// Object is one stored binary asset.
type Object struct {
	Body        []byte
	ContentType string
}

// Objects is an in-memory store.ObjectStore for tests.
type Objects struct {
	mu   sync.RWMutex
	data map[string]Object
}

// NewObjects creates an empty in-memory object store.
func NewObjects() *Objects {
	return &Objects{data: make(map[string]Object)}
}

// Put stores body under key.
func (o *Objects) Put(ctx context.Context, key string, body []byte, contentType string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.data[key] = Object{Body: append([]byte(nil), body...), ContentType: contentType}
	return nil
}

// Get returns the object stored under key.
func (o *Objects) Get(key string) (Object, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	obj, ok := o.data[key]
	return obj, ok
}

// Len returns the number of stored objects.
func (o *Objects) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.data)
}
