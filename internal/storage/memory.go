package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Memory is an in-process Store used by tests and local development.
type Memory struct {
	mu         sync.Mutex
	objects    map[string]memObject
	cdnBaseURL string
	bucket     string
}

type memObject struct {
	data         []byte
	contentType  string
	lastModified time.Time
}

// NewMemory creates an empty in-memory store with the given URL settings.
func NewMemory(cdnBaseURL, bucket string) *Memory {
	return &Memory{
		objects:    make(map[string]memObject),
		cdnBaseURL: strings.TrimRight(cdnBaseURL, "/"),
		bucket:     bucket,
	}
}

// Put stores one object.
func (m *Memory) Put(_ context.Context, key string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	m.objects[key] = memObject{data: buf, contentType: contentType, lastModified: time.Now()}
	return nil
}

// Remove deletes one object. Removing an absent key is an error, matching a
// strict bucket configuration.
func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; !ok {
		return fmt.Errorf("object %s not found", key)
	}
	delete(m.objects, key)
	return nil
}

// List returns all objects under the prefix, ordered by key.
func (m *Memory) List(_ context.Context, prefix string) ([]ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var objects []ObjectInfo
	for key, obj := range m.objects {
		if strings.HasPrefix(key, prefix) {
			objects = append(objects, ObjectInfo{Key: key, LastModified: obj.lastModified})
		}
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	return objects, nil
}

// FileURL derives the public URL for a key.
func (m *Memory) FileURL(key string) string {
	return FileURL(m.cdnBaseURL, m.bucket, key)
}

// Has reports whether a key is currently stored.
func (m *Memory) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

// SetLastModified backdates an object, for sweep tests.
func (m *Memory) SetLastModified(key string, t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if obj, ok := m.objects[key]; ok {
		obj.lastModified = t
		m.objects[key] = obj
	}
}
