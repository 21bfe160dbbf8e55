package tabula

import (
	"sync"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	tio "github.com/paveg/tabula/internal/io"
)

// Releasable represents any resource that holds Arrow buffers.
//
// Frames and series are plain Go values and need no release. Arrow records
// produced by ToRecord do; call Release when done with them, usually via
// defer.
type Releasable interface {
	Release()
}

// MemoryManager builds Arrow records with one allocator and releases them
// together.
//
// Use it when exporting many frames in a loop where individual defer
// statements are impractical. The MemoryManager is safe for concurrent use.
//
// Example:
//
//	err := tabula.WithMemoryManager(memory.NewGoAllocator(), func(m *tabula.MemoryManager) error {
//		for _, df := range frames {
//			rec, err := m.ToRecord(df)
//			if err != nil {
//				return err
//			}
//			sink(rec)
//		}
//		return nil
//	})
//	// All records are released here
type MemoryManager struct {
	allocator memory.Allocator
	resources []Releasable
	mu        sync.Mutex
}

// NewMemoryManager creates a memory manager with the given allocator. A nil
// allocator uses the Go allocator.
func NewMemoryManager(allocator memory.Allocator) *MemoryManager {
	if allocator == nil {
		allocator = memory.NewGoAllocator()
	}
	return &MemoryManager{
		allocator: allocator,
		resources: make([]Releasable, 0),
	}
}

// Allocator returns the allocator records are built with.
func (m *MemoryManager) Allocator() memory.Allocator {
	return m.allocator
}

// Track adds a resource to be released by ReleaseAll.
func (m *MemoryManager) Track(resource Releasable) {
	if resource != nil {
		m.mu.Lock()
		m.resources = append(m.resources, resource)
		m.mu.Unlock()
	}
}

// Count returns the number of tracked resources.
func (m *MemoryManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.resources)
}

// ReleaseAll releases all tracked resources and clears the tracking list.
func (m *MemoryManager) ReleaseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, resource := range m.resources {
		resource.Release()
	}
	m.resources = m.resources[:0]
}

// ToRecord converts t into an Arrow record built with the manager's
// allocator and tracks it.
func (m *MemoryManager) ToRecord(t Frame) (arrow.Record, error) {
	rec, err := tio.ToRecord(t, m.allocator)
	if err != nil {
		return nil, err
	}
	m.Track(rec)
	return rec, nil
}

// ToRecord converts t into an Arrow record. The caller must Release it.
func ToRecord(t Frame, allocator memory.Allocator) (arrow.Record, error) {
	if allocator == nil {
		allocator = memory.NewGoAllocator()
	}
	return tio.ToRecord(t, allocator)
}

// FromRecord copies an Arrow record into a new frame. The record can be
// released afterwards.
func FromRecord(rec arrow.Record) (*DataFrame, error) {
	return tio.FromRecord(rec)
}

// WithMemoryManager creates a memory manager, runs fn with it and releases
// every tracked resource when fn returns.
func WithMemoryManager(allocator memory.Allocator, fn func(*MemoryManager) error) error {
	manager := NewMemoryManager(allocator)
	defer manager.ReleaseAll()
	return fn(manager)
}
