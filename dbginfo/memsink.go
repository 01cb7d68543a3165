package dbginfo

import (
	"sync"

	"github.com/lookbusy1344/arm64cg/mir"
)

// FunctionRecord is one FunctionBody call captured by MemSink.
type FunctionRecord struct {
	Name        string
	StartOffset uint64
	EndOffset   uint64
	Record      *mir.Record
}

// MarkerRecord is one Marker call captured by MemSink.
type MarkerRecord struct {
	ByteOffset uint64
	Inst       mir.Inst
}

// MemSink is the reference in-memory Sink: an append-only, size-bounded
// log protected by a mutex, matching debugger/history.go's CommandHistory
// shape (bounded growable slice, trimmed from the front on overflow).
type MemSink struct {
	mu      sync.RWMutex
	maxSize int

	functions []FunctionRecord
	markers   []MarkerRecord
}

// NewMemSink returns a MemSink retaining at most maxSize entries per log;
// maxSize <= 0 means unbounded.
func NewMemSink(maxSize int) *MemSink {
	return &MemSink{maxSize: maxSize}
}

// FunctionBody implements Sink.
func (s *MemSink) FunctionBody(name string, startOffset, endOffset uint64, rec *mir.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.functions = append(s.functions, FunctionRecord{
		Name: name, StartOffset: startOffset, EndOffset: endOffset, Record: rec,
	})
	if s.maxSize > 0 && len(s.functions) > s.maxSize {
		s.functions = s.functions[len(s.functions)-s.maxSize:]
	}
}

// Marker implements Sink.
func (s *MemSink) Marker(byteOffset uint64, inst mir.Inst) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.markers = append(s.markers, MarkerRecord{ByteOffset: byteOffset, Inst: inst})
	if s.maxSize > 0 && len(s.markers) > s.maxSize {
		s.markers = s.markers[len(s.markers)-s.maxSize:]
	}
}

// Functions returns every FunctionBody call recorded so far, oldest first.
func (s *MemSink) Functions() []FunctionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]FunctionRecord, len(s.functions))
	copy(out, s.functions)
	return out
}

// Markers returns every Marker call recorded so far, oldest first.
func (s *MemSink) Markers() []MarkerRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]MarkerRecord, len(s.markers))
	copy(out, s.markers)
	return out
}
