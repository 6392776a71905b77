// Package session manages per-conversation IDS document state: a
// concurrency-safe store of session records, get-or-create resolution,
// load-from-source replacement, and idle-timeout eviction.
//
// One record exists per MCP session id. Records live only in process
// memory — nothing persists across restarts.
package session

import (
	"sync"
	"time"

	"github.com/HendryAvila/ids-mcp/internal/ids"
)

// Record holds one session's document plus access metadata.
type Record struct {
	SessionID    string
	CreatedAt    time.Time
	LastAccessed time.Time
	// Title caches the document title for listing without touching
	// the document itself.
	Title    string
	Document *ids.Document
}

// NewRecord creates a record for the given session and document.
func NewRecord(sessionID string, doc *ids.Document) *Record {
	now := time.Now()
	return &Record{
		SessionID:    sessionID,
		CreatedAt:    now,
		LastAccessed: now,
		Title:        doc.Info.Title,
		Document:     doc,
	}
}

// Touch refreshes the last-accessed timestamp.
func (r *Record) Touch() {
	r.LastAccessed = time.Now()
}

// Store is a mutex-guarded map of session id to record. All operations
// are safe under concurrent invocation; none blocks beyond the map
// critical section. A single instance is shared process-wide via the
// composition root.
type Store struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{records: make(map[string]*Record)}
}

// Get returns the record for id, or nil if absent.
func (s *Store) Get(id string) *Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records[id]
}

// Set stores the record under id, replacing any existing one.
func (s *Store) Set(id string, rec *Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[id] = rec
}

// Delete removes the record for id. Deleting an absent id is a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
}

// IDs returns a snapshot of all live session ids.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.records))
	for id := range s.records {
		out = append(out, id)
	}
	return out
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Clear removes every record.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]*Record)
}
