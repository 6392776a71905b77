package session

import (
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/HendryAvila/ids-mcp/internal/fault"
	"github.com/HendryAvila/ids-mcp/internal/ids"
)

// DefaultTitle is the title given to documents created on first access.
const DefaultTitle = "Untitled IDS"

// Manager implements the session lifecycle: creation on demand, explicit
// document replacement from a source, deletion, and idle eviction.
//
// The store's map access is guarded; the documents themselves are not.
// Two concurrent mutations on the same session race — callers must not
// parallelize requests for a single session.
type Manager struct {
	store  *Store
	logger *zap.Logger
}

// NewManager creates a Manager over the given store.
func NewManager(store *Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{store: store, logger: logger}
}

// ResolveOrCreate returns the session's document, creating an empty
// untitled one if the session does not exist yet. It never fails. The
// returned document is the stored one, not a copy; repeated calls with
// the same id observe accumulated state.
func (m *Manager) ResolveOrCreate(sessionID string) *ids.Document {
	if rec := m.store.Get(sessionID); rec != nil {
		rec.Touch()
		return rec.Document
	}
	m.logger.Info("creating new IDS session", zap.String("session_id", sessionID))
	doc := ids.New(ids.Info{Title: DefaultTitle})
	m.store.Set(sessionID, NewRecord(sessionID, doc))
	return doc
}

// Attach replaces the session's record with one holding doc. Used by
// create_ids, which starts a fresh document regardless of prior state.
func (m *Manager) Attach(sessionID string, doc *ids.Document) {
	m.store.Set(sessionID, NewRecord(sessionID, doc))
}

// SourceKind selects how LoadFromSource interprets its source argument.
type SourceKind string

const (
	SourceFile   SourceKind = "file"
	SourceInline SourceKind = "string"
)

// LoadFromSource parses an IDS document from a file path or inline XML
// and replaces the session's document with it. Any unsaved in-memory
// changes in the session are discarded. Fails with fault.NotFound when a
// file path does not resolve and fault.ParseError when the source is
// malformed or fails schema checks.
func (m *Manager) LoadFromSource(sessionID, source string, kind SourceKind) (*ids.Document, error) {
	var doc *ids.Document
	var err error

	switch kind {
	case SourceFile:
		if _, statErr := os.Stat(source); statErr != nil {
			return nil, fault.Wrap(fault.NotFound, statErr, "IDS file not found: %s", source)
		}
		m.logger.Info("loading IDS from file",
			zap.String("session_id", sessionID), zap.String("path", source))
		doc, err = ids.Open(source, true)
	case SourceInline:
		m.logger.Info("loading IDS from XML string", zap.String("session_id", sessionID))
		doc, err = ids.FromString(source, true)
	default:
		return nil, fault.New(fault.InvalidArgument,
			"invalid source_type: %s. Must be 'file' or 'string'", kind)
	}
	if err != nil {
		return nil, fault.Wrap(fault.ParseError, err, "failed to parse IDS: %v", err)
	}

	m.store.Set(sessionID, NewRecord(sessionID, doc))
	m.logger.Info("IDS loaded",
		zap.String("session_id", sessionID), zap.String("title", doc.Info.Title))
	return doc, nil
}

// Delete removes the session and its document.
func (m *Manager) Delete(sessionID string) {
	m.store.Delete(sessionID)
}

// EvictIdle deletes every session whose last access is older than
// now - timeout and returns the count deleted. The scan snapshots ids
// first so no lock is held across record inspection.
func (m *Manager) EvictIdle(timeout time.Duration) int {
	cutoff := time.Now().Add(-timeout)
	evicted := 0
	for _, id := range m.store.IDs() {
		rec := m.store.Get(id)
		if rec == nil {
			continue
		}
		if rec.LastAccessed.Before(cutoff) {
			m.store.Delete(id)
			evicted++
		}
	}
	if evicted > 0 {
		m.logger.Info("evicted idle sessions", zap.Int("count", evicted))
	}
	return evicted
}
