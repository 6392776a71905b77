package session

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HendryAvila/ids-mcp/internal/fault"
	"github.com/HendryAvila/ids-mcp/internal/ids"
)

const sampleIDS = `<?xml version="1.0" encoding="UTF-8"?>
<ids xmlns="http://standards.buildingsmart.org/IDS">
  <info>
    <title>Loaded Requirements</title>
    <author>author@example.com</author>
  </info>
  <specifications>
    <specification name="Walls" ifcVersion="IFC4">
      <applicability minOccurs="0" maxOccurs="unbounded">
        <entity>
          <name><simpleValue>IFCWALL</simpleValue></name>
        </entity>
      </applicability>
      <requirements>
        <attribute cardinality="required">
          <name><simpleValue>Name</simpleValue></name>
        </attribute>
      </requirements>
    </specification>
  </specifications>
</ids>`

func newManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(NewStore(), nil)
}

func TestResolveOrCreateSameIdentity(t *testing.T) {
	m := newManager(t)

	doc := m.ResolveOrCreate("s1")
	require.NotNil(t, doc)
	assert.Equal(t, DefaultTitle, doc.Info.Title)

	doc.Info.Title = "Mutated"
	again := m.ResolveOrCreate("s1")
	assert.Same(t, doc, again)
	assert.Equal(t, "Mutated", again.Info.Title)
}

func TestSessionsAreIsolated(t *testing.T) {
	m := newManager(t)

	a := m.ResolveOrCreate("a")
	b := m.ResolveOrCreate("b")
	require.NotSame(t, a, b)

	a.Specifications = append(a.Specifications, &ids.Specification{Name: "only in a"})
	assert.Empty(t, b.Specifications)
}

func TestAttachReplacesDocument(t *testing.T) {
	m := newManager(t)
	old := m.ResolveOrCreate("s")
	old.Specifications = append(old.Specifications, &ids.Specification{Name: "stale"})

	m.Attach("s", ids.New(ids.Info{Title: "Fresh"}))
	doc := m.ResolveOrCreate("s")
	assert.Equal(t, "Fresh", doc.Info.Title)
	assert.Empty(t, doc.Specifications)
}

func TestLoadFromSourceFile(t *testing.T) {
	m := newManager(t)
	path := filepath.Join(t.TempDir(), "sample.ids")
	require.NoError(t, os.WriteFile(path, []byte(sampleIDS), 0o644))

	doc, err := m.LoadFromSource("s", path, SourceFile)
	require.NoError(t, err)
	assert.Equal(t, "Loaded Requirements", doc.Info.Title)
	require.Len(t, doc.Specifications, 1)
	assert.Equal(t, "Walls", doc.Specifications[0].Name)

	// The loaded document replaces whatever the session held.
	assert.Same(t, doc, m.ResolveOrCreate("s"))
}

func TestLoadFromSourceInline(t *testing.T) {
	m := newManager(t)
	doc, err := m.LoadFromSource("s", sampleIDS, SourceInline)
	require.NoError(t, err)
	assert.Equal(t, "Loaded Requirements", doc.Info.Title)
}

func TestLoadFromSourceMissingFile(t *testing.T) {
	m := newManager(t)
	_, err := m.LoadFromSource("s", filepath.Join(t.TempDir(), "absent.ids"), SourceFile)
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.NotFound))
}

func TestLoadFromSourceMalformed(t *testing.T) {
	m := newManager(t)
	_, err := m.LoadFromSource("s", "<ids><broken", SourceInline)
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.ParseError))

	// A parse failure must leave the prior document untouched.
	before := m.ResolveOrCreate("s2")
	_, err = m.LoadFromSource("s2", "not xml at all", SourceInline)
	require.Error(t, err)
	assert.Same(t, before, m.ResolveOrCreate("s2"))
}

func TestLoadFromSourceBadKind(t *testing.T) {
	m := newManager(t)
	_, err := m.LoadFromSource("s", sampleIDS, SourceKind("url"))
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.InvalidArgument))
}

func TestEvictIdle(t *testing.T) {
	store := NewStore()
	m := NewManager(store, nil)

	m.ResolveOrCreate("old")
	m.ResolveOrCreate("fresh")

	// Age the idle session past the cutoff by hand.
	store.Get("old").LastAccessed = time.Now().Add(-2 * time.Hour)

	evicted := m.EvictIdle(time.Hour)
	assert.Equal(t, 1, evicted)
	assert.Nil(t, store.Get("old"))
	assert.NotNil(t, store.Get("fresh"))

	// Accessing a session refreshes its clock.
	store.Get("fresh").LastAccessed = time.Now().Add(-2 * time.Hour)
	m.ResolveOrCreate("fresh")
	assert.Equal(t, 0, m.EvictIdle(time.Hour))
}

func TestStoreConcurrentAccess(t *testing.T) {
	store := NewStore()
	m := NewManager(store, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := string(rune('a' + n))
			for j := 0; j < 100; j++ {
				m.ResolveOrCreate(id)
				store.Len()
				store.IDs()
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 8, store.Len())
}
