package theme

import (
	"sync"

	"github.com/golang/groupcache/lru"
)

// DefaultMemoSize bounds how many normalized documents a Memo keeps.
const DefaultMemoSize = 64

// Memo caches normalization results by document revision. It is safe for
// concurrent use; every result is a deep copy.
type Memo struct {
	mu    sync.Mutex
	cache *lru.Cache
}

type memoEntry struct {
	cfg    Config
	issues []Issue
}

func NewMemo(size int) *Memo {
	if size <= 0 {
		size = DefaultMemoSize
	}
	return &Memo{cache: lru.New(size)}
}

// Normalize returns NormalizeWithReport(doc), reusing an earlier result for
// an identical document.
func (m *Memo) Normalize(doc map[string]any) (Config, []Issue) {
	revision := Revision(doc)

	m.mu.Lock()
	if cached, ok := m.cache.Get(revision); ok && revision != "" {
		entry := cached.(memoEntry)
		m.mu.Unlock()
		return entry.cfg.Clone(), append([]Issue(nil), entry.issues...)
	}
	m.mu.Unlock()

	cfg, issues := NormalizeWithReport(doc)
	if revision != "" {
		m.mu.Lock()
		m.cache.Add(revision, memoEntry{cfg: cfg.Clone(), issues: append([]Issue(nil), issues...)})
		m.mu.Unlock()
	}
	return cfg, issues
}

// Len reports the number of cached documents.
func (m *Memo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cache.Len()
}
