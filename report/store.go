package report

import (
	"sort"
	"sync"
)

// Store holds the latest render record per component name plus the current
// option snapshot. The render pipeline runs across goroutines (binding
// listener, HTTP handlers, MCP tools), so all access is mutex-guarded.
type Store struct {
	mu      sync.Mutex
	records map[string]RenderRecord
	opts    Options
}

// NewStore creates a Store with the given initial options.
func NewStore(opts Options) *Store {
	return &Store{
		records: make(map[string]RenderRecord),
		opts:    opts,
	}
}

// SetRenderInfo upserts the record for a component name. Latest write wins.
func (s *Store) SetRenderInfo(name string, rec RenderRecord) {
	s.mu.Lock()
	s.records[name] = rec
	s.mu.Unlock()
}

// GetRenderInfo returns the latest record for a component name.
func (s *Store) GetRenderInfo(name string) (RenderRecord, bool) {
	s.mu.Lock()
	rec, ok := s.records[name]
	s.mu.Unlock()
	return rec, ok
}

// AllReports returns a snapshot copy of every stored record, sorted by
// component name. Callers must not rely on more than set membership, but
// sorted output keeps the debug surfaces deterministic.
func (s *Store) AllReports() []Report {
	s.mu.Lock()
	out := make([]Report, 0, len(s.records))
	for name, rec := range s.records {
		out = append(out, Report{Name: name, Record: rec})
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Options returns the current option snapshot.
func (s *Store) Options() Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts
}

// SetOptions merges the patch over the current options and returns the
// merged snapshot. Fields absent from the patch are preserved; present
// fields override even with false.
func (s *Store) SetOptions(p OptionsPatch) Options {
	s.mu.Lock()
	s.opts = s.opts.Merge(p)
	merged := s.opts
	s.mu.Unlock()
	return merged
}
