package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store used by tests. Documents are held in
// their JSON form so reads always return value copies, matching what the
// Postgres implementation does.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]json.RawMessage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string]json.RawMessage)}
}

func (s *MemoryStore) Put(ctx context.Context, collection, id string, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data[collection] == nil {
		s.data[collection] = make(map[string]json.RawMessage)
	}
	s.data[collection][id] = data
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string, out interface{}) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.data[collection][id]
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(data, out)
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, patch map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.data[collection][id]
	if !ok {
		return ErrNotFound
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	for k, v := range patch {
		doc[k] = v
	}

	merged, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	s.data[collection][id] = merged
	return nil
}

func (s *MemoryStore) Query(ctx context.Context, collection string, q Query, out interface{}) error {
	s.mu.RLock()
	var matched []map[string]interface{}
	for _, data := range s.data[collection] {
		var doc map[string]interface{}
		if err := json.Unmarshal(data, &doc); err != nil {
			s.mu.RUnlock()
			return err
		}
		if matchesFilters(doc, q.Filters) {
			matched = append(matched, doc)
		}
	}
	s.mu.RUnlock()

	if q.OrderBy != "" {
		field := q.OrderBy
		sort.SliceStable(matched, func(i, j int) bool {
			a := fmt.Sprintf("%v", matched[i][field])
			b := fmt.Sprintf("%v", matched[j][field])
			if q.Descending {
				return a > b
			}
			return a < b
		})
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}

	combined, err := json.Marshal(matched)
	if err != nil {
		return err
	}
	return json.Unmarshal(combined, out)
}

func (s *MemoryStore) BatchWrite(ctx context.Context, ops []WriteOp) error {
	// Encode everything before touching state so a bad document cannot
	// leave a partial batch behind.
	encoded := make([]json.RawMessage, len(ops))
	for i, op := range ops {
		data, err := json.Marshal(op.Doc)
		if err != nil {
			return fmt.Errorf("failed to encode %s/%s: %w", op.Collection, op.ID, err)
		}
		encoded[i] = data
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, op := range ops {
		if s.data[op.Collection] == nil {
			s.data[op.Collection] = make(map[string]json.RawMessage)
		}
		s.data[op.Collection][op.ID] = encoded[i]
	}
	return nil
}

func matchesFilters(doc map[string]interface{}, filters []Filter) bool {
	for _, f := range filters {
		got, ok := doc[f.Field]
		if !ok {
			return false
		}
		if fmt.Sprintf("%v", got) != fmt.Sprintf("%v", f.Value) {
			return false
		}
	}
	return true
}
