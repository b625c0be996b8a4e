package enrollment

import (
	"context"
	"sync"

	"verivote/pkg/domain"
)

// InMemoryStore keeps templates in a map. It backs tests and single-process
// development runs; durable deployments use the file or Postgres store.
type InMemoryStore struct {
	mu        sync.RWMutex
	templates map[domain.Identity]Template
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{templates: make(map[domain.Identity]Template)}
}

func (s *InMemoryStore) Enroll(_ context.Context, template Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[template.Identity] = cloneTemplate(template)
	return nil
}

func (s *InMemoryStore) Lookup(_ context.Context, identity domain.Identity) (Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.templates[identity]; ok {
		return cloneTemplate(t), nil
	}
	return Template{}, ErrNotEnrolled
}

func (s *InMemoryStore) ClearAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates = make(map[domain.Identity]Template)
	return nil
}

// cloneTemplate copies the vectors so callers cannot mutate stored state.
func cloneTemplate(t Template) Template {
	out := t
	out.Face = append([]float64(nil), t.Face...)
	out.Iris = append([]float64(nil), t.Iris...)
	return out
}
