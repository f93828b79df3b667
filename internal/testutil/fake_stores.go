package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/turtacn/MatForge/internal/domain/material"
	"github.com/turtacn/MatForge/pkg/errors"
)

// MemoryMaterialRepo is an in-memory material.Repository.
type MemoryMaterialRepo struct {
	mu    sync.Mutex
	items map[string]*material.Material
	// Err, when set, is returned from every call.
	Err error
}

func NewMemoryMaterialRepo() *MemoryMaterialRepo {
	return &MemoryMaterialRepo{items: map[string]*material.Material{}}
}

func (r *MemoryMaterialRepo) Insert(_ context.Context, m *material.Material) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.items[m.ID]; ok {
		return errors.Conflict("material already exists")
	}
	cp := *m
	r.items[m.ID] = &cp
	return nil
}

func (r *MemoryMaterialRepo) FindByID(_ context.Context, id string) (*material.Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	m, ok := r.items[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeMaterialNotFound, "material not found").WithDetail(id)
	}
	cp := *m
	return &cp, nil
}

func (r *MemoryMaterialRepo) List(_ context.Context, opts material.ListOptions) ([]*material.Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	all := make([]*material.Material, 0, len(r.items))
	for _, m := range r.items {
		if !matchesElement(m, opts.Element) {
			continue
		}
		cp := *m
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	if opts.Offset >= len(all) {
		return []*material.Material{}, nil
	}
	all = all[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(all) {
		all = all[:opts.Limit]
	}
	return all, nil
}

func (r *MemoryMaterialRepo) Count(_ context.Context, opts material.ListOptions) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	var n int64
	for _, m := range r.items {
		if matchesElement(m, opts.Element) {
			n++
		}
	}
	return n, nil
}

func matchesElement(m *material.Material, element string) bool {
	if element == "" {
		return true
	}
	_, ok := m.Composition[element]
	return ok
}

// MemorySearchIndex is a substring-matching material.SearchIndex.
type MemorySearchIndex struct {
	mu      sync.Mutex
	Indexed []*material.Material
	Err     error
}

func (x *MemorySearchIndex) Index(_ context.Context, m *material.Material) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.Err != nil {
		return x.Err
	}
	x.Indexed = append(x.Indexed, m)
	return nil
}

func (x *MemorySearchIndex) Search(_ context.Context, q string, limit int) ([]*material.Material, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.Err != nil {
		return nil, x.Err
	}
	q = strings.ToLower(q)
	out := []*material.Material{}
	for _, m := range x.Indexed {
		if strings.Contains(strings.ToLower(m.Name), q) && (limit <= 0 || len(out) < limit) {
			out = append(out, m)
		}
	}
	return out, nil
}

// MemoryPreferenceStore is an in-memory material.PreferenceStore.
type MemoryPreferenceStore struct {
	mu    sync.Mutex
	prefs map[string]material.Preferences
}

func NewMemoryPreferenceStore() *MemoryPreferenceStore {
	return &MemoryPreferenceStore{prefs: map[string]material.Preferences{}}
}

func (s *MemoryPreferenceStore) Load(_ context.Context, user string) (material.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.prefs[user]; ok {
		return p, nil
	}
	return material.DefaultPreferences(), nil
}

func (s *MemoryPreferenceStore) Save(_ context.Context, user string, p material.Preferences) error {
	if _, err := material.ParseLanguage(string(p.Language)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p.RTL = p.Language.RTL()
	s.prefs[user] = p
	return nil
}

// RecordingPublisher keeps every published event.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []material.DomainEvent
	Err    error
}

func (p *RecordingPublisher) Publish(_ context.Context, ev material.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.events = append(p.events, ev)
	return nil
}

// Events returns the published events in order.
func (p *RecordingPublisher) Events() []material.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]material.DomainEvent, len(p.events))
	copy(out, p.events)
	return out
}

// MemoryExportStore keeps uploads in memory.
type MemoryExportStore struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Err     error
}

func NewMemoryExportStore() *MemoryExportStore {
	return &MemoryExportStore{Objects: map[string][]byte{}}
}

func (s *MemoryExportStore) Put(_ context.Context, m *material.Material, body []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	key := "exports/" + m.ID + ".json"
	s.Objects[key] = append([]byte(nil), body...)
	return key, nil
}

func (s *MemoryExportStore) URL(_ context.Context, key string) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	return "https://objects.test/" + key + "?signed=1", nil
}
