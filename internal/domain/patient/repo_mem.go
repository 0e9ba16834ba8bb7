package patient

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository is an in-memory Repository used in dev mode and tests.
// Records live only for the lifetime of the process.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]*Patient
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID: 1,
		byID:   make(map[int64]*Patient),
	}
}

func (r *MemoryRepository) Create(_ context.Context, p *Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	p.ID = r.nextID
	r.nextID++
	p.CreatedAt = now
	p.UpdatedAt = now

	cp := *p
	r.byID[p.ID] = &cp
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id int64) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *MemoryRepository) List(_ context.Context, f ListFilter) ([]*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, 0, len(r.byID))
	for id, p := range r.byID {
		if f.Gender != "" && p.Gender != f.Gender {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	if f.Skip >= len(ids) {
		return []*Patient{}, nil
	}
	ids = ids[f.Skip:]
	if f.Limit > 0 && f.Limit < len(ids) {
		ids = ids[:f.Limit]
	}

	out := make([]*Patient, 0, len(ids))
	for _, id := range ids {
		cp := *r.byID[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *MemoryRepository) Update(_ context.Context, id int64, req UpdateRequest) (*Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Age != nil {
		p.Age = *req.Age
	}
	if req.Gender != nil {
		p.Gender = *req.Gender
	}
	if req.Diagnosis != nil {
		p.Diagnosis = req.Diagnosis
	}
	if req.ICD11Code != nil {
		p.ICD11Code = req.ICD11Code
	}
	if req.NamasteCode != nil {
		p.NamasteCode = req.NamasteCode
	}
	p.UpdatedAt = time.Now().UTC()

	cp := *p
	return &cp, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *MemoryRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byID)), nil
}
