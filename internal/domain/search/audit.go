package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Trail is one audit record for a search. It carries the query hash and the
// requester IP but never the query text itself.
type Trail struct {
	ID          int64     `db:"id" json:"id"`
	Action      string    `db:"action" json:"action"`
	Module      string    `db:"module" json:"module"`
	QueryHash   string    `db:"query_hash" json:"query_hash"`
	RequesterIP string    `db:"requester_ip" json:"requester_ip"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// TrailStore persists audit records.
type TrailStore interface {
	Record(ctx context.Context, t Trail) error
	Recent(ctx context.Context, limit int) ([]Trail, error)
}

// MemoryTrailStore keeps the audit trail in process memory, bounded to the
// most recent maxTrail entries.
type MemoryTrailStore struct {
	mu     sync.Mutex
	nextID int64
	trails []Trail
}

const maxTrail = 1000

func NewMemoryTrailStore() *MemoryTrailStore {
	return &MemoryTrailStore{nextID: 1}
}

func (s *MemoryTrailStore) Record(_ context.Context, t Trail) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = s.nextID
	s.nextID++
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	s.trails = append(s.trails, t)
	if len(s.trails) > maxTrail {
		s.trails = s.trails[len(s.trails)-maxTrail:]
	}
	return nil
}

func (s *MemoryTrailStore) Recent(_ context.Context, limit int) ([]Trail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 || limit > len(s.trails) {
		limit = len(s.trails)
	}
	out := make([]Trail, limit)
	for i := 0; i < limit; i++ {
		out[i] = s.trails[len(s.trails)-1-i]
	}
	return out, nil
}

// PgTrailStore persists the audit trail to the search_audit table.
type PgTrailStore struct {
	pool *pgxpool.Pool
}

func NewPgTrailStore(pool *pgxpool.Pool) *PgTrailStore {
	return &PgTrailStore{pool: pool}
}

func (s *PgTrailStore) Record(ctx context.Context, t Trail) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO search_audit (action, module, query_hash, requester_ip)
		VALUES ($1, $2, $3, $4)`,
		t.Action, t.Module, t.QueryHash, t.RequesterIP)
	if err != nil {
		return fmt.Errorf("insert audit trail: %w", err)
	}
	return nil
}

func (s *PgTrailStore) Recent(ctx context.Context, limit int) ([]Trail, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, action, module, query_hash, requester_ip, created_at
		FROM search_audit ORDER BY id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit trail: %w", err)
	}
	defer rows.Close()

	var out []Trail
	for rows.Next() {
		var t Trail
		if err := rows.Scan(&t.ID, &t.Action, &t.Module, &t.QueryHash, &t.RequesterIP, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit trail: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
