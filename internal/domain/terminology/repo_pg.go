package terminology

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type icd11RepoPG struct{ pool *pgxpool.Pool }

// NewICD11RepoPG creates a Postgres-backed ICD11Repository over the
// reference_icd11 table.
func NewICD11RepoPG(pool *pgxpool.Pool) ICD11Repository { return &icd11RepoPG{pool: pool} }

func (r *icd11RepoPG) Search(ctx context.Context, keyword string, limit int) ([]*ICD11Code, error) {
	return r.query(ctx,
		`SELECT code, title, COALESCE(definition,''), module
		 FROM reference_icd11
		 WHERE code ILIKE $1 OR title ILIKE $1
		 ORDER BY code LIMIT $2`, "%"+keyword+"%", limit)
}

func (r *icd11RepoPG) SearchModule(ctx context.Context, module, keyword string, limit int) ([]*ICD11Code, error) {
	return r.query(ctx,
		`SELECT code, title, COALESCE(definition,''), module
		 FROM reference_icd11
		 WHERE module = $1 AND (code ILIKE $2 OR title ILIKE $2)
		 ORDER BY code LIMIT $3`, module, "%"+keyword+"%", limit)
}

func (r *icd11RepoPG) query(ctx context.Context, sql string, args ...interface{}) ([]*ICD11Code, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("icd11 search: %w", err)
	}
	defer rows.Close()
	var results []*ICD11Code
	for rows.Next() {
		var c ICD11Code
		if err := rows.Scan(&c.Code, &c.Title, &c.Definition, &c.Module); err != nil {
			return nil, err
		}
		results = append(results, &c)
	}
	return results, rows.Err()
}

func (r *icd11RepoPG) GetByCode(ctx context.Context, code string) (*ICD11Code, error) {
	var c ICD11Code
	err := r.pool.QueryRow(ctx,
		`SELECT code, title, COALESCE(definition,''), module
		 FROM reference_icd11 WHERE UPPER(code) = UPPER($1)`, code).
		Scan(&c.Code, &c.Title, &c.Definition, &c.Module)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("icd11 get: %w", err)
	}
	return &c, nil
}

type namasteRepoPG struct{ pool *pgxpool.Pool }

// NewNamasteRepoPG creates a Postgres-backed NamasteRepository over the
// reference_namaste and namaste_icd11_map tables.
func NewNamasteRepoPG(pool *pgxpool.Pool) NamasteRepository { return &namasteRepoPG{pool: pool} }

func (r *namasteRepoPG) Search(ctx context.Context, keyword string, limit int) ([]*NamasteCode, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT code, title, COALESCE(discipline,'')
		 FROM reference_namaste
		 WHERE code ILIKE $1 OR title ILIKE $1
		 ORDER BY code LIMIT $2`, "%"+keyword+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("namaste search: %w", err)
	}
	defer rows.Close()
	var results []*NamasteCode
	for rows.Next() {
		var c NamasteCode
		if err := rows.Scan(&c.Code, &c.Title, &c.Discipline); err != nil {
			return nil, err
		}
		results = append(results, &c)
	}
	return results, rows.Err()
}

func (r *namasteRepoPG) GetByCode(ctx context.Context, code string) (*NamasteCode, error) {
	var c NamasteCode
	err := r.pool.QueryRow(ctx,
		`SELECT code, title, COALESCE(discipline,'')
		 FROM reference_namaste WHERE UPPER(code) = UPPER($1)`, code).
		Scan(&c.Code, &c.Title, &c.Discipline)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("namaste get: %w", err)
	}
	return &c, nil
}

func (r *namasteRepoPG) MapToICD11(ctx context.Context, namasteCode string) (string, error) {
	var icd string
	err := r.pool.QueryRow(ctx,
		`SELECT icd11_code FROM namaste_icd11_map WHERE UPPER(namaste_code) = UPPER($1)`, namasteCode).
		Scan(&icd)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNoMapping
	}
	if err != nil {
		return "", fmt.Errorf("namaste map: %w", err)
	}
	return icd, nil
}
