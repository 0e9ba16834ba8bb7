package terminology

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedPG loads the bundled reference datasets into Postgres. Existing rows
// are updated in place, so re-running is safe.
func SeedPG(ctx context.Context, pool *pgxpool.Pool) (int, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin seed tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var n int
	for _, c := range icd11Seed {
		_, err := tx.Exec(ctx, `
			INSERT INTO reference_icd11 (code, title, definition, module)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (code) DO UPDATE
			SET title = EXCLUDED.title, definition = EXCLUDED.definition, module = EXCLUDED.module`,
			c.Code, c.Title, c.Definition, c.Module)
		if err != nil {
			return 0, fmt.Errorf("seed icd11 %s: %w", c.Code, err)
		}
		n++
	}

	for _, c := range namasteSeed {
		_, err := tx.Exec(ctx, `
			INSERT INTO reference_namaste (code, title, discipline)
			VALUES ($1, $2, $3)
			ON CONFLICT (code) DO UPDATE
			SET title = EXCLUDED.title, discipline = EXCLUDED.discipline`,
			c.Code, c.Title, c.Discipline)
		if err != nil {
			return 0, fmt.Errorf("seed namaste %s: %w", c.Code, err)
		}
		n++
	}

	for namaste, icd := range namasteMapSeed {
		_, err := tx.Exec(ctx, `
			INSERT INTO namaste_icd11_map (namaste_code, icd11_code)
			VALUES ($1, $2)
			ON CONFLICT (namaste_code) DO UPDATE
			SET icd11_code = EXCLUDED.icd11_code`,
			namaste, icd)
		if err != nil {
			return 0, fmt.Errorf("seed mapping %s: %w", namaste, err)
		}
		n++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit seed tx: %w", err)
	}
	return n, nil
}
