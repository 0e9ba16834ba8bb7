package terminology

import "context"

// ICD11Repository provides access to the ICD-11/TM2 reference dataset.
type ICD11Repository interface {
	// Search matches keyword case-insensitively against code and title.
	Search(ctx context.Context, keyword string, limit int) ([]*ICD11Code, error)
	// SearchModule is like Search but restricted to one module
	// (ModuleMMS or ModuleTM2).
	SearchModule(ctx context.Context, module, keyword string, limit int) ([]*ICD11Code, error)
	GetByCode(ctx context.Context, code string) (*ICD11Code, error)
}

// NamasteRepository provides access to the NAMASTE reference dataset and its
// mapping to ICD-11.
type NamasteRepository interface {
	Search(ctx context.Context, keyword string, limit int) ([]*NamasteCode, error)
	// GetByCode matches case-insensitively; NAMASTE codes are entered by
	// hand in clinics and arrive in mixed case.
	GetByCode(ctx context.Context, code string) (*NamasteCode, error)
	// MapToICD11 returns the ICD-11 code mapped to the given NAMASTE code,
	// or ErrNoMapping when the code exists but has no mapping.
	MapToICD11(ctx context.Context, namasteCode string) (string, error)
}
