package terminology

import (
	"context"
	"errors"
	"fmt"
)

// ErrKeywordTooShort is returned for search keywords under two characters.
var ErrKeywordTooShort = errors.New("keyword must be at least 2 characters")

// Service provides keyword search and code mapping over the ICD-11/TM2 and
// NAMASTE reference datasets.
type Service struct {
	icd11   ICD11Repository
	namaste NamasteRepository
}

// NewService creates a terminology service.
func NewService(icd11 ICD11Repository, namaste NamasteRepository) *Service {
	return &Service{icd11: icd11, namaste: namaste}
}

// SearchICD11 searches ICD-11 and TM2 entries by keyword.
func (s *Service) SearchICD11(ctx context.Context, keyword string, limit int) ([]*ICD11Code, error) {
	if len(keyword) < 2 {
		return nil, ErrKeywordTooShort
	}
	if limit <= 0 {
		limit = 20
	}
	return s.icd11.Search(ctx, keyword, limit)
}

// SearchModule searches one ICD-11 module (ModuleMMS or ModuleTM2) by
// keyword. Used by the search API to serve module-scoped queries from the
// local dataset.
func (s *Service) SearchModule(ctx context.Context, module, keyword string, limit int) ([]*ICD11Code, error) {
	if module != ModuleMMS && module != ModuleTM2 {
		return nil, fmt.Errorf("unknown module %q", module)
	}
	if limit <= 0 {
		limit = 20
	}
	return s.icd11.SearchModule(ctx, module, keyword, limit)
}

// SearchNamaste searches NAMASTE morbidity codes by keyword.
func (s *Service) SearchNamaste(ctx context.Context, keyword string, limit int) ([]*NamasteCode, error) {
	if len(keyword) < 2 {
		return nil, ErrKeywordTooShort
	}
	if limit <= 0 {
		limit = 20
	}
	return s.namaste.Search(ctx, keyword, limit)
}

// MapNamaste verifies the NAMASTE code exists, then maps it to ICD-11.
// Returns ErrNotFound for unknown codes and ErrNoMapping for known codes
// without a mapping.
func (s *Service) MapNamaste(ctx context.Context, namasteCode string) (*MappingResponse, error) {
	if len(namasteCode) < 2 {
		return nil, ErrKeywordTooShort
	}
	if _, err := s.namaste.GetByCode(ctx, namasteCode); err != nil {
		return nil, err
	}
	icd, err := s.namaste.MapToICD11(ctx, namasteCode)
	if err != nil {
		return nil, err
	}
	return &MappingResponse{NamasteCode: namasteCode, ICD11Code: icd}, nil
}

// LookupICD11 returns a single ICD-11 entity by code.
func (s *Service) LookupICD11(ctx context.Context, code string) (*ICD11Code, error) {
	if code == "" {
		return nil, fmt.Errorf("code is required")
	}
	return s.icd11.GetByCode(ctx, code)
}
