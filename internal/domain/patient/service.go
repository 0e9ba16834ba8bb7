package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

var (
	ErrNameRequired  = errors.New("name is required")
	ErrInvalidAge    = errors.New("age must be between 0 and 130")
	ErrInvalidGender = errors.New("gender must be one of male, female, other, unknown")
)

// Service holds patient business rules on top of a Repository.
type Service struct {
	repo Repository
	log  zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log.With().Str("service", "patient").Logger()}
}

func validate(name string, age int, gender string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}
	if age < 0 || age > 130 {
		return ErrInvalidAge
	}
	if !validGenders[gender] {
		return ErrInvalidGender
	}
	return nil
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*Patient, error) {
	req.Gender = strings.ToLower(strings.TrimSpace(req.Gender))
	if err := validate(req.Name, req.Age, req.Gender); err != nil {
		return nil, err
	}

	p := &Patient{
		Name:        strings.TrimSpace(req.Name),
		Age:         req.Age,
		Gender:      req.Gender,
		Diagnosis:   req.Diagnosis,
		ICD11Code:   req.ICD11Code,
		NamasteCode: req.NamasteCode,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}
	s.log.Info().Int64("patient_id", p.ID).Msg("patient created")
	return p, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]*Patient, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 100
	}
	if f.Skip < 0 {
		f.Skip = 0
	}
	if f.Gender != "" {
		f.Gender = strings.ToLower(f.Gender)
		if !validGenders[f.Gender] {
			return nil, ErrInvalidGender
		}
	}
	return s.repo.List(ctx, f)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (*Patient, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, ErrNameRequired
	}
	if req.Age != nil && (*req.Age < 0 || *req.Age > 130) {
		return nil, ErrInvalidAge
	}
	if req.Gender != nil {
		g := strings.ToLower(strings.TrimSpace(*req.Gender))
		if !validGenders[g] {
			return nil, ErrInvalidGender
		}
		req.Gender = &g
	}
	p, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("patient_id", id).Msg("patient updated")
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("patient_id", id).Msg("patient deleted")
	return nil
}
