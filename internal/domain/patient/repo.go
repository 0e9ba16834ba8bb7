package patient

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no patient exists for the given ID.
var ErrNotFound = errors.New("patient not found")

// Repository is the persistence boundary for patient records.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id int64) (*Patient, error)
	List(ctx context.Context, f ListFilter) ([]*Patient, error)
	Update(ctx context.Context, id int64, req UpdateRequest) (*Patient, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}
