package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayushbridge/emr/internal/domain/terminology"
)

var (
	ErrEmptyQuery    = errors.New("query must not be empty")
	ErrInvalidModule = errors.New("module must be MMS or TM2")
)

// Upstream is the WHO ICD-API boundary, satisfied by WHOClient.
type Upstream interface {
	Search(ctx context.Context, q, module string, limit int) ([]Result, error)
}

// Service answers search requests: cache first, then the WHO upstream when
// one is configured, then the local reference dataset. Upstream failures
// degrade to the local dataset instead of failing the request.
type Service struct {
	cache    Cache
	upstream Upstream
	local    terminology.ICD11Repository
	trails   TrailStore
	ttl      time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

func NewService(cache Cache, upstream Upstream, local terminology.ICD11Repository, trails TrailStore, ttl time.Duration, log zerolog.Logger) *Service {
	return &Service{
		cache:    cache,
		upstream: upstream,
		local:    local,
		trails:   trails,
		ttl:      ttl,
		now:      time.Now,
		log:      log.With().Str("service", "search").Logger(),
	}
}

func localModule(module string) string {
	if module == ModuleTM2 {
		return terminology.ModuleTM2
	}
	return terminology.ModuleMMS
}

// Search runs one search. requesterIP goes to the audit trail only.
func (s *Service) Search(ctx context.Context, req Request, requesterIP string) (*Response, error) {
	req.Normalize()
	if req.Q == "" {
		return nil, ErrEmptyQuery
	}
	if req.Module != ModuleMMS && req.Module != ModuleTM2 {
		return nil, ErrInvalidModule
	}

	hash := req.Hash()
	if err := s.trails.Record(ctx, Trail{
		Action:      "search",
		Module:      req.Module,
		QueryHash:   hash,
		RequesterIP: requesterIP,
	}); err != nil {
		// Audit failures must not break search.
		s.log.Error().Err(err).Str("query_hash", hash).Msg("audit record failed")
	}

	if cached, ok, err := s.cache.Get(ctx, hash); err != nil {
		s.log.Warn().Err(err).Str("query_hash", hash).Msg("cache get failed")
	} else if ok {
		cached.Source = SourceCache
		return cached, nil
	}

	resp := &Response{QueryHash: hash}
	if s.upstream != nil {
		results, err := s.upstream.Search(ctx, req.Q, req.Module, req.Limit)
		if err == nil {
			resp.Results = results
			resp.Source = SourceMMS
			if req.Module == ModuleTM2 {
				resp.Source = SourceTM2
			}
		} else {
			s.log.Warn().Err(err).Str("module", req.Module).Msg("upstream search failed, using local dataset")
		}
	}

	if resp.Source == "" {
		codes, err := s.local.SearchModule(ctx, localModule(req.Module), req.Q, req.Limit)
		if err != nil {
			return nil, fmt.Errorf("local search: %w", err)
		}
		resp.Results = make([]Result, 0, len(codes))
		for _, c := range codes {
			resp.Results = append(resp.Results, Result{Code: c.Code, Title: c.Title, Definition: c.Definition})
		}
		resp.Source = SourceMock
	}

	if resp.Results == nil {
		resp.Results = []Result{}
	}
	resp.Count = len(resp.Results)

	cachedAt := s.now().UTC()
	stored := *resp
	stored.CachedAt = &cachedAt
	if err := s.cache.Set(ctx, hash, &stored, s.ttl); err != nil {
		s.log.Warn().Err(err).Str("query_hash", hash).Msg("cache set failed")
	}
	return resp, nil
}

// RecentTrails exposes the audit trail for the admin endpoint.
func (s *Service) RecentTrails(ctx context.Context, limit int) ([]Trail, error) {
	return s.trails.Recent(ctx, limit)
}
