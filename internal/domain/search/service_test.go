package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayushbridge/emr/internal/domain/terminology"
)

type fakeUpstream struct {
	results []Result
	err     error
	calls   int
}

func (f *fakeUpstream) Search(_ context.Context, _, _ string, _ int) ([]Result, error) {
	f.calls++
	return f.results, f.err
}

func newTestService(upstream Upstream) (*Service, *MemoryTrailStore) {
	trails := NewMemoryTrailStore()
	svc := NewService(NewMemoryCache(), upstream, terminology.NewICD11RepoMem(), trails, time.Hour, zerolog.Nop())
	return svc, trails
}

func TestRequest_Normalize(t *testing.T) {
	r := Request{Q: "  diabetes  ", Module: "tm2", Limit: 0}
	r.Normalize()
	if r.Q != "diabetes" || r.Module != ModuleTM2 || r.Limit != DefaultLimit {
		t.Errorf("unexpected normalized request: %+v", r)
	}

	r = Request{Q: "x", Limit: 500}
	r.Normalize()
	if r.Module != ModuleMMS {
		t.Errorf("expected default module MMS, got %s", r.Module)
	}
	if r.Limit != MaxLimit {
		t.Errorf("expected limit clamped to %d, got %d", MaxLimit, r.Limit)
	}
}

func TestRequest_Hash_Stable(t *testing.T) {
	a := Request{Q: "Diabetes", Module: ModuleMMS, Limit: 10}
	b := Request{Q: "diabetes", Module: ModuleMMS, Limit: 10}
	if a.Hash() != b.Hash() {
		t.Error("expected case-insensitive hash")
	}
	c := Request{Q: "diabetes", Module: ModuleTM2, Limit: 10}
	if a.Hash() == c.Hash() {
		t.Error("expected module to change the hash")
	}
	if len(a.Hash()) != 16 {
		t.Errorf("expected 16-char hash, got %d", len(a.Hash()))
	}
}

func TestService_Search_MockFallback(t *testing.T) {
	svc, _ := newTestService(nil)

	resp, err := svc.Search(context.Background(), Request{Q: "diabetes", Module: ModuleMMS, Limit: 10}, "127.0.0.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Source != SourceMock {
		t.Errorf("expected source mock, got %s", resp.Source)
	}
	if resp.Count != 2 || len(resp.Results) != 2 {
		t.Errorf("expected 2 diabetes results, got count=%d len=%d", resp.Count, len(resp.Results))
	}
	if resp.CachedAt != nil {
		t.Error("fresh response must not carry cached_at")
	}
	if resp.QueryHash == "" {
		t.Error("expected query_hash to be set")
	}
}

func TestService_Search_CacheHit(t *testing.T) {
	svc, _ := newTestService(nil)
	req := Request{Q: "diabetes", Module: ModuleMMS, Limit: 10}

	first, err := svc.Search(context.Background(), req, "127.0.0.1")
	if err != nil {
		t.Fatal(err)
	}

	second, err := svc.Search(context.Background(), req, "127.0.0.1")
	if err != nil {
		t.Fatal(err)
	}
	if second.Source != SourceCache {
		t.Errorf("expected source CACHE on second call, got %s", second.Source)
	}
	if second.CachedAt == nil {
		t.Error("cached response must carry cached_at")
	}
	if second.Count != first.Count {
		t.Errorf("cached count %d differs from fresh count %d", second.Count, first.Count)
	}
}

func TestService_Search_Upstream(t *testing.T) {
	up := &fakeUpstream{results: []Result{{Code: "5A11", Title: "Type 2 diabetes mellitus"}}}
	svc, _ := newTestService(up)

	resp, err := svc.Search(context.Background(), Request{Q: "diabetes", Module: ModuleMMS, Limit: 10}, "127.0.0.1")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Source != SourceMMS {
		t.Errorf("expected source WHO_MMS, got %s", resp.Source)
	}
	if up.calls != 1 {
		t.Errorf("expected 1 upstream call, got %d", up.calls)
	}

	resp, err = svc.Search(context.Background(), Request{Q: "pattern", Module: ModuleTM2, Limit: 10}, "127.0.0.1")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Source != SourceTM2 {
		t.Errorf("expected source WHO_TM2, got %s", resp.Source)
	}
}

func TestService_Search_UpstreamFailureDegrades(t *testing.T) {
	up := &fakeUpstream{err: errors.New("gateway timeout")}
	svc, _ := newTestService(up)

	resp, err := svc.Search(context.Background(), Request{Q: "diabetes", Module: ModuleMMS, Limit: 10}, "127.0.0.1")
	if err != nil {
		t.Fatalf("expected degraded response, got error: %v", err)
	}
	if resp.Source != SourceMock {
		t.Errorf("expected fallback to mock, got %s", resp.Source)
	}
	if resp.Count != 2 {
		t.Errorf("expected local results, got %d", resp.Count)
	}
}

func TestService_Search_Validation(t *testing.T) {
	svc, _ := newTestService(nil)

	if _, err := svc.Search(context.Background(), Request{Q: "   "}, "127.0.0.1"); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("expected ErrEmptyQuery, got %v", err)
	}
	if _, err := svc.Search(context.Background(), Request{Q: "x", Module: "ICD9"}, "127.0.0.1"); !errors.Is(err, ErrInvalidModule) {
		t.Errorf("expected ErrInvalidModule, got %v", err)
	}
}

func TestService_Search_AuditsWithoutQueryText(t *testing.T) {
	svc, trails := newTestService(nil)

	if _, err := svc.Search(context.Background(), Request{Q: "diabetes", Module: ModuleMMS, Limit: 10}, "203.0.113.9"); err != nil {
		t.Fatal(err)
	}

	recent, err := trails.Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 {
		t.Fatalf("expected 1 audit record, got %d", len(recent))
	}
	tr := recent[0]
	if tr.Action != "search" || tr.Module != ModuleMMS || tr.RequesterIP != "203.0.113.9" {
		t.Errorf("unexpected trail: %+v", tr)
	}
	if tr.QueryHash == "" || tr.QueryHash == "diabetes" {
		t.Errorf("trail must carry the hash, not the query: %q", tr.QueryHash)
	}
}

func TestService_Search_NoResults(t *testing.T) {
	svc, _ := newTestService(nil)

	resp, err := svc.Search(context.Background(), Request{Q: "zzzzzz", Module: ModuleMMS, Limit: 10}, "127.0.0.1")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Count != 0 {
		t.Errorf("expected 0 results, got %d", resp.Count)
	}
	if resp.Results == nil {
		t.Error("results must be an empty slice, not null")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache()
	base := time.Now()
	c.now = func() time.Time { return base }

	if err := c.Set(context.Background(), "k", &Response{Count: 1}, time.Minute); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Get(context.Background(), "k"); !ok {
		t.Fatal("expected cache hit before expiry")
	}

	c.now = func() time.Time { return base.Add(2 * time.Minute) }
	if _, ok, _ := c.Get(context.Background(), "k"); ok {
		t.Error("expected cache miss after expiry")
	}
}
